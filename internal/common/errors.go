package common

import "errors"

// Pipeline error taxonomy. Handlers map these to HTTP statuses; anything
// else coming out of the chat service is reported as a generic bad request
// with the detail kept server-side.
var (
	ErrBadRequest   = errors.New("bad_request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not_found")
)
