package models

import "time"

// Part is one segment of a chat message. Only text parts are subject to
// translation; every other kind passes through pipelines unchanged.
type Part struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

const PartText = "text"

// Attachment is an opaque file reference carried alongside a message.
type Attachment struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
}

// UIMessage is the message shape exchanged with clients and fed to the
// model. Values are treated as immutable: a translated message is a new
// value, never a mutation, so the original-language copy can still be
// persisted verbatim.
type UIMessage struct {
	ID          string       `json:"id"`
	ChatID      string       `json:"chatId,omitempty"`
	Role        string       `json:"role"`
	Parts       []Part       `json:"parts"`
	Attachments []Attachment `json:"attachments"`
	CreatedAt   time.Time    `json:"createdAt"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// TextContent joins the text parts for providers that take flat content.
func (m UIMessage) TextContent() string {
	var out string
	for _, p := range m.Parts {
		if p.Type != PartText {
			continue
		}
		if out != "" {
			out += "\n\n"
		}
		out += p.Text
	}
	return out
}
