package ai

import (
	"fmt"
	"net/http"
	"strings"
)

// RequestHints carries per-request geolocation the edge proxy forwards.
// Any field may be empty.
type RequestHints struct {
	Latitude  string
	Longitude string
	City      string
	Country   string
}

// HintsFromRequest reads the Vercel-style geo headers. Missing headers
// leave the hint empty; the prompt builder skips empty hints.
func HintsFromRequest(r *http.Request) RequestHints {
	return RequestHints{
		Latitude:  r.Header.Get("X-Vercel-IP-Latitude"),
		Longitude: r.Header.Get("X-Vercel-IP-Longitude"),
		City:      r.Header.Get("X-Vercel-IP-City"),
		Country:   r.Header.Get("X-Vercel-IP-Country"),
	}
}

const regularPrompt = "You are a friendly assistant! Keep your responses concise and helpful."

const reasoningPrompt = "Think step by step before answering, but reply with the final answer only."

// SystemPrompt builds the generation system prompt from the selected model,
// the request's geo hints, and the active language pair.
func SystemPrompt(selectedModel string, hints RequestHints, inputLanguage, searchLanguage string) string {
	var b strings.Builder
	b.WriteString(regularPrompt)
	if selectedModel == ChatModelReasoning {
		b.WriteString("\n\n")
		b.WriteString(reasoningPrompt)
	}

	if hints.City != "" || hints.Country != "" || hints.Latitude != "" {
		b.WriteString("\n\nAbout the origin of user's request:")
		if hints.Latitude != "" {
			fmt.Fprintf(&b, "\n- lat: %s", hints.Latitude)
		}
		if hints.Longitude != "" {
			fmt.Fprintf(&b, "\n- lon: %s", hints.Longitude)
		}
		if hints.City != "" {
			fmt.Fprintf(&b, "\n- city: %s", hints.City)
		}
		if hints.Country != "" {
			fmt.Fprintf(&b, "\n- country: %s", hints.Country)
		}
	}

	if inputLanguage != searchLanguage {
		fmt.Fprintf(&b,
			"\n\nThe user writes in %q but the conversation has been translated to %q for you. Answer in %q.",
			inputLanguage, searchLanguage, searchLanguage)
	}

	return b.String()
}
