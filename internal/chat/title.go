package chat

import (
	"context"
	"log"
	"strings"

	"github.com/babelchat/api/internal/ai"
	"github.com/babelchat/api/internal/models"
)

const titleSystemPrompt = `Generate a short title based on the first message a user begins a conversation with.

Rules:
- Ensure it is not more than 80 characters long
- The title should be a summary of the user's message
- Do not use quotes or colons`

const maxTitleLen = 80

// generateTitle asks the title model for a summary of the first message and
// falls back to a truncation of the message text when that fails. Like
// translation, title generation must never block the chat flow.
func (s *Service) generateTitle(ctx context.Context, msg models.UIMessage, apiKey string) string {
	content := strings.TrimSpace(msg.TextContent())

	client := s.factory(apiKey)
	title, err := client.Generate(ctx, ai.GenerateRequest{
		Model:    ai.ResolveModel(ai.TitleModel),
		System:   titleSystemPrompt,
		Messages: []ai.Message{{Role: models.RoleUser, Content: content}},
	})
	if err != nil {
		log.Printf("title generation failed, using fallback: %v", err)
		return fallbackTitle(content)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return fallbackTitle(content)
	}
	return truncate(title, maxTitleLen)
}

func fallbackTitle(content string) string {
	if content == "" {
		return "New chat"
	}
	return truncate(content, maxTitleLen)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
