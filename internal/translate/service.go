package translate

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/babelchat/api/internal/ai"
	"github.com/babelchat/api/internal/lang"
	"github.com/babelchat/api/internal/models"
)

// Request is one ephemeral translation job. It is never persisted.
type Request struct {
	Text   string
	From   string
	To     string
	APIKey string
}

// Service translates text between registry languages through the model
// provider. Translation is strictly best-effort: any provider failure
// degrades to the original text so the primary chat flow is never blocked.
type Service struct {
	factory ai.ClientFactory
}

func NewService(factory ai.ClientFactory) *Service {
	return &Service{factory: factory}
}

func systemPrompt(from, to string) string {
	return fmt.Sprintf(`You are a professional translator. Translate the given text from %s to %s.

Rules:
- Preserve the original meaning and context
- Maintain the tone and style of the original text
- Keep technical terms and proper nouns when appropriate
- Return ONLY the translated text without any explanations or additional content
- If the text is already in the target language, return it as is`,
		lang.Name(from), lang.Name(to))
}

// Text translates synchronously. Same language pairs return the input
// unchanged without a provider call.
func (s *Service) Text(ctx context.Context, req Request) string {
	if req.From == req.To {
		return req.Text
	}

	client := s.factory(req.APIKey)
	out, err := client.Generate(ctx, ai.GenerateRequest{
		Model:    ai.ResolveModel(ai.TranslationModel),
		System:   systemPrompt(req.From, req.To),
		Messages: []ai.Message{{Role: models.RoleUser, Content: req.Text}},
	})
	if err != nil {
		log.Printf("translate: %s->%s failed, falling back to original: %v", req.From, req.To, err)
		return req.Text
	}
	return strings.TrimSpace(out)
}

// StreamText translates with incremental delivery. The fast path and every
// failure degrade to a single-chunk channel carrying the original text.
// The returned channel is finite and closed by the producer.
func (s *Service) StreamText(ctx context.Context, req Request) <-chan string {
	out := make(chan string, 16)

	if req.From == req.To {
		go func() {
			defer close(out)
			select {
			case out <- req.Text:
			case <-ctx.Done():
			}
		}()
		return out
	}

	go func() {
		defer close(out)

		client := s.factory(req.APIKey)
		chunks, errs := client.Stream(ctx, ai.GenerateRequest{
			Model:    ai.ResolveModel(ai.TranslationModel),
			System:   systemPrompt(req.From, req.To),
			Messages: []ai.Message{{Role: models.RoleUser, Content: req.Text}},
		})

		delivered := false
		for c := range chunks {
			select {
			case out <- c:
				delivered = true
			case <-ctx.Done():
				return
			}
		}

		select {
		case err := <-errs:
			if err != nil && !delivered {
				log.Printf("translate: stream %s->%s failed, falling back to original: %v", req.From, req.To, err)
				select {
				case out <- req.Text:
				case <-ctx.Done():
				}
			}
		default:
		}
	}()

	return out
}

// Message maps Text over the text-typed parts of a message. Non-text parts
// and all structural fields come through unchanged. The input is not
// mutated; part translations run concurrently and land index-stable.
func (s *Service) Message(ctx context.Context, msg models.UIMessage, from, to, apiKey string) models.UIMessage {
	if from == to {
		return msg
	}

	translated := msg
	translated.Parts = make([]models.Part, len(msg.Parts))
	copy(translated.Parts, msg.Parts)

	var wg sync.WaitGroup
	for i, p := range msg.Parts {
		if p.Type != models.PartText || p.Text == "" {
			continue
		}
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			translated.Parts[i].Text = s.Text(ctx, Request{
				Text:   text,
				From:   from,
				To:     to,
				APIKey: apiKey,
			})
		}(i, p.Text)
	}
	wg.Wait()

	return translated
}
