package chat

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/babelchat/api/internal/ai"
	"github.com/babelchat/api/internal/common"
	"github.com/babelchat/api/internal/models"
	"github.com/babelchat/api/internal/translate"
)

// EventPublisher publishes completed-turn events for the worker. Publishing
// is best-effort; the pipeline never fails a request over it.
type EventPublisher interface {
	PublishTurn(ctx context.Context, ev TurnEvent) error
}

// Service is the mediation pipeline: inbound translation, model
// invocation, persistence, outbound translation.
type Service struct {
	repo       *Repo
	translator *translate.Service
	factory    ai.ClientFactory
	events     EventPublisher
}

func NewService(repo *Repo, translator *translate.Service, factory ai.ClientFactory, events EventPublisher) *Service {
	return &Service{repo: repo, translator: translator, factory: factory, events: events}
}

// SendRequest is one validated, authenticated inbound turn. APIKey is the
// caller's own model credential; it lives for this request only and is
// never persisted or logged.
type SendRequest struct {
	ChatID         string
	UserID         uint64
	Message        models.UIMessage
	SelectedModel  string
	Visibility     string
	InputLanguage  string
	SearchLanguage string
	APIKey         string
	Hints          ai.RequestHints
}

// Turn is the pipeline's result. Chunks delivers the assistant's answer in
// the user's input language; the channel is finite and closed by the
// producer.
type Turn struct {
	ChatID             string
	StreamID           string
	AssistantMessageID string
	Chunks             <-chan string
}

// Send runs the pipeline stages in order. Translation sub-steps self-heal
// to pass-through; a generation failure aborts before anything is
// persisted.
func (s *Service) Send(ctx context.Context, req SendRequest) (*Turn, error) {
	// Chat resolution: create on first message, otherwise enforce
	// ownership.
	existing, err := s.repo.GetChatByID(ctx, req.ChatID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		title := s.generateTitle(ctx, req.Message, req.APIKey)
		visibility := req.Visibility
		if visibility == "" {
			visibility = VisibilityPrivate
		}
		if err := s.repo.SaveChat(ctx, &Chat{
			ID:         req.ChatID,
			UserID:     req.UserID,
			Title:      title,
			Visibility: visibility,
		}); err != nil {
			return nil, err
		}
	} else if existing.UserID != req.UserID {
		return nil, common.ErrForbidden
	}

	// History assembly: persisted messages plus the new inbound one.
	persisted, err := s.repo.GetMessagesByChatID(ctx, req.ChatID)
	if err != nil {
		return nil, err
	}
	history := make([]models.UIMessage, 0, len(persisted)+1)
	for _, m := range persisted {
		history = append(history, m.UIMessage())
	}
	history = append(history, req.Message)

	// Inbound translation: user-authored messages only, concurrent,
	// index-stable. Assistant turns are already in the search language.
	translated := req.InputLanguage != req.SearchLanguage
	processed := history
	if translated {
		processed = make([]models.UIMessage, len(history))
		var wg sync.WaitGroup
		for i, msg := range history {
			if msg.Role != models.RoleUser {
				processed[i] = msg
				continue
			}
			wg.Add(1)
			go func(i int, msg models.UIMessage) {
				defer wg.Done()
				processed[i] = s.translator.Message(ctx, msg, req.InputLanguage, req.SearchLanguage, req.APIKey)
			}(i, msg)
		}
		wg.Wait()
	}

	// Model invocation: one blocking generation with a per-request
	// credential-scoped client. Errors propagate; nothing is persisted.
	client := s.factory(req.APIKey)
	aiMsgs := make([]ai.Message, 0, len(processed))
	for _, m := range processed {
		aiMsgs = append(aiMsgs, ai.Message{Role: m.Role, Content: m.TextContent()})
	}
	text, err := client.Generate(ctx, ai.GenerateRequest{
		Model:    ai.ResolveModel(req.SelectedModel),
		System:   ai.SystemPrompt(req.SelectedModel, req.Hints, req.InputLanguage, req.SearchLanguage),
		Messages: aiMsgs,
		Tools:    ai.ChatTools(),
	})
	if err != nil {
		return nil, err
	}

	// Persistence: the original inbound message and the assistant reply in
	// one atomic batch. The durable record stays in the input language.
	now := time.Now()
	assistantID := common.NewUUID()
	userAttachments := req.Message.Attachments
	if userAttachments == nil {
		userAttachments = []models.Attachment{}
	}
	if err := s.repo.SaveMessages(ctx, []Message{
		{
			ID:          req.Message.ID,
			ChatID:      req.ChatID,
			Role:        models.RoleUser,
			Parts:       req.Message.Parts,
			Attachments: userAttachments,
			CreatedAt:   now,
		},
		{
			ID:          assistantID,
			ChatID:      req.ChatID,
			Role:        models.RoleAssistant,
			Parts:       []models.Part{{Type: models.PartText, Text: text}},
			Attachments: []models.Attachment{},
			// strictly after the user message so history ordering is stable
			CreatedAt: now.Add(time.Millisecond),
		},
	}); err != nil {
		return nil, err
	}

	streamID := common.NewUUID()
	if err := s.repo.CreateStreamID(ctx, streamID, req.ChatID); err != nil {
		return nil, err
	}

	s.publishTurn(ctx, req, translated)

	// Outbound delivery: a uniform lazy sequence whether or not the answer
	// needed translating back.
	var chunks <-chan string
	if translated {
		chunks = s.translator.StreamText(ctx, translate.Request{
			Text:   text,
			From:   req.SearchLanguage,
			To:     req.InputLanguage,
			APIKey: req.APIKey,
		})
	} else {
		single := make(chan string, 1)
		single <- text
		close(single)
		chunks = single
	}

	return &Turn{
		ChatID:             req.ChatID,
		StreamID:           streamID,
		AssistantMessageID: assistantID,
		Chunks:             chunks,
	}, nil
}

func (s *Service) publishTurn(ctx context.Context, req SendRequest, translated bool) {
	if s.events == nil {
		return
	}
	id, err := common.NewULID()
	if err != nil {
		log.Printf("turn event id: %v", err)
		return
	}
	ev := TurnEvent{
		ID:             id,
		ChatID:         req.ChatID,
		UserID:         req.UserID,
		InputLanguage:  req.InputLanguage,
		SearchLanguage: req.SearchLanguage,
		Translated:     translated,
	}
	if err := s.events.PublishTurn(ctx, ev); err != nil {
		log.Printf("publish turn event chat=%s: %v", req.ChatID, err)
	}
}

// Delete removes a chat after re-verifying ownership and returns the
// deleted record.
func (s *Service) Delete(ctx context.Context, chatID string, userID uint64) (*Chat, error) {
	c, err := s.repo.GetChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, common.ErrNotFound
	}
	if c.UserID != userID {
		return nil, common.ErrForbidden
	}
	return s.repo.DeleteChatByID(ctx, chatID)
}

// History returns the chat's messages in UI shape, owner only.
func (s *Service) History(ctx context.Context, chatID string, userID uint64) ([]models.UIMessage, error) {
	c, err := s.repo.GetChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, common.ErrNotFound
	}
	if c.UserID != userID && c.Visibility != VisibilityPublic {
		return nil, common.ErrForbidden
	}
	msgs, err := s.repo.GetMessagesByChatID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	out := make([]models.UIMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.UIMessage())
	}
	return out, nil
}

// ListChats returns the user's chats, newest first.
func (s *Service) ListChats(ctx context.Context, userID uint64, limit int) ([]Chat, error) {
	return s.repo.ListChats(ctx, userID, limit)
}

// RecordTurnEvent is the worker-side write for a consumed event.
func (s *Service) RecordTurnEvent(ctx context.Context, ev *TurnEvent) error {
	return s.repo.InsertTurnEvent(ctx, ev)
}
