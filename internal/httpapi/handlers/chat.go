package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/babelchat/api/internal/ai"
	"github.com/babelchat/api/internal/chat"
	"github.com/babelchat/api/internal/common"
	"github.com/babelchat/api/internal/models"
	"github.com/gin-gonic/gin"
)

type sendChatReq struct {
	ID                     string           `json:"id" binding:"required"`
	Message                models.UIMessage `json:"message" binding:"required"`
	SelectedChatModel      string           `json:"selectedChatModel"`
	SelectedVisibilityType string           `json:"selectedVisibilityType"`
	InputLanguage          string           `json:"inputLanguage"`
	SearchLanguage         string           `json:"searchLanguage"`
}

// SendChat is the mediation pipeline entry point. The response body is the
// assistant's answer as a chunked plain-text stream in the user's input
// language.
func (h *Handler) SendChat(c *gin.Context) {
	var req sendChatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid request body")
		return
	}
	if req.Message.ID == "" || len(req.Message.Parts) == 0 || req.Message.Role != models.RoleUser {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid request body")
		return
	}

	// The model credential is caller-supplied, per request. No key, no
	// model call.
	apiKey := c.GetHeader("x-api-key")
	if apiKey == "" || !ai.ValidAPIKey(apiKey) {
		common.Fail(c, http.StatusUnauthorized, 40102, "missing or invalid api key")
		return
	}

	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	if !ai.KnownModel(req.SelectedChatModel) {
		req.SelectedChatModel = ai.ChatModel
	}

	// Languages omitted from the body are re-read fresh from the durable
	// preference store, never from an earlier in-memory snapshot.
	inputLang := req.InputLanguage
	searchLang := req.SearchLanguage
	if inputLang == "" || searchLang == "" {
		p, err := h.Prefs.Load(c.Request.Context(), uid)
		if err != nil {
			log.Printf("prefs load uid=%d: %v", uid, err)
		}
		if inputLang == "" {
			inputLang = p.InputLanguage
		}
		if searchLang == "" {
			searchLang = p.SearchLanguage
		}
	}

	turn, err := h.ChatSvc.Send(c.Request.Context(), chat.SendRequest{
		ChatID:         req.ID,
		UserID:         uid,
		Message:        req.Message,
		SelectedModel:  req.SelectedChatModel,
		Visibility:     req.SelectedVisibilityType,
		InputLanguage:  inputLang,
		SearchLanguage: searchLang,
		APIKey:         apiKey,
		Hints:          ai.HintsFromRequest(c.Request),
	})
	if err != nil {
		if errors.Is(err, common.ErrForbidden) {
			common.Fail(c, http.StatusForbidden, 40301, "forbidden")
			return
		}
		// Anything else, model failures included, is a generic bad request
		// with the detail kept server-side.
		log.Printf("chat pipeline chat=%s uid=%d: %v", req.ID, uid, err)
		common.Fail(c, http.StatusBadRequest, 40001, "failed to process chat")
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	flusher, ok := c.Writer.(http.Flusher)
	ctx := c.Request.Context()
	for {
		select {
		case chunk, open := <-turn.Chunks:
			if !open {
				return
			}
			if _, err := c.Writer.WriteString(chunk); err != nil {
				return
			}
			if ok {
				flusher.Flush()
			}
		case <-ctx.Done():
			return
		}
	}
}

// DeleteChat removes a chat the session owns and returns the deleted
// record.
func (h *Handler) DeleteChat(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	id := c.Query("id")
	if id == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "id required")
		return
	}

	deleted, err := h.ChatSvc.Delete(c.Request.Context(), id, uid)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			common.Fail(c, http.StatusNotFound, 40401, "chat not found")
		case errors.Is(err, common.ErrForbidden):
			common.Fail(c, http.StatusForbidden, 40301, "forbidden")
		default:
			log.Printf("delete chat=%s uid=%d: %v", id, uid, err)
			common.Fail(c, http.StatusBadRequest, 40001, "failed to delete chat")
		}
		return
	}
	common.OK(c, deleted)
}

// ListChats returns the session user's chats.
func (h *Handler) ListChats(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	chats, err := h.ChatSvc.ListChats(c.Request.Context(), uid, 50)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to list chats")
		return
	}
	common.OK(c, gin.H{"chats": chats})
}

// ChatHistory returns a chat's messages in UI shape.
func (h *Handler) ChatHistory(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	id := c.Param("id")

	msgs, err := h.ChatSvc.History(c.Request.Context(), id, uid)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			common.Fail(c, http.StatusNotFound, 40401, "chat not found")
		case errors.Is(err, common.ErrForbidden):
			common.Fail(c, http.StatusForbidden, 40301, "forbidden")
		default:
			common.Fail(c, http.StatusInternalServerError, 50002, "failed to load history")
		}
		return
	}
	common.OK(c, gin.H{"messages": msgs})
}
