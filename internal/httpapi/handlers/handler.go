package handlers

import (
	"github.com/babelchat/api/internal/chat"
	"github.com/babelchat/api/internal/common"
	"github.com/babelchat/api/internal/config"
	"github.com/babelchat/api/internal/httpapi/middleware"
	"github.com/babelchat/api/internal/prefs"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB      *gorm.DB
	Cfg     config.Config
	Prefs   *prefs.Store
	Keys    *prefs.KeyStore
	ChatSvc *chat.Service
}

func NewHandler(db *gorm.DB, cfg config.Config, prefStore *prefs.Store, keyStore *prefs.KeyStore, chatSvc *chat.Service) *Handler {
	return &Handler{
		DB:      db,
		Cfg:     cfg,
		Prefs:   prefStore,
		Keys:    keyStore,
		ChatSvc: chatSvc,
	}
}

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"pong": true})
}

func userIDFromContext(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}
