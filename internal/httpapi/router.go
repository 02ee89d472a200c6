package httpapi

import (
	"net/http"

	"github.com/babelchat/api/internal/chat"
	"github.com/babelchat/api/internal/common"
	"github.com/babelchat/api/internal/config"
	"github.com/babelchat/api/internal/httpapi/handlers"
	"github.com/babelchat/api/internal/httpapi/middleware"
	"github.com/babelchat/api/internal/prefs"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func NewRouter(db *gorm.DB, cfg config.Config, prefStore *prefs.Store, keyStore *prefs.KeyStore, chatSvc *chat.Service) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	h := handlers.NewHandler(db, cfg, prefStore, keyStore, chatSvc)

	r.GET("/ping", h.Ping)

	// accounts
	r.POST("/users", h.CreateUser)
	r.POST("/login", h.Login)

	// registry enumeration is public
	r.GET("/api/languages", h.Languages)

	authGroup := r.Group("/")
	authGroup.Use(middleware.AuthRequired(cfg.JWTSecret))
	authGroup.GET("/me", h.Me)

	// mediation pipeline
	authGroup.POST("/api/chat", h.SendChat)
	authGroup.DELETE("/api/chat", h.DeleteChat)
	authGroup.GET("/api/chats", h.ListChats)
	authGroup.GET("/api/chat/:id/messages", h.ChatHistory)

	// settings
	authGroup.GET("/api/settings/languages", h.GetLanguagePrefs)
	authGroup.PUT("/api/settings/languages", h.UpdateLanguagePrefs)
	authGroup.DELETE("/api/settings/languages", h.ResetLanguagePrefs)
	authGroup.GET("/api/settings/api-key", h.GetAPIKeyStatus)
	authGroup.PUT("/api/settings/api-key", h.SetAPIKey)
	authGroup.DELETE("/api/settings/api-key", h.RemoveAPIKey)

	return r
}
