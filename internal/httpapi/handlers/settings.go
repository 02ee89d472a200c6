package handlers

import (
	"errors"
	"net/http"

	"github.com/babelchat/api/internal/common"
	"github.com/babelchat/api/internal/lang"
	"github.com/babelchat/api/internal/prefs"
	"github.com/gin-gonic/gin"
)

// Languages enumerates the registry for UI selectors.
func (h *Handler) Languages(c *gin.Context) {
	common.OK(c, gin.H{"languages": lang.All()})
}

func (h *Handler) GetLanguagePrefs(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	if p, ok := h.Prefs.Current(uid); ok {
		common.OK(c, p)
		return
	}
	p, err := h.Prefs.Load(c.Request.Context(), uid)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50003, "failed to load preferences")
		return
	}
	common.OK(c, p)
}

func (h *Handler) UpdateLanguagePrefs(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	var p prefs.Preferences
	if err := c.ShouldBindJSON(&p); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if err := h.Prefs.Update(c.Request.Context(), uid, p); err != nil {
		common.Fail(c, http.StatusBadRequest, 10005, err.Error())
		return
	}
	common.OK(c, p)
}

func (h *Handler) ResetLanguagePrefs(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	if err := h.Prefs.Reset(c.Request.Context(), uid); err != nil {
		common.Fail(c, http.StatusInternalServerError, 50003, "failed to reset preferences")
		return
	}
	common.OK(c, prefs.Defaults())
}

// API-key slot. Only existence is ever reported back; the key itself is
// not returned once stored.
func (h *Handler) GetAPIKeyStatus(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	exists, err := h.Keys.Exists(c.Request.Context(), uid)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50004, "failed to check api key")
		return
	}
	common.OK(c, gin.H{"exists": exists})
}

type setAPIKeyReq struct {
	Key string `json:"key" binding:"required"`
}

func (h *Handler) SetAPIKey(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	var req setAPIKeyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if err := h.Keys.Set(c.Request.Context(), uid, req.Key); err != nil {
		if errors.Is(err, prefs.ErrInvalidKeyFormat) {
			common.Fail(c, http.StatusBadRequest, 10006, err.Error())
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50004, "failed to store api key")
		return
	}
	common.OK(c, gin.H{"exists": true})
}

func (h *Handler) RemoveAPIKey(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	if err := h.Keys.Remove(c.Request.Context(), uid); err != nil {
		common.Fail(c, http.StatusInternalServerError, 50004, "failed to remove api key")
		return
	}
	common.OK(c, gin.H{"exists": false})
}
