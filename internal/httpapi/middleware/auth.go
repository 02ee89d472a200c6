package middleware

import (
	"net/http"
	"strings"

	"github.com/babelchat/api/internal/auth"
	"github.com/babelchat/api/internal/common"
	"github.com/gin-gonic/gin"
)

const UserIDKey = "user_id"

// AuthRequired resolves the session from the Authorization bearer token and
// stores the user id on the context.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
			c.Abort()
			return
		}
		uid, err := auth.ParseJWT(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
			c.Abort()
			return
		}
		c.Set(UserIDKey, uid)
		c.Next()
	}
}
