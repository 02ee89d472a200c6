package middleware

import (
	"log"
	"net/http"

	"github.com/babelchat/api/internal/common"
	"github.com/gin-gonic/gin"
)

// Recovery converts panics into the standard error envelope. Detail stays
// in the server log.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic recovered: %v", r)
				if !c.Writer.Written() {
					common.Fail(c, http.StatusInternalServerError, 50000, "internal error")
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
