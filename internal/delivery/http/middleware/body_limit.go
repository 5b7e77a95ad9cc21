package middleware

import (
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const MsgPayloadTooLarge = "Request body is too large."

// BodyLimit caps request bodies at limit bytes. Declared oversize bodies are
// rejected up front; the rest surface as *http.MaxBytesError when read.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}

		if c.Request.ContentLength > limit {
			response.Error(c, http.StatusRequestEntityTooLarge, MsgPayloadTooLarge, string(apperror.KindPayloadTooLarge))
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
