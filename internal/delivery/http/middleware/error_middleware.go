package middleware

import (
	"errors"
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error pushed with c.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			// SECURITY: internal details stay in the server log
			logger.Log.Error("Unhandled error", "error", err, "path", c.FullPath(), "request_id", c.GetString("RequestID"))
			appErr = apperror.Internal(err)
		} else if !appErr.IsClientError() && appErr.Err != nil {
			logger.Log.Error("Request failed", "kind", appErr.Kind, "error", appErr.Err, "request_id", c.GetString("RequestID"))
		}

		response.Error(c, appErr.Code, appErr.Message, string(appErr.Kind))
	}
}

// Recovery turns a panic into a generic 500 and records a server_error event.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := c.GetString("RequestID")
		logger.Log.Error("Panic recovered", "panic", recovered, "path", c.FullPath(), "request_id", requestID)
		security.DefaultLogger().LogServerError(c.Request.Context(), c.ClientIP(), requestID, c.FullPath(), recovered)

		appErr := apperror.Internal(nil)
		response.Error(c, http.StatusInternalServerError, appErr.Message, string(appErr.Kind))
		c.Abort()
	})
}
