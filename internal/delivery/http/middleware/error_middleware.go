package middleware

import (
	"errors"
	"net/http"

	"muzza-postulaciones/internal/delivery/http/response"
	"muzza-postulaciones/pkg/apperror"
	"muzza-postulaciones/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				if appErr.Code >= http.StatusInternalServerError {
					logger.Log.Error("Request failed",
						"request_id", c.GetString("RequestID"),
						"path", c.FullPath(),
						"status", appErr.Code,
						"error", appErr.Err,
					)
				}
				response.Error(c, appErr.Code, appErr.Message, appErr.Details)
				return
			}
			// SECURITY: Never expose internal error details to clients.
			logger.Log.Error("Internal Server Error", "request_id", c.GetString("RequestID"), "error", err)
			response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
		}
	}
}
