package middleware

import (
	"errors"
	"fmt"
	"log/slog"

	"sweepo-backend/internal/delivery/http/response"
	"sweepo-backend/pkg/apperror"
	"sweepo-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
)

func ErrorHandler(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *apperror.AppError
			if !errors.As(err, &appErr) {
				// SECURITY: Never expose internal error details to clients.
				// Log the actual error server-side for debugging, but send a
				// generic message to the user to prevent information disclosure.
				log.Error("internal server error", "request_id", response.RequestID(c), "error", err)
				metrics.QuoteRequests.WithLabelValues("error").Inc()
				appErr = apperror.Internal(err)
			}

			response.Error(c, appErr.Code, appErr.Message, appErr.RequestID)
		}
	}
}

// Recovery turns a panic anywhere below it into the generic failure response
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		log.Error("panic while handling request",
			"request_id", response.RequestID(c),
			"path", c.Request.URL.Path,
			"panic", rec,
		)
		metrics.QuoteRequests.WithLabelValues("error").Inc()
		appErr := apperror.Internal(fmt.Errorf("panic: %v", rec))
		response.Error(c, appErr.Code, appErr.Message, "")
		c.Abort()
	})
}
