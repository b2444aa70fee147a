package middleware

import (
	"context"

	"sweepo-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// RequestID assigns the call's correlation id before any handler runs. The id
// is kept on the gin context and on the request context together with the
// client IP, which is only ever used for diagnostics.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := domain.NewRequestID()
		c.Set(string(domain.KeyRequestID), id)

		ctx := context.WithValue(c.Request.Context(), domain.KeyRequestID, id)
		ctx = context.WithValue(ctx, domain.KeyClientIP, c.ClientIP())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
