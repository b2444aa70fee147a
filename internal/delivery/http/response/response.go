package response

import (
	"sweepo-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// Success sends a success response
func Success(c *gin.Context, code int, message string, requestID string) {
	c.JSON(code, domain.QuoteResponse{
		Success:   true,
		Message:   message,
		RequestID: requestID,
	})
}

// Error sends an error response. An empty requestID is left out of the body.
func Error(c *gin.Context, code int, message string, requestID string) {
	c.JSON(code, domain.QuoteResponse{
		Success:   false,
		Message:   message,
		RequestID: requestID,
	})
}

// RequestID returns the correlation id assigned by the RequestID middleware
func RequestID(c *gin.Context) string {
	return c.GetString(string(domain.KeyRequestID))
}
