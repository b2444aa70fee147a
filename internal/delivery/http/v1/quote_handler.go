package v1

import (
	"net/http"

	"sweepo-backend/internal/delivery/http/response"
	"sweepo-backend/internal/domain"
	"sweepo-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const msgInvalidBody = "Validation failed: request body is not valid JSON"

type QuoteHandler struct {
	quoteUC domain.QuoteUsecase
}

// NewQuoteHandler registers the quote routes (public, no auth required)
func NewQuoteHandler(quote *gin.RouterGroup, quoteUC domain.QuoteUsecase) {
	handler := &QuoteHandler{
		quoteUC: quoteUC,
	}

	quote.POST("", handler.SubmitQuote)
}

// SubmitQuote godoc
// @Summary      Submit Quote Request
// @Description  Validate a customer quote request and email it to the booking team. Public endpoint.
// @Tags         quote
// @Accept       json
// @Produce      json
// @Param        quote  body      domain.QuoteRequest  true  "Quote Request"
// @Success      200    {object}  domain.QuoteResponse
// @Failure      400    {object}  domain.QuoteResponse
// @Failure      500    {object}  domain.QuoteResponse
// @Router       /api/quote [post]
func (h *QuoteHandler) SubmitQuote(c *gin.Context) {
	var req domain.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.New(http.StatusBadRequest, msgInvalidBody, err))
		return
	}

	requestID := response.RequestID(c)
	if err := h.quoteUC.SubmitQuote(c.Request.Context(), &req, requestID); err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, domain.MsgQuoteAccepted, requestID)
}
