package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"sweepo-backend/internal/domain"
	"sweepo-backend/pkg/apperror"
	"sweepo-backend/pkg/metrics"
	"sweepo-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

var errDispatchFailed = errors.New("quote email was not delivered")

type quoteUsecase struct {
	mailer   domain.QuoteMailer
	validate *validator.Validate
	log      *slog.Logger
	now      func() time.Time
}

// NewQuoteUsecase creates a new quote usecase
func NewQuoteUsecase(mailer domain.QuoteMailer, validate *validator.Validate, log *slog.Logger) domain.QuoteUsecase {
	return &quoteUsecase{
		mailer:   mailer,
		validate: validate,
		log:      log,
		now:      time.Now,
	}
}

// SubmitQuote validates the quote request and sends the email
func (uc *quoteUsecase) SubmitQuote(ctx context.Context, req *domain.QuoteRequest, requestID string) error {
	log := uc.log.With("request_id", requestID)
	if ip, ok := ctx.Value(domain.KeyClientIP).(string); ok {
		log = log.With("client_ip", ip)
	}

	req.Normalize(uc.now())

	if err := uc.validate.Struct(req); err != nil {
		violations := validation.FormatValidationErrors(err)
		log.Warn("invalid quote request", "errors", violations)
		metrics.QuoteRequests.WithLabelValues("invalid").Inc()
		return apperror.Validation(violations)
	}

	log.Info("processing quote request", "service", req.Service, "source", req.Source)

	// A client hanging up must not abort a send already under way; the
	// transport timeouts bound it instead.
	if !uc.mailer.SendQuoteRequest(context.WithoutCancel(ctx), req, requestID) {
		log.Error("failed to send email for quote request")
		metrics.QuoteRequests.WithLabelValues("failed").Inc()
		return apperror.New(http.StatusInternalServerError, domain.MsgQuoteFailed, errDispatchFailed).WithRequestID(requestID)
	}

	log.Info("quote request processed successfully")
	metrics.QuoteRequests.WithLabelValues("accepted").Inc()
	return nil
}
