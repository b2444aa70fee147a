package domain

import (
	"context"
	"strings"
	"time"

	"sweepo-backend/pkg/apperror"

	"github.com/google/uuid"
)

// DefaultSource tags requests that did not say where they came from
const DefaultSource = "website"

// QuoteRequest represents a customer quote request submission
type QuoteRequest struct {
	Name      string    `json:"name" validate:"required"`
	Email     string    `json:"email" validate:"required,email"`
	Phone     string    `json:"phone" validate:"required,valid_phone"`
	Service   string    `json:"service" validate:"required"`
	Address   string    `json:"address,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// Normalize trims user input and fills the capture time and source defaults.
func (r *QuoteRequest) Normalize(now time.Time) {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Service = strings.TrimSpace(r.Service)
	r.Address = strings.TrimSpace(r.Address)
	r.Message = strings.TrimSpace(r.Message)
	r.Source = strings.TrimSpace(r.Source)

	if r.Timestamp.IsZero() {
		r.Timestamp = now
	}
	r.Timestamp = r.Timestamp.UTC()

	if r.Source == "" {
		r.Source = DefaultSource
	}
}

// QuoteResponse is the body returned for every quote submission
type QuoteResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// Customer-facing outcome messages
const (
	MsgQuoteAccepted   = "Quote request submitted successfully! We'll contact you within 24 hours."
	MsgQuoteFailed     = "Failed to process quote request. Please try again later."
	MsgUnexpectedError = apperror.MsgInternal
)

var serviceDisplayNames = map[string]string{
	"home-cleaning":       "Home Cleaning",
	"commercial-cleaning": "Commercial Cleaning",
	"pest-control":        "Pest Control",
	"garbage-removal":     "Garbage Removal",
	"lawn-garden":         "Lawn & Garden",
	"car-valet":           "Car Valet",
}

// ServiceDisplayName maps a service code to its display name.
// Unknown codes are returned unchanged.
func ServiceDisplayName(code string) string {
	if name, ok := serviceDisplayNames[code]; ok {
		return name
	}
	return code
}

// NewRequestID returns a short opaque id used to correlate one submission
// across logs, the outgoing email and the response.
func NewRequestID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// QuoteUsecase defines the quote submission pipeline
type QuoteUsecase interface {
	// SubmitQuote validates the request and dispatches it by email
	SubmitQuote(ctx context.Context, req *QuoteRequest, requestID string) error
}

// QuoteMailer delivers a validated quote request. It reports the outcome as a
// plain bool; failure details go to the log only.
type QuoteMailer interface {
	SendQuoteRequest(ctx context.Context, req *QuoteRequest, requestID string) bool
}
