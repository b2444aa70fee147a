package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sweepo-backend/config"
	"sweepo-backend/internal/domain"
	"sweepo-backend/pkg/metrics"
)

// BodyRenderer produces the email bodies for a quote request
type BodyRenderer interface {
	Render(req *domain.QuoteRequest, requestID string) RenderedEmail
}

// EmailService delivers quote requests to the configured recipients over SMTP.
// Every attempt is a single linear pass with no retries:
// config check, render, compose, connect, authenticate, send.
type EmailService struct {
	cfg      config.EmailConfiguration
	from     string
	renderer BodyRenderer
	log      *slog.Logger
	now      func() time.Time
}

// NewEmailService creates a new email service. The configuration is copied
// and never modified afterwards.
func NewEmailService(cfg config.EmailConfiguration, renderer BodyRenderer, log *slog.Logger) *EmailService {
	cfg.Recipients = append([]string(nil), cfg.Recipients...)

	from := cfg.FromEmail
	if from == "" {
		from = cfg.Username // most relays accept the login as sender
	}

	return &EmailService{
		cfg:      cfg,
		from:     from,
		renderer: renderer,
		log:      log,
		now:      defaultNow,
	}
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.checkConfig() == nil
}

func (s *EmailService) checkConfig() error {
	var missing []string
	if s.cfg.SMTPHost == "" {
		missing = append(missing, "smtp host")
	}
	if s.cfg.Username == "" {
		missing = append(missing, "smtp username")
	}
	if s.cfg.Password == "" {
		missing = append(missing, "smtp password")
	}
	if len(s.cfg.Recipients) == 0 {
		missing = append(missing, "recipients")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrNotConfigured, strings.Join(missing, ", "))
	}
	return nil
}

// SendQuoteRequest delivers one quote request. It returns true only when the
// relay accepted the message; every failure is logged with its stage and
// reported as false.
func (s *EmailService) SendQuoteRequest(ctx context.Context, req *domain.QuoteRequest, requestID string) (sent bool) {
	start := time.Now()
	log := s.log.With("request_id", requestID)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("unexpected mail dispatch failure", "panic", rec)
			metrics.MailDispatch.WithLabelValues("unexpected", "failure").Inc()
			sent = false
		}
		metrics.MailDispatchDuration.Observe(time.Since(start).Seconds())
	}()

	if err := s.dispatch(ctx, req, requestID, log); err != nil {
		stage := "unknown"
		var stageErr *StageError
		if errors.As(err, &stageErr) {
			stage = stageErr.Stage
		}
		log.Error("quote email dispatch failed", "stage", stage, "error", err, "smtp", s.cfg)
		metrics.MailDispatch.WithLabelValues(stage, "failure").Inc()
		return false
	}

	log.Info("quote email sent", "recipients", len(s.cfg.Recipients), "duration", time.Since(start))
	metrics.MailDispatch.WithLabelValues(StageSend, "success").Inc()
	return true
}

func (s *EmailService) dispatch(ctx context.Context, req *domain.QuoteRequest, requestID string, log *slog.Logger) error {
	if err := s.checkConfig(); err != nil {
		return stageError(StageConfig, err)
	}

	body, err := s.render(req, requestID)
	if err != nil {
		return stageError(StageRender, err)
	}
	log.Debug("email content generated", "html_length", len(body.HTML), "text_length", len(body.Text))

	message, err := s.composeMessage(req, requestID, body)
	if err != nil {
		return stageError(StageCompose, err)
	}

	ss, err := s.dial(ctx)
	if err != nil {
		return stageError(StageConnect, err)
	}
	defer ss.Close()
	log.Debug("connected to SMTP server", "server", s.cfg.Address(), "tls_mode", s.cfg.TLSMode)

	if s.cfg.Username != "" {
		if err := s.authenticate(ctx, ss); err != nil {
			return stageError(StageAuthenticate, err)
		}
		log.Debug("SMTP authentication succeeded")
	}

	if err := s.transmit(ctx, ss, message); err != nil {
		return stageError(StageSend, err)
	}
	return nil
}

// render guards the dispatcher against a renderer that panics
func (s *EmailService) render(req *domain.QuoteRequest, requestID string) (body RenderedEmail, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("template processing failed: %v", rec)
		}
	}()
	return s.renderer.Render(req, requestID), nil
}
