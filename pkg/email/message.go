package email

import (
	"bytes"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"sweepo-backend/internal/domain"
)

// composeMessage builds the multipart/alternative quote email. Both parts
// carry the same content; mail clients pick the richest one they support.
func (s *EmailService) composeMessage(req *domain.QuoteRequest, requestID string, body RenderedEmail) ([]byte, error) {
	now := s.now()

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.from, s.cfg.FromName)
	msg.SetHeader("To", s.cfg.Recipients...)
	msg.SetHeader("Reply-To", msg.FormatAddress(req.Email, req.Name))
	msg.SetHeader("Subject", s.cfg.Subject)
	msg.SetHeader("X-Request-ID", requestID)
	msg.SetHeader("Message-ID", fmt.Sprintf("<%s.%d@%s>", requestID, now.UnixNano(), s.cfg.SMTPHost))
	msg.SetDateHeader("Date", now)
	msg.SetBody("text/plain", body.Text)
	msg.AddAlternative("text/html", body.HTML)

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return buf.Bytes(), nil
}

// defaultNow is the clock used outside tests
func defaultNow() time.Time {
	return time.Now().UTC()
}
