package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"sweepo-backend/config"
)

// session is one SMTP conversation with the relay
type session struct {
	client *smtp.Client
	stop   func() bool
}

// Close releases the connection. Safe to call after a successful QUIT.
func (ss *session) Close() {
	ss.stop()
	_ = ss.client.Close()
}

// dial opens the connection and applies the configured transport security.
// The whole conversation shares one deadline so a silent server cannot hold
// the request forever; cancelling ctx closes the connection.
func (s *EmailService) dial(ctx context.Context) (*session, error) {
	dialer := &net.Dialer{Timeout: s.cfg.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", s.cfg.Address())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SMTP server: %w", err)
	}

	deadline := time.Now().Add(s.cfg.OperationTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if s.cfg.OperationTimeout > 0 {
		_ = conn.SetDeadline(deadline)
	}

	tlsConfig := &tls.Config{
		ServerName:         s.cfg.SMTPHost,
		InsecureSkipVerify: s.cfg.InsecureSkipVerify, //nolint:gosec // opt-in for internal relays
		MinVersion:         tls.VersionTLS12,
	}

	if s.cfg.TLSMode == config.TLSModeImplicit {
		conn = tls.Client(conn, tlsConfig)
	}

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })

	client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
	if err != nil {
		stop()
		_ = conn.Close()
		return nil, withContext(ctx, fmt.Errorf("failed to create SMTP client: %w", err))
	}
	ss := &session{client: client, stop: stop}

	switch s.cfg.TLSMode {
	case config.TLSModeStartTLS, config.TLSModeOpportunistic:
		ok, _ := client.Extension("STARTTLS")
		if !ok {
			if s.cfg.TLSMode == config.TLSModeStartTLS {
				ss.Close()
				return nil, ErrStartTLSUnsupported
			}
			break
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			ss.Close()
			return nil, withContext(ctx, fmt.Errorf("failed to start TLS: %w", err))
		}
	}

	return ss, nil
}

// authenticate logs in with PLAIN. net/smtp refuses PLAIN over an
// unencrypted link unless the server is on localhost.
func (s *EmailService) authenticate(ctx context.Context, ss *session) error {
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	if err := ss.client.Auth(auth); err != nil {
		return withContext(ctx, fmt.Errorf("authentication failed: %w", err))
	}
	return nil
}

// transmit runs the envelope and DATA phase, then says goodbye
func (s *EmailService) transmit(ctx context.Context, ss *session, message []byte) error {
	if err := ss.client.Mail(s.from); err != nil {
		return withContext(ctx, fmt.Errorf("failed to set sender: %w", err))
	}

	for _, rcpt := range s.cfg.Recipients {
		if err := ss.client.Rcpt(rcpt); err != nil {
			return withContext(ctx, fmt.Errorf("failed to set recipient %s: %w", rcpt, err))
		}
	}

	writer, err := ss.client.Data()
	if err != nil {
		return withContext(ctx, fmt.Errorf("failed to get data writer: %w", err))
	}

	if _, err := writer.Write(message); err != nil {
		_ = writer.Close()
		return withContext(ctx, fmt.Errorf("failed to write message: %w", err))
	}

	if err := writer.Close(); err != nil {
		return withContext(ctx, fmt.Errorf("failed to close data writer: %w", err))
	}

	// Quit errors are non-fatal as the message was already accepted
	_ = ss.client.Quit()
	return nil
}

// withContext attaches the cancellation cause when the connection was torn
// down because ctx ended.
func withContext(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Join(err, ctxErr)
	}
	return err
}
