package config_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sweepo-backend/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const settingsYAML = `emailSettings:
  smtpServer: smtp.example.com
  smtpPort: 465
  tlsMode: tls
  smtpUsername: quotes@example.com
  smtpPassword: from-file
  fromEmail: noreply@example.com
  recipientEmails:
    - bookings@example.com
    - " owner@example.com "
    - ""
  connectTimeout: 5s
`

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadEmailConfiguration(t *testing.T) {
	t.Run("Should use defaults when nothing is configured", func(t *testing.T) {
		cfg, err := config.LoadEmailConfiguration(filepath.Join(t.TempDir(), "missing.yaml"), map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, config.DefaultEmailConfiguration().SMTPPort, cfg.SMTPPort)
		assert.Equal(t, config.TLSModeStartTLS, cfg.TLSMode)
		assert.Equal(t, "New Quote Request from Sweepo", cfg.Subject)
		assert.Equal(t, 30*time.Second, cfg.OperationTimeout)
		assert.Empty(t, cfg.Recipients)
	})

	t.Run("Should read the settings file", func(t *testing.T) {
		cfg, err := config.LoadEmailConfiguration(writeSettings(t, settingsYAML), map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, "smtp.example.com", cfg.SMTPHost)
		assert.Equal(t, 465, cfg.SMTPPort)
		assert.Equal(t, config.TLSModeImplicit, cfg.TLSMode)
		assert.Equal(t, "from-file", cfg.Password)
		assert.Equal(t, []string{"bookings@example.com", "owner@example.com"}, cfg.Recipients)
		assert.Equal(t, 5*time.Second, cfg.ConnectTimeout)
		assert.Equal(t, 30*time.Second, cfg.OperationTimeout, "unset keys keep their defaults")
		assert.Equal(t, "Sweepo", cfg.FromName)
	})

	t.Run("Should let the environment override the file", func(t *testing.T) {
		cfg, err := config.LoadEmailConfiguration(writeSettings(t, settingsYAML), map[string]string{
			"SMTP_HOST":        "relay.internal",
			"SMTP_PORT":        "2525",
			"SMTP_TLS_MODE":    "Plain",
			"QUOTE_RECIPIENTS": "a@example.com, b@example.com",
			"SMTP_PASSWORD":    "from-env",
		})
		require.NoError(t, err)
		assert.Equal(t, "relay.internal", cfg.SMTPHost)
		assert.Equal(t, 2525, cfg.SMTPPort)
		assert.Equal(t, config.TLSModePlain, cfg.TLSMode)
		assert.Equal(t, "from-env", cfg.Password)
		assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Recipients)
		assert.Equal(t, "relay.internal:2525", cfg.Address())
	})

	t.Run("Should give the dedicated password variable the last word", func(t *testing.T) {
		cfg, err := config.LoadEmailConfiguration(writeSettings(t, settingsYAML), map[string]string{
			"SMTP_PASSWORD":       "from-env",
			config.PasswordEnvVar: "from-secret",
		})
		require.NoError(t, err)
		assert.Equal(t, "from-secret", cfg.Password)
	})

	t.Run("Should ignore an empty password override", func(t *testing.T) {
		cfg, err := config.LoadEmailConfiguration(writeSettings(t, settingsYAML), map[string]string{
			config.PasswordEnvVar: "",
		})
		require.NoError(t, err)
		assert.Equal(t, "from-file", cfg.Password)
	})

	t.Run("Should reject an unknown TLS mode", func(t *testing.T) {
		_, err := config.LoadEmailConfiguration("", map[string]string{"SMTP_TLS_MODE": "ssl3"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ssl3")
	})

	t.Run("Should reject a malformed settings file", func(t *testing.T) {
		_, err := config.LoadEmailConfiguration(writeSettings(t, "emailSettings: [not, a, map"), map[string]string{})
		assert.Error(t, err)
	})

	t.Run("Should reject a malformed environment value", func(t *testing.T) {
		_, err := config.LoadEmailConfiguration("", map[string]string{"SMTP_PORT": "smtp"})
		assert.Error(t, err)
	})
}

func TestEmailConfigurationLogValue(t *testing.T) {
	cfg := config.DefaultEmailConfiguration()
	cfg.SMTPHost = "smtp.example.com"
	cfg.Password = "super-secret"

	var buf bytes.Buffer
	slog.New(slog.NewJSONHandler(&buf, nil)).Info("loaded", "smtp", cfg)

	assert.NotContains(t, buf.String(), "super-secret")
	assert.Contains(t, buf.String(), `"password_configured":true`)
	assert.Contains(t, buf.String(), "smtp.example.com:587")
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("TEMPLATE_CACHE", "false")
	t.Setenv("EMAIL_SETTINGS_FILE", writeSettings(t, settingsYAML))
	t.Setenv(config.PasswordEnvVar, "from-secret")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.TemplateCache)
	assert.Equal(t, "smtp.example.com", cfg.Email.SMTPHost)
	assert.Equal(t, "from-secret", cfg.Email.Password)
}
