package config

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// PasswordEnvVar overrides the SMTP password from every other source
const PasswordEnvVar = "SWEEPO_FROM_EMAIL_PASSWORD"

// TLS modes understood by the mail transport
const (
	TLSModeStartTLS      = "starttls"
	TLSModeOpportunistic = "opportunistic"
	TLSModeImplicit      = "tls"
	TLSModePlain         = "plain"
)

type Config struct {
	Port               string
	GinMode            string
	LogLevel           string
	TemplateDir        string
	TemplateCache      bool
	CORSAllowedOrigins []string
	EmailSettingsFile  string
	Email              EmailConfiguration
}

// EmailConfiguration is loaded once at startup and never mutated afterwards.
type EmailConfiguration struct {
	SMTPHost           string        `yaml:"smtpServer" env:"SMTP_HOST"`
	SMTPPort           int           `yaml:"smtpPort" env:"SMTP_PORT"`
	TLSMode            string        `yaml:"tlsMode" env:"SMTP_TLS_MODE"`
	InsecureSkipVerify bool          `yaml:"insecureSkipVerify" env:"SMTP_INSECURE_SKIP_VERIFY"`
	Username           string        `yaml:"smtpUsername" env:"SMTP_USERNAME"`
	Password           string        `yaml:"smtpPassword" env:"SMTP_PASSWORD"`
	FromEmail          string        `yaml:"fromEmail" env:"SMTP_FROM_EMAIL"`
	FromName           string        `yaml:"fromName" env:"SMTP_FROM_NAME"`
	Recipients         []string      `yaml:"recipientEmails" env:"QUOTE_RECIPIENTS" envSeparator:","`
	Subject            string        `yaml:"subject" env:"QUOTE_SUBJECT"`
	ConnectTimeout     time.Duration `yaml:"connectTimeout" env:"SMTP_CONNECT_TIMEOUT"`
	OperationTimeout   time.Duration `yaml:"operationTimeout" env:"SMTP_OPERATION_TIMEOUT"`
}

// settingsFile mirrors the layout of the YAML settings file
type settingsFile struct {
	EmailSettings EmailConfiguration `yaml:"emailSettings"`
}

// DefaultEmailConfiguration returns the values used when nothing overrides them
func DefaultEmailConfiguration() EmailConfiguration {
	return EmailConfiguration{
		SMTPPort:         587,
		TLSMode:          TLSModeStartTLS,
		FromName:         "Sweepo",
		Subject:          "New Quote Request from Sweepo",
		ConnectTimeout:   10 * time.Second,
		OperationTimeout: 30 * time.Second,
	}
}

func LoadConfig() (*Config, error) {
	// Load .env file (only useful locally, ignored when the file is absent)
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		TemplateDir:        getEnv("TEMPLATE_DIR", "templates"),
		TemplateCache:      getEnvBool("TEMPLATE_CACHE", true),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173", "https://sweepo-ui.vercel.app", "https://sweepo.com"}),
		EmailSettingsFile:  getEnv("EMAIL_SETTINGS_FILE", "config/settings.yaml"),
	}

	email, err := LoadEmailConfiguration(cfg.EmailSettingsFile, env.ToMap(os.Environ()))
	if err != nil {
		return nil, err
	}
	cfg.Email = email

	if cfg.Email.Password == "" {
		log.Printf("WARNING: no SMTP password configured. Set %s or smtpPassword in %s.", PasswordEnvVar, cfg.EmailSettingsFile)
	}

	return cfg, nil
}

// LoadEmailConfiguration layers defaults, the optional YAML settings file and
// the given environment. The dedicated password variable has the last word.
func LoadEmailConfiguration(settingsPath string, environ map[string]string) (EmailConfiguration, error) {
	file := settingsFile{EmailSettings: DefaultEmailConfiguration()}

	if settingsPath != "" {
		raw, err := os.ReadFile(settingsPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// settings file is optional
		case err != nil:
			return EmailConfiguration{}, fmt.Errorf("read email settings %s: %w", settingsPath, err)
		default:
			if err := yaml.Unmarshal(raw, &file); err != nil {
				return EmailConfiguration{}, fmt.Errorf("parse email settings %s: %w", settingsPath, err)
			}
		}
	}

	cfg := file.EmailSettings
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return EmailConfiguration{}, fmt.Errorf("parse email environment: %w", err)
	}

	if pw := environ[PasswordEnvVar]; pw != "" {
		cfg.Password = pw
	}

	cfg.TLSMode = strings.ToLower(strings.TrimSpace(cfg.TLSMode))
	switch cfg.TLSMode {
	case TLSModeStartTLS, TLSModeOpportunistic, TLSModeImplicit, TLSModePlain:
	default:
		return EmailConfiguration{}, fmt.Errorf("unsupported SMTP TLS mode %q", cfg.TLSMode)
	}

	cfg.Recipients = cleanList(cfg.Recipients)
	return cfg, nil
}

// Address returns host:port of the SMTP relay
func (c EmailConfiguration) Address() string {
	return c.SMTPHost + ":" + strconv.Itoa(c.SMTPPort)
}

// LogValue keeps credential material out of the logs
func (c EmailConfiguration) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("server", c.Address()),
		slog.String("tls_mode", c.TLSMode),
		slog.String("from", c.FromEmail),
		slog.Int("recipients", len(c.Recipients)),
		slog.Bool("password_configured", c.Password != ""),
	)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvList returns a comma separated environment variable as a list
func getEnvList(key string, fallback []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		return cleanList(strings.Split(value, ","))
	}
	return fallback
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
