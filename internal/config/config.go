package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Twilio     TwilioConfig     `yaml:"twilio" mapstructure:"twilio"`
	Email      EmailConfig      `yaml:"email" mapstructure:"email"`
	SMTP       SMTPConfig       `yaml:"smtp" mapstructure:"smtp"`
	Mailgun    MailgunConfig    `yaml:"mailgun" mapstructure:"mailgun"`
	Campaign   CampaignConfig   `yaml:"campaign" mapstructure:"campaign"`
	Resilience ResilienceConfig `yaml:"resilience" mapstructure:"resilience"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key              string `yaml:"key" mapstructure:"key"`
	Model            string `yaml:"model" mapstructure:"model"`
	MaxAttempts      int    `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int    `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int    `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
}

// TwilioConfig holds Twilio credentials for SMS and voice.
type TwilioConfig struct {
	AccountSID string  `yaml:"account_sid" mapstructure:"account_sid"`
	AuthToken  string  `yaml:"auth_token" mapstructure:"auth_token"`
	FromNumber string  `yaml:"from_number" mapstructure:"from_number"`
	RateLimit  float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// Configured reports whether every Twilio credential is set.
func (t TwilioConfig) Configured() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.FromNumber != ""
}

// EmailConfig selects the email transport.
type EmailConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"` // "smtp" or "mailgun"
	From     string `yaml:"from" mapstructure:"from"`
}

// SMTPConfig holds SMTP server settings.
type SMTPConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
}

// MailgunConfig holds Mailgun API settings.
type MailgunConfig struct {
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	Domain string `yaml:"domain" mapstructure:"domain"`
}

// CampaignConfig holds campaign defaults applied when a campaign file or
// request leaves them out.
type CampaignConfig struct {
	PacingMs            int    `yaml:"pacing_ms" mapstructure:"pacing_ms"`
	Tone                string `yaml:"tone" mapstructure:"tone"`
	Language            string `yaml:"language" mapstructure:"language"`
	RespectTimezones    bool   `yaml:"respect_timezones" mapstructure:"respect_timezones"`
	RespectDoNotContact bool   `yaml:"respect_do_not_contact" mapstructure:"respect_do_not_contact"`
}

// ResilienceConfig configures the per-channel circuit breakers.
type ResilienceConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	PublicURL      string   `yaml:"public_url" mapstructure:"public_url"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	MaxUploadMB    int      `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml (optional) and OUTREACH_*
// environment variables, env taking precedence.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("OUTREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Secrets default to "" so their env vars bind on Unmarshal.
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_attempts", 3)
	v.SetDefault("anthropic.initial_backoff_ms", 500)
	v.SetDefault("anthropic.max_backoff_ms", 10000)
	v.SetDefault("twilio.account_sid", "")
	v.SetDefault("twilio.auth_token", "")
	v.SetDefault("twilio.from_number", "")
	v.SetDefault("twilio.rate_limit", 1.0)
	v.SetDefault("email.provider", "smtp")
	v.SetDefault("email.from", "")
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("mailgun.api_key", "")
	v.SetDefault("mailgun.domain", "")
	v.SetDefault("campaign.pacing_ms", 2000)
	v.SetDefault("campaign.tone", "sales")
	v.SetDefault("campaign.language", "English")
	v.SetDefault("campaign.respect_timezones", true)
	v.SetDefault("campaign.respect_do_not_contact", true)
	v.SetDefault("resilience.failure_threshold", 5)
	v.SetDefault("resilience.reset_timeout_secs", 30)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.public_url", "")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_upload_mb", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. mode is one of "import",
// "campaign", "serve" or "replies".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "import":
	case "campaign":
		errs = append(errs, c.validateAnthropic()...)
		errs = append(errs, c.validateDelivery()...)
		if c.Campaign.PacingMs < 0 {
			errs = append(errs, "campaign.pacing_ms must be >= 0")
		}
	case "serve":
		errs = append(errs, c.validateAnthropic()...)
		errs = append(errs, c.validateDelivery()...)
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
	case "replies":
		errs = append(errs, c.validateAnthropic()...)
		if !c.Twilio.Configured() {
			errs = append(errs, "twilio.account_sid, twilio.auth_token and twilio.from_number are required")
		}
	case "classify":
		errs = append(errs, c.validateAnthropic()...)
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.New(fmt.Sprintf("config: %s", strings.Join(errs, "; ")))
	}
	return nil
}

func (c *Config) validateAnthropic() []string {
	var errs []string
	if c.Anthropic.Key == "" {
		errs = append(errs, "anthropic.key is required")
	}
	if c.Anthropic.MaxAttempts < 0 {
		errs = append(errs, "anthropic.max_attempts must be >= 0")
	}
	return errs
}

// validateDelivery requires at least one channel provider and rejects
// half-configured ones.
func (c *Config) validateDelivery() []string {
	var errs []string

	tw := c.Twilio
	partialTwilio := (tw.AccountSID != "" || tw.AuthToken != "" || tw.FromNumber != "") && !tw.Configured()
	if partialTwilio {
		errs = append(errs, "twilio.account_sid, twilio.auth_token and twilio.from_number must be set together")
	}

	emailReady := false
	switch c.Email.Provider {
	case "smtp":
		emailReady = c.SMTP.Host != ""
	case "mailgun":
		emailReady = c.Mailgun.APIKey != "" && c.Mailgun.Domain != ""
	default:
		errs = append(errs, fmt.Sprintf("email.provider must be smtp or mailgun, got %q", c.Email.Provider))
	}
	if emailReady && c.Email.From == "" {
		errs = append(errs, "email.from is required when email is configured")
	}

	if !tw.Configured() && !emailReady && !partialTwilio {
		errs = append(errs, "at least one of twilio or email must be configured")
	}
	return errs
}

// EmailConfigured reports whether the selected email provider has the
// settings it needs.
func (c *Config) EmailConfigured() bool {
	switch c.Email.Provider {
	case "smtp":
		return c.SMTP.Host != "" && c.Email.From != ""
	case "mailgun":
		return c.Mailgun.APIKey != "" && c.Mailgun.Domain != "" && c.Email.From != ""
	default:
		return false
	}
}

// InitLogger replaces the global zap logger according to cfg.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
