package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SMTPConfig configures the transactional-mail relay. An empty host disables
// outgoing mail.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	ContactTo string
}

// LoggingConfig selects zap level and encoder.
type LoggingConfig struct {
	Level  string
	Format string
}

// Config is the server configuration, read from environment variables with an
// optional config.yaml override.
type Config struct {
	Port               string
	DatabaseURL        string
	DataPath           string
	SiteURL            string
	MaxPayloadBytes    int64
	RateLimitPerMinute int
	RateLimitBurst     int
	SMTP               SMTPConfig
	Logging            LoggingConfig
}

// Load reads configuration. Environment variables win over config.yaml; both
// fall back to documented defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", "8000")
	v.SetDefault("database_url", "")
	v.SetDefault("data_path", "")
	v.SetDefault("site_url", "https://dotaciones.cl")
	v.SetDefault("max_payload_bytes", 250_000)
	v.SetDefault("rate_limit_per_minute", 60)
	v.SetDefault("rate_limit_burst", 60)
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "Dotaciones <no-reply@dotaciones.cl>")
	v.SetDefault("smtp.contact_to", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return &Config{
		Port:               v.GetString("port"),
		DatabaseURL:        v.GetString("database_url"),
		DataPath:           v.GetString("data_path"),
		SiteURL:            strings.TrimRight(v.GetString("site_url"), "/"),
		MaxPayloadBytes:    v.GetInt64("max_payload_bytes"),
		RateLimitPerMinute: v.GetInt("rate_limit_per_minute"),
		RateLimitBurst:     v.GetInt("rate_limit_burst"),
		SMTP: SMTPConfig{
			Host:      v.GetString("smtp.host"),
			Port:      v.GetInt("smtp.port"),
			Username:  v.GetString("smtp.username"),
			Password:  v.GetString("smtp.password"),
			From:      v.GetString("smtp.from"),
			ContactTo: v.GetString("smtp.contact_to"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
	}, nil
}

// BuildLogger constructs the zap logger selected by the logging config.
func (c *Config) BuildLogger() (*zap.Logger, error) {
	var level zapcore.Level
	switch c.Logging.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "", "info":
		level = zapcore.InfoLevel
	case "warn", "warning":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	var zc zap.Config
	switch c.Logging.Format {
	case "console":
		zc = zap.NewDevelopmentConfig()
	case "", "json":
		zc = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}
