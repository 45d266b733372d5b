// Package config loads the application settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParsingConfig is returned when environment variables do not fit the Config struct.
var ErrParsingConfig = errors.New("failed to parse environment variables into config")

// Config is the full application configuration.
type Config struct {
	AppEnv      string     `env:"APP_ENV" envDefault:"development"`
	ServiceName string     `env:"SERVICE_NAME" envDefault:"leadmail"`
	LogLevel    slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	// LogFormat is "json" or "text". Empty keeps the AppEnv preset.
	LogFormat string `env:"LOG_FORMAT"`

	// CSRFKey is 64 hex characters. Empty outside production means a random
	// key per start.
	CSRFKey string `env:"CSRF_KEY"`

	LLM     LLM
	HTTP    HTTP
	Session Session
}

// LLM configures the completion endpoint.
type LLM struct {
	// APIKey is not validated: a missing key surfaces as the provider's auth error.
	APIKey    string        `env:"GROQ_API_KEY"`
	BaseURL   string        `env:"LLM_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	Model     string        `env:"LLM_MODEL" envDefault:"llama3-8b-8192"`
	MaxTokens int           `env:"LLM_MAX_TOKENS" envDefault:"1000"`
	Timeout   time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`
}

// HTTP configures the web server.
type HTTP struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":9000"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"90s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Session configures the per-browser form registry.
type Session struct {
	CookieName  string        `env:"SESSION_COOKIE" envDefault:"leadmail_sid"`
	IdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
}

// IsProduction reports whether AppEnv names a production deployment.
func (c Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

// Load reads .env when present, then the process environment.
// It reports whether a .env file was loaded.
func Load() (Config, bool, error) {
	loaded := godotenv.Load() == nil

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, loaded, errors.Join(ErrParsingConfig, err)
	}
	return cfg, loaded, nil
}

// Parse builds a Config from the given variables only.
func Parse(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}
