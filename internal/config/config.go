// Package config reads process configuration from the environment.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// Config holds the play server configuration.
type Config struct {
	Port             string
	DBPath           string
	LogLevel         string
	ClientOrigin     string
	JWTSecret        string
	TokenTTL         time.Duration
	DailySalt        string
	AllowFixedTarget bool
	Production       bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	days := getEnvInt("JWT_EXPIRES_DAYS", 14)
	cfg := &Config{
		Port:             getEnv("PORT", "5175"),
		DBPath:           getEnv("DB_PATH", "./data/guess.db"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		ClientOrigin:     getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		JWTSecret:        getEnv("JWT_SECRET", "dev_secret_change_me"),
		TokenTTL:         time.Duration(days) * 24 * time.Hour,
		DailySalt:        getEnv("DAILY_SALT", "local_dev_salt"),
		AllowFixedTarget: getEnvBool("ALLOW_FIXED_TARGET", false),
		Production:       os.Getenv("NODE_ENV") == "production",
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that required fields are usable.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("JWT_EXPIRES_DAYS must be > 0")
	}
	if c.Production && c.JWTSecret == "dev_secret_change_me" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

// SetupConsoleLogging points the global logger at w in human-readable form and
// applies LOG_LEVEL, defaulting to def. Colour is used only when w is a terminal.
func SetupConsoleLogging(w io.Writer, def zerolog.Level) {
	lvl := def
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if parsed, err := zerolog.ParseLevel(v); err == nil {
			lvl = parsed
		}
	}
	zerolog.SetGlobalLevel(lvl)

	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !term.IsTerminal(int(f.Fd()))
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, NoColor: noColor, TimeFormat: time.Kitchen})
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return n
}
