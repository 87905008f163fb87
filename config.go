package whisperwall

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config carries everything the process needs from its environment.  It is
// built once at startup and handed to the constructors; nothing in the
// package reads ambient globals after that.
type Config struct {
	HTTP   HTTPConfig
	Google GoogleConfig

	// DatabaseURL is the Postgres connection string.  Empty selects the
	// in-memory store, which only makes sense for development.
	DatabaseURL string

	SessionCookie   string
	SessionLifetime time.Duration
}

type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// LoadConfig reads configuration from environment variables, applying
// defaults where a value is optional and validating the ones that are not.
func LoadConfig() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Addr:            getEnv("HTTP_ADDR", ":3000"),
			ReadTimeout:     time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SEC", 10)) * time.Second,
			WriteTimeout:    time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SEC", 15)) * time.Second,
			ShutdownTimeout: time.Duration(getEnvInt("HTTP_SHUTDOWN_TIMEOUT_SEC", 10)) * time.Second,
		},
		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			CallbackURL:  getEnv("GOOGLE_CALLBACK_URL", "http://localhost:3000/auth/google/secrets"),
		},
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		SessionCookie:   getEnv("SESSION_COOKIE_NAME", DefaultSessionCookie),
		SessionLifetime: time.Duration(getEnvInt("SESSION_TTL_SEC", 86400)) * time.Second,
	}

	if cfg.HTTP.Addr == "" {
		return Config{}, fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.SessionLifetime <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL_SEC must be > 0")
	}
	if cfg.Google.ClientID == "" || cfg.Google.ClientSecret == "" {
		return Config{}, fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set")
	}
	if cfg.Google.CallbackURL == "" {
		return Config{}, fmt.Errorf("GOOGLE_CALLBACK_URL must not be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}

func getEnvInt(key string, fallback int) int {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}
