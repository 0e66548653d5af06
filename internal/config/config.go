package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string

	// Base URL of the delivery backend, e.g. http://localhost:9090/api.
	BackendURL string

	// Path of the sqlite file holding per-browser console state.
	StateDBPath string

	LogLevel string

	SessionCookie string

	// Idle minutes before an in-memory browser entry is evicted.
	SessionTTLMinutes int

	// Optional audit event brokers; empty disables publishing.
	KafkaBrokers []string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		ListenAddr:        EnvDefault("CONSOLE_ADDR", ":8090"),
		BackendURL:        os.Getenv("BACKEND_URL"),
		StateDBPath:       EnvDefault("STATE_DB_PATH", "console_state.db"),
		LogLevel:          EnvDefault("LOG_LEVEL", "info"),
		SessionCookie:     EnvDefault("SESSION_COOKIE", "console_session"),
		SessionTTLMinutes: EnvIntDefault("SESSION_TTL_MINUTES", 720),
		KafkaBrokers:      CSV(os.Getenv("KAFKA_BROKERS")),
	}
	MustNonEmpty(cfg.BackendURL, "BACKEND_URL")
	return cfg
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
