package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName    string
	HTTPPort       string
	PostgresDSN    string
	AttachmentDir  string
	IdempotencyTTL time.Duration
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "crewcall"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	attachmentDir := os.Getenv("ATTACHMENT_DIR")
	if attachmentDir == "" {
		attachmentDir = "data/attachments"
	}

	return Config{
		ServiceName:    service,
		HTTPPort:       port,
		PostgresDSN:    os.Getenv("POSTGRES_DSN"),
		AttachmentDir:  attachmentDir,
		IdempotencyTTL: envDuration("IDEMPOTENCY_TTL_HOURS", 7*24*time.Hour),
	}, nil
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		return fallback
	}
	return time.Duration(hours) * time.Hour
}
