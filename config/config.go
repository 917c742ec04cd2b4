package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Dosada05/club-system/storage"
	"github.com/joho/godotenv"
)

const (
	defaultServerPort    = 8080
	defaultNATSPrefix    = "club"
	defaultAllowedOrigin = "*"
)

type Config struct {
	DatabaseURL string
	ServerPort  int
	LogLevel    slog.Level

	CORSAllowedOrigins []string

	// NATSURL is empty when domain events are not published.
	NATSURL           string
	NATSSubjectPrefix string

	R2 storage.CloudflareR2Config
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from getenv, which lets tests avoid the
// process environment.
func FromEnv(getenv func(string) string) (*Config, error) {
	dbURL := getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, errors.New("DATABASE_URL environment variable is not set")
	}

	port := defaultServerPort
	if portStr := getenv("SERVER_PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
		}
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	level := slog.LevelInfo
	if raw := getenv("LOG_LEVEL"); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", raw, err)
		}
	}

	origins := splitList(getenv("CORS_ALLOWED_ORIGINS"))
	if len(origins) == 0 {
		origins = []string{defaultAllowedOrigin}
	}

	prefix := strings.TrimSpace(getenv("NATS_SUBJECT_PREFIX"))
	if prefix == "" {
		prefix = defaultNATSPrefix
	}

	r2 := storage.CloudflareR2Config{
		AccountID:       getenv("R2_ACCOUNT_ID"),
		AccessKeyID:     getenv("R2_ACCESS_KEY_ID"),
		SecretAccessKey: getenv("R2_SECRET_ACCESS_KEY"),
		BucketName:      getenv("R2_BUCKET_NAME"),
		PublicBaseURL:   getenv("R2_PUBLIC_BASE_URL"),
	}
	if r2.Enabled() {
		if err := r2.Validate(); err != nil {
			return nil, err
		}
	}

	return &Config{
		DatabaseURL:        dbURL,
		ServerPort:         port,
		LogLevel:           level,
		CORSAllowedOrigins: origins,
		NATSURL:            strings.TrimSpace(getenv("NATS_URL")),
		NATSSubjectPrefix:  prefix,
		R2:                 r2,
	}, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
