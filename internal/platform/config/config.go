package config

import (
	"errors"
	"os"
	"strings"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	APIPrefix   string
	PostgresDSN string
	JWTSecret   string
	UploadDir   string
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "eshop"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	prefix := strings.TrimSpace(os.Getenv("API_PREFIX"))
	if prefix == "" {
		prefix = "/api/v1"
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	prefix = strings.TrimRight(prefix, "/")

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "public/uploads"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		APIPrefix:   prefix,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		JWTSecret:   secret,
		UploadDir:   uploadDir,
	}, nil
}
