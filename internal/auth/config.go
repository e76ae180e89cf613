// Package auth provides user accounts, one-time codes, and bearer token
// authentication for the visit API.
package auth

import "os"

// Config holds authentication configuration.
type Config struct {
	JWTSecret string
	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	SMTPFrom  string
	DevMode   bool
	BaseURL   string // e.g. http://localhost:8020
}

// ConfigFromEnv creates a Config from environment variables.
func ConfigFromEnv() Config {
	return Config{
		JWTSecret: os.Getenv("YATRA_JWT_SECRET"),
		SMTPHost:  os.Getenv("YATRA_SMTP_HOST"),
		SMTPPort:  envOrDefault("YATRA_SMTP_PORT", "587"),
		SMTPUser:  os.Getenv("YATRA_SMTP_USER"),
		SMTPPass:  os.Getenv("YATRA_SMTP_PASS"),
		SMTPFrom:  os.Getenv("YATRA_SMTP_FROM"),
		DevMode:   os.Getenv("YATRA_DEV_MODE") == "true",
		BaseURL:   envOrDefault("YATRA_BASE_URL", "http://localhost:8020"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
