// Package config reads service settings from the environment, with an
// optional .env file for local runs.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	ServerPort  string
	LogLevel    string

	DatabaseURL string

	JWTSecret string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	SendGridKey   string
	EmailFrom     string
	PublicBaseURL string
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		ServiceName: envDefault("SERVICE_NAME", "shop-api"),
		ServerPort:  envDefault("SERVER_PORT", "8080"),
		LogLevel:    envDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		KafkaBrokers: csv(envDefault("KAFKA_BROKERS", "localhost:9092")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    envDefault("ES_INDEX", "products"),

		SendGridKey:   os.Getenv("SENDGRID_API_KEY"),
		EmailFrom:     envDefault("EMAIL_FROM", "noreply@shop-api.local"),
		PublicBaseURL: envDefault("PUBLIC_BASE_URL", "http://localhost:8080"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func csv(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
