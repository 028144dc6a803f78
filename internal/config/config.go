package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port           string
	DatabaseURL    string
	DBLog          bool
	JWTSecret      string
	JWTExpiresIn   time.Duration
	CORSOrigin     string
	AppEnv         string
	UploadDir      string
	PublicURL      string
	MaxUploadBytes int64
	RateLimitRPS   float64
	RateLimitBurst int
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads a .env file if one exists and then the process environment.
func Load() (*Config, error) {
	// Production sets env vars directly, so a missing .env is fine.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: getenv("DATABASE_URL", "sqlite://inkpost.db"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		CORSOrigin:  getenv("CORS_ORIGIN", "*"),
		AppEnv:      getenv("APP_ENV", "production"),
		UploadDir:   getenv("UPLOAD_DIR", "./uploads"),
	}
	cfg.PublicURL = getenv("PUBLIC_URL", "http://localhost:"+cfg.Port)

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable not set")
	}

	var err error
	if cfg.DBLog, err = strconv.ParseBool(getenv("DB_LOG", "false")); err != nil {
		return nil, fmt.Errorf("invalid DB_LOG: %w", err)
	}
	if cfg.JWTExpiresIn, err = time.ParseDuration(getenv("JWT_EXPIRES_IN", "720h")); err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN: %w", err)
	}
	maxMB, err := strconv.ParseInt(getenv("MAX_UPLOAD_MB", "5"), 10, 64)
	if err != nil || maxMB <= 0 {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %q", os.Getenv("MAX_UPLOAD_MB"))
	}
	cfg.MaxUploadBytes = maxMB << 20
	if cfg.RateLimitRPS, err = strconv.ParseFloat(getenv("RATE_LIMIT_RPS", "1"), 64); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(getenv("RATE_LIMIT_BURST", "5")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
