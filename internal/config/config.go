package config

import (
	"os"
	"strconv"
	"time"
)

// SMTPConfig holds outbound email transport settings. The notification
// dispatcher treats an incomplete config as a hard error rather than
// silently dropping mail.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
}

// Complete reports whether every field required to send mail is present.
func (c SMTPConfig) Complete() bool {
	return c.Host != "" && c.Username != "" && c.Password != "" && c.FromName != ""
}

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort         string
	Environment        string
	MySQLDSN           string
	RedisAddr          string
	RedisDB            int
	RedisPass          string
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	LendingPeriod      time.Duration
	ResetTokenTTL      time.Duration
	ClientOrigin       string
	SMTP               SMTPConfig
	SwaggerHost        string
}

// Production reports whether the server runs with production hardening
// (secure refresh cookies).
func (c *Config) Production() bool {
	return c.Environment == "production"
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		Environment:        getEnv("APP_ENV", "development"),
		MySQLDSN:           getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/library?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		RedisPass:          os.Getenv("REDIS_PASSWORD"),
		AccessTokenSecret:  getEnv("ACCESS_TOKEN_SECRET", "change-me-access"),
		RefreshTokenSecret: getEnv("REFRESH_TOKEN_SECRET", "change-me-refresh"),
		AccessTokenTTL:     getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:    getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		LendingPeriod:      getEnvDuration("LENDING_PERIOD", 14*24*time.Hour),
		ResetTokenTTL:      getEnvDuration("RESET_TOKEN_TTL", time.Hour),
		ClientOrigin:       getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		SMTP: SMTPConfig{
			Host:     os.Getenv("EMAIL_HOST"),
			Port:     getEnvInt("EMAIL_PORT", 587),
			Username: os.Getenv("EMAIL_USER"),
			Password: os.Getenv("EMAIL_PASS"),
			FromName: os.Getenv("EMAIL_FROM_NAME"),
		},
		SwaggerHost: os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
