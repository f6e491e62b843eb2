// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSOrigins() []string
}

// EmailConfig provides settings for email sending.
// The mail API key is deliberately NOT validated at load time: a missing key
// must surface as a per-request configuration error, not a boot failure.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetResendAPIKey() string
	GetContactToAddress() string
	GetContactFromAddress() string
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
}

// TurnstileConfig provides settings for bot verification.
type TurnstileConfig interface {
	GetTurnstileSecret() string
}

// RateLimitConfig provides settings for the submission rate limiter.
type RateLimitConfig interface {
	GetRedisURL() string
	GetRateLimitPerMinute() int
	GetRateLimitPerHour() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                string
	HTTPAddr           string
	CORSOrigins        []string
	EmailEnabled       bool
	ResendAPIKey       string
	ContactToAddress   string
	ContactFromAddress string
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	TurnstileSecret    string
	RedisURL           string
	RateLimitPerMinute int
	RateLimitPerHour   int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool         { return c.EmailEnabled }
func (c *Config) GetResendAPIKey() string       { return c.ResendAPIKey }
func (c *Config) GetContactToAddress() string   { return c.ContactToAddress }
func (c *Config) GetContactFromAddress() string { return c.ContactFromAddress }
func (c *Config) GetSMTPHost() string           { return c.SMTPHost }
func (c *Config) GetSMTPPort() int              { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string       { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string       { return c.SMTPPassword }

// TurnstileConfig implementation
func (c *Config) GetTurnstileSecret() string { return c.TurnstileSecret }

// RateLimitConfig implementation
func (c *Config) GetRedisURL() string        { return c.RedisURL }
func (c *Config) GetRateLimitPerMinute() int { return c.RateLimitPerMinute }
func (c *Config) GetRateLimitPerHour() int   { return c.RateLimitPerHour }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                getEnv("APP_ENV", "development"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "https://vantix.dev")),
		EmailEnabled:       strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true"),
		ResendAPIKey:       getEnv("RESEND_API_KEY", ""),
		ContactToAddress:   getEnv("CONTACT_TO_ADDRESS", "hello@vantix.dev"),
		ContactFromAddress: getEnv("CONTACT_FROM_ADDRESS", "Vantix Website <no-reply@vantix.dev>"),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		TurnstileSecret:    getEnv("TURNSTILE_SECRET_KEY", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		RateLimitPerMinute: mustInt(getEnv("RATE_LIMIT_PER_MINUTE", "3")),
		RateLimitPerHour:   mustInt(getEnv("RATE_LIMIT_PER_HOUR", "10")),
	}

	if len(cfg.CORSOrigins) == 0 {
		return nil, fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	if cfg.RateLimitPerMinute < 1 || cfg.RateLimitPerHour < 1 {
		return nil, fmt.Errorf("rate limit ceilings must be positive")
	}
	if cfg.RateLimitPerHour < cfg.RateLimitPerMinute {
		return nil, fmt.Errorf("RATE_LIMIT_PER_HOUR cannot be below RATE_LIMIT_PER_MINUTE")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}
