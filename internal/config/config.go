package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/otodrive/otodrive-web/internal/schedule"
)

const (
	defaultCorsOrigins = "https://otodriveafrica.com,https://www.otodriveafrica.com,http://localhost:5501"
	defaultLocation    = "Otodrive Autogas fueling and conversion Center Mavoko"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	LogFormat          string
	CorsAllowedOrigins []string
	StaticDir          string

	// Shop schedule
	ShopTimezone      string
	BusinessHoursJSON string
	SlotInterval      time.Duration
	ShopName          string
	ShopLocation      string

	// Google Calendar
	CalendarEnabled       bool
	CalendarID            string
	GoogleCredentials     string
	GoogleCredentialsFile string

	// Per-IP request limits
	RateLimitRPS   float64
	RateLimitBurst int

	// Contact form throttle store
	RedisAddr         string
	RedisPassword     string
	RedisTLS          bool
	ContactMaxPerHour int

	// Email
	EmailProvider  string
	ContactToEmail string

	// SendGrid Email Configuration
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	// SES Email Configuration
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	SESFromEmail        string
}

// Load reads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		CorsAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", defaultCorsOrigins),
		StaticDir:          getEnv("STATIC_DIR", ""),

		ShopTimezone:      getEnv("SHOP_TIMEZONE", "Africa/Nairobi"),
		BusinessHoursJSON: getEnv("BUSINESS_HOURS_JSON", ""),
		SlotInterval:      getEnvAsDuration("SLOT_INTERVAL", 30*time.Minute),
		ShopName:          getEnv("SHOP_NAME", "Otodrive"),
		ShopLocation:      getEnv("SHOP_LOCATION", defaultLocation),

		CalendarID:            strings.TrimSpace(getEnv("CALENDAR_ID", "")),
		GoogleCredentials:     getEnv("GOOGLE_CREDENTIALS", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "service-account.json"),

		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 2),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 10),

		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisTLS:          getEnvAsBool("REDIS_TLS", false),
		ContactMaxPerHour: getEnvAsInt("CONTACT_MAX_PER_HOUR", 5),

		EmailProvider:  strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "auto"))),
		ContactToEmail: getEnv("CONTACT_TO_EMAIL", "info@otodrive.co.ke"),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Otodrive"),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		SESFromEmail:        getEnv("SES_FROM_EMAIL", ""),
	}

	switch strings.ToLower(strings.TrimSpace(getEnv("CALENDAR_ENABLED", "auto"))) {
	case "", "auto":
		cfg.CalendarEnabled = cfg.CalendarID != "" && cfg.HasGoogleCredentials()
	default:
		cfg.CalendarEnabled = getEnvAsBool("CALENDAR_ENABLED", false)
	}
	return cfg
}

// HasGoogleCredentials reports whether inline credentials are set or the
// credentials file exists on disk.
func (c *Config) HasGoogleCredentials() bool {
	if strings.TrimSpace(c.GoogleCredentials) != "" {
		return true
	}
	if c.GoogleCredentialsFile == "" {
		return false
	}
	info, err := os.Stat(c.GoogleCredentialsFile)
	return err == nil && !info.IsDir()
}

// BusinessHours returns the configured weekly hours, or the shop default when
// BUSINESS_HOURS_JSON is unset.
func (c *Config) BusinessHours() (schedule.BusinessHours, error) {
	if strings.TrimSpace(c.BusinessHoursJSON) == "" {
		return schedule.DefaultBusinessHours(), nil
	}
	return schedule.ParseBusinessHours(c.BusinessHoursJSON)
}

// Validate checks the values that would otherwise fail at first use.
func (c *Config) Validate() error {
	var errs []error
	if _, err := time.LoadLocation(c.ShopTimezone); err != nil {
		errs = append(errs, fmt.Errorf("SHOP_TIMEZONE %q: %w", c.ShopTimezone, err))
	}
	if hours, err := c.BusinessHours(); err != nil {
		errs = append(errs, fmt.Errorf("BUSINESS_HOURS_JSON: %w", err))
	} else if !hours.HasAnyHours() {
		errs = append(errs, errors.New("BUSINESS_HOURS_JSON: at least one day must have opening hours"))
	}
	if c.SlotInterval < time.Minute {
		errs = append(errs, fmt.Errorf("SLOT_INTERVAL must be at least 1m, got %s", c.SlotInterval))
	}
	if c.CalendarEnabled {
		if c.CalendarID == "" {
			errs = append(errs, errors.New("CALENDAR_ID is required when the calendar integration is enabled"))
		}
		if !c.HasGoogleCredentials() {
			errs = append(errs, errors.New("GOOGLE_CREDENTIALS or GOOGLE_CREDENTIALS_FILE is required when the calendar integration is enabled"))
		}
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative"))
	}
	switch c.EmailProvider {
	case "auto", "sendgrid", "ses", "stub":
	default:
		errs = append(errs, fmt.Errorf("EMAIL_PROVIDER %q is not one of auto, sendgrid, ses, stub", c.EmailProvider))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blank entries.
func getEnvAsList(key, defaultValue string) []string {
	parts := strings.Split(getEnv(key, defaultValue), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
