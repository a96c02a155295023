package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearCalendarEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CALENDAR_ENABLED", "")
	t.Setenv("CALENDAR_ID", "")
	t.Setenv("GOOGLE_CREDENTIALS", "")
	t.Setenv("GOOGLE_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "missing.json"))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SHOP_TIMEZONE", "")
	t.Setenv("SLOT_INTERVAL", "")
	t.Setenv("BUSINESS_HOURS_JSON", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("EMAIL_PROVIDER", "")
	clearCalendarEnv(t)

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.ShopTimezone != "Africa/Nairobi" {
		t.Fatalf("expected Nairobi timezone, got %s", cfg.ShopTimezone)
	}
	if cfg.SlotInterval != 30*time.Minute {
		t.Fatalf("expected 30m slot interval, got %s", cfg.SlotInterval)
	}
	if len(cfg.CorsAllowedOrigins) != 3 || cfg.CorsAllowedOrigins[0] != "https://otodriveafrica.com" {
		t.Fatalf("unexpected default origins: %v", cfg.CorsAllowedOrigins)
	}
	if cfg.ContactToEmail != "info@otodrive.co.ke" {
		t.Fatalf("expected default contact recipient, got %s", cfg.ContactToEmail)
	}
	if cfg.CalendarEnabled {
		t.Fatalf("expected calendar disabled without credentials")
	}
	if cfg.EmailProvider != "auto" {
		t.Fatalf("expected auto email provider, got %s", cfg.EmailProvider)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("SLOT_INTERVAL", "15m")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("CONTACT_MAX_PER_HOUR", "3")
	t.Setenv("EMAIL_PROVIDER", " SES ")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if got := strings.Join(cfg.CorsAllowedOrigins, "|"); got != "https://a.example|https://b.example" {
		t.Fatalf("expected trimmed origins, got %s", got)
	}
	if cfg.SlotInterval != 15*time.Minute {
		t.Fatalf("expected slot interval override, got %s", cfg.SlotInterval)
	}
	if cfg.RateLimitRPS != 0.5 {
		t.Fatalf("expected rps override, got %v", cfg.RateLimitRPS)
	}
	if cfg.ContactMaxPerHour != 3 {
		t.Fatalf("expected contact limit override, got %d", cfg.ContactMaxPerHour)
	}
	if cfg.EmailProvider != "ses" {
		t.Fatalf("expected normalized provider, got %s", cfg.EmailProvider)
	}
}

func TestCalendarAutoDetection(t *testing.T) {
	clearCalendarEnv(t)
	t.Setenv("CALENDAR_ID", "shop@group.calendar.google.com")

	if Load().CalendarEnabled {
		t.Fatalf("expected calendar disabled when credentials are missing")
	}

	credsFile := filepath.Join(t.TempDir(), "service-account.json")
	if err := os.WriteFile(credsFile, []byte(`{"type":"service_account"}`), 0o600); err != nil {
		t.Fatalf("write creds: %v", err)
	}
	t.Setenv("GOOGLE_CREDENTIALS_FILE", credsFile)
	if !Load().CalendarEnabled {
		t.Fatalf("expected calendar enabled when credentials file exists")
	}

	t.Setenv("CALENDAR_ENABLED", "false")
	if Load().CalendarEnabled {
		t.Fatalf("expected explicit CALENDAR_ENABLED=false to win")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	clearCalendarEnv(t)
	t.Setenv("SHOP_TIMEZONE", "Mars/Olympus")
	t.Setenv("BUSINESS_HOURS_JSON", `{"monday":{"open":"17:00","close":"08:00"}}`)
	t.Setenv("CALENDAR_ENABLED", "true")
	t.Setenv("EMAIL_PROVIDER", "pigeon")

	err := Load().Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"SHOP_TIMEZONE", "BUSINESS_HOURS_JSON", "CALENDAR_ID", "GOOGLE_CREDENTIALS", "EMAIL_PROVIDER"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got %v", want, err)
		}
	}
}

func TestValidateRejectsClosedWeek(t *testing.T) {
	clearCalendarEnv(t)
	t.Setenv("SHOP_TIMEZONE", "")
	t.Setenv("EMAIL_PROVIDER", "")
	t.Setenv("SLOT_INTERVAL", "")
	t.Setenv("BUSINESS_HOURS_JSON", `{}`)

	err := Load().Validate()
	if err == nil || !strings.Contains(err.Error(), "at least one day must have opening hours") {
		t.Fatalf("expected closed-week error, got %v", err)
	}

	t.Setenv("BUSINESS_HOURS_JSON", `{"saturday":{"open":"08:00","close":"12:00"}}`)
	if err := Load().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBusinessHoursFromJSON(t *testing.T) {
	t.Setenv("BUSINESS_HOURS_JSON", `{"tuesday":{"open":"09:00","close":"13:00"}}`)
	hours, err := Load().BusinessHours()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hours.Tuesday == nil || hours.Tuesday.Open != "09:00" {
		t.Fatalf("expected tuesday hours, got %+v", hours.Tuesday)
	}
	if hours.Monday != nil {
		t.Fatalf("expected monday closed when omitted")
	}
}
