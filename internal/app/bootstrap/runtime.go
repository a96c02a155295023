package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/otodrive/otodrive-web/internal/api/router"
	"github.com/otodrive/otodrive-web/internal/booking"
	"github.com/otodrive/otodrive-web/internal/calendar"
	appconfig "github.com/otodrive/otodrive-web/internal/config"
	"github.com/otodrive/otodrive-web/internal/contact"
	httpmiddleware "github.com/otodrive/otodrive-web/internal/http/middleware"
	"github.com/otodrive/otodrive-web/internal/notify"
	"github.com/otodrive/otodrive-web/internal/observability/metrics"
	"github.com/otodrive/otodrive-web/internal/schedule"
	"github.com/otodrive/otodrive-web/internal/throttle"
	"github.com/otodrive/otodrive-web/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, contact throttle disabled", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// LoadAWSConfig loads the SDK config for the SES sender. Static keys win over
// the default credential chain when both are set.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	loaders := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}
	return awsconfig.LoadDefaultConfig(ctx, loaders...)
}

// EmailProvider resolves "auto" to the first provider with credentials.
func EmailProvider(cfg *appconfig.Config) string {
	switch cfg.EmailProvider {
	case "sendgrid", "ses", "stub":
		return cfg.EmailProvider
	}
	switch {
	case strings.TrimSpace(cfg.SendGridAPIKey) != "":
		return "sendgrid"
	case strings.TrimSpace(cfg.SESFromEmail) != "":
		return "ses"
	default:
		return "stub"
	}
}

// BuildEmailSender returns the sender for contact form notifications.
func BuildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (notify.EmailSender, error) {
	if logger == nil {
		logger = logging.Default()
	}
	provider := EmailProvider(cfg)
	switch provider {
	case "sendgrid":
		if cfg.SendGridAPIKey == "" || cfg.SendGridFromEmail == "" {
			return nil, fmt.Errorf("bootstrap: sendgrid requires SENDGRID_API_KEY and SENDGRID_FROM_EMAIL")
		}
		logger.Info("email provider configured", "provider", provider)
		return notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger), nil
	case "ses":
		if cfg.SESFromEmail == "" {
			return nil, fmt.Errorf("bootstrap: ses requires SES_FROM_EMAIL")
		}
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: load aws config: %w", err)
		}
		client := sesv2.NewFromConfig(awsCfg, func(o *sesv2.Options) {
			if endpoint := strings.TrimSpace(cfg.AWSEndpointOverride); endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
		})
		logger.Info("email provider configured", "provider", provider, "region", cfg.AWSRegion)
		return notify.NewSESSender(client, notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger), nil
	default:
		logger.Warn("no email provider configured, contact messages will only be logged")
		return notify.NewStubEmailSender(logger), nil
	}
}

// BuildPolicy returns the shop's booking policy.
func BuildPolicy(cfg *appconfig.Config) (*schedule.Policy, error) {
	hours, err := cfg.BusinessHours()
	if err != nil {
		return nil, fmt.Errorf("bootstrap: business hours: %w", err)
	}
	return schedule.NewPolicy(cfg.ShopTimezone, hours, cfg.SlotInterval)
}

// BuildCalendarIntegration returns the Google integration when the calendar
// is enabled and the Disabled integration otherwise.
func BuildCalendarIntegration(ctx context.Context, cfg *appconfig.Config, m *metrics.SiteMetrics, logger *logging.Logger) (calendar.Integration, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.CalendarEnabled {
		logger.Warn("calendar integration disabled, bookings will not be recorded")
		return calendar.Disabled{}, nil
	}
	google, err := calendar.NewGoogle(ctx, GoogleConfig(cfg), m, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("calendar integration enabled", "calendar_id", google.CalendarID())
	return google, nil
}

// GoogleConfig maps application config onto the calendar client settings.
func GoogleConfig(cfg *appconfig.Config) calendar.GoogleConfig {
	return calendar.GoogleConfig{
		CalendarID:      cfg.CalendarID,
		CredentialsJSON: cfg.GoogleCredentials,
		CredentialsFile: cfg.GoogleCredentialsFile,
	}
}

// BuildContactThrottle returns the per-sender contact limit. A nil client
// yields a throttle that allows everything.
func BuildContactThrottle(redisClient *redis.Client, cfg *appconfig.Config, logger *logging.Logger) *throttle.Throttle {
	return throttle.New(redisClient, throttle.Config{
		MaxPerWindow: cfg.ContactMaxPerHour,
		Window:       time.Hour,
	}, logger)
}

// Runtime is the fully wired API server.
type Runtime struct {
	Handler     http.Handler
	Submitter   *booking.Submitter
	Contact     *contact.Service
	RateLimiter *httpmiddleware.RateLimiter
	Redis       *redis.Client
}

// Options overrides dependencies that are otherwise built from config.
type Options struct {
	Registry    *prometheus.Registry
	Integration calendar.Integration
	EmailSender notify.EmailSender
	Redis       *redis.Client
}

// NewRuntime wires every component of the API server from cfg.
func NewRuntime(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, opts Options) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := metrics.NewSiteMetrics(reg)

	policy, err := BuildPolicy(cfg)
	if err != nil {
		return nil, err
	}

	integration := opts.Integration
	if integration == nil {
		integration, err = BuildCalendarIntegration(ctx, cfg, m, logger.Component("calendar"))
		if err != nil {
			return nil, err
		}
	}

	submitter, err := booking.NewSubmitter(booking.Options{
		Policy:      policy,
		Integration: integration,
		ShopName:    cfg.ShopName,
		Location:    cfg.ShopLocation,
		Metrics:     m,
		Logger:      logger.Component("booking"),
	})
	if err != nil {
		return nil, err
	}

	sender := opts.EmailSender
	if sender == nil {
		sender, err = BuildEmailSender(ctx, cfg, logger.Component("notify"))
		if err != nil {
			return nil, err
		}
	}

	redisClient := opts.Redis
	if redisClient == nil {
		redisClient = BuildRedisClient(ctx, cfg, logger, true)
	}
	contactSvc, err := contact.NewService(sender, BuildContactThrottle(redisClient, cfg, logger.Component("throttle")), cfg.ContactToEmail, m, logger.Component("contact"))
	if err != nil {
		return nil, err
	}

	var limiter *httpmiddleware.RateLimiter
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst > 0 {
		limiter = httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	handler := router.New(&router.Config{
		Logger:             logger,
		BookingHandler:     booking.NewHandler(submitter, logger.Component("booking")),
		ContactHandler:     contact.NewHandler(contactSvc, logger.Component("contact")),
		CalendarEnabled:    submitter.CalendarEnabled(),
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CorsAllowedOrigins,
		RateLimiter:        limiter,
		StaticDir:          cfg.StaticDir,
	})

	return &Runtime{
		Handler:     handler,
		Submitter:   submitter,
		Contact:     contactSvc,
		RateLimiter: limiter,
		Redis:       redisClient,
	}, nil
}
