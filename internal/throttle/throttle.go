// Package throttle caps how often a single sender may use the contact form,
// counting submissions in Redis.
package throttle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/otodrive/otodrive-web/pkg/logging"
)

var throttleTracer = otel.Tracer("otodrive.internal.throttle")

// Config contains throttle limits.
type Config struct {
	// Max submissions per sender per window
	MaxPerWindow int
	Window       time.Duration
	// KeyPrefix namespaces the Redis keys
	KeyPrefix string
}

// DefaultConfig returns five submissions per hour.
func DefaultConfig() Config {
	return Config{
		MaxPerWindow: 5,
		Window:       time.Hour,
		KeyPrefix:    "throttle:contact",
	}
}

// Result contains the result of a throttle check.
type Result struct {
	Allowed      bool
	CurrentCount int
	MaxAllowed   int
	WindowExpiry time.Time
	Message      string
}

// Throttle counts submissions per sender. A nil Redis client disables it.
type Throttle struct {
	redis  *redis.Client
	logger *logging.Logger
	config Config
}

// New creates a new throttle.
func New(redisClient *redis.Client, config Config, logger *logging.Logger) *Throttle {
	if logger == nil {
		logger = logging.Default()
	}
	def := DefaultConfig()
	if config.MaxPerWindow <= 0 {
		config.MaxPerWindow = def.MaxPerWindow
	}
	if config.Window <= 0 {
		config.Window = def.Window
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = def.KeyPrefix
	}
	return &Throttle{
		redis:  redisClient,
		logger: logger,
		config: config,
	}
}

// Allow records one submission from sender and reports whether it is within
// the limit. Redis errors fail open.
func (t *Throttle) Allow(ctx context.Context, sender string) (*Result, error) {
	if t == nil || t.redis == nil {
		return &Result{Allowed: true}, nil
	}
	ctx, span := throttleTracer.Start(ctx, "throttle.allow")
	defer span.End()

	key := t.key(sender)
	count, expiry, err := t.incrementAndGet(ctx, key)
	if err != nil {
		t.logger.Error("throttle check failed", "error", err, "key", key)
		// Fail open - accept the submission if Redis is down
		return &Result{Allowed: true, Message: "throttle unavailable"}, nil
	}

	result := &Result{
		Allowed:      count <= t.config.MaxPerWindow,
		CurrentCount: count,
		MaxAllowed:   t.config.MaxPerWindow,
		WindowExpiry: expiry,
	}
	if !result.Allowed {
		result.Message = fmt.Sprintf("exceeded %d submissions in %s", t.config.MaxPerWindow, t.config.Window)
		t.logger.Warn("contact throttle exceeded", "sender", sender, "count", count, "max", t.config.MaxPerWindow)
		span.SetAttributes(attribute.Bool("throttle.exceeded", true))
	}
	return result, nil
}

// Reset clears the counter for sender.
func (t *Throttle) Reset(ctx context.Context, sender string) error {
	if t == nil || t.redis == nil {
		return nil
	}
	return t.redis.Del(ctx, t.key(sender)).Err()
}

func (t *Throttle) key(sender string) string {
	return fmt.Sprintf("%s:%s", t.config.KeyPrefix, strings.ToLower(strings.TrimSpace(sender)))
}

// incrementAndGet increments a counter and returns the new value with expiry time.
func (t *Throttle) incrementAndGet(ctx context.Context, key string) (int, time.Time, error) {
	count, err := t.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, time.Time{}, err
	}

	// Set expiry only on first increment
	if count == 1 {
		t.redis.Expire(ctx, key, t.config.Window)
	}

	ttl, err := t.redis.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = t.config.Window
	}
	return int(count), time.Now().Add(ttl), nil
}
