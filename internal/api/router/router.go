package router

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/otodrive/otodrive-web/internal/booking"
	"github.com/otodrive/otodrive-web/internal/contact"
	httpmiddleware "github.com/otodrive/otodrive-web/internal/http/middleware"
	"github.com/otodrive/otodrive-web/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	BookingHandler     *booking.Handler
	ContactHandler     *contact.Handler
	CalendarEnabled    bool
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	// RateLimiter applies to /api routes when set.
	RateLimiter *httpmiddleware.RateLimiter
	// StaticDir serves the marketing site when set.
	StaticDir string
	// Now overrides the clock used by the health endpoint.
	Now func() time.Time
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.RateLimiter != nil {
			api.Use(httpmiddleware.RateLimit(cfg.RateLimiter))
		}
		api.Get("/health", healthHandler(cfg.CalendarEnabled, cfg.Now))
		if cfg.BookingHandler != nil {
			api.Get("/slots", cfg.BookingHandler.ListSlots)
			api.Post("/book", cfg.BookingHandler.CreateBooking)
		}
		if cfg.ContactHandler != nil {
			api.Post("/contact", cfg.ContactHandler.Submit)
		}
	})

	// Marketing site, mounted last so API routes take precedence.
	if cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return r
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status          string `json:"status"`
	CalendarEnabled bool   `json:"calendarEnabled"`
	Timestamp       string `json:"timestamp"`
}

func healthHandler(calendarEnabled bool, now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status:          "ok",
			CalendarEnabled: calendarEnabled,
			Timestamp:       now().UTC().Format(time.RFC3339Nano),
		})
	}
}
