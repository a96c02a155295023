package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/otodrive/otodrive-web/internal/observability/metrics"
	"github.com/otodrive/otodrive-web/pkg/logging"
)

var googleTracer = otel.Tracer("otodrive.internal.calendar.google")

// GoogleConfig selects the target calendar and service-account credentials.
// CredentialsJSON takes precedence over CredentialsFile.
type GoogleConfig struct {
	CalendarID      string
	CredentialsJSON string
	CredentialsFile string
}

// CalendarSummary is one entry of the service account's calendar list.
type CalendarSummary struct {
	ID         string
	Summary    string
	AccessRole string
	TimeZone   string
	Primary    bool
}

// Google writes events through the Calendar v3 API.
type Google struct {
	svc        *gcal.Service
	calendarID string
	metrics    *metrics.SiteMetrics
	logger     *logging.Logger
}

// NewGoogle builds a Calendar client authenticated as a service account.
// Extra client options are applied after the credentials, which lets tests
// point the client at a local endpoint.
func NewGoogle(ctx context.Context, cfg GoogleConfig, m *metrics.SiteMetrics, logger *logging.Logger, extra ...option.ClientOption) (*Google, error) {
	if logger == nil {
		logger = logging.Default()
	}
	calendarID := strings.TrimSpace(cfg.CalendarID)
	if calendarID == "" {
		return nil, errors.New("calendar: calendar id is required")
	}

	opts := []option.ClientOption{option.WithScopes(gcal.CalendarScope)}
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	case len(extra) == 0:
		return nil, errors.New("calendar: service account credentials are required")
	}
	opts = append(opts, extra...)

	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("calendar: create service: %w", err)
	}
	return &Google{svc: svc, calendarID: calendarID, metrics: m, logger: logger}, nil
}

// CalendarID returns the calendar events are written to.
func (g *Google) CalendarID() string { return g.calendarID }

// InsertEvent creates ev in the configured calendar. Upstream errors are
// returned unwrapped so their message can be shown to the customer as-is.
func (g *Google) InsertEvent(ctx context.Context, ev Event) (Receipt, error) {
	ctx, span := googleTracer.Start(ctx, "calendar.insert_event")
	defer span.End()
	span.SetAttributes(
		attribute.String("otodrive.calendar_id", g.calendarID),
		attribute.String("otodrive.event_start", ev.Start.Format(time.RFC3339)),
	)

	started := time.Now()
	created, err := g.svc.Events.Insert(g.calendarID, toGoogleEvent(ev)).Context(ctx).Do()
	g.metrics.ObserveCalendarInsert(err == nil, time.Since(started).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		g.logger.Error("calendar insert failed", "error", err, "calendar_id", g.calendarID, "summary", ev.Summary)
		return Receipt{}, err
	}

	g.logger.Info("calendar event created", "event_id", created.Id, "calendar_id", g.calendarID)
	return Receipt{Recorded: true, EventID: created.Id, HTMLLink: created.HtmlLink}, nil
}

// ListCalendars returns the calendars visible to the service account.
func (g *Google) ListCalendars(ctx context.Context) ([]CalendarSummary, error) {
	ctx, span := googleTracer.Start(ctx, "calendar.list_calendars")
	defer span.End()

	list, err := g.svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("calendar: list calendars: %w", err)
	}
	out := make([]CalendarSummary, 0, len(list.Items))
	for _, item := range list.Items {
		out = append(out, CalendarSummary{
			ID:         item.Id,
			Summary:    item.Summary,
			AccessRole: item.AccessRole,
			TimeZone:   item.TimeZone,
			Primary:    item.Primary,
		})
	}
	return out, nil
}

// DeleteEvent removes an event from the configured calendar.
func (g *Google) DeleteEvent(ctx context.Context, eventID string) error {
	ctx, span := googleTracer.Start(ctx, "calendar.delete_event")
	defer span.End()

	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return errors.New("calendar: event id is required")
	}
	if err := g.svc.Events.Delete(g.calendarID, eventID).Context(ctx).Do(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("calendar: delete event %s: %w", eventID, err)
	}
	return nil
}

func toGoogleEvent(ev Event) *gcal.Event {
	overrides := make([]*gcal.EventReminder, 0, len(ev.Reminders))
	for _, r := range ev.Reminders {
		overrides = append(overrides, &gcal.EventReminder{Method: r.Method, Minutes: int64(r.Minutes)})
	}
	return &gcal.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		Start:       &gcal.EventDateTime{DateTime: ev.Start.Format(time.RFC3339), TimeZone: ev.TimeZone},
		End:         &gcal.EventDateTime{DateTime: ev.End.Format(time.RFC3339), TimeZone: ev.TimeZone},
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides:  overrides,
			// UseDefault=false is dropped from the request body unless forced.
			ForceSendFields: []string{"UseDefault"},
		},
	}
}
