// Package booking turns a customer's booking request into a calendar event and
// an "add to calendar" link, validating it against the shop's business hours.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/otodrive/otodrive-web/internal/calendar"
	"github.com/otodrive/otodrive-web/internal/observability/metrics"
	"github.com/otodrive/otodrive-web/internal/schedule"
	"github.com/otodrive/otodrive-web/pkg/logging"
)

var bookingTracer = otel.Tracer("otodrive.internal.booking")

// Outcome labels a submission for logs and metrics.
type Outcome string

const (
	OutcomeAccepted         Outcome = "accepted"
	OutcomeCalendarDisabled Outcome = "calendar_disabled"
	OutcomeInvalid          Outcome = "invalid"
	OutcomeOutsideHours     Outcome = "outside_hours"
	OutcomeSlotUnavailable  Outcome = "slot_unavailable"
	OutcomeUpstreamError    Outcome = "upstream_error"
)

// Result is the uniform response to a booking submission.
type Result struct {
	Success bool `json:"success"`
	// CalendarURL is always present in JSON; null when no link is offered.
	CalendarURL *string `json:"calendarUrl"`
	Error       string  `json:"error,omitempty"`
	Message     string  `json:"message,omitempty"`
	Outcome     Outcome `json:"-"`
}

// Options configures a Submitter.
type Options struct {
	Policy      *schedule.Policy
	Integration calendar.Integration
	ShopName    string
	Location    string
	// Duration of each appointment; defaults to one hour.
	Duration  time.Duration
	Reminders []calendar.Reminder
	Metrics   *metrics.SiteMetrics
	Logger    *logging.Logger
}

// Submitter validates bookings and forwards them to the calendar integration.
// It holds no mutable state and is safe for concurrent use.
type Submitter struct {
	policy      *schedule.Policy
	integration calendar.Integration
	shopName    string
	location    string
	duration    time.Duration
	reminders   []calendar.Reminder
	metrics     *metrics.SiteMetrics
	logger      *logging.Logger
}

// NewSubmitter creates a Submitter. A nil Integration means the calendar is
// disabled.
func NewSubmitter(opts Options) (*Submitter, error) {
	if opts.Policy == nil {
		return nil, errors.New("booking: schedule policy is required")
	}
	if opts.Integration == nil {
		opts.Integration = calendar.Disabled{}
	}
	if strings.TrimSpace(opts.ShopName) == "" {
		opts.ShopName = "Otodrive"
	}
	if opts.Duration <= 0 {
		opts.Duration = time.Hour
	}
	if opts.Reminders == nil {
		opts.Reminders = DefaultReminders()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	return &Submitter{
		policy:      opts.Policy,
		integration: opts.Integration,
		shopName:    strings.TrimSpace(opts.ShopName),
		location:    strings.TrimSpace(opts.Location),
		duration:    opts.Duration,
		reminders:   opts.Reminders,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
	}, nil
}

// Policy returns the business-hours policy the submitter validates against.
func (s *Submitter) Policy() *schedule.Policy { return s.policy }

// CalendarEnabled reports whether accepted bookings are written to a calendar.
func (s *Submitter) CalendarEnabled() bool { return calendar.Enabled(s.integration) }

// Submit validates req and, when it is acceptable, inserts the calendar event.
// Exactly one Result is returned for every input. The insert is not cancelled
// when ctx is, so a disconnecting client cannot leave it half-issued.
func (s *Submitter) Submit(ctx context.Context, req Request) Result {
	ctx, span := bookingTracer.Start(ctx, "booking.submit")
	defer span.End()

	req = req.Normalize()
	span.SetAttributes(
		attribute.String("otodrive.booking_date", req.Date),
		attribute.String("otodrive.booking_time", req.Time),
		attribute.String("otodrive.service", req.Service),
	)

	result := s.submit(ctx, req)
	span.SetAttributes(attribute.String("otodrive.outcome", string(result.Outcome)))
	if !result.Success {
		span.SetStatus(codes.Error, string(result.Outcome))
	}
	s.metrics.ObserveBooking(string(result.Outcome))
	return result
}

func (s *Submitter) submit(ctx context.Context, req Request) Result {
	start, err := s.check(req)
	if err != nil {
		outcome := outcomeFor(err)
		s.logger.Info("booking rejected", "outcome", outcome, "date", req.Date, "time", req.Time, "reason", err)
		return Result{Success: false, Error: publicMessage(err), Outcome: outcome}
	}

	ev := s.BuildEvent(req, start)
	link := DeepLink(ev)

	receipt, err := s.integration.InsertEvent(context.WithoutCancel(ctx), ev)
	if err != nil {
		err = &Error{Kind: KindUpstream, Err: err}
		s.logger.Error("booking calendar insert failed", "error", err, "date", req.Date, "time", req.Time, "service", req.Service)
		return Result{Success: false, Error: publicMessage(err), Outcome: OutcomeUpstreamError}
	}

	if !receipt.Recorded {
		s.logger.Info("booking received without calendar entry",
			"name", req.Name, "vehicle", req.Vehicle, "service", req.Service, "date", req.Date, "time", req.Time)
		return Result{Success: true, CalendarURL: nil, Message: receipt.Note, Outcome: OutcomeCalendarDisabled}
	}

	s.logger.Info("booking accepted", "event_id", receipt.EventID, "service", req.Service, "date", req.Date, "time", req.Time)
	return Result{Success: true, CalendarURL: &link, Message: receipt.Note, Outcome: OutcomeAccepted}
}

// check runs the request through field, format, business-hours and slot
// validation in that order and returns the local start time.
func (s *Submitter) check(req Request) (time.Time, error) {
	if err := req.Validate(); err != nil {
		return time.Time{}, err
	}
	start, err := s.policy.ParseDateTime(req.Date, req.Time)
	if err != nil {
		return time.Time{}, &Error{Kind: KindValidation, Err: fmt.Errorf("%w: %v", ErrInvalidDateTime, err)}
	}
	if !s.policy.IsOpenAt(start) {
		return time.Time{}, &Error{Kind: KindBusinessHours, Err: ErrOutsideHours}
	}
	if !s.policy.IsSlotBookable(req.Date, req.Time) {
		return time.Time{}, &Error{Kind: KindBusinessHours, Err: ErrSlotUnavailable}
	}
	return start, nil
}

func outcomeFor(err error) Outcome {
	switch {
	case errors.Is(err, ErrOutsideHours):
		return OutcomeOutsideHours
	case errors.Is(err, ErrSlotUnavailable):
		return OutcomeSlotUnavailable
	case KindOf(err) == KindUpstream:
		return OutcomeUpstreamError
	default:
		return OutcomeInvalid
	}
}
