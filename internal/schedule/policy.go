package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultSlotInterval is the spacing between bookable start times.
const DefaultSlotInterval = 30 * time.Minute

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// ErrInvalidDateTime is returned when a date or time string cannot be parsed.
var ErrInvalidDateTime = errors.New("schedule: invalid date or time")

// Policy is the shop's business-hours policy in a single fixed timezone. It is
// immutable after construction and safe for concurrent use.
type Policy struct {
	loc      *time.Location
	windows  [7]*window
	interval time.Duration
}

// NewPolicy builds a policy for the named IANA timezone. A zero interval uses
// DefaultSlotInterval.
func NewPolicy(timezone string, hours BusinessHours, interval time.Duration) (*Policy, error) {
	loc, err := time.LoadLocation(strings.TrimSpace(timezone))
	if err != nil {
		return nil, fmt.Errorf("schedule: load timezone %q: %w", timezone, err)
	}
	return NewPolicyInLocation(loc, hours, interval)
}

// NewPolicyInLocation is NewPolicy for an already-resolved location.
func NewPolicyInLocation(loc *time.Location, hours BusinessHours, interval time.Duration) (*Policy, error) {
	if loc == nil {
		return nil, errors.New("schedule: location is required")
	}
	if interval == 0 {
		interval = DefaultSlotInterval
	}
	if interval < time.Minute || interval%time.Minute != 0 {
		return nil, fmt.Errorf("schedule: slot interval must be a whole number of minutes, got %s", interval)
	}
	p := &Policy{loc: loc, interval: interval}
	for d := time.Sunday; d <= time.Saturday; d++ {
		dh := hours.GetHoursForDay(d)
		if dh == nil {
			continue
		}
		w, err := dh.window()
		if err != nil {
			return nil, fmt.Errorf("schedule: %s: %w", strings.ToLower(d.String()), err)
		}
		p.windows[d] = &w
	}
	return p, nil
}

// Location returns the shop timezone.
func (p *Policy) Location() *time.Location { return p.loc }

// Timezone returns the IANA name of the shop timezone.
func (p *Policy) Timezone() string { return p.loc.String() }

// Interval returns the slot spacing.
func (p *Policy) Interval() time.Duration { return p.interval }

// IsOpenAt reports whether t falls inside the opening window of its weekday in
// the shop timezone. Seconds are ignored; the window is [open, close).
func (p *Policy) IsOpenAt(t time.Time) bool {
	local := t.In(p.loc)
	w := p.windows[local.Weekday()]
	if w == nil {
		return false
	}
	return w.contains(local.Hour()*60 + local.Minute())
}

// ParseDate parses a "YYYY-MM-DD" calendar date as local midnight.
func (p *Policy) ParseDate(date string) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(date), p.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidDateTime, date)
	}
	return day, nil
}

// ParseDateTime combines a "YYYY-MM-DD" date and an "HH:MM" time into an
// instant in the shop timezone. Both parts must be in canonical form; "9:00"
// is rejected even though the time package would accept it.
func (p *Policy) ParseDateTime(date, clock string) (time.Time, error) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	value := date + " " + clock
	t, err := time.ParseInLocation(dateTimeLayout, value, p.loc)
	if err != nil || t.Format(dateTimeLayout) != value {
		return time.Time{}, fmt.Errorf("%w: %q %q", ErrInvalidDateTime, date, clock)
	}
	return t, nil
}

// IsWithinBusinessHours parses the pair and checks it against the weekly hours.
func (p *Policy) IsWithinBusinessHours(date, clock string) (bool, error) {
	t, err := p.ParseDateTime(date, clock)
	if err != nil {
		return false, err
	}
	return p.IsOpenAt(t), nil
}
