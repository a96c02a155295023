// Package schedule holds the shop's business-hours policy and the slot
// calculator built on top of it.
package schedule

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DayHours represents the opening hours for a single day as a half-open
// window [Open, Close). Nil means the shop is closed that day.
type DayHours struct {
	Open  string `json:"open"`  // "08:00" in 24-hour format
	Close string `json:"close"` // "17:00" in 24-hour format
}

// BusinessHours maps day names to their hours.
type BusinessHours struct {
	Monday    *DayHours `json:"monday,omitempty"`
	Tuesday   *DayHours `json:"tuesday,omitempty"`
	Wednesday *DayHours `json:"wednesday,omitempty"`
	Thursday  *DayHours `json:"thursday,omitempty"`
	Friday    *DayHours `json:"friday,omitempty"`
	Saturday  *DayHours `json:"saturday,omitempty"`
	Sunday    *DayHours `json:"sunday,omitempty"`
}

// DefaultBusinessHours is the shop's published schedule: weekdays 08:00-17:00,
// Saturday 08:00-12:00, closed Sunday.
func DefaultBusinessHours() BusinessHours {
	weekday := func() *DayHours { return &DayHours{Open: "08:00", Close: "17:00"} }
	return BusinessHours{
		Monday:    weekday(),
		Tuesday:   weekday(),
		Wednesday: weekday(),
		Thursday:  weekday(),
		Friday:    weekday(),
		Saturday:  &DayHours{Open: "08:00", Close: "12:00"},
	}
}

// ParseBusinessHours decodes a JSON hours table such as
// {"monday":{"open":"08:00","close":"17:00"}}. Days that are omitted are closed.
func ParseBusinessHours(raw string) (BusinessHours, error) {
	var hours BusinessHours
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&hours); err != nil {
		return BusinessHours{}, fmt.Errorf("schedule: decode business hours: %w", err)
	}
	if err := hours.Validate(); err != nil {
		return BusinessHours{}, err
	}
	return hours, nil
}

// GetHoursForDay returns the hours for a given weekday (0=Sunday, 6=Saturday).
func (b *BusinessHours) GetHoursForDay(weekday time.Weekday) *DayHours {
	switch weekday {
	case time.Sunday:
		return b.Sunday
	case time.Monday:
		return b.Monday
	case time.Tuesday:
		return b.Tuesday
	case time.Wednesday:
		return b.Wednesday
	case time.Thursday:
		return b.Thursday
	case time.Friday:
		return b.Friday
	case time.Saturday:
		return b.Saturday
	default:
		return nil
	}
}

// HasAnyHours returns true if at least one day has business hours configured.
func (b *BusinessHours) HasAnyHours() bool {
	return b.Sunday != nil || b.Monday != nil || b.Tuesday != nil ||
		b.Wednesday != nil || b.Thursday != nil || b.Friday != nil || b.Saturday != nil
}

// Validate checks that every configured day has parseable times and opens
// before it closes.
func (b *BusinessHours) Validate() error {
	for d := time.Sunday; d <= time.Saturday; d++ {
		hours := b.GetHoursForDay(d)
		if hours == nil {
			continue
		}
		if _, err := hours.window(); err != nil {
			return fmt.Errorf("schedule: %s: %w", strings.ToLower(d.String()), err)
		}
	}
	return nil
}

// window is a day's opening window in minutes after local midnight.
type window struct {
	open  int
	close int
}

func (w window) contains(minute int) bool {
	return minute >= w.open && minute < w.close
}

func (h *DayHours) window() (window, error) {
	open, err := parseClock(h.Open)
	if err != nil {
		return window{}, fmt.Errorf("open %q: %w", h.Open, err)
	}
	closeAt, err := parseClock(h.Close)
	if err != nil {
		return window{}, fmt.Errorf("close %q: %w", h.Close, err)
	}
	if closeAt <= open {
		return window{}, fmt.Errorf("close %s must be after open %s", h.Close, h.Open)
	}
	return window{open: open, close: closeAt}, nil
}

// parseClock converts "HH:MM" to minutes after midnight. "24:00" is accepted as
// end of day.
func parseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "24:00" {
		return 24 * 60, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("want HH:MM")
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
