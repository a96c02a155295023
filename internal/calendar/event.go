// Package calendar creates appointment events in the shop's Google Calendar.
// When no credentials are configured the Disabled integration accepts every
// event without recording it.
package calendar

import (
	"context"
	"time"
)

// DisabledMessage is shown to customers when bookings are accepted without a
// calendar entry.
const DisabledMessage = "Booking received! Calendar integration is currently disabled."

// Reminder is a notification override on an event.
type Reminder struct {
	Method  string // "email" or "popup"
	Minutes int
}

// Event is the provider-neutral appointment payload.
type Event struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	TimeZone    string
	Reminders   []Reminder
}

// Receipt describes what the integration did with an event.
type Receipt struct {
	// Recorded is false when the integration is switched off.
	Recorded bool
	EventID  string
	HTMLLink string
	// Note is an informational message for the customer, if any.
	Note string
}

// Integration inserts events into an external calendar.
type Integration interface {
	InsertEvent(ctx context.Context, ev Event) (Receipt, error)
}

// Disabled is the Integration used when the calendar is not configured.
type Disabled struct{}

// InsertEvent accepts the event without contacting any service.
func (Disabled) InsertEvent(context.Context, Event) (Receipt, error) {
	return Receipt{Recorded: false, Note: DisabledMessage}, nil
}

// Enabled reports whether integration writes to a real calendar.
func Enabled(integration Integration) bool {
	if integration == nil {
		return false
	}
	switch integration.(type) {
	case Disabled, *Disabled:
		return false
	}
	return true
}
