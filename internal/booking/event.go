package booking

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/otodrive/otodrive-web/internal/calendar"
)

const (
	calendarRenderURL = "https://calendar.google.com/calendar/render?action=TEMPLATE"
	gcalStampLayout   = "20060102T150405Z"
)

// DefaultReminders are email reminders two days and one day before the visit.
func DefaultReminders() []calendar.Reminder {
	return []calendar.Reminder{
		{Method: "email", Minutes: 48 * 60},
		{Method: "email", Minutes: 24 * 60},
	}
}

// Description renders the booking details block used in the calendar event and
// the deep link.
func Description(r Request) string {
	return fmt.Sprintf("Name: %s\nPhone: %s\nVehicle: %s\nService: %s\nDate: %s\nTime: %s",
		r.Name, r.Phone, r.Vehicle, r.Service, r.Date, r.Time)
}

// BuildEvent derives the calendar event for a normalized request starting at
// start.
func (s *Submitter) BuildEvent(r Request, start time.Time) calendar.Event {
	return calendar.Event{
		Summary:     fmt.Sprintf("%s Booking: %s", s.shopName, r.Service),
		Description: Description(r),
		Location:    s.location,
		Start:       start,
		End:         start.Add(s.duration),
		TimeZone:    s.policy.Timezone(),
		Reminders:   s.reminders,
	}
}

// DeepLink builds a Google Calendar "add event" URL for ev. Free text is
// percent-encoded with %20 for spaces; dates are UTC stamps.
func DeepLink(ev calendar.Event) string {
	var b strings.Builder
	b.WriteString(calendarRenderURL)
	b.WriteString("&text=")
	b.WriteString(encodeComponent(ev.Summary))
	b.WriteString("&dates=")
	b.WriteString(ev.Start.UTC().Format(gcalStampLayout))
	b.WriteString("/")
	b.WriteString(ev.End.UTC().Format(gcalStampLayout))
	b.WriteString("&details=")
	b.WriteString(encodeComponent(ev.Description))
	b.WriteString("&location=")
	b.WriteString(encodeComponent(ev.Location))
	if ev.TimeZone != "" {
		b.WriteString("&ctz=")
		b.WriteString(strings.ReplaceAll(encodeComponent(ev.TimeZone), "%2F", "/"))
	}
	return b.String()
}

// componentUnescape undoes the query escaping of the characters that browsers'
// encodeURIComponent leaves literal, and spells spaces as %20.
var componentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func encodeComponent(s string) string {
	return componentUnescape.Replace(url.QueryEscape(s))
}
