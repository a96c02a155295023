package schedule

import (
	"strings"
	"time"
)

// TimeSlot is a bookable start time on a given date.
type TimeSlot struct {
	Time      string `json:"time"` // "HH:MM"
	Available bool   `json:"available"`
}

// GenerateSlots returns the ordered start times for date ("YYYY-MM-DD"). Every
// slot is available; the result depends only on the weekday. An unparsable
// date or a closed day yields an empty slice.
func (p *Policy) GenerateSlots(date string) []TimeSlot {
	day, err := p.ParseDate(date)
	if err != nil {
		return []TimeSlot{}
	}
	return p.slotsForWeekday(day.Weekday())
}

func (p *Policy) slotsForWeekday(weekday time.Weekday) []TimeSlot {
	w := p.windows[weekday]
	if w == nil {
		return []TimeSlot{}
	}
	step := int(p.interval / time.Minute)
	slots := make([]TimeSlot, 0, (w.close-w.open+step-1)/step)
	for m := w.open; m < w.close; m += step {
		slots = append(slots, TimeSlot{Time: formatClock(m), Available: true})
	}
	return slots
}

// IsSlotBookable reports whether clock is one of the available slots on date.
func (p *Policy) IsSlotBookable(date, clock string) bool {
	clock = strings.TrimSpace(clock)
	for _, s := range p.GenerateSlots(date) {
		if s.Time == clock {
			return s.Available
		}
	}
	return false
}

// DisplaySlots layers presentation rules over GenerateSlots: slots that start
// before now, or that fall outside the opening window,
// are marked unavailable. The calculator's own result is not modified.
func (p *Policy) DisplaySlots(date string, now time.Time) []TimeSlot {
	return p.RefineForDisplay(date, p.GenerateSlots(date), now)
}

// RefineForDisplay returns a copy of slots with past or closed entries marked
// unavailable.
func (p *Policy) RefineForDisplay(date string, slots []TimeSlot, now time.Time) []TimeSlot {
	out := make([]TimeSlot, len(slots))
	copy(out, slots)
	now = now.In(p.loc)
	for i := range out {
		start, err := p.ParseDateTime(date, out[i].Time)
		if err != nil {
			out[i].Available = false
			continue
		}
		if start.Before(now) || !p.IsOpenAt(start) {
			out[i].Available = false
		}
	}
	return out
}
