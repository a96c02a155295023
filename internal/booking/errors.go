package booking

import (
	"errors"
)

// Customer-facing messages carried in Result.Error / Result.Message.
const (
	MsgMissingFields   = "Missing required fields."
	MsgInvalidDateTime = "Invalid date or time format."
	MsgOutsideHours    = "Selected time is outside business hours."
	MsgSlotUnavailable = "Selected time is not an available booking slot."
	MsgGenericFailure  = "Booking failed. Please try again."
)

var (
	// ErrMissingFields is returned when any request field is blank
	ErrMissingFields = errors.New("booking: missing required fields")

	// ErrInvalidDateTime is returned when date or time cannot be parsed
	ErrInvalidDateTime = errors.New("booking: invalid date or time")

	// ErrOutsideHours is returned when the requested time is outside business hours
	ErrOutsideHours = errors.New("booking: outside business hours")

	// ErrSlotUnavailable is returned when the time is open but not a slot start
	ErrSlotUnavailable = errors.New("booking: not an available slot")
)

// Kind classifies a booking failure.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindBusinessHours Kind = "business_hours"
	KindUpstream      Kind = "upstream"
)

// Error is a classified booking failure. Upstream errors keep the calendar
// provider's message as their text.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or "" if err is not a *Error.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

// publicMessage maps a failure onto the text shown to the customer.
func publicMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingFields):
		return MsgMissingFields
	case errors.Is(err, ErrInvalidDateTime):
		return MsgInvalidDateTime
	case errors.Is(err, ErrOutsideHours):
		return MsgOutsideHours
	case errors.Is(err, ErrSlotUnavailable):
		return MsgSlotUnavailable
	case KindOf(err) == KindUpstream:
		return err.Error()
	default:
		return MsgGenericFailure
	}
}
