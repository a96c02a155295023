package booking

import "strings"

// Request is a customer's booking submission.
type Request struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Vehicle string `json:"vehicle"`
	Date    string `json:"date"` // YYYY-MM-DD
	Time    string `json:"time"` // HH:MM
	Service string `json:"service"`
}

// Normalize returns a copy with surrounding whitespace removed from every field.
func (r Request) Normalize() Request {
	return Request{
		Name:    strings.TrimSpace(r.Name),
		Phone:   strings.TrimSpace(r.Phone),
		Vehicle: strings.TrimSpace(r.Vehicle),
		Date:    strings.TrimSpace(r.Date),
		Time:    strings.TrimSpace(r.Time),
		Service: strings.TrimSpace(r.Service),
	}
}

// Validate checks that every field is present after trimming.
func (r Request) Validate() error {
	n := r.Normalize()
	for _, v := range []string{n.Name, n.Phone, n.Vehicle, n.Date, n.Time, n.Service} {
		if v == "" {
			return &Error{Kind: KindValidation, Err: ErrMissingFields}
		}
	}
	return nil
}
