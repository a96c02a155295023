// Package contact handles the website's "get in touch" form and forwards
// accepted messages to the shop's inbox.
package contact

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalid is returned when one or more fields fail validation
	ErrInvalid = errors.New("contact: invalid submission")

	// ErrThrottled is returned when a sender exceeds the submission limit
	ErrThrottled = errors.New("contact: too many submissions")

	// ErrDelivery is returned when the email could not be sent
	ErrDelivery = errors.New("contact: delivery failed")
)

var (
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Submission is one contact form post.
type Submission struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// FieldErrors maps a field name to the message shown next to it.
type FieldErrors map[string]string

// ValidationError carries per-field messages and matches ErrInvalid.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %d field(s)", ErrInvalid.Error(), len(e.Fields))
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalid }

// Normalize trims every field.
func (s Submission) Normalize() Submission {
	return Submission{
		Name:    strings.TrimSpace(s.Name),
		Phone:   strings.TrimSpace(s.Phone),
		Email:   strings.TrimSpace(s.Email),
		Message: strings.TrimSpace(s.Message),
	}
}

// Validate checks the normalized submission.
func (s Submission) Validate() error {
	n := s.Normalize()
	fields := FieldErrors{}
	if n.Name == "" {
		fields["name"] = "Full Name is required."
	}
	if !phonePattern.MatchString(n.Phone) {
		fields["phone"] = "Phone Number must be 10 digits."
	}
	if !emailPattern.MatchString(n.Email) {
		fields["email"] = "Invalid Email Address."
	}
	if n.Message == "" {
		fields["message"] = "Message cannot be empty."
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Body renders the plain-text email sent to the shop.
func (s Submission) Body() string {
	return fmt.Sprintf("Name: %s\nPhone: %s\nEmail: %s\nMessage:\n%s", s.Name, s.Phone, s.Email, s.Message)
}
