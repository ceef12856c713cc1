package leads

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Record is the contact information captured by the lead form.
type Record struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Captured is a validated record plus the context the relay attaches to it.
type Captured struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"sessionId,omitempty"`
	Record     Record    `json:"record"`
	CapturedAt time.Time `json:"capturedAt"`
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var (
	ErrMissingFields = &ValidationError{Field: "name/email", Reason: "Name and email are required"}
	ErrInvalidEmail  = &ValidationError{Field: "email", Reason: "Invalid email format"}
)

// Normalize trims every field.
func (r Record) Normalize() Record {
	return Record{
		Name:  strings.TrimSpace(r.Name),
		Email: strings.TrimSpace(r.Email),
		Phone: strings.TrimSpace(r.Phone),
	}
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// Validate checks a normalized record. Phone is free-form and optional.
func (r Record) Validate() error {
	if r.Name == "" || r.Email == "" {
		return ErrMissingFields
	}
	if !ValidEmail(r.Email) {
		return ErrInvalidEmail
	}
	return nil
}
