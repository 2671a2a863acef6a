// Package report validates finder sighting reports before they are stored.
// Reports are append-only: once accepted they are never updated or deleted.
package report

import (
	"errors"
	"fmt"
	"strings"
)

// Kind says how the finder is helping: they have the pet with them, or they
// saw it nearby.
type Kind string

const (
	KindHave Kind = "have"
	KindSaw  Kind = "saw"
)

// ValidationError describes a rejected report. It maps to a 400 response.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate checks a submitted report and returns the trimmed message on
// success. No authentication is required for submission — the public pet
// page works without an account — so this is the only gate before insert.
func Validate(petID string, kind Kind, message string) (string, error) {
	if strings.TrimSpace(petID) == "" {
		return "", &ValidationError{msg: "petId is required."}
	}
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return "", &ValidationError{msg: "A short message is required."}
	}
	if kind != KindHave && kind != KindSaw {
		return "", &ValidationError{msg: fmt.Sprintf("Invalid report type %q. Expected 'have' or 'saw'.", kind)}
	}
	return trimmed, nil
}
