// Package domain holds the quote entities and the errors the application
// layer reasons about. Nothing here knows about HTTP or SQL; adapters map
// these errors to status codes.
package domain

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. The typed errors below match them.
var (
	// ErrNotFound means no quote has the requested id.
	ErrNotFound = errors.New("not found")

	// ErrValidation means a value broke a business rule.
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable means a dependency could not serve the request.
	ErrUnavailable = errors.New("unavailable")

	// ErrNoContent means no quote qualifies for the request, even after the
	// remote provider was consulted. It is an outcome, not a failure.
	ErrNoContent = errors.New("no content available")
)

// NotFoundError names the quote id that was looked up.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("quote %d not found", e.ID)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError returns a NotFoundError for id.
func NewNotFoundError(id int64) error {
	return &NotFoundError{ID: id}
}

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}

	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError returns a ValidationError.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// UnavailableError says which dependency failed and why. Err, when set, is
// the underlying cause and stays reachable through errors.Is/As.
type UnavailableError struct {
	Service string
	Reason  string
	Err     error
}

func (e *UnavailableError) Error() string {
	switch {
	case e.Reason != "":
		return e.Service + " unavailable: " + e.Reason
	case e.Err != nil:
		return e.Service + " unavailable: " + e.Err.Error()
	default:
		return e.Service + " unavailable"
	}
}

// Is matches ErrUnavailable.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// NewUnavailableError returns an UnavailableError with a reason and no cause.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// WrapUnavailable marks err as service being unavailable.
func WrapUnavailable(service, reason string, err error) error {
	return &UnavailableError{Service: service, Reason: reason, Err: err}
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err is or wraps ErrValidation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnavailable reports whether err is or wraps ErrUnavailable.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsNoContent reports whether err is or wraps ErrNoContent.
func IsNoContent(err error) bool {
	return errors.Is(err, ErrNoContent)
}
