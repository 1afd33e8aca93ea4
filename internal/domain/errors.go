package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidInput is returned when an operation receives input that is
	// malformed or out of range (zero durations, bad dates, unknown quality
	// values). The caller is expected to re-elicit the input; nothing is
	// retried internally.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStateConflict is returned when an operation is not legal in the
	// current state, such as starting a focus session while another one is
	// still live. No mutation is performed.
	ErrStateConflict = errors.New("state conflict")

	// ErrNotFound is returned when a referenced task or review item is
	// absent from the supplied snapshot.
	ErrNotFound = errors.New("not found")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidPassword is returned when a password doesn't meet requirements.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
