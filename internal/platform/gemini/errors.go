package gemini

import "errors"

// ErrEmptyNotes is returned when generation is requested with no notes.
var ErrEmptyNotes = errors.New("notes text cannot be empty")
