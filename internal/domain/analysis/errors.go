package analysis

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repositories when no record matches.
var ErrNotFound = errors.New("analysis not found")

// ErrInvalidInput marks request validation failures; handlers map it to 400.
var ErrInvalidInput = errors.New("invalid input")

// ErrEmptyMessage is returned when a text analysis receives a blank message.
var ErrEmptyMessage = fmt.Errorf("empty message: %w", ErrInvalidInput)

// ErrNoSignals is returned when a combined analysis references no usable analyses.
var ErrNoSignals = fmt.Errorf("no signals to combine: %w", ErrInvalidInput)
