package style

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidIntent matches any *InvalidIntentError.
	ErrInvalidIntent = errors.New("invalid intent")

	// ErrInvalidRequest matches any *InvalidFieldError.
	ErrInvalidRequest = errors.New("invalid style request")
)

// InvalidIntentError reports an intent outside the recognized enumeration.
type InvalidIntentError struct {
	Value Intent
}

func (e *InvalidIntentError) Error() string {
	return fmt.Sprintf("invalid intent %q (must be one of neutral/additive/destructive)", e.Value)
}

func (e *InvalidIntentError) Unwrap() error { return ErrInvalidIntent }

// InvalidFieldError reports a request field holding a value outside its enumeration.
type InvalidFieldError struct {
	Field string
	Value string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("field %q: unknown value %q", e.Field, e.Value)
}

func (e *InvalidFieldError) Unwrap() error { return ErrInvalidRequest }
