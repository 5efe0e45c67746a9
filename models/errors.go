package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrInvalidQuote         = errors.New("invalid market quote")
)

// ConfigurationError reports a parameter outside its documented domain.
// These are caller bugs: surfaced at construction time, never retried.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// ValidationInputError marks an observed quote the validator cannot score.
// It is isolated to its record and does not abort the remaining records.
type ValidationInputError struct {
	Strike      float64
	MarketPrice float64
}

func (e *ValidationInputError) Error() string {
	return fmt.Sprintf("invalid market quote: strike %.2f has non-positive price %.2f", e.Strike, e.MarketPrice)
}

func (e *ValidationInputError) Unwrap() error {
	return ErrInvalidQuote
}
