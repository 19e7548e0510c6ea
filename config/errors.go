package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig classifies every ConfigurationError.
// Use errors.Is(err, ErrInvalidConfig) instead of string matching.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigurationError reports a configuration value that makes sitemap
// generation impossible. It is always fatal to the run.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("config: %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfig
}
