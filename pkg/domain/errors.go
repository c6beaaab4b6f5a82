package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyContent    = errors.New("content must not be empty")
	ErrContentTooLarge = errors.New("content exceeds maximum length")
)

// ConfigurationError marks a dependency that is missing credentials. The
// component falls back to its local degraded path permanently; it is never
// fatal at runtime.
type ConfigurationError struct {
	Dependency string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is not configured", e.Dependency)
}

func NewConfigurationError(dependency string) error {
	return &ConfigurationError{Dependency: dependency}
}

func IsConfigurationError(err error) bool {
	var configurationError *ConfigurationError
	return errors.As(err, &configurationError)
}

// TransientServiceError marks a timeout or network failure calling an
// external service. Callers fail open on the blocking decision and mark the
// result degraded.
type TransientServiceError struct {
	Dependency string
	Err        error
}

func (e *TransientServiceError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Dependency, e.Err)
}

func (e *TransientServiceError) Unwrap() error {
	return e.Err
}

func NewTransientServiceError(dependency string, err error) error {
	return &TransientServiceError{Dependency: dependency, Err: err}
}
