package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrTypeMismatch indicates the value type doesn't match the expected type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrValidationFailed indicates the value is outside the accepted range.
	ErrValidationFailed = errors.New("validation failed")
)

// SettingError reports a bad value for a setting.
type SettingError struct {
	// Path is the dot-separated setting path, e.g. "logging.level".
	Path  string
	Value any
	Err   error
}

func (e *SettingError) Error() string {
	return fmt.Sprintf("setting %s = %v: %v", e.Path, e.Value, e.Err)
}

func (e *SettingError) Unwrap() error {
	return e.Err
}
