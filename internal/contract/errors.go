package contract

import (
	"errors"
	"fmt"
)

// ConfigError reports a missing required input, an invalid threshold or a
// malformed table.
type ConfigError struct {
	Err error
}

// ConfigErrorf builds a ConfigError with a formatted message.
func ConfigErrorf(format string, args ...any) error {
	return &ConfigError{Err: fmt.Errorf(format, args...)}
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// PathError reports a missing file, an unusable output directory or data that
// points at something the gene store does not have.
type PathError struct {
	Path string
	Err  error
}

// PathErrorf builds a PathError for path with a formatted message.
func PathErrorf(path, format string, args ...any) error {
	return &PathError{Path: path, Err: fmt.Errorf(format, args...)}
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path error: %s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err wraps a ConfigError.
func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

// IsPathError reports whether err wraps a PathError.
func IsPathError(err error) bool {
	var target *PathError
	return errors.As(err, &target)
}
