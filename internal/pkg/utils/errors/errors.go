// Package errors provides error constructors and a multi-error
// used across the project instead of the standard library directly,
// so wrapping and aggregation stay consistent.
package errors

import (
	"errors"
	"fmt"
)

func New(msg string) error {
	return errors.New(msg)
}

func Errorf(format string, a ...any) error {
	return fmt.Errorf(format, a...)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// PrefixError wraps the error with a context prefix, the original error is preserved for Is/As.
func PrefixError(err error, prefix string) error {
	return fmt.Errorf("%s: %w", prefix, err)
}

func PrefixErrorf(err error, format string, a ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, a...), err)
}
