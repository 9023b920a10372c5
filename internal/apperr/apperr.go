// Package apperr defines the error categories shared by the umkmdash commands.
//
// Error taxonomy
//
//	UserError    – bad flag, bad config value, unreadable dataset path.
//	               The CLI prints only the message, without usage help.
//	               Exit code: 1.
//
//	ErrCancelled – the user aborted the filter prompt or the browser.
//	               Exit code: 0.
//
// Everything else (I/O, decode, encode) is wrapped with
// fmt.Errorf("context: %w", err).
package apperr

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when the user explicitly aborts an interactive
// operation. The CLI exits 0 when it sees this error.
var ErrCancelled = errors.New("operation cancelled")

// ErrEmptyDataset is returned when a dataset yields no usable rows.
var ErrEmptyDataset = errors.New("dataset contains no usable rows")

// UserError represents an error caused by invalid or missing user input.
type UserError struct {
	Message string
}

func (e *UserError) Error() string { return e.Message }

// User creates a UserError with the given message.
func User(msg string) error { return &UserError{Message: msg} }

// Userf creates a formatted UserError.
func Userf(format string, args ...any) error {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

// IsUser reports whether err is (or wraps) a *UserError.
func IsUser(err error) bool {
	var u *UserError
	return errors.As(err, &u)
}
