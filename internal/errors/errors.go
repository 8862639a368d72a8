package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/chronos/internal/logger"
)

var (
	// ErrValidation marks input rejected at the write boundary. The store is
	// never mutated when an operation returns an error wrapping it.
	ErrValidation = stderrors.New("invalid input")

	// ErrParse marks malformed persisted data. Evaluation code recovers from it
	// with a safe default; it only escapes from explicit parse helpers.
	ErrParse = stderrors.New("malformed value")

	// ErrNotFound is returned when an entity id does not exist under its key.
	ErrNotFound = stderrors.New("not found")
)

// Invalid returns a validation error carrying a user-facing message.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Malformed returns a parse error for the given field and raw value.
func Malformed(field, raw string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s %q", ErrParse, field, raw)
	}
	return fmt.Errorf("%w: %s %q: %v", ErrParse, field, raw, cause)
}

// NotFound returns an ErrNotFound error naming the entity kind and id.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return stderrors.Is(err, ErrValidation)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
