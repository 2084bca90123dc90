package cli

import (
	stderrors "errors"
	"fmt"

	"shenanigigs/services/analytics/internal/errors"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // load, report or publication failure
	ExitCommandError = 2 // bad flags, arguments or configuration
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps err, choosing ExitCommandError for invalid input and
// ExitFailure otherwise.
func WrapExitError(message string, err error) *ExitError {
	code := ExitFailure
	if errors.IsType(err, errors.ErrTypeInvalidInput) {
		code = ExitCommandError
	}
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
