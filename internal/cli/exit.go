package cli

import (
	"errors"
	"fmt"

	"github.com/nhle/jiractl/internal/ops"
)

// Exit codes.
const (
	exitSuccess = 0
	exitFailure = 1 // the server rejected the request or could not be reached
	exitUsage   = 2 // the caller supplied bad or missing input
)

// ExitError is an error that carries a specific process exit code.
// Cobra's RunE returns this to signal the desired exit code to main.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// exitError creates a new ExitError with the given code and formatted message.
func exitError(code int, format string, args ...any) *ExitError {
	return &ExitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// classify maps an error returned by an operation to an ExitError. Caller
// errors exit with exitUsage, everything else with exitFailure.
func classify(err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	switch {
	case errors.Is(err, ops.ErrMissingParam),
		errors.Is(err, ops.ErrInvalidParam),
		errors.Is(err, ops.ErrTemplateNotFound),
		errors.Is(err, ops.ErrUnknownOperation):
		return exitError(exitUsage, "%v", err)
	}
	return exitError(exitFailure, "%v", err)
}

// Code returns the process exit code for err: 0 for nil, the carried code
// for an ExitError, 1 otherwise.
func Code(err error) int {
	if err == nil {
		return exitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return exitFailure
}
