package executor

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Sentinel errors for the ways a test process can fail to start.
var (
	// ErrCommandNotFound indicates the test binary was not found
	ErrCommandNotFound = errors.New("command not found")

	// ErrPermissionDenied indicates the test binary is not executable
	ErrPermissionDenied = errors.New("permission denied")
)

// StartError describes why the test process never started.
type StartError struct {
	Command string
	Err     error
}

// Error implements the error interface
func (e *StartError) Error() string {
	return fmt.Sprintf("starting %s: %v", e.Command, e.Err)
}

// Unwrap returns the underlying error
func (e *StartError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support for the sentinel errors.
func (e *StartError) Is(target error) bool {
	msg := strings.ToLower(e.Err.Error())
	switch target {
	case ErrCommandNotFound:
		return strings.Contains(msg, "executable file not found") ||
			strings.Contains(msg, "no such file or directory")
	case ErrPermissionDenied:
		return strings.Contains(msg, "permission denied") ||
			strings.Contains(msg, "operation not permitted")
	}
	return false
}

// classifyStartError wraps a startup failure, unwrapping exec's own error
// type so the sentinel matching sees the underlying cause.
func classifyStartError(err error, command string) error {
	if err == nil {
		return nil
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		err = execErr
	}
	return &StartError{Command: command, Err: err}
}
