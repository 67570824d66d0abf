package console

import (
	"errors"
	"fmt"
)

// Sentinel errors for the console package.
var (
	// ErrNotConnected is returned when a session operation runs before Connect.
	ErrNotConnected = errors.New("session is not connected")

	// ErrNotConnectedToStdout is returned when stdout is not an interactive terminal.
	ErrNotConnectedToStdout = errors.New("stdout is not connected to a terminal")

	// ErrAlreadyConnected is returned when Connect is called twice.
	ErrAlreadyConnected = errors.New("session is already connected")

	// ErrUnsupportedEncoding is returned when the terminal cannot use the requested encoding.
	ErrUnsupportedEncoding = errors.New("unsupported encoding")

	// ErrBackendUnavailable is returned when a named backend does not exist on this platform.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// IOError reports a failed OS call or a rejected request.
type IOError struct {
	Op      string // Operation name (e.g., "connect", "set encoding")
	Message string // Human-readable description
	Err     error  // Underlying error, usually an *OSError
}

func newIOError(op, message string, err error) *IOError {
	return &IOError{Op: op, Message: message, Err: err}
}

func (e *IOError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// OSError carries an OS error code and the OS's own description of it.
type OSError struct {
	Call string // System call that failed
	Code uint32
	Text string
}

func (e *OSError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("%s failed (error code %d)", e.Call, e.Code)
	}
	return fmt.Sprintf("%s failed (error code %d): %s", e.Call, e.Code, e.Text)
}

// AssertionError is an internal defect, never a normal I/O condition.
// It is raised with panic.
type AssertionError struct {
	Message string
	Err     error
}

func (e *AssertionError) Error() string {
	if e.Err == nil {
		return "assertion failed: " + e.Message
	}
	return "assertion failed: " + e.Message + ": " + e.Err.Error()
}

func (e *AssertionError) Unwrap() error {
	return e.Err
}

// IsIOError reports whether err is or wraps an *IOError.
func IsIOError(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}

// WinsizeError reports a failed window-size ioctl with its diagnostic parameters.
type WinsizeError struct {
	Fd      int
	Request uint64
	Reason  string
	Err     error
}

func (e *WinsizeError) Error() string {
	return fmt.Sprintf("reason: %s, fd: %d, request: %d", e.Reason, e.Fd, e.Request)
}

func (e *WinsizeError) Unwrap() error {
	return e.Err
}
