//go:build windows

package console

import (
	"errors"

	"golang.org/x/sys/windows"
)

// ConsoleBackend drives the Windows console attached to stdout.
type ConsoleBackend struct {
	handle windows.Handle
}

// NewConsoleBackend creates a backend for the Windows console.
func NewConsoleBackend() *ConsoleBackend {
	return &ConsoleBackend{handle: windows.InvalidHandle}
}

// NewDefaultBackend returns the console backend.
func NewDefaultBackend() Backend {
	return NewConsoleBackend()
}

func (b *ConsoleBackend) Name() string { return "console" }

// Probe reports whether stdout is a console screen buffer.
// Redirected output fails GetConsoleScreenBufferInfo with ERROR_INVALID_HANDLE.
func (b *ConsoleBackend) Probe() (bool, error) {
	stdout, _ := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	var info windows.ConsoleScreenBufferInfo
	err := windows.GetConsoleScreenBufferInfo(stdout, &info)
	lastErr := windows.GetLastError()
	if err != nil || errors.Is(lastErr, windows.ERROR_INVALID_HANDLE) {
		return false, nil
	}

	handle, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil {
		return false, osError("GetStdHandle", err)
	}
	if handle == windows.InvalidHandle {
		return false, &OSError{Call: "GetStdHandle", Text: "Failed to get stdout handle"}
	}
	b.handle = handle
	return true, nil
}

func (b *ConsoleBackend) Width() (int, error) {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(b.handle, &info); err != nil {
		return 0, osError("GetConsoleScreenBufferInfo", err)
	}
	return int(info.Window.Right) - int(info.Window.Left) + 1, nil
}

func (b *ConsoleBackend) Mode() (Mode, error) {
	var mode uint32
	if err := windows.GetConsoleMode(b.handle, &mode); err != nil {
		return 0, osError("GetConsoleMode", err)
	}
	return Mode(mode), nil
}

func (b *ConsoleBackend) SetMode(mode Mode) error {
	if err := windows.SetConsoleMode(b.handle, uint32(mode)); err != nil {
		return osError("SetConsoleMode", err)
	}
	return nil
}

// Version queries RtlGetVersion, which reports the real version regardless
// of the executable's compatibility manifest.
func (b *ConsoleBackend) Version() (Version, error) {
	info := windows.RtlGetVersion()
	if info == nil {
		return Version{}, &OSError{Call: "RtlGetVersion", Text: "no version information"}
	}
	return Version{
		Major: info.MajorVersion,
		Minor: info.MinorVersion,
		Build: info.BuildNumber,
	}, nil
}

func osError(call string, err error) error {
	var errno windows.Errno
	if !errors.As(err, &errno) {
		return err
	}
	code := uint32(errno)
	return &OSError{Call: call, Code: code, Text: formatMessage(code)}
}

// formatMessage returns the system's text for code. A formatter failure is a defect.
func formatMessage(code uint32) string {
	buf := make([]uint16, 512)
	flags := uint32(windows.FORMAT_MESSAGE_FROM_SYSTEM | windows.FORMAT_MESSAGE_IGNORE_INSERTS)
	n, err := windows.FormatMessage(flags, 0, code, 0, buf, nil)
	if err != nil {
		panic(&AssertionError{Message: "FormatMessage failed", Err: err})
	}
	// Trim the trailing "\r\n" FormatMessage appends.
	for n > 0 && (buf[n-1] == '\r' || buf[n-1] == '\n' || buf[n-1] == ' ') {
		n--
	}
	return windows.UTF16ToString(buf[:n])
}
