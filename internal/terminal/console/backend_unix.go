//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package console

import (
	"errors"
	"os"
	"strconv"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// TTYBackend answers for a POSIX terminal. It has no console mode API:
// escape sequences are always interpreted by the terminal emulator.
type TTYBackend struct {
	fd int
}

// NewTTYBackend creates a backend for the terminal behind f.
func NewTTYBackend(f *os.File) *TTYBackend {
	return &TTYBackend{fd: int(f.Fd())}
}

// NewDefaultBackend returns a tty backend for os.Stdout.
func NewDefaultBackend() Backend {
	return NewTTYBackend(os.Stdout)
}

func (b *TTYBackend) Name() string { return "tty" }

// Probe reports whether the descriptor is a terminal. It has no side effects.
func (b *TTYBackend) Probe() (bool, error) {
	return term.IsTerminal(b.fd), nil
}

func (b *TTYBackend) Width() (int, error) {
	ws, err := unix.IoctlGetWinsize(b.fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, &WinsizeError{
			Fd:      b.fd,
			Request: uint64(unix.TIOCGWINSZ),
			Reason:  winsizeReason(err),
			Err:     err,
		}
	}
	return int(ws.Col), nil
}

func winsizeReason(err error) string {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return err.Error()
	}
	switch errno {
	case unix.EBADF:
		return "fd is not a valid file descriptor"
	case unix.EFAULT:
		return "argp references an inaccessible memory area"
	case unix.EINVAL:
		return "request or argp is not valid"
	case unix.ENOTTY:
		return "the specified request does not apply to the kind of object that the file descriptor references"
	default:
		return "errno: " + strconv.Itoa(int(errno))
	}
}
