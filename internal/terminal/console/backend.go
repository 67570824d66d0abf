// Package console negotiates escape-sequence support with the terminal attached
// to stdout and restores the terminal's original mode when done.
package console

import (
	"fmt"
	"strings"
	"sync"
)

// Backend defines the OS layer a Session drives.
// Implementations answer for the process's standard output.
type Backend interface {
	// Name identifies the backend in logs and reports.
	Name() string

	// Probe reports whether stdout is attached to an interactive terminal.
	// A redirected stdout is not an error.
	Probe() (bool, error)

	// Width returns the terminal's current column count.
	Width() (int, error)
}

// ModeController is implemented by backends that expose a console mode API.
// Backends without it have no switchable escape processing.
type ModeController interface {
	// Mode returns the mode currently applied to stdout.
	Mode() (Mode, error)

	// SetMode applies mode to stdout.
	SetMode(mode Mode) error

	// Version returns the running operating system's version.
	Version() (Version, error)
}

// OpenBackend returns the backend registered under name: "auto" (or empty)
// for the platform default, "null" for an interactive NullBackend, or the
// platform backend's own name ("console", "tty").
func OpenBackend(name string) (Backend, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return NewDefaultBackend(), nil
	case "null":
		return NewNullBackend(80), nil
	}
	if b := NewDefaultBackend(); b.Name() == strings.ToLower(name) {
		return b, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrBackendUnavailable, name)
}

// NullBackend is an in-memory backend for testing.
// It implements both Backend and ModeController.
type NullBackend struct {
	mu sync.Mutex

	interactive bool
	mode        Mode
	width       int
	version     Version

	probeErr   error
	modeErr    error
	setModeErr error
	widthErr   error
	versionErr error

	setModeCalls int
	history      []Mode
}

// NewNullBackend creates a null backend attached to an interactive terminal
// of the given width, reporting a current Windows 10 version.
func NewNullBackend(width int) *NullBackend {
	return &NullBackend{
		interactive: true,
		mode:        ModeProcessedOutput | ModeWrapAtEOLOutput,
		width:       width,
		version:     Version{Major: 10, Minor: 0, Build: 19045},
	}
}

// NewRedirectedNullBackend creates a null backend whose stdout is not a terminal.
func NewRedirectedNullBackend() *NullBackend {
	b := NewNullBackend(0)
	b.interactive = false
	return b
}

// Name returns "null".
func (b *NullBackend) Name() string { return "null" }

// Probe reports the configured interactivity, or the injected probe error.
func (b *NullBackend) Probe() (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.probeErr != nil {
		return false, b.probeErr
	}
	return b.interactive, nil
}

// Width returns the simulated width, or the injected width error.
func (b *NullBackend) Width() (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.widthErr != nil {
		return 0, b.widthErr
	}
	return b.width, nil
}

// Mode returns the simulated console mode, or the injected mode error.
func (b *NullBackend) Mode() (Mode, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.modeErr != nil {
		return 0, b.modeErr
	}
	return b.mode, nil
}

// SetMode records the call and applies mode unless a SetMode error is injected.
func (b *NullBackend) SetMode(mode Mode) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.setModeCalls++
	if b.setModeErr != nil {
		return b.setModeErr
	}
	b.mode = mode
	b.history = append(b.history, mode)
	return nil
}

// Version returns the simulated OS version, or the injected version error.
func (b *NullBackend) Version() (Version, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.versionErr != nil {
		return Version{}, b.versionErr
	}
	return b.version, nil
}

// SetInitialMode overrides the mode the terminal reports.
func (b *NullBackend) SetInitialMode(mode Mode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mode = mode
}

// SetVersion overrides the reported OS version.
func (b *NullBackend) SetVersion(v Version) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.version = v
}

// Resize simulates a terminal resize.
func (b *NullBackend) Resize(width int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width = width
}

// FailProbe makes Probe return err.
func (b *NullBackend) FailProbe(err error) { b.setErr(&b.probeErr, err) }

// FailMode makes Mode return err.
func (b *NullBackend) FailMode(err error) { b.setErr(&b.modeErr, err) }

// FailSetMode makes SetMode return err.
func (b *NullBackend) FailSetMode(err error) { b.setErr(&b.setModeErr, err) }

// FailWidth makes Width return err.
func (b *NullBackend) FailWidth(err error) { b.setErr(&b.widthErr, err) }

// FailVersion makes Version return err.
func (b *NullBackend) FailVersion(err error) { b.setErr(&b.versionErr, err) }

func (b *NullBackend) setErr(dst *error, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	*dst = err
}

// CurrentMode returns the mode as last applied, for testing.
func (b *NullBackend) CurrentMode() Mode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mode
}

// SetModeCalls returns how many times SetMode was called, including failed calls.
func (b *NullBackend) SetModeCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.setModeCalls
}

// History returns every mode successfully applied, in order.
func (b *NullBackend) History() []Mode {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Mode, len(b.history))
	copy(out, b.history)
	return out
}
