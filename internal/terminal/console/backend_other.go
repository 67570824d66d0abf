//go:build !windows && !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package console

// NewDefaultBackend returns a non-interactive null backend. Platforms
// without a console or tty backend are treated as redirected output.
func NewDefaultBackend() Backend {
	return NewRedirectedNullBackend()
}
