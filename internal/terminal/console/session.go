package console

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/termbridge/internal/logging"
	"github.com/dshills/termbridge/internal/terminal/encoding"
)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session's logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		s.log = logging.OrNop(l)
	}
}

// Session is one connect/disconnect cycle against a backend.
//
// The mode captured by Connect is written back by Disconnect no matter how
// many encodings were negotiated in between. Callers should defer Disconnect
// right after a successful Connect.
type Session struct {
	mu sync.Mutex

	id      string
	backend Backend
	modes   ModeController // nil on backends without a mode API
	log     *zap.Logger

	connected         bool
	connectedToStdout bool
	originalMode      Mode
	currentMode       Mode
	encoding          encoding.Encoding
}

// New creates a session over backend. Nothing touches the OS until Connect.
func New(backend Backend, opts ...Option) *Session {
	s := &Session{
		id:      uuid.New().String(),
		backend: backend,
		log:     zap.NewNop(),
	}
	if mc, ok := backend.(ModeController); ok {
		s.modes = mc
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("console").With(zap.String("session", s.id), zap.String("backend", backend.Name()))
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Backend returns the backend the session drives.
func (s *Session) Backend() Backend { return s.backend }

// HasModeControl reports whether the backend exposes a console mode API.
func (s *Session) HasModeControl() bool { return s.modes != nil }

// Connect probes stdout and captures its mode.
//
// The session is marked connected even when Connect fails, so Disconnect
// stays safe to call on every exit path.
func (s *Session) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return ErrAlreadyConnected
	}
	s.connected = true

	interactive, err := s.backend.Probe()
	if err != nil {
		return newIOError("connect", "Failed to probe stdout", err)
	}
	s.connectedToStdout = interactive

	if interactive && s.modes != nil {
		mode, err := s.modes.Mode()
		if err != nil {
			s.connectedToStdout = false
			return newIOError("connect", "Failed to get stdout mode", err)
		}
		s.originalMode = mode
		s.currentMode = mode
	}

	s.log.Info("connected",
		zap.Bool("connectedToStdout", s.connectedToStdout),
		zap.Bool("modeControl", s.modes != nil),
		zap.Stringer("mode", s.originalMode),
	)
	return nil
}

// Connected reports whether Connect ran and Disconnect has not.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// IsConnectedToStdout reports whether stdout was an interactive terminal at connect time.
func (s *Session) IsConnectedToStdout() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectedToStdout
}

// OriginalMode returns the mode captured at connect time.
func (s *Session) OriginalMode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.originalMode
}

// CurrentMode returns the mode currently applied by the session.
func (s *Session) CurrentMode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentMode
}

// Encoding returns the last encoding successfully negotiated.
func (s *Session) Encoding() encoding.Encoding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.encoding
}

// SupportedEncodings returns None followed by every encoding the terminal can
// be switched to, in increasing richness.
func (s *Session) SupportedEncodings() ([]encoding.Encoding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUsable(); err != nil {
		return nil, err
	}
	negotiable, err := s.negotiable()
	if err != nil {
		return nil, err
	}
	return append([]encoding.Encoding{encoding.None}, negotiable...), nil
}

// negotiable lists the escape-processing encodings this OS version supports.
// Caller holds s.mu.
func (s *Session) negotiable() ([]encoding.Encoding, error) {
	if s.modes == nil {
		return nil, nil
	}
	version, err := s.modes.Version()
	if err != nil {
		return nil, newIOError("set encoding", "Failed to get the OS version", err)
	}

	result := []encoding.Encoding{encoding.Xterm8Colors}
	if version.atLeast(version16Colors) {
		result = append(result, encoding.Xterm16Colors)
	}
	if version.atLeast(versionRGBColors) {
		result = append(result, encoding.Xterm256Colors, encoding.RGB888Colors)
	}
	return result, nil
}

// SetEncoding switches the terminal's escape processing to suit requested.
//
// Requesting None clears the escape-processing bit; any supported encoding
// sets it. An unsupported encoding fails without touching the terminal.
func (s *Session) SetEncoding(requested encoding.Encoding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUsable(); err != nil {
		return err
	}

	if s.modes == nil {
		if requested != encoding.None {
			return newIOError("set encoding",
				fmt.Sprintf("Unexpected encoding: %s", requested), ErrUnsupportedEncoding)
		}
		s.encoding = requested
		return nil
	}

	var target Mode
	if requested == encoding.None {
		target = s.originalMode.Without(ModeVirtualTerminalProcessing)
	} else {
		supported, err := s.negotiable()
		if err != nil {
			return err
		}
		if !encoding.Contains(supported, requested) {
			all := append([]encoding.Encoding{encoding.None}, supported...)
			msg := fmt.Sprintf("Expected encoding to be one of [%s].\nActual: %s",
				encoding.Join(all), requested)
			return newIOError("set encoding", msg, ErrUnsupportedEncoding)
		}
		target = s.originalMode.With(ModeVirtualTerminalProcessing)
	}

	if target != s.currentMode {
		if err := s.modes.SetMode(target); err != nil {
			return newIOError("set encoding", "Failed to set stdout mode", err)
		}
		s.log.Debug("mode changed",
			zap.Stringer("from", s.currentMode),
			zap.Stringer("to", target),
			zap.Stringer("encoding", requested),
		)
		s.currentMode = target
	}
	s.encoding = requested
	return nil
}

// Width returns the terminal's column count.
func (s *Session) Width() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUsable(); err != nil {
		return 0, err
	}
	width, err := s.backend.Width()
	if err != nil {
		return 0, newIOError("width", "Failed to get the terminal width", err)
	}
	return width, nil
}

// Disconnect restores the mode captured at connect time.
//
// It is a no-op on a session that is not connected. The session is marked
// disconnected even if restoring the mode fails.
func (s *Session) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil
	}
	defer func() {
		s.connected = false
	}()

	if s.modes == nil || s.currentMode == s.originalMode {
		return nil
	}
	if err := s.modes.SetMode(s.originalMode); err != nil {
		return newIOError("disconnect", "Failed to set stdout mode", err)
	}
	s.log.Debug("mode restored", zap.Stringer("mode", s.originalMode))
	s.currentMode = s.originalMode
	return nil
}

// checkUsable enforces the preconditions shared by every query. Caller holds s.mu.
func (s *Session) checkUsable() error {
	if !s.connected {
		return ErrNotConnected
	}
	if !s.connectedToStdout {
		return ErrNotConnectedToStdout
	}
	return nil
}
