// Package terminal decides which escape-sequence encoding output to stdout
// should use, and applies that choice through a console session.
//
// A Terminal combines what the environment advertises (TERM, COLORTERM,
// WT_SESSION, NO_COLOR, the terminfo database) with what the console session
// can negotiate with the OS. Callers either let it pick the richest supported
// encoding or force one explicitly.
//
// # Usage
//
//	session := console.New(console.NewDefaultBackend())
//	if err := session.Connect(); err != nil {
//	    return err
//	}
//	defer session.Disconnect()
//
//	term := terminal.NewTerminal(session)
//	if err := term.UseBestEncoding(); err != nil {
//	    return err
//	}
//	enc := term.Encoding()
package terminal

import (
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/termbridge/internal/logging"
	"github.com/dshills/termbridge/internal/terminal/console"
	"github.com/dshills/termbridge/internal/terminal/encoding"
)

// Option configures a Terminal.
type Option func(*Terminal)

// WithEnvironment replaces the process environment.
func WithEnvironment(env Environment) Option {
	return func(t *Terminal) { t.det.env = env }
}

// WithGOOS overrides the operating system used for detection.
func WithGOOS(goos string) Option {
	return func(t *Terminal) { t.det.goos = goos }
}

// WithTerminfo replaces the terminfo lookup. A nil lookup disables it.
func WithTerminfo(ti TerminfoLookup) Option {
	return func(t *Terminal) { t.det.terminfo = ti }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Terminal) { t.log = logging.OrNop(l) }
}

// Terminal is the stdout terminal seen through a connected console session.
type Terminal struct {
	mu sync.Mutex

	session *console.Session
	det     detector
	log     *zap.Logger

	supported []encoding.Encoding
	encoding  encoding.Encoding
	chosen    bool
}

// NewTerminal creates a Terminal over a session. The session should already be connected.
func NewTerminal(session *console.Session, opts ...Option) *Terminal {
	t := &Terminal{
		session: session,
		det: detector{
			goos:     runtime.GOOS,
			env:      OSEnvironment{},
			terminfo: LookupColors,
		},
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.Named("terminal")
	t.det.log = t.log
	return t
}

// Session returns the underlying console session.
func (t *Terminal) Session() *console.Session {
	return t.session
}

// IsConnectedToStdout reports whether stdout is an interactive terminal.
func (t *Terminal) IsConnectedToStdout() bool {
	return t.session.IsConnectedToStdout()
}

// SupportedEncodings returns the encodings the terminal supports, in increasing richness.
func (t *Terminal) SupportedEncodings() []encoding.Encoding {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.supportedLocked()
}

func (t *Terminal) supportedLocked() []encoding.Encoding {
	if t.supported != nil {
		return t.supported
	}

	result := t.det.supported()
	if !t.det.colorDisabled() && t.session.IsConnectedToStdout() && t.session.HasModeControl() {
		negotiable, err := t.session.SupportedEncodings()
		if err != nil {
			t.log.Debug("console capabilities unavailable", zap.Error(err))
		} else {
			result = union(result, negotiable)
		}
	}
	t.supported = result
	t.log.Debug("supported encodings", zap.String("encodings", encoding.Join(result)))
	return result
}

// UseBestEncoding selects the richest supported encoding. When stdout is
// redirected it selects encoding.None instead.
func (t *Terminal) UseBestEncoding() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	best := encoding.Best(t.supportedLocked())
	return t.setLocked(best, false)
}

// SetEncoding forces the use of enc, even when support for it was not detected.
func (t *Terminal) SetEncoding(enc encoding.Encoding) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.setLocked(enc, true)
}

func (t *Terminal) setLocked(enc encoding.Encoding, force bool) error {
	if !enc.Valid() {
		return fmt.Errorf("%w: %s", encoding.ErrUnknownEncoding, enc)
	}

	connected := t.session.IsConnectedToStdout()
	if !connected && !force {
		t.log.Debug("stdout was redirected, falling back", zap.Stringer("encoding", encoding.None))
		t.encoding = encoding.None
		t.chosen = true
		return nil
	}
	// A user who opted out of color keeps the console mode they started with.
	if t.det.colorDisabled() && !force {
		t.log.Debug("color disabled by environment, leaving console mode untouched")
		t.encoding = encoding.None
		t.chosen = true
		return nil
	}
	if !encoding.Contains(t.supportedLocked(), enc) {
		t.log.Debug("forcing unsupported encoding", zap.Stringer("encoding", enc))
	}

	// POSIX terminals interpret escapes natively; only a console with a mode
	// API needs switching.
	if connected && t.session.HasModeControl() {
		if err := t.session.SetEncoding(enc); err != nil {
			return err
		}
	}

	t.encoding = enc
	t.chosen = true
	t.log.Debug("encoding selected", zap.Stringer("encoding", enc), zap.Bool("forced", force))
	return nil
}

// Encoding returns the encoding output should use. The first call selects
// the best encoding; if that fails encoding.None is used.
func (t *Terminal) Encoding() encoding.Encoding {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.chosen {
		best := encoding.Best(t.supportedLocked())
		if err := t.setLocked(best, false); err != nil {
			t.log.Warn("falling back to no escape codes", zap.Error(err))
			t.encoding = encoding.None
			t.chosen = true
		}
	}
	return t.encoding
}

// Width returns the terminal width, then $COLUMNS, then fallback.
func (t *Terminal) Width(fallback int) int {
	if t.session.IsConnectedToStdout() {
		width, err := t.session.Width()
		if err == nil && width > 0 {
			return width
		}
		if err != nil {
			t.log.Debug("terminal width unavailable", zap.Error(err))
		}
	}
	if cols, ok := t.det.env.LookupEnv("COLUMNS"); ok {
		if n, err := strconv.Atoi(cols); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// union merges encoding sets, returning them in increasing richness.
func union(sets ...[]encoding.Encoding) []encoding.Encoding {
	seen := make(map[encoding.Encoding]bool)
	var result []encoding.Encoding
	for _, set := range sets {
		for _, e := range set {
			if !seen[e] {
				seen[e] = true
				result = append(result, e)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Rank() < result[j].Rank() })
	return result
}
