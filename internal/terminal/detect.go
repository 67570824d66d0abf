package terminal

import (
	"os"
	"strings"

	"github.com/gdamore/tcell/v2/terminfo"
	_ "github.com/gdamore/tcell/v2/terminfo/base" // registers the common terminal descriptions

	"go.uber.org/zap"

	"github.com/dshills/termbridge/internal/terminal/encoding"
)

// Environment looks up environment variables.
type Environment interface {
	LookupEnv(key string) (string, bool)
}

// OSEnvironment reads the process environment.
type OSEnvironment struct{}

func (OSEnvironment) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnvironment is a fixed environment, used by tests and embedders.
type MapEnvironment map[string]string

func (m MapEnvironment) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// TerminfoLookup returns the number of colors a terminal type supports.
type TerminfoLookup func(term string) (int, error)

// LookupColors consults tcell's terminfo database.
func LookupColors(term string) (int, error) {
	ti, err := terminfo.LookupTerminfo(term)
	if err != nil {
		return 0, err
	}
	return ti.Colors, nil
}

// detector decides which encodings a terminal supports from its environment.
type detector struct {
	goos     string
	env      Environment
	terminfo TerminfoLookup
	log      *zap.Logger
}

// DetectSupported returns the encodings the environment advertises, in
// increasing richness. The result always contains encoding.None.
//
// Detection follows mainstream terminal types rather than every possible one;
// terminals are expected to support or emulate them.
func DetectSupported(goos string, env Environment, ti TerminfoLookup) []encoding.Encoding {
	d := detector{goos: goos, env: env, terminfo: ti, log: zap.NewNop()}
	return d.supported()
}

func (d detector) lookup(key string) string {
	v, _ := d.env.LookupEnv(key)
	return v
}

// colorDisabled reports whether the user opted out of escape codes.
func (d detector) colorDisabled() bool {
	return d.lookup("NO_COLOR") != "" || d.lookup("TERM") == "dumb"
}

func (d detector) supported() []encoding.Encoding {
	if d.colorDisabled() {
		return []encoding.Encoding{encoding.None}
	}
	if d.goos == "windows" {
		return d.supportedForWindows()
	}
	return d.supportedForUnix()
}

// supportedForWindows only trusts Windows Terminal; the console host's own
// support is negotiated by the console session from the OS version.
func (d detector) supportedForWindows() []encoding.Encoding {
	if _, ok := d.env.LookupEnv("WT_SESSION"); ok {
		return encoding.All()
	}
	return []encoding.Encoding{encoding.None}
}

func (d detector) supportedForUnix() []encoding.Encoding {
	term, ok := d.env.LookupEnv("TERM")
	if !ok {
		return []encoding.Encoding{encoding.None}
	}

	result := []encoding.Encoding{encoding.None}
	switch term {
	case "term", "xterm":
		// Used by older Linux deployments (e.g. routers).
		result = append(result, encoding.Xterm8Colors)
	case "xterm-16color":
		result = append(result, encoding.Xterm8Colors, encoding.Xterm16Colors)
	case "xterm-256color":
		// Linux and macOS 10.9+.
		result = append(result, encoding.Xterm8Colors, encoding.Xterm16Colors, encoding.Xterm256Colors)
	default:
		result = append(result, d.fromTerminfo(term)...)
	}

	// There is no reliable way to detect 24-bit support; COLORTERM is the convention.
	switch strings.ToLower(d.lookup("COLORTERM")) {
	case "truecolor", "24bit":
		result = append(result, encoding.RGB888Colors)
	}
	return result
}

func (d detector) fromTerminfo(term string) []encoding.Encoding {
	if d.terminfo == nil {
		return nil
	}
	colors, err := d.terminfo(term)
	if err != nil {
		d.log.Warn("unexpected TERM", zap.String("term", term), zap.Error(err))
		return nil
	}
	switch {
	case colors >= 256:
		return []encoding.Encoding{encoding.Xterm8Colors, encoding.Xterm16Colors, encoding.Xterm256Colors}
	case colors >= 16:
		return []encoding.Encoding{encoding.Xterm8Colors, encoding.Xterm16Colors}
	case colors >= 8:
		return []encoding.Encoding{encoding.Xterm8Colors}
	default:
		return nil
	}
}
