package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	"github.com/dshills/termbridge/internal/config"
	"github.com/dshills/termbridge/internal/terminal"
	"github.com/dshills/termbridge/internal/terminal/console"
	"github.com/dshills/termbridge/internal/terminal/encoding"
	"github.com/dshills/termbridge/internal/terminal/palette"
)

var (
	sampleFrom = colorful.Color{R: 0, G: 175.0 / 255, B: 1}       // #00afff
	sampleTo   = colorful.Color{R: 1, G: 95.0 / 255, B: 135.0 / 255} // #ff5f87
)

// output selects how the report is written.
type output struct {
	json   bool
	sample bool
}

// report is what termbridge found out about stdout.
type report struct {
	Version           string
	Session           string
	Backend           string
	ConnectedToStdout bool
	ModeControl       bool
	OriginalMode      console.Mode
	CurrentMode       console.Mode
	Supported         []encoding.Encoding
	Encoding          encoding.Encoding
	Forced            bool
	Width             int
}

// inspect runs one connect / negotiate / disconnect cycle and writes the
// report to w. The sample is written while the negotiated mode is active.
func inspect(backend console.Backend, cfg *config.Config, logger *zap.Logger, w io.Writer, out output, opts ...terminal.Option) (err error) {
	session := console.New(backend, console.WithLogger(logger))
	if err := session.Connect(); err != nil {
		// Connect marks the session connected even when it fails.
		_ = session.Disconnect()
		return err
	}
	defer func() {
		if derr := session.Disconnect(); derr != nil && err == nil {
			err = derr
		}
	}()

	term := terminal.NewTerminal(session, append([]terminal.Option{terminal.WithLogger(logger)}, opts...)...)
	forced, err := negotiate(term, cfg.Terminal, logger)
	if err != nil {
		return err
	}

	rep := report{
		Version:           version,
		Session:           session.ID(),
		Backend:           backend.Name(),
		ConnectedToStdout: session.IsConnectedToStdout(),
		ModeControl:       session.HasModeControl(),
		OriginalMode:      session.OriginalMode(),
		CurrentMode:       session.CurrentMode(),
		Supported:         term.SupportedEncodings(),
		Encoding:          term.Encoding(),
		Forced:            forced,
		Width:             term.Width(cfg.Terminal.FallbackWidth),
	}

	if out.json {
		doc, err := rep.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, doc)
	} else {
		fmt.Fprint(w, rep.Text())
	}

	if out.sample {
		fmt.Fprintln(w, sample(rep.Encoding, rep.Width))
	}
	return nil
}

// negotiate applies the configured encoding, or the best supported one.
// forced is true only when an explicit encoding was applied with Force.
func negotiate(term *terminal.Terminal, cfg config.TerminalConfig, logger *zap.Logger) (forced bool, err error) {
	requested, explicit, err := cfg.RequestedEncoding()
	if err != nil {
		return false, err
	}

	switch {
	case !explicit:
		if err := term.UseBestEncoding(); err != nil {
			logger.Warn("could not apply the best encoding", zap.Error(err))
		}
		return false, nil
	case cfg.Force:
		return true, term.SetEncoding(requested)
	case !term.IsConnectedToStdout():
		return false, term.UseBestEncoding()
	}

	supported := term.SupportedEncodings()
	if !encoding.Contains(supported, requested) {
		return false, fmt.Errorf("%w: %s is not one of [%s]; use -force to apply it anyway",
			console.ErrUnsupportedEncoding, requested, encoding.Join(supported))
	}
	return false, term.SetEncoding(requested)
}

// Text renders the report for people.
func (r report) Text() string {
	var b strings.Builder
	stdout := "redirected"
	if r.ConnectedToStdout {
		stdout = "terminal"
	}
	chosen := r.Encoding.String()
	if r.Forced {
		chosen += " (forced)"
	}

	fmt.Fprintf(&b, "termbridge %s\n", r.Version)
	fmt.Fprintf(&b, "  session:    %s\n", r.Session)
	fmt.Fprintf(&b, "  backend:    %s\n", r.Backend)
	fmt.Fprintf(&b, "  stdout:     %s\n", stdout)
	if r.ModeControl && r.ConnectedToStdout {
		fmt.Fprintf(&b, "  mode:       %s -> %s\n", r.OriginalMode, r.CurrentMode)
	}
	fmt.Fprintf(&b, "  supported:  %s\n", encoding.Join(r.Supported))
	fmt.Fprintf(&b, "  encoding:   %s\n", chosen)
	fmt.Fprintf(&b, "  width:      %d\n", r.Width)
	return b.String()
}

type field struct {
	path  string
	value any
}

// JSON renders the report as a JSON document.
func (r report) JSON() (string, error) {
	supported := make([]string, len(r.Supported))
	for i, e := range r.Supported {
		supported[i] = e.String()
	}

	fields := []field{
		{"version", r.Version},
		{"session", r.Session},
		{"backend", r.Backend},
		{"stdout.connected", r.ConnectedToStdout},
		{"stdout.mode_control", r.ModeControl},
		{"supported", supported},
		{"encoding.name", r.Encoding.String()},
		{"encoding.forced", r.Forced},
		{"width", r.Width},
	}
	if r.ModeControl && r.ConnectedToStdout {
		fields = append(fields,
			field{"stdout.original_mode", r.OriginalMode.String()},
			field{"stdout.current_mode", r.CurrentMode.String()},
		)
	}

	doc := "{}"
	for _, f := range fields {
		var err error
		doc, err = sjson.Set(doc, f.path, f.value)
		if err != nil {
			return "", fmt.Errorf("building report field %s: %w", f.path, err)
		}
	}
	return doc, nil
}

// sample renders a labelled gradient bar fitted to width.
func sample(enc encoding.Encoding, width int) string {
	label := palette.Fit(" "+enc.String()+" ", width)
	return palette.Foreground(enc, sampleFrom) + label + palette.Reset(enc) + "\n" +
		palette.Swatch(enc, sampleFrom, sampleTo, width)
}
