// Package main is the entry point for the termbridge diagnostic tool.
//
// termbridge connects to the terminal on stdout, negotiates an escape-sequence
// encoding, reports what it found and restores the terminal on exit.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/dshills/termbridge/internal/config"
	"github.com/dshills/termbridge/internal/logging"
	"github.com/dshills/termbridge/internal/terminal/console"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "termbridge %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	cfg, err := config.NewLoader().Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to load configuration: %v\n", err)
		return 1
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Logging())
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	backend, err := console.OpenBackend(cfg.Terminal.Backend)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	out := output{json: opts.json, sample: opts.sample}
	if err := inspect(backend, cfg, logger, stdout, out); err != nil {
		logger.Debug("inspection failed", zap.Error(err))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type options struct {
	configPath  string
	backend     string
	encoding    string
	logLevel    string
	force       bool
	json        bool
	sample      bool
	showVersion bool

	// set records flags given explicitly, so they override the config.
	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	opts := options{set: make(map[string]bool)}

	fs := flag.NewFlagSet("termbridge", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml, .yaml)")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.backend, "backend", config.BackendAuto, "Console backend (auto, console, tty, null)")
	fs.StringVar(&opts.encoding, "encoding", config.EncodingAuto, "Encoding to use (auto, none, 8, 16, 256, rgb)")
	fs.BoolVar(&opts.force, "force", false, "Apply -encoding even when support was not detected")
	fs.BoolVar(&opts.json, "json", false, "Print the report as JSON")
	fs.BoolVar(&opts.sample, "sample", false, "Print a color sample using the negotiated encoding")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "termbridge - terminal capability negotiator\n\n")
		fmt.Fprintf(stderr, "Usage: termbridge [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  termbridge                      Report the best encoding\n")
		fmt.Fprintf(stderr, "  termbridge -sample              Also print a color sample\n")
		fmt.Fprintf(stderr, "  termbridge -encoding 16 -force  Force 16 colors\n")
		fmt.Fprintf(stderr, "  termbridge -json | jq .         Machine-readable report\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// apply copies explicitly given flags over the loaded configuration.
func (o options) apply(cfg *config.Config) {
	if o.set["backend"] {
		cfg.Terminal.Backend = o.backend
	}
	if o.set["encoding"] {
		cfg.Terminal.Encoding = o.encoding
	}
	if o.set["force"] {
		cfg.Terminal.Force = o.force
	}
	if o.set["log-level"] {
		cfg.Log.Level = o.logLevel
	}
}
