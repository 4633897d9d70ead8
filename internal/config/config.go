// Package config handles command line options and logger setup
package config

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/mnafees/c8vm/internal"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// Options configures a run of the VM.
type Options struct {
	Program string // Path of the CHIP-8 program to run

	Debug bool
	Quiet bool

	Hz    int   // Cycles per second
	Scale int   // Size of a CHIP-8 pixel on screen
	Seed  int64 // Seed of the random number generator, 0 picks one

	Quirks internal.Quirks
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage text with all flags.
func (e *UsageError) ShowUsage(w io.Writer) {
	if e.msg != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", e.msg)
	}
	_, _ = fmt.Fprintf(w, "usage: %s [options] <CHIP-8 program>\n\n", e.flags.Name())
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
}

// ParseFlags parses the command line arguments, without the program name.
func ParseFlags(name string, args []string) (Options, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	opts := Options{}
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging of every executed instruction")
	flags.BoolVar(&opts.Quiet, "q", false, "only log errors")
	flags.IntVar(&opts.Hz, "hz", 60, "cycles executed per second, timers count down once per cycle")
	flags.IntVar(&opts.Scale, "scale", 20, "size in pixels of a single CHIP-8 pixel")
	flags.Int64Var(&opts.Seed, "seed", 0, "seed of the random number generator, 0 uses the current time")
	flags.BoolVar(&opts.Quirks.SoundThreshold, "quirk-sound-threshold", false, "only load the sound timer when the value is greater than 2")
	flags.BoolVar(&opts.Quirks.ShiftUsesVy, "quirk-shift-vy", false, "shift instructions read Vy instead of Vx")
	flags.BoolVar(&opts.Quirks.IndexIncrement, "quirk-index-increment", false, "register store and load advance I")

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}
	rest := flags.Args()
	switch {
	case len(rest) == 0:
		return opts, &UsageError{flags: flags}
	case len(rest) > 1:
		return opts, &UsageError{flags: flags, msg: fmt.Sprintf("unexpected argument %s after the program file", rest[1])}
	}
	opts.Program = rest[0]

	if opts.Hz <= 0 {
		return opts, &UsageError{flags: flags, msg: fmt.Sprintf("invalid cycle rate %d", opts.Hz)}
	}
	if opts.Scale <= 0 {
		return opts, &UsageError{flags: flags, msg: fmt.Sprintf("invalid scale %d", opts.Scale)}
	}
	return opts, nil
}

// NewRand returns the random number generator for the VM.
func (o Options) NewRand() *rand.Rand {
	seed := o.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// PrintBanner prints the program name and version unless running quietly.
func PrintBanner(opts Options, title, version, commit, date string) {
	if opts.Quiet {
		return
	}
	fmt.Fprintf(os.Stdout, "%s\nversion: %s\n\n", title, buildinfo.Version(version, commit, date))
}
