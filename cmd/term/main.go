// Package main implements the terminal frontend of the CHIP-8 VM
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mnafees/c8vm/internal"
	"github.com/mnafees/c8vm/internal/config"
	"github.com/mnafees/c8vm/internal/runner"
	"github.com/mnafees/c8vm/pkg/term"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := config.ParseFlags("chopper-term", os.Args[1:])
	if err != nil {
		var usageErr *config.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage(os.Stderr)
		}
		os.Exit(1)
	}

	// the terminal is taken over by the screen, errors are collected and printed after it closed
	var logs bytes.Buffer
	cfg := log.DefaultConfig()
	cfg.Level = log.ErrorLevel
	cfg.Output = &logs
	logger := log.NewWithConfig(cfg)
	config.PrintBanner(opts, "Chopper | CHIP-8 Emulator (terminal)", version, commit, date)

	vm := internal.NewC8VM(logger, opts.Quirks, opts.NewRand())
	if err := vm.LoadProgram(opts.Program); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	screen, err := term.NewScreen(logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err = runner.New(logger, vm, screen, opts.Hz).Run(ctx)
	screen.Destroy()
	_, _ = logs.WriteTo(os.Stderr)
	if err != nil && !errors.Is(err, context.Canceled) {
		os.Exit(1)
	}
}
