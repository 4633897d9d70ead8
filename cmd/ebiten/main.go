// Package main implements the Ebitengine frontend of the CHIP-8 VM
package main

import (
	"context"
	"errors"
	"os"

	"github.com/mnafees/c8vm/internal"
	"github.com/mnafees/c8vm/internal/config"
	"github.com/mnafees/c8vm/pkg/ebiten"
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

	opts, err := config.ParseFlags("chopper-ebiten", os.Args[1:])
	if err != nil {
		var usageErr *config.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage(os.Stderr)
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	config.PrintBanner(opts, "Chopper | CHIP-8 Emulator", version, commit, date)

	vm := internal.NewC8VM(logger, opts.Quirks, opts.NewRand())
	if err := vm.LoadProgram(opts.Program); err != nil {
		logger.Fatal(err.Error())
	}

	game, err := ebiten.NewGame(ctx, logger, vm)
	if err != nil {
		logger.Fatal(err.Error())
	}
	if err := ebiten.Run(game, "Chopper | CHIP-8 Emulator", opts.Scale, opts.Hz); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		var cycleErr *internal.CycleError
		if !errors.As(err, &cycleErr) {
			logger.Error("Emulation stopped", log.Err(err))
		}
		os.Exit(1)
	}
}
