// Package main implements the SDL frontend of the CHIP-8 VM
package main

import (
	"context"
	"errors"
	"os"
	"runtime"

	"github.com/mnafees/c8vm/internal"
	"github.com/mnafees/c8vm/internal/config"
	"github.com/mnafees/c8vm/internal/runner"
	"github.com/mnafees/c8vm/pkg/sdl"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

const title = "Chopper | CHIP-8 Emulator"

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func init() {
	// SDL expects window and event calls from the thread that initialised it
	runtime.LockOSThread()
}

func main() {
	ctx := app.Context()

	opts, err := config.ParseFlags("chopper", os.Args[1:])
	if err != nil {
		var usageErr *config.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage(os.Stderr)
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	config.PrintBanner(opts, title, version, commit, date)

	vm := internal.NewC8VM(logger, opts.Quirks, opts.NewRand())
	if err := vm.LoadProgram(opts.Program); err != nil {
		logger.Fatal(err.Error())
	}

	if err := run(ctx, logger, vm, opts); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		// the runner already logged a failing program with the CPU state
		var cycleErr *internal.CycleError
		if !errors.As(err, &cycleErr) {
			logger.Error("Emulation stopped", log.Err(err))
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *log.Logger, vm *internal.C8VM, opts config.Options) error {
	io := sdl.NewIO(logger, opts.Scale)
	defer io.Destroy()
	if err := io.SetupWindow(title); err != nil {
		return err
	}
	return runner.New(logger, vm, io, opts.Hz).Run(ctx)
}
