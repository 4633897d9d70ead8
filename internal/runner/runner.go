// Package runner implements the host loop that paces a VM and connects it to a frontend.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/mnafees/c8vm/internal"
	"github.com/retroenv/retrogolib/log"
)

// Frontend is the input/output layer of a polling host loop.
type Frontend interface {
	// PollInput updates the keyboard from pending host events and reports whether
	// the user asked to quit.
	PollInput(keys *internal.Keyboard) bool
	// Render shows a new display snapshot.
	Render(frame internal.Frame)
	// Audio starts or stops the tone.
	Audio(signal internal.AudioSignal)
}

// Runner steps a VM at a fixed rate.
type Runner struct {
	logger   *log.Logger
	vm       *internal.C8VM
	frontend Frontend
	interval time.Duration

	keys  internal.Keyboard
	audio internal.AudioSignal
}

// New returns a runner that executes hz cycles per second.
func New(logger *log.Logger, vm *internal.C8VM, frontend Frontend, hz int) *Runner {
	return &Runner{
		logger:   logger,
		vm:       vm,
		frontend: frontend,
		interval: time.Second / time.Duration(hz),
		audio:    internal.AudioStop,
	}
}

// Run is the main application loop. It returns nil when the frontend asks to quit,
// the context error on cancellation and the VM error if the program failed.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer r.frontend.Audio(internal.AudioStop)

	r.logger.Debug("Starting main loop", log.String("interval", r.interval.String()))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if r.frontend.PollInput(&r.keys) {
			r.logger.Info("Quit requested")
			return nil
		}
		if err := r.Tick(); err != nil {
			return err
		}
	}
}

// Tick runs a single cycle and forwards its output to the frontend.
func (r *Runner) Tick() error {
	if err := r.vm.Step(r.keys); err != nil {
		r.logger.Error("Program stopped", log.Err(err), log.String("cpu", r.vm.CPU().String()))
		return fmt.Errorf("program stopped: %w", err)
	}

	if frame, ok := r.vm.Frame(); ok {
		r.frontend.Render(frame)
	}

	if signal := r.vm.Audio(); signal != r.audio {
		r.audio = signal
		r.frontend.Audio(signal)
	}
	return nil
}
