package internal

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/retroenv/retrogolib/log"
)

// C8VM is an emulated CHIP-8 VM. It owns the CPU, the memory and the display; the
// keyboard belongs to the frontend and is passed to every Step.
type C8VM struct {
	logger *log.Logger

	cpu    *CPU
	memory Memory
	video  VideoMemory

	quirks  Quirks
	rnd     *rand.Rand
	program []byte // Image loaded by the last Load, kept for Reset

	frame      Frame // Latest display snapshot not yet taken by the frontend
	frameReady bool

	err error // Fatal condition that halted the VM
}

// NewC8VM creates a new instance of an emulated CHIP-8 VM with an empty program.
func NewC8VM(logger *log.Logger, quirks Quirks, rnd *rand.Rand) *C8VM {
	vm := &C8VM{
		logger: logger,
		quirks: quirks,
		rnd:    rnd,
	}
	vm.Reset()
	return vm
}

// LoadProgram loads a given CHIP-8 program file into the VM's memory
func (vm *C8VM) LoadProgram(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	if err := vm.Load(data); err != nil {
		return fmt.Errorf("loading program '%s': %w", filename, err)
	}
	return nil
}

// Load resets the VM and places the program image at 0x200.
func (vm *C8VM) Load(program []byte) error {
	if len(program) > maxProgramSize {
		return fmt.Errorf("%w: %d bytes, at most %d fit", ErrProgramTooLarge, len(program), maxProgramSize)
	}
	vm.program = append([]byte(nil), program...)
	vm.Reset()
	vm.logger.Info("Program loaded", log.Int("size", len(program)))
	return nil
}

// Reset restores the power-on state and reloads the current program image.
func (vm *C8VM) Reset() {
	vm.cpu = NewCPU(vm.quirks, vm.rnd)
	vm.video = VideoMemory{}
	vm.frame = Frame{}
	vm.frameReady = false
	vm.err = nil
	// the image size was validated when it was set
	_ = vm.memory.Load(vm.program)
}

// Step runs a single cycle with the given keyboard state. Once a cycle failed the VM
// stays halted and every further call returns the same error.
func (vm *C8VM) Step(keys Keyboard) error {
	if vm.err != nil {
		return vm.err
	}

	pc := vm.cpu.pc
	ins, err := vm.cpu.Step(&vm.memory, &vm.video, keys)
	if err != nil {
		vm.err = &CycleError{PC: pc, Opcode: ins.Opcode, Err: err}
		return vm.err
	}
	vm.logger.Debug("Executed instruction",
		log.Hex("pc", pc),
		log.Hex("opcode", ins.Opcode),
		log.String("op", ins.Op.Mnemonic()))

	if frame, ok := vm.video.snapshot(); ok {
		vm.frame = frame
		vm.frameReady = true
	}
	return nil
}

// Frame returns the display snapshot produced by the last cycle that drew to the
// screen. Each snapshot is handed out once.
func (vm *C8VM) Frame() (Frame, bool) {
	if !vm.frameReady {
		return Frame{}, false
	}
	vm.frameReady = false
	return vm.frame, true
}

// Audio returns whether the tone should currently be playing.
func (vm *C8VM) Audio() AudioSignal {
	if vm.cpu.soundTimer > 0 {
		return AudioPlay
	}
	return AudioStop
}

// CPU gives read access to the registers and timers.
func (vm *C8VM) CPU() *CPU {
	return vm.cpu
}

// Memory gives access to the address space, for inspection by the host.
func (vm *C8VM) Memory() *Memory {
	return &vm.memory
}

// Halted reports whether a fatal condition stopped the VM.
func (vm *C8VM) Halted() bool {
	return vm.err != nil
}

// Err returns the fatal condition that stopped the VM, if any.
func (vm *C8VM) Err() error {
	return vm.err
}
