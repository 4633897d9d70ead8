package internal

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newTestVM(t *testing.T, quirks Quirks, program ...byte) *C8VM {
	t.Helper()
	vm := NewC8VM(log.NewTestLogger(t), quirks, rand.New(rand.NewSource(1)))
	assert.NoError(t, vm.Load(program))
	return vm
}

func TestNewC8VM(t *testing.T) {
	vm := NewC8VM(log.NewTestLogger(t), Quirks{}, rand.New(rand.NewSource(1)))
	assert.Equal(t, uint16(pcStartAddr), vm.CPU().PC())
	assert.False(t, vm.Halted())
	assert.Equal(t, AudioStop, vm.Audio())

	v, err := vm.Memory().Read(0)
	assert.NoError(t, err)
	assert.Equal(t, fontset[0], v)
}

func TestLoadProgramFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.ch8")
	assert.NoError(t, os.WriteFile(path, []byte{0x6A, 0x42}, 0o600))

	vm := NewC8VM(log.NewTestLogger(t), Quirks{}, rand.New(rand.NewSource(1)))
	assert.NoError(t, vm.LoadProgram(path))
	assert.NoError(t, vm.Step(Keyboard{}))
	assert.Equal(t, uint8(0x42), vm.CPU().V(0xA))

	err := vm.LoadProgram(filepath.Join(t.TempDir(), "missing.ch8"))
	assert.Error(t, err)
}

func TestLoadTooLarge(t *testing.T) {
	vm := newTestVM(t, Quirks{}, 0x6A, 0x42)
	err := vm.Load(make([]byte, maxProgramSize+1))
	assert.True(t, errors.Is(err, ErrProgramTooLarge))

	// the previous program is still in place
	assert.NoError(t, vm.Step(Keyboard{}))
	assert.Equal(t, uint8(0x42), vm.CPU().V(0xA))
}

func TestStepFrameHandOff(t *testing.T) {
	// LD I, 0x206; DRW V0, V0, 1; JP 0x204; sprite 0x80
	vm := newTestVM(t, Quirks{}, 0xA2, 0x06, 0xD0, 0x01, 0x12, 0x04, 0x80, 0x00)

	assert.NoError(t, vm.Step(Keyboard{}))
	_, ok := vm.Frame()
	assert.False(t, ok)

	assert.NoError(t, vm.Step(Keyboard{}))
	frame, ok := vm.Frame()
	assert.True(t, ok)
	assert.True(t, frame.At(0, 0))

	_, ok = vm.Frame()
	assert.False(t, ok)

	assert.NoError(t, vm.Step(Keyboard{}))
	_, ok = vm.Frame()
	assert.False(t, ok)
}

func TestStepAudio(t *testing.T) {
	// LD V0, 3; LD ST, V0; JP 0x204
	vm := newTestVM(t, Quirks{}, 0x60, 0x03, 0xF0, 0x18, 0x12, 0x04)

	assert.NoError(t, vm.Step(Keyboard{}))
	assert.Equal(t, AudioStop, vm.Audio())

	signals := []AudioSignal{AudioPlay, AudioPlay, AudioStop, AudioStop}
	for _, want := range signals {
		assert.NoError(t, vm.Step(Keyboard{}))
		assert.Equal(t, want, vm.Audio())
	}
}

func TestStepHaltsOnFatalError(t *testing.T) {
	vm := newTestVM(t, Quirks{}, 0x60, 0x01, 0x00, 0xEE)
	assert.NoError(t, vm.Step(Keyboard{}))

	err := vm.Step(Keyboard{})
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.True(t, vm.Halted())

	var cycleErr *CycleError
	assert.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, uint16(0x202), cycleErr.PC)
	assert.Equal(t, uint16(0x00EE), cycleErr.Opcode)

	// halted: the same error, no further execution
	assert.Equal(t, err, vm.Step(Keyboard{}))
	assert.Equal(t, uint16(0x202), vm.CPU().PC())
	assert.Equal(t, err, vm.Err())
}

func TestStepUnknownOpcode(t *testing.T) {
	vm := newTestVM(t, Quirks{}, 0x80, 0x1F)
	err := vm.Step(Keyboard{})
	assert.True(t, errors.Is(err, ErrUnknownOpcode))
	assert.Equal(t, "cycle at 0200 (opcode 801F): unknown opcode: 801F", err.Error())
}

func TestReset(t *testing.T) {
	vm := newTestVM(t, Quirks{}, 0x6A, 0x42, 0x00, 0xEE)
	assert.NoError(t, vm.Step(Keyboard{}))
	assert.Error(t, vm.Step(Keyboard{}))

	vm.Reset()
	assert.False(t, vm.Halted())
	assert.Equal(t, uint16(pcStartAddr), vm.CPU().PC())
	assert.Equal(t, uint8(0), vm.CPU().V(0xA))

	assert.NoError(t, vm.Step(Keyboard{}))
	assert.Equal(t, uint8(0x42), vm.CPU().V(0xA))
}

func TestWaitKeyThroughVM(t *testing.T) {
	vm := newTestVM(t, Quirks{}, 0xF3, 0x0A)
	var keys Keyboard

	for i := 0; i < 3; i++ {
		assert.NoError(t, vm.Step(keys))
		assert.Equal(t, uint16(0x200), vm.CPU().PC())
	}

	keys.SetKey(0xE, true)
	assert.NoError(t, vm.Step(keys))
	assert.Equal(t, uint16(0x202), vm.CPU().PC())
	assert.Equal(t, uint8(0xE), vm.CPU().V(3))
}
