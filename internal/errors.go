package internal

import (
	"errors"
	"fmt"
)

// Fatal conditions of an emulated program. None of them are recoverable, the VM halts
// on the first one and keeps returning it.
var (
	ErrOutOfBounds     = errors.New("memory access out of bounds")
	ErrProgramTooLarge = fmt.Errorf("program too large: %w", ErrOutOfBounds)
	ErrStackOverflow   = errors.New("stack overflow")
	ErrStackUnderflow  = errors.New("stack underflow")
	ErrUnknownOpcode   = errors.New("unknown opcode")
)

// CycleError is returned by Step when a cycle fails. It records where the VM stopped.
type CycleError struct {
	PC     uint16 // Program counter of the failing instruction
	Opcode uint16 // Raw instruction word, 0 if the fetch itself failed
	Err    error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle at %04X (opcode %04X): %v", e.PC, e.Opcode, e.Err)
}

func (e *CycleError) Unwrap() error {
	return e.Err
}
