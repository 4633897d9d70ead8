package internal

import "fmt"

const stackDepth = 16

// Stack holds the return addresses of subroutine calls.
type Stack struct {
	frames [stackDepth]uint16 // Return addresses
	sp     uint8              // Stack pointer, number of frames in use
}

// Push stores a return address on top of the stack.
func (s *Stack) Push(addr uint16) error {
	if s.sp == stackDepth {
		return fmt.Errorf("%w: pushing %04X with %d frames in use", ErrStackOverflow, addr, s.sp)
	}
	s.frames[s.sp] = addr
	s.sp++
	return nil
}

// Pop removes and returns the most recent return address.
func (s *Stack) Pop() (uint16, error) {
	if s.sp == 0 {
		return 0, ErrStackUnderflow
	}
	s.sp--
	return s.frames[s.sp], nil
}

// Depth returns the number of frames in use.
func (s *Stack) Depth() int {
	return int(s.sp)
}
