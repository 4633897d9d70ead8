package internal

import (
	"fmt"
)

// Memory layout constants
const (
	totalMemory    = 0x1000
	fontStartAddr  = 0x000
	pcStartAddr    = 0x200
	maxProgramSize = totalMemory - pcStartAddr

	glyphSize = 5
)

var fontset = []uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the 4 KB flat address space of the VM. The font table lives at the bottom of
// the reserved region, programs start at 0x200.
type Memory struct {
	data [totalMemory]uint8
}

// Load resets the memory to the font table followed by the given program image.
// A program that does not fit is rejected as a whole.
func (m *Memory) Load(program []byte) error {
	if len(program) > maxProgramSize {
		return fmt.Errorf("%w: %d bytes, at most %d fit", ErrProgramTooLarge, len(program), maxProgramSize)
	}
	m.data = [totalMemory]uint8{}
	copy(m.data[fontStartAddr:], fontset)
	copy(m.data[pcStartAddr:], program)
	return nil
}

// Read returns the byte at the given address.
func (m *Memory) Read(addr uint16) (uint8, error) {
	if err := checkAddr(addr); err != nil {
		return 0, err
	}
	return m.data[addr], nil
}

// ReadWide returns the big-endian 16-bit word at addr and addr+1.
func (m *Memory) ReadWide(addr uint16) (uint16, error) {
	if err := checkRange(addr, 2); err != nil {
		return 0, err
	}
	return uint16(m.data[addr])<<8 | uint16(m.data[addr+1]), nil
}

// Write stores a byte at the given address.
func (m *Memory) Write(addr uint16, value uint8) error {
	if err := checkAddr(addr); err != nil {
		return err
	}
	m.data[addr] = value
	return nil
}

func checkAddr(addr uint16) error {
	if int(addr) >= totalMemory {
		return fmt.Errorf("%w: address %04X", ErrOutOfBounds, addr)
	}
	return nil
}

// checkRange verifies that count bytes starting at addr are all addressable.
func checkRange(addr uint16, count int) error {
	if count > 0 && int(addr)+count > totalMemory {
		return fmt.Errorf("%w: address %04X", ErrOutOfBounds, int(addr)+count-1)
	}
	return nil
}
