package internal

import (
	"fmt"
	"math/rand"
	"strings"
)

// CPUState tells whether the CPU executes normally or polls for a key press.
type CPUState uint8

// CPU states
const (
	Running CPUState = iota
	WaitingForKey
)

func (s CPUState) String() string {
	switch s {
	case Running:
		return "running"
	case WaitingForKey:
		return "waiting for key"
	default:
		return fmt.Sprintf("CPUState(%d)", uint8(s))
	}
}

// Quirks select behaviors that differ between CHIP-8 interpreters.
type Quirks struct {
	// SoundThreshold only loads the sound timer when Vx is greater than 2.
	SoundThreshold bool
	// ShiftUsesVy shifts Vy into Vx instead of shifting Vx in place.
	ShiftUsesVy bool
	// IndexIncrement advances I past the last register stored or loaded by Fx55/Fx65.
	IndexIncrement bool
}

// CPU holds the registers, timers and call stack of the VM.
type CPU struct {
	regV       [16]uint8 // 16 general purpose 8-bit registers
	regI       uint16    // 16-bit register that is generally used to store memory addresses
	delayTimer uint8     // Delay timer
	soundTimer uint8     // Sound timer
	pc         uint16    // Program counter
	stack      Stack     // Return addresses of active subroutine calls
	state      CPUState

	quirks Quirks
	rnd    *rand.Rand
}

// NewCPU returns a CPU in its power-on state.
func NewCPU(quirks Quirks, rnd *rand.Rand) *CPU {
	return &CPU{
		pc:     pcStartAddr,
		quirks: quirks,
		rnd:    rnd,
	}
}

// PC returns the program counter.
func (c *CPU) PC() uint16 { return c.pc }

// I returns the index register.
func (c *CPU) I() uint16 { return c.regI }

// V returns general purpose register x.
func (c *CPU) V(x uint8) uint8 { return c.regV[x&0x0F] }

// DelayTimer returns the value of DT
func (c *CPU) DelayTimer() uint8 { return c.delayTimer }

// SoundTimer returns the value of ST
func (c *CPU) SoundTimer() uint8 { return c.soundTimer }

// State returns whether the CPU is blocked on a key press.
func (c *CPU) State() CPUState { return c.state }

// String dumps the registers in a single line.
func (c *CPU) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[pc] %04x [i] %04x [sp] %d", c.pc, c.regI, c.stack.Depth())
	for x, v := range c.regV {
		if x%4 == 0 {
			fmt.Fprintf(&b, " [v%x]", x)
		}
		fmt.Fprintf(&b, " %02x", v)
	}
	fmt.Fprintf(&b, " [dt] %02x [st] %02x", c.delayTimer, c.soundTimer)
	return b.String()
}

// Step executes one cycle: fetch the word at PC, decode and execute it, then
// decrement both timers. The decoded instruction is returned even when execution fails.
func (c *CPU) Step(mem *Memory, video *VideoMemory, keys Keyboard) (Instruction, error) {
	opcode, err := mem.ReadWide(c.pc)
	if err != nil {
		return Instruction{}, err
	}
	ins, err := Decode(opcode)
	if err != nil {
		return ins, err
	}
	if err := c.execute(ins, mem, video, keys); err != nil {
		return ins, err
	}

	if c.delayTimer > 0 {
		c.delayTimer--
	}
	if c.soundTimer > 0 {
		c.soundTimer--
	}
	return ins, nil
}

//nolint:funlen,gocyclo // one case per operation
func (c *CPU) execute(ins Instruction, mem *Memory, video *VideoMemory, keys Keyboard) error {
	x, y, kk := ins.X, ins.Y, ins.KK
	next := c.pc + 2

	switch ins.Op {
	case OpClearScreen: // CLS
		video.Clear()

	case OpReturn: // RET
		addr, err := c.stack.Pop()
		if err != nil {
			return err
		}
		next = addr

	case OpJump: // JP nnn
		next = ins.NNN

	case OpCall: // CALL nnn
		if err := c.stack.Push(next); err != nil {
			return err
		}
		next = ins.NNN

	case OpSkipEqImm: // SE Vx, kk
		if c.regV[x] == kk {
			next += 2
		}

	case OpSkipNeqImm: // SNE Vx, kk
		if c.regV[x] != kk {
			next += 2
		}

	case OpSkipEqReg: // SE Vx, Vy
		if c.regV[x] == c.regV[y] {
			next += 2
		}

	case OpSetImm: // LD Vx, kk
		c.regV[x] = kk

	case OpAddImm: // ADD Vx, kk
		c.regV[x] += kk

	case OpCopy: // LD Vx, Vy
		c.regV[x] = c.regV[y]

	case OpOr: // OR Vx, Vy
		c.regV[x] |= c.regV[y]

	case OpAnd: // AND Vx, Vy
		c.regV[x] &= c.regV[y]

	case OpXor: // XOR Vx, Vy
		c.regV[x] ^= c.regV[y]

	case OpAddReg: // ADD Vx, Vy
		sum := uint16(c.regV[x]) + uint16(c.regV[y])
		c.regV[x] = uint8(sum)
		c.regV[0xF] = flag(sum > 0xFF)

	case OpSubXY: // SUB Vx, Vy
		c.regV[x], c.regV[0xF] = subtract(c.regV[x], c.regV[y])

	case OpSubYX: // SUBN Vx, Vy
		c.regV[x], c.regV[0xF] = subtract(c.regV[y], c.regV[x])

	case OpShiftRight: // SHR Vx {, Vy}
		src := c.shiftSource(x, y)
		c.regV[x] = src >> 1
		c.regV[0xF] = src & 0x01

	case OpShiftLeft: // SHL Vx {, Vy}
		src := c.shiftSource(x, y)
		c.regV[x] = src << 1
		c.regV[0xF] = src >> 7

	case OpSkipNeqReg: // SNE Vx, Vy
		if c.regV[x] != c.regV[y] {
			next += 2
		}

	case OpSetIndex: // LD I, nnn
		c.regI = ins.NNN

	case OpJumpV0: // JP V0, nnn
		next = ins.NNN + uint16(c.regV[0])

	case OpRandom: // RND Vx, kk
		c.regV[x] = uint8(c.rnd.Intn(256)) & kk

	case OpDrawSprite: // DRW Vx, Vy, n
		collided, err := video.DrawSprite(mem, c.regI, c.regV[x], c.regV[y], ins.N)
		if err != nil {
			return err
		}
		c.regV[0xF] = flag(collided)

	case OpSkipKeyDown: // SKP Vx
		if keys.IsPressed(c.regV[x]) {
			next += 2
		}

	case OpSkipKeyUp: // SKNP Vx
		if !keys.IsPressed(c.regV[x]) {
			next += 2
		}

	case OpWaitKey: // LD Vx, K
		key, ok := keys.FirstPressed()
		if !ok {
			c.state = WaitingForKey
			next = c.pc
			break
		}
		c.state = Running
		c.regV[x] = key

	case OpGetDelay: // LD Vx, DT
		c.regV[x] = c.delayTimer

	case OpSetDelay: // LD DT, Vx
		c.delayTimer = c.regV[x]

	case OpSetSound: // LD ST, Vx
		if !c.quirks.SoundThreshold || c.regV[x] > 2 {
			c.soundTimer = c.regV[x]
		}

	case OpAddIndex: // ADD I, Vx
		sum := uint32(c.regI) + uint32(c.regV[x])
		c.regV[0xF] = flag(sum > 0x0FFF)
		// I saturates so it never wraps back into addressable memory
		c.regI = uint16(min(sum, 0xFFFF))

	case OpFontAddr: // LD F, Vx
		c.regI = fontStartAddr + uint16(c.regV[x])*glyphSize

	case OpStoreBCD: // LD B, Vx
		if err := checkRange(c.regI, 3); err != nil {
			return err
		}
		v := c.regV[x]
		mem.data[c.regI] = v / 100
		mem.data[c.regI+1] = (v / 10) % 10
		mem.data[c.regI+2] = v % 10

	case OpStoreRegs: // LD [I], Vx
		count := int(x) + 1
		if err := checkRange(c.regI, count); err != nil {
			return err
		}
		copy(mem.data[c.regI:], c.regV[:count])
		if c.quirks.IndexIncrement {
			c.regI += uint16(count)
		}

	case OpLoadRegs: // LD Vx, [I]
		count := int(x) + 1
		if err := checkRange(c.regI, count); err != nil {
			return err
		}
		copy(c.regV[:count], mem.data[c.regI:])
		if c.quirks.IndexIncrement {
			c.regI += uint16(count)
		}

	default:
		return fmt.Errorf("%w: %04X", ErrUnknownOpcode, ins.Opcode)
	}

	c.pc = next
	return nil
}

// subtract returns minuend - subtrahend and the no-borrow flag.
func subtract(minuend, subtrahend uint8) (uint8, uint8) {
	return minuend - subtrahend, flag(minuend >= subtrahend)
}

func (c *CPU) shiftSource(x, y uint8) uint8 {
	if c.quirks.ShiftUsesVy {
		return c.regV[y]
	}
	return c.regV[x]
}

func flag(set bool) uint8 {
	if set {
		return 1
	}
	return 0
}
