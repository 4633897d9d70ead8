package internal

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Op identifies a decoded CHIP-8 operation.
type Op uint8

// Operations of the CHIP-8 instruction set.
const (
	OpClearScreen Op = iota + 1 // 00E0
	OpReturn                    // 00EE
	OpJump                      // 1nnn
	OpCall                      // 2nnn
	OpSkipEqImm                 // 3xkk
	OpSkipNeqImm                // 4xkk
	OpSkipEqReg                 // 5xy0
	OpSetImm                    // 6xkk
	OpAddImm                    // 7xkk
	OpCopy                      // 8xy0
	OpOr                        // 8xy1
	OpAnd                       // 8xy2
	OpXor                       // 8xy3
	OpAddReg                    // 8xy4
	OpSubXY                     // 8xy5
	OpShiftRight                // 8xy6
	OpSubYX                     // 8xy7
	OpShiftLeft                 // 8xyE
	OpSkipNeqReg                // 9xy0
	OpSetIndex                  // Annn
	OpJumpV0                    // Bnnn
	OpRandom                    // Cxkk
	OpDrawSprite                // Dxyn
	OpSkipKeyDown               // Ex9E
	OpSkipKeyUp                 // ExA1
	OpWaitKey                   // Fx0A
	OpGetDelay                  // Fx07
	OpSetDelay                  // Fx15
	OpSetSound                  // Fx18
	OpAddIndex                  // Fx1E
	OpFontAddr                  // Fx29
	OpStoreBCD                  // Fx33
	OpStoreRegs                 // Fx55
	OpLoadRegs                  // Fx65
)

var opNames = map[Op]string{
	OpClearScreen: "ClearScreen",
	OpReturn:      "Return",
	OpJump:        "Jump",
	OpCall:        "Call",
	OpSkipEqImm:   "SkipEqImm",
	OpSkipNeqImm:  "SkipNeqImm",
	OpSkipEqReg:   "SkipEqReg",
	OpSetImm:      "SetImm",
	OpAddImm:      "AddImm",
	OpCopy:        "Copy",
	OpOr:          "Or",
	OpAnd:         "And",
	OpXor:         "Xor",
	OpAddReg:      "AddReg",
	OpSubXY:       "SubXY",
	OpShiftRight:  "ShiftRight",
	OpSubYX:       "SubYX",
	OpShiftLeft:   "ShiftLeft",
	OpSkipNeqReg:  "SkipNeqReg",
	OpSetIndex:    "SetIndex",
	OpJumpV0:      "JumpV0",
	OpRandom:      "Random",
	OpDrawSprite:  "DrawSprite",
	OpSkipKeyDown: "SkipKeyDown",
	OpSkipKeyUp:   "SkipKeyUp",
	OpWaitKey:     "WaitKey",
	OpGetDelay:    "GetDelay",
	OpSetDelay:    "SetDelay",
	OpSetSound:    "SetSound",
	OpAddIndex:    "AddIndex",
	OpFontAddr:    "FontAddr",
	OpStoreBCD:    "StoreBCD",
	OpStoreRegs:   "StoreRegs",
	OpLoadRegs:    "LoadRegs",
}

// assembler mnemonic of every operation, several operations share the LD and ADD forms
var mnemonics = map[Op]*chip8.Instruction{
	OpClearScreen: chip8.ClsInst,
	OpReturn:      chip8.RetInst,
	OpJump:        chip8.JpInst,
	OpCall:        chip8.CallInst,
	OpSkipEqImm:   chip8.SeInst,
	OpSkipNeqImm:  chip8.SneInst,
	OpSkipEqReg:   chip8.SeInst,
	OpSetImm:      chip8.LdInst,
	OpAddImm:      chip8.AddInst,
	OpCopy:        chip8.LdInst,
	OpOr:          chip8.OrInst,
	OpAnd:         chip8.AndInst,
	OpXor:         chip8.XorInst,
	OpAddReg:      chip8.AddInst,
	OpSubXY:       chip8.SubInst,
	OpShiftRight:  chip8.ShrInst,
	OpSubYX:       chip8.SubnInst,
	OpShiftLeft:   chip8.ShlInst,
	OpSkipNeqReg:  chip8.SneInst,
	OpSetIndex:    chip8.LdInst,
	OpJumpV0:      chip8.JpInst,
	OpRandom:      chip8.RndInst,
	OpDrawSprite:  chip8.DrwInst,
	OpSkipKeyDown: chip8.SkpInst,
	OpSkipKeyUp:   chip8.SknpInst,
	OpWaitKey:     chip8.LdInst,
	OpGetDelay:    chip8.LdInst,
	OpSetDelay:    chip8.LdInst,
	OpSetSound:    chip8.LdInst,
	OpAddIndex:    chip8.AddInst,
	OpFontAddr:    chip8.LdInst,
	OpStoreBCD:    chip8.LdInst,
	OpStoreRegs:   chip8.LdInst,
	OpLoadRegs:    chip8.LdInst,
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// Mnemonic returns the assembler mnemonic of the operation, for example "LD".
func (op Op) Mnemonic() string {
	if ins, ok := mnemonics[op]; ok {
		return ins.Name
	}
	return "???"
}

// Instruction is a decoded instruction word. Which operand fields are meaningful
// depends on Op.
type Instruction struct {
	Op     Op
	Opcode uint16 // Raw 16-bit instruction word
	X      uint8  // The lower 4 bits of the high byte of the instruction
	Y      uint8  // The upper 4 bits of the low byte of the instruction
	N      uint8  // The lowest 4 bits of the instruction
	KK     uint8  // The lowest 8 bits of the instruction
	NNN    uint16 // The lowest 12 bits of the instruction
}

type pattern struct {
	op    Op
	value uint16
	mask  uint16
}

// Patterns are matched in order, the exact 00E0/00EE words and the sub-opcode families
// use wider masks than the single-nibble ones.
var patterns = []pattern{
	{OpClearScreen, 0x00E0, 0xFFFF},
	{OpReturn, 0x00EE, 0xFFFF},
	{OpJump, 0x1000, 0xF000},
	{OpCall, 0x2000, 0xF000},
	{OpSkipEqImm, 0x3000, 0xF000},
	{OpSkipNeqImm, 0x4000, 0xF000},
	{OpSkipEqReg, 0x5000, 0xF00F},
	{OpSetImm, 0x6000, 0xF000},
	{OpAddImm, 0x7000, 0xF000},
	{OpCopy, 0x8000, 0xF00F},
	{OpOr, 0x8001, 0xF00F},
	{OpAnd, 0x8002, 0xF00F},
	{OpXor, 0x8003, 0xF00F},
	{OpAddReg, 0x8004, 0xF00F},
	{OpSubXY, 0x8005, 0xF00F},
	{OpShiftRight, 0x8006, 0xF00F},
	{OpSubYX, 0x8007, 0xF00F},
	{OpShiftLeft, 0x800E, 0xF00F},
	{OpSkipNeqReg, 0x9000, 0xF000},
	{OpSetIndex, 0xA000, 0xF000},
	{OpJumpV0, 0xB000, 0xF000},
	{OpRandom, 0xC000, 0xF000},
	{OpDrawSprite, 0xD000, 0xF000},
	{OpSkipKeyDown, 0xE09E, 0xF0FF},
	{OpSkipKeyUp, 0xE0A1, 0xF0FF},
	{OpWaitKey, 0xF00A, 0xF0FF},
	{OpGetDelay, 0xF007, 0xF0FF},
	{OpSetDelay, 0xF015, 0xF0FF},
	{OpSetSound, 0xF018, 0xF0FF},
	{OpAddIndex, 0xF01E, 0xF0FF},
	{OpFontAddr, 0xF029, 0xF0FF},
	{OpStoreBCD, 0xF033, 0xF0FF},
	{OpStoreRegs, 0xF055, 0xF0FF},
	{OpLoadRegs, 0xF065, 0xF0FF},
}

// Decode classifies a 16-bit instruction word.
func Decode(opcode uint16) (Instruction, error) {
	for _, p := range patterns {
		if opcode&p.mask != p.value {
			continue
		}
		return Instruction{
			Op:     p.op,
			Opcode: opcode,
			X:      uint8((opcode >> 8) & 0x000F),
			Y:      uint8((opcode >> 4) & 0x000F),
			N:      uint8(opcode & 0x000F),
			KK:     uint8(opcode & 0x00FF),
			NNN:    opcode & 0x0FFF,
		}, nil
	}
	return Instruction{Opcode: opcode}, fmt.Errorf("%w: %04X", ErrUnknownOpcode, opcode)
}
