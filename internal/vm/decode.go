package vm

import "fmt"

// Op identifies one of the CHIP-8 operations.
type Op uint8

const (
	OpUnknown Op = iota
	OpSys
	OpCls
	OpRts
	OpJmp
	OpJsr
	OpSkeqImm
	OpSkneImm
	OpSkeqReg
	OpMovImm
	OpAddImm
	OpMovReg
	OpOr
	OpAnd
	OpXor
	OpAddReg
	OpSub
	OpShr
	OpRsb
	OpShl
	OpSkneReg
	OpMvi
	OpJmi
	OpRand
	OpSprite
	OpSkpr
	OpSkup
	OpGdelay
	OpKey
	OpSdelay
	OpSsound
	OpAdi
	OpFont
	OpBcd
	OpStr
	OpLdr

	opCount
)

// Instruction is a decoded opcode. All operand fields are extracted for
// every opcode; which of them are meaningful depends on Op.
type Instruction struct {
	Op     Op
	Opcode uint16

	X    uint8  // (opcode >> 8) & 0xF
	Y    uint8  // (opcode >> 4) & 0xF
	N    uint8  // opcode & 0xF
	KK   uint8  // opcode & 0xFF
	Addr uint16 // opcode & 0xFFF
}

// Decode never fails: opcodes outside the instruction set decode to
// OpUnknown.
func Decode(opcode uint16) Instruction {
	return Instruction{
		Op:     decodeOp(opcode),
		Opcode: opcode,
		X:      uint8(opcode>>8) & 0xF,
		Y:      uint8(opcode>>4) & 0xF,
		N:      uint8(opcode) & 0xF,
		KK:     uint8(opcode),
		Addr:   opcode & 0x0FFF,
	}
}

func decodeOp(opcode uint16) Op {
	switch opcode & 0xF000 {
	case 0x0000:
		switch opcode {
		case 0x00E0:
			// 00E0 - Clear screen
			return OpCls

		case 0x00EE:
			// 00EE - Return from subroutine
			return OpRts

		default:
			// 0NNN - Call machine code routine at NNN
			return OpSys
		}

	case 0x1000:
		// 1NNN - Jump to NNN
		return OpJmp

	case 0x2000:
		// 2NNN - Call subroutine at NNN
		return OpJsr

	case 0x3000:
		// 3XNN - Skip if VX == NN
		return OpSkeqImm

	case 0x4000:
		// 4XNN - Skip if VX != NN
		return OpSkneImm

	case 0x5000:
		// 5XY0 - Skip if VX == VY
		if opcode&0x000F == 0 {
			return OpSkeqReg
		}

	case 0x6000:
		// 6XNN - VX = NN
		return OpMovImm

	case 0x7000:
		// 7XNN - VX += NN, no carry
		return OpAddImm

	case 0x8000:
		switch opcode & 0x000F {
		case 0x0000:
			return OpMovReg
		case 0x0001:
			return OpOr
		case 0x0002:
			return OpAnd
		case 0x0003:
			return OpXor
		case 0x0004:
			return OpAddReg
		case 0x0005:
			return OpSub
		case 0x0006:
			return OpShr
		case 0x0007:
			return OpRsb
		case 0x000E:
			return OpShl
		}

	case 0x9000:
		// 9XY0 - Skip if VX != VY
		if opcode&0x000F == 0 {
			return OpSkneReg
		}

	case 0xA000:
		// ANNN - I = NNN
		return OpMvi

	case 0xB000:
		// BNNN - Jump to NNN + V0
		return OpJmi

	case 0xC000:
		// CXNN - VX = rand() & NN
		return OpRand

	case 0xD000:
		// DXYN - Draw N rows of sprite data from I at (VX, VY), VF = collision
		return OpSprite

	case 0xE000:
		switch opcode & 0x00FF {
		case 0x009E:
			// EX9E - Skip if key VX is down
			return OpSkpr
		case 0x00A1:
			// EXA1 - Skip if key VX is up
			return OpSkup
		}

	case 0xF000:
		switch opcode & 0x00FF {
		case 0x0007:
			return OpGdelay
		case 0x000A:
			return OpKey
		case 0x0015:
			return OpSdelay
		case 0x0018:
			return OpSsound
		case 0x001E:
			return OpAdi
		case 0x0029:
			return OpFont
		case 0x0033:
			return OpBcd
		case 0x0055:
			return OpStr
		case 0x0065:
			return OpLdr
		}
	}

	return OpUnknown
}

var opNames = [opCount]string{
	OpUnknown: "unknown",
	OpSys:     "sys",
	OpCls:     "cls",
	OpRts:     "rts",
	OpJmp:     "jmp",
	OpJsr:     "jsr",
	OpSkeqImm: "skeq",
	OpSkneImm: "skne",
	OpSkeqReg: "skeq",
	OpMovImm:  "mov",
	OpAddImm:  "add",
	OpMovReg:  "mov",
	OpOr:      "or",
	OpAnd:     "and",
	OpXor:     "xor",
	OpAddReg:  "add",
	OpSub:     "sub",
	OpShr:     "shr",
	OpRsb:     "rsb",
	OpShl:     "shl",
	OpSkneReg: "skne",
	OpMvi:     "mvi",
	OpJmi:     "jmi",
	OpRand:    "rand",
	OpSprite:  "sprite",
	OpSkpr:    "skpr",
	OpSkup:    "skup",
	OpGdelay:  "gdelay",
	OpKey:     "key",
	OpSdelay:  "sdelay",
	OpSsound:  "ssound",
	OpAdi:     "adi",
	OpFont:    "font",
	OpBcd:     "bcd",
	OpStr:     "str",
	OpLdr:     "ldr",
}

func (op Op) String() string {
	if op >= opCount {
		return opNames[OpUnknown]
	}
	return opNames[op]
}

// Operands formats the operand list of the instruction, or "" if it has
// none.
func (in Instruction) Operands() string {
	switch in.Op {
	case OpCls, OpRts:
		return ""

	case OpSys, OpJmp, OpJsr, OpMvi, OpJmi:
		return fmt.Sprintf("0x%03x", in.Addr)

	case OpSkeqImm, OpSkneImm, OpMovImm, OpAddImm, OpRand:
		return fmt.Sprintf("v%x, 0x%02x", in.X, in.KK)

	case OpSkeqReg, OpSkneReg, OpMovReg, OpOr, OpAnd, OpXor, OpAddReg, OpSub, OpShr, OpRsb, OpShl:
		return fmt.Sprintf("v%x, v%x", in.X, in.Y)

	case OpSprite:
		return fmt.Sprintf("v%x, v%x, %d", in.X, in.Y, in.N)

	case OpStr, OpLdr:
		return fmt.Sprintf("v0-v%x", in.X)

	case OpUnknown:
		return fmt.Sprintf("0x%04x", in.Opcode)

	default:
		return fmt.Sprintf("v%x", in.X)
	}
}

func (in Instruction) String() string {
	operands := in.Operands()
	if operands == "" {
		return in.Op.String()
	}

	return in.Op.String() + " " + operands
}
