// Package disasm produces a linear listing of a CHIP-8 ROM. Mnemonics
// follow the common CHIP-8 assembler syntax.
package disasm

import (
	"fmt"
	"io"
	"strings"

	"github.com/kapitanov/chip8cpu/internal/vm"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

const dataDirective = "db"

// Line is one row of the listing: an instruction or data bytes.
type Line struct {
	Address  uint16
	Bytes    []byte
	Label    string // set when the address is a jump or call target
	Mnemonic string
	Operands string
	Data     bool
}

func (l Line) String() string {
	var sb strings.Builder

	if l.Label != "" {
		sb.WriteString(l.Label)
		sb.WriteString(":\n")
	}

	fmt.Fprintf(&sb, "%04X  % X", l.Address, l.Bytes)
	if len(l.Bytes) == 1 {
		sb.WriteString("   ")
	}

	sb.WriteString("  ")
	sb.WriteString(l.Mnemonic)
	if l.Operands != "" {
		sb.WriteByte(' ')
		sb.WriteString(l.Operands)
	}

	return sb.String()
}

// Disassemble decodes rom as loaded at base. Words that are not valid
// instructions and a trailing odd byte are listed as data.
func Disassemble(rom []byte, base uint16) []Line {
	type branch struct {
		line   int
		target uint16
	}

	lines := make([]Line, 0, len(rom)/2+1)
	index := make(map[uint16]int)
	var branches []branch

	for offset := 0; offset < len(rom); offset += vm.InstructionSize {
		addr := base + uint16(offset)
		index[addr] = len(lines)

		if offset+1 >= len(rom) {
			lines = append(lines, dataLine(addr, rom[offset:]))
			break
		}

		word := uint16(rom[offset])<<8 | uint16(rom[offset+1])
		op, ok := lookup(word)
		instr := vm.Decode(word)
		if !ok || instr.Op == vm.OpUnknown || instr.Op == vm.OpSys {
			lines = append(lines, dataLine(addr, rom[offset:offset+2]))
			continue
		}

		if instr.Op == vm.OpJmp || instr.Op == vm.OpJsr {
			branches = append(branches, branch{line: len(lines), target: instr.Addr})
		}

		lines = append(lines, Line{
			Address:  addr,
			Bytes:    rom[offset : offset+2],
			Mnemonic: op.Instruction.Name,
			Operands: operands(instr),
		})
	}

	// Refer to targets that are instructions in the listing by label
	for _, b := range branches {
		i, ok := index[b.target]
		if !ok || lines[i].Data {
			continue
		}

		label := fmt.Sprintf("L%03X", b.target)
		lines[i].Label = label
		lines[b.line].Operands = label
	}

	return lines
}

// Write prints the listing, one line per row.
func Write(w io.Writer, lines []Line) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l.String()); err != nil {
			return err
		}
	}
	return nil
}

func lookup(word uint16) (chip8.Opcode, bool) {
	for _, op := range chip8.Opcodes[int(word>>12)] {
		if op.Info.Mask&word == op.Info.Value {
			return op, op.Instruction != nil
		}
	}
	return chip8.Opcode{}, false
}

func dataLine(addr uint16, b []byte) Line {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("0x%02X", v)
	}

	return Line{
		Address:  addr,
		Bytes:    b,
		Mnemonic: dataDirective,
		Operands: strings.Join(parts, ", "),
		Data:     true,
	}
}

func operands(in vm.Instruction) string {
	switch in.Op {
	case vm.OpCls, vm.OpRts:
		return ""
	case vm.OpJmp, vm.OpJsr:
		return fmt.Sprintf("0x%03X", in.Addr)
	case vm.OpJmi:
		return fmt.Sprintf("V0, 0x%03X", in.Addr)
	case vm.OpMvi:
		return fmt.Sprintf("I, 0x%03X", in.Addr)
	case vm.OpSkeqImm, vm.OpSkneImm, vm.OpMovImm, vm.OpAddImm, vm.OpRand:
		return fmt.Sprintf("V%X, 0x%02X", in.X, in.KK)
	case vm.OpSprite:
		return fmt.Sprintf("V%X, V%X, %d", in.X, in.Y, in.N)
	case vm.OpSkpr, vm.OpSkup:
		return fmt.Sprintf("V%X", in.X)
	case vm.OpGdelay:
		return fmt.Sprintf("V%X, DT", in.X)
	case vm.OpKey:
		return fmt.Sprintf("V%X, K", in.X)
	case vm.OpSdelay:
		return fmt.Sprintf("DT, V%X", in.X)
	case vm.OpSsound:
		return fmt.Sprintf("ST, V%X", in.X)
	case vm.OpAdi:
		return fmt.Sprintf("I, V%X", in.X)
	case vm.OpFont:
		return fmt.Sprintf("F, V%X", in.X)
	case vm.OpBcd:
		return fmt.Sprintf("B, V%X", in.X)
	case vm.OpStr:
		return fmt.Sprintf("[I], V%X", in.X)
	case vm.OpLdr:
		return fmt.Sprintf("V%X, [I]", in.X)
	default:
		// Register pair forms: SE, SNE, LD, OR, AND, XOR, ADD, SUB, SHR, SUBN, SHL
		return fmt.Sprintf("V%X, V%X", in.X, in.Y)
	}
}
