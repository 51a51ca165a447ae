package vm

import (
	"context"
	"fmt"
	"log/slog"
)

// flow tells the cycle driver what to do with PC after an instruction.
type flow int

const (
	flowNext flow = iota // advance to the next instruction
	flowSkip             // skip the next instruction
	flowJump             // PC was set by the instruction
	flowWait             // FX0A is waiting for a key press
)

func skipIf(cond bool) flow {
	if cond {
		return flowSkip
	}
	return flowNext
}

func flag(cond bool) uint8 {
	if cond {
		return 1
	}
	return 0
}

type handler func(vm *VM, instr Instruction) (flow, error)

func (vm *VM) executeOpcode(instr Instruction) (flow, error) {
	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug(
			"exec",
			"pc", fmt.Sprintf("0x%04x", vm.registers.pc),
			"opcode", fmt.Sprintf("0x%04x", instr.Opcode),
			"instr", instr.String(),
		)
	}

	return instructions[instr.Op](vm, instr)
}

var instructions = [opCount]handler{
	OpUnknown: func(vm *VM, instr Instruction) (flow, error) {
		return flowNext, fmt.Errorf("op code 0x%04x: %w", instr.Opcode, ErrUnknownInstruction)
	},

	// 0xxx	sys xxx	call machine code routine, there is no machine code to run
	OpSys: func(vm *VM, instr Instruction) (flow, error) {
		return flowNext, fmt.Errorf("machine code routine 0x%03x: %w", instr.Addr, ErrUnknownInstruction)
	},

	// 00E0	cls	clear the screen
	OpCls: func(vm *VM, _ Instruction) (flow, error) {
		vm.display.Clear()
		return flowNext, nil
	},

	// 00EE	rts	return from subroutine call
	OpRts: func(vm *VM, _ Instruction) (flow, error) {
		addr, ok := vm.stack.Pop()
		if !ok {
			return flowNext, fmt.Errorf("return without call: %w", ErrStackUnderflow)
		}

		vm.registers.SetPC(addr)
		return flowJump, nil
	},

	// 1xxx	jmp xxx	jump to address xxx
	OpJmp: func(vm *VM, instr Instruction) (flow, error) {
		vm.registers.SetPC(instr.Addr)
		return flowJump, nil
	},

	// 2xxx	jsr xxx	jump to subroutine at address xxx, the return address is
	// the instruction after the call
	OpJsr: func(vm *VM, instr Instruction) (flow, error) {
		ret := (vm.registers.pc + InstructionSize) & addressMask
		if err := vm.stack.Push(ret); err != nil {
			return flowNext, err
		}

		vm.registers.SetPC(instr.Addr)
		return flowJump, nil
	},

	// 3rxx	skeq vr,xx	skip if register r = constant
	OpSkeqImm: func(vm *VM, instr Instruction) (flow, error) {
		return skipIf(vm.registers.v[instr.X] == instr.KK), nil
	},

	// 4rxx	skne vr,xx	skip if register r <> constant
	OpSkneImm: func(vm *VM, instr Instruction) (flow, error) {
		return skipIf(vm.registers.v[instr.X] != instr.KK), nil
	},

	// 5ry0	skeq vr,vy	skip if register r = register y
	OpSkeqReg: func(vm *VM, instr Instruction) (flow, error) {
		return skipIf(vm.registers.v[instr.X] == vm.registers.v[instr.Y]), nil
	},

	// 6rxx	mov vr,xx	move constant to register r
	OpMovImm: func(vm *VM, instr Instruction) (flow, error) {
		vm.registers.v[instr.X] = instr.KK
		return flowNext, nil
	},

	// 7rxx	add vr,xx	add constant to register r, no carry generated
	OpAddImm: func(vm *VM, instr Instruction) (flow, error) {
		vm.registers.v[instr.X] += instr.KK
		return flowNext, nil
	},

	// 8ry0	mov vr,vy	move register vy into vr
	OpMovReg: func(vm *VM, instr Instruction) (flow, error) {
		vm.registers.v[instr.X] = vm.registers.v[instr.Y]
		return flowNext, nil
	},

	// 8ry1	or vr,vy	or register vy into register vr
	OpOr: func(vm *VM, instr Instruction) (flow, error) {
		vm.registers.v[instr.X] |= vm.registers.v[instr.Y]
		vm.resetLogicFlag()
		return flowNext, nil
	},

	// 8ry2	and vr,vy	and register vy into register vr
	OpAnd: func(vm *VM, instr Instruction) (flow, error) {
		vm.registers.v[instr.X] &= vm.registers.v[instr.Y]
		vm.resetLogicFlag()
		return flowNext, nil
	},

	// 8ry3	xor vr,vy	exclusive or register vy into register vr
	OpXor: func(vm *VM, instr Instruction) (flow, error) {
		vm.registers.v[instr.X] ^= vm.registers.v[instr.Y]
		vm.resetLogicFlag()
		return flowNext, nil
	},

	// 8ry4	add vr,vy	add register vy to vr, carry in vf
	OpAddReg: func(vm *VM, instr Instruction) (flow, error) {
		sum := uint16(vm.registers.v[instr.X]) + uint16(vm.registers.v[instr.Y])

		vm.registers.v[instr.X] = uint8(sum)
		vm.registers.v[flagReg] = flag(sum > 0xFF)
		return flowNext, nil
	},

	// 8ry5	sub vr,vy	subtract register vy from vr, vf set to 0 on borrow
	OpSub: func(vm *VM, instr Instruction) (flow, error) {
		x := vm.registers.v[instr.X]
		y := vm.registers.v[instr.Y]

		vm.registers.v[instr.X] = x - y
		vm.registers.v[flagReg] = flag(x >= y)
		return flowNext, nil
	},

	// 8ry6	shr vr	shift right, bit 0 goes into register vf
	OpShr: func(vm *VM, instr Instruction) (flow, error) {
		src := vm.shiftSource(instr)

		vm.registers.v[instr.X] = src >> 1
		vm.registers.v[flagReg] = src & 0x01
		return flowNext, nil
	},

	// 8ry7	rsb vr,vy	subtract register vr from register vy, result in vr,
	// vf set to 0 on borrow
	OpRsb: func(vm *VM, instr Instruction) (flow, error) {
		x := vm.registers.v[instr.X]
		y := vm.registers.v[instr.Y]

		vm.registers.v[instr.X] = y - x
		vm.registers.v[flagReg] = flag(y >= x)
		return flowNext, nil
	},

	// 8rye	shl vr	shift left, bit 7 goes into register vf
	OpShl: func(vm *VM, instr Instruction) (flow, error) {
		src := vm.shiftSource(instr)

		vm.registers.v[instr.X] = src << 1
		vm.registers.v[flagReg] = src >> 7
		return flowNext, nil
	},

	// 9ry0	skne vr,vy	skip if register r <> register y
	OpSkneReg: func(vm *VM, instr Instruction) (flow, error) {
		return skipIf(vm.registers.v[instr.X] != vm.registers.v[instr.Y]), nil
	},

	// axxx	mvi xxx	load index register with constant xxx
	OpMvi: func(vm *VM, instr Instruction) (flow, error) {
		vm.registers.SetI(instr.Addr)
		return flowNext, nil
	},

	// bxxx	jmi xxx	jump to address xxx + register v0
	OpJmi: func(vm *VM, instr Instruction) (flow, error) {
		offset := vm.registers.v[0]
		if vm.config.Quirks.JumpOffsetUsesVX {
			offset = vm.registers.v[instr.X]
		}

		vm.registers.SetPC(instr.Addr + uint16(offset))
		return flowJump, nil
	},

	// crxx	rand vr,xx	random byte masked by xx
	OpRand: func(vm *VM, instr Instruction) (flow, error) {
		vm.registers.v[instr.X] = vm.random() & instr.KK
		return flowNext, nil
	},

	// drys	sprite vr,vy,s	draw s rows of sprite data from I at (vr, vy),
	// vf set to 1 if a lit pixel was turned off
	OpSprite: func(vm *VM, instr Instruction) (flow, error) {
		sprite, err := vm.memory.ReadRange(vm.registers.index, int(instr.N))
		if err != nil {
			return flowNext, err
		}

		collision := vm.display.DrawSprite(vm.registers.v[instr.X], vm.registers.v[instr.Y], sprite)
		vm.registers.v[flagReg] = flag(collision)
		return flowNext, nil
	},

	// ek9e	skpr k	skip if key (register rk) pressed
	OpSkpr: func(vm *VM, instr Instruction) (flow, error) {
		return skipIf(vm.keyboard.IsDown(vm.registers.v[instr.X] & 0x0F)), nil
	},

	// eka1	skup k	skip if key (register rk) not pressed
	OpSkup: func(vm *VM, instr Instruction) (flow, error) {
		return skipIf(!vm.keyboard.IsDown(vm.registers.v[instr.X] & 0x0F)), nil
	},

	// fr07	gdelay vr	get delay timer into vr
	OpGdelay: func(vm *VM, instr Instruction) (flow, error) {
		vm.registers.v[instr.X] = vm.registers.delayTimer
		return flowNext, nil
	},

	// fr0a	key vr	wait for keypress, put key in register vr
	OpKey: func(vm *VM, _ Instruction) (flow, error) {
		return flowWait, nil
	},

	// fr15	sdelay vr	set the delay timer to vr
	OpSdelay: func(vm *VM, instr Instruction) (flow, error) {
		vm.registers.delayTimer = vm.registers.v[instr.X]
		return flowNext, nil
	},

	// fr18	ssound vr	set the sound timer to vr
	OpSsound: func(vm *VM, instr Instruction) (flow, error) {
		vm.registers.soundTimer = vm.registers.v[instr.X]
		return flowNext, nil
	},

	// fr1e	adi vr	add register vr to the index register
	OpAdi: func(vm *VM, instr Instruction) (flow, error) {
		sum := uint32(vm.registers.index) + uint32(vm.registers.v[instr.X])

		vm.registers.SetI(uint16(sum))
		if vm.config.Quirks.IOverflowSetsVF {
			vm.registers.v[flagReg] = flag(sum > addressMask)
		}
		return flowNext, nil
	},

	// fr29	font vr	point I to the sprite for hexadecimal character in vr
	OpFont: func(vm *VM, instr Instruction) (flow, error) {
		glyph := uint16(vm.registers.v[instr.X]) * FontGlyphSize
		vm.registers.SetI(vm.config.SpriteTableAddress + glyph)
		return flowNext, nil
	},

	// fr33	bcd vr	store the bcd representation of register vr at I, I+1, I+2
	OpBcd: func(vm *VM, instr Instruction) (flow, error) {
		x := vm.registers.v[instr.X]
		digits := []uint8{x / 100, (x / 10) % 10, x % 10}

		if err := vm.storeRange(vm.registers.index, digits); err != nil {
			return flowNext, err
		}
		return flowNext, nil
	},

	// fr55	str v0-vr	store registers v0-vr at location I onwards
	OpStr: func(vm *VM, instr Instruction) (flow, error) {
		n := uint16(instr.X) + 1

		if err := vm.storeRange(vm.registers.index, vm.registers.v[:n]); err != nil {
			return flowNext, err
		}

		if vm.config.Quirks.LoadStoreIncrementsI {
			vm.registers.SetI(vm.registers.index + n)
		}
		return flowNext, nil
	},

	// fr65	ldr v0-vr	load registers v0-vr from location I onwards
	OpLdr: func(vm *VM, instr Instruction) (flow, error) {
		n := uint16(instr.X) + 1

		bs, err := vm.memory.ReadRange(vm.registers.index, int(n))
		if err != nil {
			return flowNext, err
		}
		copy(vm.registers.v[:n], bs)

		if vm.config.Quirks.LoadStoreIncrementsI {
			vm.registers.SetI(vm.registers.index + n)
		}
		return flowNext, nil
	},
}

func (vm *VM) resetLogicFlag() {
	if vm.config.Quirks.LogicResetsVF {
		vm.registers.v[flagReg] = 0
	}
}

func (vm *VM) shiftSource(instr Instruction) uint8 {
	if vm.config.Quirks.ShiftUsesVY {
		return vm.registers.v[instr.Y]
	}
	return vm.registers.v[instr.X]
}

// storeRange writes bs at addr, or nothing if the range leaves memory.
func (vm *VM) storeRange(addr uint16, bs []uint8) error {
	if int(addr)+len(bs) > MemorySize {
		return fmt.Errorf("write 0x%04x+%d: %w", addr, len(bs), ErrOutOfBounds)
	}

	for i, b := range bs {
		if err := vm.memory.Write(addr+uint16(i), b); err != nil {
			return err
		}
	}
	return nil
}
