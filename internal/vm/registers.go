package vm

import "fmt"

const (
	addressMask = 0x0FFF
	flagReg     = 0xF
)

// Registers holds V0-VF, the index register, the program counter and the
// two timers.
type Registers struct {
	v     [RegisterCount]uint8 // V registers (V0-VF)
	index uint16               // I
	pc    uint16               // Program counter

	delayTimer uint8
	soundTimer uint8
}

func (r *Registers) Register(i uint8) (uint8, error) {
	if int(i) >= RegisterCount {
		return 0, fmt.Errorf("register v%d: %w", i, ErrOutOfBounds)
	}

	return r.v[i], nil
}

func (r *Registers) SetRegister(i uint8, value uint8) error {
	if int(i) >= RegisterCount {
		return fmt.Errorf("register v%d: %w", i, ErrOutOfBounds)
	}

	r.v[i] = value
	return nil
}

// I returns the index register.
func (r *Registers) I() uint16 {
	return r.index
}

// SetI stores value masked to 12 bits.
func (r *Registers) SetI(value uint16) {
	r.index = value & addressMask
}

// PC returns the address of the next instruction to fetch.
func (r *Registers) PC() uint16 {
	return r.pc
}

// SetPC stores value masked to 12 bits.
func (r *Registers) SetPC(value uint16) {
	r.pc = value & addressMask
}

func (r *Registers) Delay() uint8 {
	return r.delayTimer
}

func (r *Registers) SetDelay(value uint8) {
	r.delayTimer = value
}

func (r *Registers) Sound() uint8 {
	return r.soundTimer
}

func (r *Registers) SetSound(value uint8) {
	r.soundTimer = value
}

// tick decrements both timers, stopping at zero.
func (r *Registers) tick() {
	if r.delayTimer > 0 {
		r.delayTimer--
	}

	if r.soundTimer > 0 {
		r.soundTimer--
	}
}
