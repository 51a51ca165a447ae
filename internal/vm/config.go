package vm

import (
	"errors"
	"fmt"
)

const (
	MemorySize    = 4096
	StackSize     = 12
	RegisterCount = 16
	KeyCount      = 16

	ProgramStart    = uint16(0x200)
	InstructionSize = 2
)

// Quirks selects between the historically ambiguous behaviours of a few
// instructions.
type Quirks struct {
	// ShiftUsesVY makes 8XY6/8XYE shift VY into VX (COSMAC VIP) instead of
	// shifting VX in place.
	ShiftUsesVY bool

	// IOverflowSetsVF makes FX1E set VF when I+VX leaves the 12-bit range.
	IOverflowSetsVF bool

	// JumpOffsetUsesVX makes BNNN jump to XNN+VX (CHIP-48) instead of NNN+V0.
	JumpOffsetUsesVX bool

	// LoadStoreIncrementsI leaves I pointing past the last byte touched by
	// FX55/FX65, as the COSMAC VIP interpreter did.
	LoadStoreIncrementsI bool

	// LogicResetsVF clears VF after 8XY1, 8XY2 and 8XY3.
	LogicResetsVF bool
}

// Config is fixed for the lifetime of a VM.
type Config struct {
	EntryAddress       uint16
	SpriteTableAddress uint16
	Quirks             Quirks
}

func DefaultConfig() Config {
	return Config{
		EntryAddress:       ProgramStart,
		SpriteTableAddress: 0x000,
		Quirks: Quirks{
			IOverflowSetsVF: true,
		},
	}
}

var errInvalidConfig = errors.New("invalid config")

func (c Config) Validate() error {
	if int(c.EntryAddress) >= MemorySize-1 {
		return fmt.Errorf("entry address 0x%04x: %w", c.EntryAddress, errInvalidConfig)
	}

	if int(c.SpriteTableAddress)+len(chip8Font) > MemorySize {
		return fmt.Errorf("sprite table address 0x%04x: %w", c.SpriteTableAddress, errInvalidConfig)
	}

	return nil
}
