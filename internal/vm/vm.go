package vm

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
)

// Display receives the drawing side effects of 00E0 and DXYN.
type Display interface {
	Clear()
	// DrawSprite draws sprite (one byte per row) at (x, y) and reports
	// whether any lit pixel was turned off.
	DrawSprite(x, y uint8, sprite []uint8) bool
}

// Keyboard reports the state of the 16-key pad.
type Keyboard interface {
	IsDown(key uint8) bool
}

// Status is the outcome of a successful Step.
type Status int

const (
	StatusRunning Status = iota
	// StatusWaitingForKey means FX0A is pending; Step does nothing until
	// KeyPressed is called.
	StatusWaitingForKey
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusWaitingForKey:
		return "waiting for key"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// VM is one interpreter session. It is not safe for concurrent use.
type VM struct {
	config Config

	memory    Memory
	registers Registers
	stack     Stack

	display  Display
	keyboard Keyboard
	random   func() uint8

	waiting bool  // FX0A pending
	waitReg uint8 // register FX0A stores the key into

	cycles  uint64
	program []byte
}

type Option func(*VM)

// WithRandom replaces the random byte source used by CXNN.
func WithRandom(r *rand.Rand) Option {
	return func(vm *VM) {
		vm.random = func() uint8 {
			return uint8(r.IntN(256))
		}
	}
}

// New creates a session with the font and program loaded and PC at the
// configured entry address.
func New(program []byte, config Config, display Display, keyboard Keyboard, opts ...Option) (*VM, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	fontEnd := int(config.SpriteTableAddress) + len(chip8Font)
	programEnd := int(config.EntryAddress) + len(program)
	if fontEnd > int(config.EntryAddress) && programEnd > int(config.SpriteTableAddress) {
		return nil, fmt.Errorf("sprite table 0x%04x overlaps program at 0x%04x: %w",
			config.SpriteTableAddress, config.EntryAddress, errInvalidConfig)
	}

	vm := &VM{
		config:   config,
		display:  display,
		keyboard: keyboard,
		random: func() uint8 {
			return uint8(rand.IntN(256))
		},
		program: program,
	}

	for _, opt := range opts {
		opt(vm)
	}

	if err := vm.Reset(); err != nil {
		return nil, err
	}

	return vm, nil
}

// Reset clears all state and reloads the font and program.
func (vm *VM) Reset() error {
	vm.memory.clear()
	vm.registers = Registers{}
	vm.stack.clear()
	vm.waiting = false
	vm.waitReg = 0
	vm.cycles = 0

	vm.display.Clear()

	slog.Debug("load font", "at", fmt.Sprintf("0x%04x", vm.config.SpriteTableAddress), "n", len(chip8Font))
	if err := vm.memory.Load(chip8Font, vm.config.SpriteTableAddress); err != nil {
		return fmt.Errorf("unable to load font: %w", err)
	}

	slog.Info("load program", "at", fmt.Sprintf("0x%04x", vm.config.EntryAddress), "n", len(vm.program))
	if err := vm.memory.Load(vm.program, vm.config.EntryAddress); err != nil {
		return fmt.Errorf("unable to load program: %w", err)
	}

	vm.registers.SetPC(vm.config.EntryAddress)
	return nil
}

func (vm *VM) Config() Config {
	return vm.config
}

func (vm *VM) Memory() *Memory {
	return &vm.memory
}

func (vm *VM) Registers() *Registers {
	return &vm.registers
}

func (vm *VM) Stack() *Stack {
	return &vm.stack
}

// Cycles returns the number of instructions executed since the last reset.
func (vm *VM) Cycles() uint64 {
	return vm.cycles
}

// Waiting reports whether FX0A is pending.
func (vm *VM) Waiting() bool {
	return vm.waiting
}

// Step runs one fetch-decode-execute cycle. On error the session is left as
// it was before the cycle.
func (vm *VM) Step() (Status, error) {
	if vm.waiting {
		return StatusWaitingForKey, nil
	}

	pc := vm.registers.pc
	opcode, err := vm.fetchOpcode()
	if err != nil {
		return StatusRunning, fmt.Errorf("fetch at 0x%04x: %w", pc, err)
	}

	instr := Decode(opcode)
	next, err := vm.executeOpcode(instr)
	if err != nil {
		return StatusRunning, fmt.Errorf("0x%04x at 0x%04x: %w", opcode, pc, err)
	}
	vm.cycles++

	switch next {
	case flowNext:
		vm.registers.SetPC(pc + InstructionSize)
	case flowSkip:
		vm.registers.SetPC(pc + 2*InstructionSize)
	case flowWait:
		vm.waiting = true
		vm.waitReg = instr.X
		return StatusWaitingForKey, nil
	case flowJump:
		// PC already holds the target
	}

	return StatusRunning, nil
}

// KeyPressed completes a pending FX0A with key. It reports whether the
// session was waiting.
func (vm *VM) KeyPressed(key uint8) bool {
	if !vm.waiting || int(key) >= KeyCount {
		return false
	}

	vm.registers.v[vm.waitReg] = key
	vm.registers.SetPC(vm.registers.pc + InstructionSize)
	vm.waiting = false
	return true
}

// TickTimers decrements the delay and sound timers. It is meant to be
// called at 60Hz regardless of the instruction rate.
func (vm *VM) TickTimers() {
	vm.registers.tick()
}

func (vm *VM) fetchOpcode() (uint16, error) {
	hi, err := vm.memory.Read(vm.registers.pc)
	if err != nil {
		return 0, err
	}

	lo, err := vm.memory.Read(vm.registers.pc + 1)
	if err != nil {
		return 0, err
	}

	return uint16(hi)<<8 | uint16(lo), nil
}

// State is a copy of the session state.
type State struct {
	V     [RegisterCount]uint8
	I     uint16
	PC    uint16
	Delay uint8
	Sound uint8
	Stack []uint16

	WaitingForKey bool
	Cycles        uint64
}

func (vm *VM) State() State {
	return State{
		V:             vm.registers.v,
		I:             vm.registers.index,
		PC:            vm.registers.pc,
		Delay:         vm.registers.delayTimer,
		Sound:         vm.registers.soundTimer,
		Stack:         vm.stack.Frames(),
		WaitingForKey: vm.waiting,
		Cycles:        vm.cycles,
	}
}

// LogValue implements slog.LogValuer.
func (s State) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("pc", fmt.Sprintf("0x%04x", s.PC)),
		slog.String("i", fmt.Sprintf("0x%04x", s.I)),
		slog.String("v", fmt.Sprintf("% x", s.V[:])),
		slog.Int("delay", int(s.Delay)),
		slog.Int("sound", int(s.Sound)),
		slog.Int("depth", len(s.Stack)),
		slog.Bool("waiting", s.WaitingForKey),
		slog.Uint64("cycles", s.Cycles),
	)
}
