// Package machine drives a CHIP-8 core against a host frontend at a fixed
// frame rate.
package machine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kapitanov/chip8cpu/internal/keypad"
	"github.com/kapitanov/chip8cpu/internal/screen"
	"github.com/kapitanov/chip8cpu/internal/vm"
)

const (
	FrameRate = 60

	DefaultInstructionsPerSecond = 700
)

var (
	ErrQuit   = errors.New("quit")
	ErrReboot = errors.New("reboot")
)

// HAL is the host side of the machine: input and video.
type HAL interface {
	ReadInput(keyDown func(keypad.Key), keyUp func(keypad.Key)) error
	Draw(fb *screen.Framebuffer) error
}

// Buzzer receives the sound timer state once per frame.
type Buzzer interface {
	SetTone(on bool)
}

type Options struct {
	InstructionsPerSecond int
	MaxFrames             int  // 0 means no limit
	Unpaced               bool // run frames back to back
	VMOptions             []vm.Option
}

type Machine struct {
	vm      *vm.VM
	screen  *screen.Framebuffer
	keypad  *keypad.Keypad
	hal     HAL
	buzzers []Buzzer
	opts    Options

	frames int
	looped bool
}

func New(program []byte, config vm.Config, hal HAL, opts Options, buzzers ...Buzzer) (*Machine, error) {
	if opts.InstructionsPerSecond <= 0 {
		opts.InstructionsPerSecond = DefaultInstructionsPerSecond
	}

	m := &Machine{
		screen:  screen.New(),
		keypad:  &keypad.Keypad{},
		hal:     hal,
		buzzers: buzzers,
		opts:    opts,
	}

	core, err := vm.New(program, config, m.screen, m.keypad, opts.VMOptions...)
	if err != nil {
		return nil, err
	}
	m.vm = core

	return m, nil
}

func (m *Machine) VM() *vm.VM {
	return m.vm
}

func (m *Machine) Screen() *screen.Framebuffer {
	return m.screen
}

// Frames returns the number of frames run since the last reset.
func (m *Machine) Frames() int {
	return m.frames
}

// Looped reports whether the program has jumped to itself.
func (m *Machine) Looped() bool {
	return m.looped
}

// Reset reboots the core and releases all keys.
func (m *Machine) Reset() error {
	m.keypad.ReleaseAll()
	m.frames = 0
	m.looped = false
	return m.vm.Reset()
}

// Run executes frames until ctx is done, the frame limit is reached, or the
// HAL or the core reports an error.
func (m *Machine) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if !m.opts.Unpaced {
		ticker := time.NewTicker(time.Second / FrameRate)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if m.opts.MaxFrames > 0 && m.frames >= m.opts.MaxFrames {
			slog.Debug("frame limit reached", "frames", m.frames)
			return nil
		}

		if err := m.RunFrame(); err != nil {
			return err
		}

		if tick == nil {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
		}
	}
}

// RunFrame polls input, executes one frame worth of instructions, ticks
// the timers and redraws the screen if needed.
func (m *Machine) RunFrame() error {
	if err := m.hal.ReadInput(m.keyDown, m.keyUp); err != nil {
		return err
	}

	// A looped program only waits for reboot or quit
	if !m.looped {
		if err := m.runCycles(); err != nil {
			return err
		}
	}

	m.vm.TickTimers()

	tone := m.vm.Registers().Sound() > 0
	for _, b := range m.buzzers {
		b.SetTone(tone)
	}

	if m.screen.Dirty() {
		if err := m.hal.Draw(m.screen); err != nil {
			return err
		}
		m.screen.MarkClean()
	}

	m.frames++
	return nil
}

func (m *Machine) runCycles() error {
	n := max(m.opts.InstructionsPerSecond/FrameRate, 1)

	for range n {
		pc := m.vm.Registers().PC()
		jump := m.isJump(pc)

		status, err := m.vm.Step()
		if err != nil {
			return fmt.Errorf("cpu: %w", err)
		}
		if status == vm.StatusWaitingForKey {
			return nil
		}

		if jump && m.vm.Registers().PC() == pc {
			slog.Info("program looped", "pc", fmt.Sprintf("0x%04x", pc), "cycles", m.vm.Cycles())
			m.looped = true
			return nil
		}
	}

	return nil
}

// isJump reports whether the instruction at pc is a jump. Calls and
// returns that land on the same address are not loops.
func (m *Machine) isJump(pc uint16) bool {
	bs, err := m.vm.Memory().ReadRange(pc, vm.InstructionSize)
	if err != nil {
		return false
	}

	op := vm.Decode(uint16(bs[0])<<8 | uint16(bs[1])).Op
	return op == vm.OpJmp || op == vm.OpJmi
}

func (m *Machine) keyDown(key keypad.Key) {
	m.keypad.Press(key)
	if m.vm.KeyPressed(uint8(key)) {
		slog.Debug("key wait completed", "key", key)
	}
}

func (m *Machine) keyUp(key keypad.Key) {
	m.keypad.Release(key)
}
