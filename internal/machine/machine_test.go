package machine

import (
	"context"
	"errors"
	"testing"

	"github.com/kapitanov/chip8cpu/internal/keypad"
	"github.com/kapitanov/chip8cpu/internal/screen"
	"github.com/kapitanov/chip8cpu/internal/vm"
	"github.com/retroenv/retrogolib/assert"
)

// scriptHAL presses keys on given frames and fails on a given frame.
type scriptHAL struct {
	frame   int
	presses map[int]keypad.Key
	failAt  int
	failErr error
	draws   int
}

func (h *scriptHAL) ReadInput(keyDown func(keypad.Key), _ func(keypad.Key)) error {
	h.frame++
	if h.failErr != nil && h.frame == h.failAt {
		return h.failErr
	}
	if key, ok := h.presses[h.frame]; ok {
		keyDown(key)
	}
	return nil
}

func (h *scriptHAL) Draw(_ *screen.Framebuffer) error {
	h.draws++
	return nil
}

type toneLog struct {
	tones []bool
}

func (l *toneLog) SetTone(on bool) {
	l.tones = append(l.tones, on)
}

func program(opcodes ...uint16) []byte {
	b := make([]byte, 0, len(opcodes)*2)
	for _, op := range opcodes {
		b = append(b, byte(op>>8), byte(op))
	}
	return b
}

func register(t *testing.T, m *Machine, i uint8) uint8 {
	t.Helper()

	v, err := m.VM().Registers().Register(i)
	assert.NoError(t, err)
	return v
}

func newMachine(t *testing.T, hal HAL, frames int, rom []byte, buzzers ...Buzzer) *Machine {
	t.Helper()

	m, err := New(rom, vm.DefaultConfig(), hal, Options{
		InstructionsPerSecond: 600,
		MaxFrames:             frames,
		Unpaced:               true,
	}, buzzers...)
	assert.NoError(t, err)
	return m
}

func TestTimersTickOncePerFrame(t *testing.T) {
	// LD V0, 5; LD DT, V0; JP 0x204
	m := newMachine(t, &Headless{}, 3, program(0x6005, 0xF015, 0x1204))

	assert.NoError(t, m.Run(context.Background()))
	assert.Equal(t, 3, m.Frames())
	assert.True(t, m.Looped())
	assert.Equal(t, uint8(2), m.VM().Registers().Delay())
	assert.Equal(t, uint16(0x204), m.VM().Registers().PC())
}

func TestBuzzerFollowsSoundTimer(t *testing.T) {
	tones := &toneLog{}
	m := newMachine(t, &Headless{}, 4, program(0x6003, 0xF018, 0x1204), tones)

	assert.NoError(t, m.Run(context.Background()))
	assert.Equal(t, [4]bool{true, true, false, false}, [4]bool(tones.tones))
}

func TestKeyWaitCompletedByHAL(t *testing.T) {
	hal := &scriptHAL{presses: map[int]keypad.Key{2: keypad.Key7}}
	// LD V0, K; JP 0x202
	m := newMachine(t, hal, 3, program(0xF00A, 0x1202))

	assert.NoError(t, m.Run(context.Background()))
	assert.Equal(t, uint8(7), register(t, m, 0))
	assert.False(t, m.VM().Waiting())
	assert.True(t, m.Looped())
}

func TestKeyWaitStaysSuspended(t *testing.T) {
	m := newMachine(t, &Headless{}, 5, program(0xF30A, 0x1202))

	assert.NoError(t, m.Run(context.Background()))
	assert.True(t, m.VM().Waiting())
	assert.False(t, m.Looped())
	assert.Equal(t, uint16(0x200), m.VM().Registers().PC())
}

func TestHALErrorStopsRun(t *testing.T) {
	hal := &scriptHAL{failAt: 3, failErr: ErrQuit}
	m := newMachine(t, hal, 0, program(0x1200))

	err := m.Run(context.Background())
	assert.True(t, errors.Is(err, ErrQuit))
	assert.Equal(t, 2, m.Frames())
}

func TestDrawOnlyWhenDirty(t *testing.T) {
	hal := &Headless{}
	// CLS; JP 0x202
	m := newMachine(t, hal, 5, program(0x00E0, 0x1202))

	assert.NoError(t, m.Run(context.Background()))
	assert.Equal(t, 1, hal.Draws())
	assert.False(t, m.Screen().Dirty())
}

func TestCoreErrorStopsRun(t *testing.T) {
	m := newMachine(t, &Headless{}, 5, program(0x0000))

	err := m.Run(context.Background())
	assert.True(t, errors.Is(err, vm.ErrUnknownInstruction))
	assert.Equal(t, 0, m.Frames())
}

func TestRunHonoursContext(t *testing.T) {
	m := newMachine(t, &Headless{}, 0, program(0x1200))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestResetClearsLoop(t *testing.T) {
	m := newMachine(t, &Headless{}, 2, program(0x6101, 0x1202))

	assert.NoError(t, m.Run(context.Background()))
	assert.True(t, m.Looped())
	assert.Equal(t, uint8(1), register(t, m, 1))

	assert.NoError(t, m.Reset())
	assert.False(t, m.Looped())
	assert.Equal(t, 0, m.Frames())
	assert.Equal(t, uint16(0x200), m.VM().Registers().PC())

	assert.NoError(t, m.Run(context.Background()))
	assert.True(t, m.Looped())
}

func TestPacedRun(t *testing.T) {
	m, err := New(program(0x1200), vm.DefaultConfig(), &Headless{}, Options{MaxFrames: 3})
	assert.NoError(t, err)

	assert.NoError(t, m.Run(context.Background()))
	assert.Equal(t, 3, m.Frames())
}

func TestSelfCallOverflowsStack(t *testing.T) {
	// CALL 0x200 returns to itself only through the stack, so it is not a loop
	m := newMachine(t, &Headless{}, 5, program(0x2200))

	err := m.Run(context.Background())
	assert.True(t, errors.Is(err, vm.ErrStackOverflow))
	assert.False(t, m.Looped())
	assert.Equal(t, vm.StackSize, m.VM().Stack().Depth())
}

func TestOffsetJumpToSelfLoops(t *testing.T) {
	// JP V0, 0x200 with V0 = 0
	m := newMachine(t, &Headless{}, 2, program(0xB200))

	assert.NoError(t, m.Run(context.Background()))
	assert.True(t, m.Looped())
	assert.Equal(t, uint16(0x200), m.VM().Registers().PC())
}
