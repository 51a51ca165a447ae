package vm

import (
	"math/rand/v2"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

type sprite struct {
	x, y uint8
	rows []uint8
}

type fakeDisplay struct {
	clears    int
	sprites   []sprite
	collision bool
}

func (d *fakeDisplay) Clear() {
	d.clears++
}

func (d *fakeDisplay) DrawSprite(x, y uint8, rows []uint8) bool {
	d.sprites = append(d.sprites, sprite{x: x, y: y, rows: rows})
	return d.collision
}

type fakeKeyboard struct {
	down [KeyCount]bool
}

func (k *fakeKeyboard) IsDown(key uint8) bool {
	return k.down[key]
}

type testVM struct {
	*VM
	display  *fakeDisplay
	keyboard *fakeKeyboard
}

// newTestVM loads program at the default entry address. Opcodes are given as
// words and stored big-endian.
func newTestVM(t *testing.T, config Config, program ...uint16) testVM {
	t.Helper()

	bs := make([]byte, 0, len(program)*2)
	for _, op := range program {
		bs = append(bs, byte(op>>8), byte(op))
	}

	display := &fakeDisplay{}
	keyboard := &fakeKeyboard{}
	machine, err := New(bs, config, display, keyboard, WithRandom(rand.New(rand.NewPCG(1, 2))))
	assert.NoError(t, err)

	return testVM{VM: machine, display: display, keyboard: keyboard}
}

// run executes n steps and fails the test on the first error.
func (tv testVM) run(t *testing.T, n int) {
	t.Helper()

	for range n {
		_, err := tv.Step()
		assert.NoError(t, err)
	}
}
