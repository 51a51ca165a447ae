package machine

import (
	"github.com/kapitanov/chip8cpu/internal/keypad"
	"github.com/kapitanov/chip8cpu/internal/screen"
)

// Headless is a HAL without input or output. It is used for batch runs
// that end with a frame limit.
type Headless struct {
	draws int
}

func (h *Headless) ReadInput(_ func(keypad.Key), _ func(keypad.Key)) error {
	return nil
}

func (h *Headless) Draw(_ *screen.Framebuffer) error {
	h.draws++
	return nil
}

// Draws returns the number of redraws requested so far.
func (h *Headless) Draws() int {
	return h.draws
}
