// Package termhal is a text frontend that draws the framebuffer with
// half-block characters and reads the keypad from a raw mode terminal.
package termhal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/kapitanov/chip8cpu/internal/keypad"
	"github.com/kapitanov/chip8cpu/internal/machine"
	"github.com/kapitanov/chip8cpu/internal/screen"
	"golang.org/x/term"
)

// Terminals only report key presses, so a key counts as held for this long
// after its last press or auto-repeat.
const DefaultHoldTime = 150 * time.Millisecond

const (
	keyCtrlC     = 0x03
	keyBackspace = 0x08
	keyEscape    = 0x1b
	keyDelete    = 0x7f

	cursorHome  = "\x1b[H"
	clearScreen = "\x1b[2J"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

var ErrNotTerminal = errors.New("not a terminal")

type HAL struct {
	in       io.Reader
	out      io.Writer
	events   chan byte
	held     map[keypad.Key]time.Time
	holdTime time.Duration
	now      func() time.Time

	fd       int
	oldState *term.State
}

// New creates a frontend reading key bytes from in. Nothing is read until
// EnterRaw has switched the controlling terminal to raw mode.
func New(in io.Reader, out io.Writer) *HAL {
	h := newHAL(out)
	h.in = in
	return h
}

func newHAL(out io.Writer) *HAL {
	return &HAL{
		out:      out,
		events:   make(chan byte, 64),
		held:     make(map[keypad.Key]time.Time),
		holdTime: DefaultHoldTime,
		now:      time.Now,
	}
}

func (h *HAL) readLoop(in io.Reader) {
	defer close(h.events)

	r := bufio.NewReader(in)
	for {
		b, err := r.ReadByte()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				slog.Debug("termhal: input closed", "err", err)
			}
			return
		}
		h.events <- b
	}
}

// EnterRaw puts the terminal behind fd into raw mode and clears it.
func (h *HAL) EnterRaw(fd int) error {
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}

	if w, hgt, err := term.GetSize(fd); err == nil && (w < screen.Width || hgt < screen.Height/2) {
		slog.Warn("termhal: terminal is smaller than the screen", "cols", w, "rows", hgt)
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to set raw mode: %w", err)
	}
	h.fd = fd
	h.oldState = state

	go h.readLoop(h.in)

	_, err = io.WriteString(h.out, clearScreen+hideCursor)
	return err
}

// Shutdown restores the terminal state.
func (h *HAL) Shutdown() {
	if h.oldState == nil {
		return
	}

	if _, err := io.WriteString(h.out, showCursor+"\r\n"); err != nil {
		slog.Error("termhal: failed to restore cursor", "err", err)
	}
	if err := term.Restore(h.fd, h.oldState); err != nil {
		slog.Error("termhal: failed to restore terminal", "err", err)
	}
	h.oldState = nil
}

// ReadInput handles the bytes received since the last call. Escape and
// Ctrl-C quit, Backspace reboots.
func (h *HAL) ReadInput(keyDown func(keypad.Key), keyUp func(keypad.Key)) error {
	now := h.now()

drain:
	for {
		select {
		case b, ok := <-h.events:
			if !ok {
				break drain
			}

			switch b {
			case keyEscape, keyCtrlC:
				return machine.ErrQuit
			case keyBackspace, keyDelete:
				return machine.ErrReboot
			}

			key, ok := keypad.FromRune(rune(b))
			if !ok {
				continue
			}
			if _, down := h.held[key]; !down {
				keyDown(key)
			}
			h.held[key] = now

		default:
			break drain
		}
	}

	for key, pressed := range h.held {
		if now.Sub(pressed) >= h.holdTime {
			delete(h.held, key)
			keyUp(key)
		}
	}

	return nil
}

func (h *HAL) Draw(fb *screen.Framebuffer) error {
	if _, err := io.WriteString(h.out, cursorHome); err != nil {
		return err
	}
	return Render(h.out, fb)
}

// Render writes the framebuffer as Height/2 lines of half-block
// characters. Lines end with CRLF so the output also works in raw mode.
func Render(w io.Writer, fb *screen.Framebuffer) error {
	bw := bufio.NewWriter(w)

	for y := 0; y < screen.Height; y += 2 {
		for x := 0; x < screen.Width; x++ {
			top, bottom := fb.Pixel(x, y), fb.Pixel(x, y+1)
			switch {
			case top && bottom:
				bw.WriteRune('█')
			case top:
				bw.WriteRune('▀')
			case bottom:
				bw.WriteRune('▄')
			default:
				bw.WriteByte(' ')
			}
		}
		bw.WriteString("\r\n")
	}

	return bw.Flush()
}
