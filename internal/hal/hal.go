// Package hal is the SDL frontend: a window showing the framebuffer and the
// keyboard mapped onto the hex keypad.
package hal

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/kapitanov/chip8cpu/internal/keypad"
	"github.com/kapitanov/chip8cpu/internal/machine"
	"github.com/kapitanov/chip8cpu/internal/screen"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	WindowWidth  = screen.Width * 16
	WindowHeight = screen.Height * 16
)

type HAL struct {
	window          *sdl.Window
	renderer        *sdl.Renderer
	texture         *sdl.Texture
	backBuffer      []uint32
	backBufferPitch int
}

func New(title string) (*HAL, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("failed to init sdl: %w", err)
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, WindowWidth, WindowHeight, sdl.WINDOW_SHOWN|sdl.WINDOW_UTILITY)
	if err != nil {
		return nil, fmt.Errorf("failed to create sdl window: %w", err)
	}
	slog.Debug("hal: create window", "title", title)
	window.Show()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return nil, fmt.Errorf("failed to create sdl renderer: %w", err)
	}
	if err = renderer.SetLogicalSize(WindowWidth, WindowHeight); err != nil {
		return nil, fmt.Errorf("failed to resize sdl renderer: %w", err)
	}
	slog.Debug("hal: create renderer")

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING, screen.Width, screen.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to create sdl texture: %w", err)
	}
	slog.Debug("hal: create texture")

	return &HAL{
		window:          window,
		renderer:        renderer,
		texture:         texture,
		backBuffer:      make([]uint32, screen.Width*screen.Height),
		backBufferPitch: screen.Width * int(unsafe.Sizeof(uint32(0))),
	}, nil
}

func (hal *HAL) Shutdown() {
	if err := hal.texture.Destroy(); err != nil {
		slog.Error("failed to destroy sdl texture", "err", err)
	}

	if err := hal.renderer.Destroy(); err != nil {
		slog.Error("failed to destroy sdl renderer", "err", err)
	}

	if err := hal.window.Destroy(); err != nil {
		slog.Error("failed to destroy sdl window", "err", err)
	}

	sdl.Quit()
}

// ReadInput drains the SDL event queue. Backspace reboots, closing the
// window quits.
func (hal *HAL) ReadInput(keyDown func(keypad.Key), keyUp func(keypad.Key)) error {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch e.GetType() {
		case sdl.QUIT:
			slog.Debug("hal: exit requested")
			return machine.ErrQuit

		case sdl.KEYDOWN:
			ke := e.(*sdl.KeyboardEvent)
			if ke.Repeat != 0 {
				continue
			}
			if ke.Keysym.Scancode == sdl.SCANCODE_BACKSPACE {
				slog.Debug("hal: reboot requested")
				return machine.ErrReboot
			}
			if key, ok := keyMap[ke.Keysym.Scancode]; ok {
				keyDown(key)
			}

		case sdl.KEYUP:
			ke := e.(*sdl.KeyboardEvent)
			if key, ok := keyMap[ke.Keysym.Scancode]; ok {
				keyUp(key)
			}
		}
	}

	return nil
}

// Scancodes follow keypad.FromRune so the layout does not depend on the
// host keyboard language.
var keyMap = map[sdl.Scancode]keypad.Key{
	sdl.SCANCODE_1: keypad.Key1, sdl.SCANCODE_2: keypad.Key2, sdl.SCANCODE_3: keypad.Key3, sdl.SCANCODE_4: keypad.KeyC,
	sdl.SCANCODE_Q: keypad.Key4, sdl.SCANCODE_W: keypad.Key5, sdl.SCANCODE_E: keypad.Key6, sdl.SCANCODE_R: keypad.KeyD,
	sdl.SCANCODE_A: keypad.Key7, sdl.SCANCODE_S: keypad.Key8, sdl.SCANCODE_D: keypad.Key9, sdl.SCANCODE_F: keypad.KeyE,
	sdl.SCANCODE_Z: keypad.KeyA, sdl.SCANCODE_X: keypad.Key0, sdl.SCANCODE_C: keypad.KeyB, sdl.SCANCODE_V: keypad.KeyF,
}

func (hal *HAL) Draw(fb *screen.Framebuffer) error {
	bg := argb(screen.Background.R, screen.Background.G, screen.Background.B)
	fg := argb(screen.Foreground.R, screen.Foreground.G, screen.Foreground.B)

	for y := 0; y < screen.Height; y++ {
		for x := 0; x < screen.Width; x++ {
			color := bg
			if fb.Pixel(x, y) {
				color = fg
			}
			hal.backBuffer[x+y*screen.Width] = color
		}
	}

	backBufferPtr := unsafe.Pointer(&hal.backBuffer[0])
	if err := hal.texture.Update(nil, backBufferPtr, hal.backBufferPitch); err != nil {
		return fmt.Errorf("failed to update sdl texture: %w", err)
	}

	if err := hal.renderer.Clear(); err != nil {
		return fmt.Errorf("failed to clear sdl renderer: %w", err)
	}

	if err := hal.renderer.Copy(hal.texture, nil, nil); err != nil {
		return fmt.Errorf("failed to copy sdl texture to renderer: %w", err)
	}

	hal.renderer.Present()
	return nil
}

func argb(r, g, b uint8) uint32 {
	return 0xff<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}
