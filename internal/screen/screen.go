// Package screen implements the 64x32 monochrome display the interpreter
// draws into.
package screen

import (
	"image"
	"image/color"
)

const (
	Width  = 64
	Height = 32
)

var (
	Background = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
	Foreground = color.RGBA{R: 0xbe, G: 0xa7, B: 0x00, A: 0xff}
)

// Framebuffer holds the pixel state. Sprites are XORed in and wrap around
// both edges.
type Framebuffer struct {
	pixels [Width * Height]bool
	dirty  bool // Indicates a draw has occurred since the last MarkClean
}

func New() *Framebuffer {
	return &Framebuffer{dirty: true}
}

func (fb *Framebuffer) Clear() {
	fb.pixels = [Width * Height]bool{}
	fb.dirty = true
}

// DrawSprite XORs sprite rows (8 pixels wide, MSB first) at (x, y). It
// reports whether any lit pixel was turned off.
func (fb *Framebuffer) DrawSprite(x, y uint8, sprite []uint8) bool {
	collision := false

	for row, bits := range sprite {
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}

			i := offset(int(x)+col, int(y)+row)
			if fb.pixels[i] {
				collision = true
			}
			fb.pixels[i] = !fb.pixels[i]
		}
	}

	fb.dirty = true
	return collision
}

// Pixel reports whether the pixel at (x, y) is lit. Coordinates wrap.
func (fb *Framebuffer) Pixel(x, y int) bool {
	return fb.pixels[offset(x, y)]
}

func (fb *Framebuffer) Dirty() bool {
	return fb.dirty
}

func (fb *Framebuffer) MarkClean() {
	fb.dirty = false
}

// Image returns a copy of the screen as a two-colour paletted image.
func (fb *Framebuffer) Image() *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, Width, Height), color.Palette{Background, Foreground})

	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if fb.pixels[offset(x, y)] {
				img.SetColorIndex(x, y, 1)
			}
		}
	}

	return img
}

func offset(x, y int) int {
	x %= Width
	y %= Height
	if x < 0 {
		x += Width
	}
	if y < 0 {
		y += Height
	}

	return y*Width + x
}
