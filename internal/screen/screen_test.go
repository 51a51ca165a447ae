package screen

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDrawSpriteXOR(t *testing.T) {
	fb := New()
	fb.MarkClean()

	collision := fb.DrawSprite(0, 0, []uint8{0xC0})
	assert.False(t, collision)
	assert.True(t, fb.Dirty())
	assert.True(t, fb.Pixel(0, 0))
	assert.True(t, fb.Pixel(1, 0))
	assert.False(t, fb.Pixel(2, 0))

	collision = fb.DrawSprite(1, 0, []uint8{0x80})
	assert.True(t, collision)
	assert.True(t, fb.Pixel(0, 0))
	assert.False(t, fb.Pixel(1, 0))
}

func TestDrawSpriteWraps(t *testing.T) {
	fb := New()

	fb.DrawSprite(62, 31, []uint8{0xF0, 0x80})
	assert.True(t, fb.Pixel(62, 31))
	assert.True(t, fb.Pixel(63, 31))
	assert.True(t, fb.Pixel(0, 31))
	assert.True(t, fb.Pixel(1, 31))
	assert.True(t, fb.Pixel(62, 0))
	assert.False(t, fb.Pixel(63, 0))
}

func TestDrawSpriteStartWraps(t *testing.T) {
	fb := New()

	fb.DrawSprite(64+3, 32+2, []uint8{0x80})
	assert.True(t, fb.Pixel(3, 2))
}

func TestClear(t *testing.T) {
	fb := New()
	fb.DrawSprite(10, 10, []uint8{0xFF, 0xFF})
	fb.MarkClean()

	fb.Clear()
	assert.True(t, fb.Dirty())
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if fb.Pixel(x, y) {
				t.Fatalf("pixel (%d, %d) still lit", x, y)
			}
		}
	}
}

func TestImage(t *testing.T) {
	fb := New()
	fb.DrawSprite(5, 6, []uint8{0x80})

	img := fb.Image()
	assert.Equal(t, uint8(1), img.ColorIndexAt(5, 6))
	assert.Equal(t, uint8(0), img.ColorIndexAt(6, 6))
}

func TestEncodePNG(t *testing.T) {
	fb := New()
	fb.DrawSprite(0, 0, []uint8{0x80})

	var buf bytes.Buffer
	assert.NoError(t, fb.EncodePNG(&buf, 4))

	img, err := png.Decode(&buf)
	assert.NoError(t, err)
	assert.Equal(t, Width*4, img.Bounds().Dx())
	assert.Equal(t, Height*4, img.Bounds().Dy())

	r, g, b, _ := img.At(3, 3).RGBA()
	fr, fg, fb2, _ := Foreground.RGBA()
	assert.Equal(t, fr, r)
	assert.Equal(t, fg, g)
	assert.Equal(t, fb2, b)

	r, _, _, _ = img.At(4, 0).RGBA()
	assert.Equal(t, uint32(0), r)
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	assert.NoError(t, New().SavePNG(path, 2))
}
