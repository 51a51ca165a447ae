package screen

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
)

// EncodePNG writes the screen scaled by scale as a PNG image.
func (fb *Framebuffer) EncodePNG(w io.Writer, scale int) error {
	if scale < 1 {
		scale = 1
	}

	src := fb.Image()
	dst := image.NewRGBA(image.Rect(0, 0, Width*scale, Height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	if err := png.Encode(w, dst); err != nil {
		return fmt.Errorf("unable to encode png: %w", err)
	}
	return nil
}

// SavePNG writes a screenshot to path.
func (fb *Framebuffer) SavePNG(path string, scale int) (rerr error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %q: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("unable to close %q: %w", path, err)
		}
	}()

	return fb.EncodePNG(f, scale)
}
