// Package texture decodes image files into RGBA8 pixels ready for upload
// and builds the procedural images the renderer falls back to.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// FormatTGA is reported by Sniff for data with no recognizable magic bytes.
// TGA has no signature, so it is the fallback decoder.
const FormatTGA = "tga"

// Checkerboard defaults used by the fallback texture.
const (
	CheckerSize  = 256
	CheckerCell  = 32
	CheckerLight = 220
	CheckerDark  = 32
)

// Sniff returns the image format of data by its magic bytes, for example
// "png" or "jpg". Unrecognized data reports FormatTGA.
func Sniff(data []byte) string {
	kind, err := filetype.Match(data)
	if err != nil || !isImage(kind) {
		return FormatTGA
	}
	return kind.Extension
}

func isImage(kind types.Type) bool {
	return kind != filetype.Unknown && kind.MIME.Type == "image"
}

// Decode decodes an encoded image to RGBA8 without flipping.
func Decode(data []byte) (*image.RGBA, error) {
	if Sniff(data) == FormatTGA {
		return DecodeTGA(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return clone.AsRGBA(img), nil
}

// Load decodes the image file at path and flips it vertically so row 0 is
// the bottom row, matching the GL texture origin.
func Load(path string) (*image.RGBA, error) {
	kind, err := filetype.MatchFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var img image.Image
	if isImage(kind) {
		img, err = imgio.Open(path)
	} else {
		var data []byte
		if data, err = os.ReadFile(path); err == nil {
			img, err = DecodeTGA(data)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return FlipV(img), nil
}

// FlipV returns a vertically mirrored RGBA copy of img.
func FlipV(img image.Image) *image.RGBA {
	return transform.FlipV(img)
}

// Checkerboard returns a size x size gray checkerboard with square cells.
// The top-left cell is light.
func Checkerboard(size, cell int, light, dark uint8) *image.RGBA {
	if cell <= 0 {
		cell = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := dark
			if (x/cell+y/cell)%2 == 0 {
				v = light
			}
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// DefaultCheckerboard returns the 256x256 fallback texture image.
func DefaultCheckerboard() *image.RGBA {
	return Checkerboard(CheckerSize, CheckerCell, CheckerLight, CheckerDark)
}

// Solid returns a 1x1 image of a single color.
func Solid(r, g, b, a uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{R: r, G: g, B: b, A: a})
	return img
}

// Size returns the pixel dimensions of img.
func Size(img *image.RGBA) (int, int) {
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

// Pixels returns tightly packed RGBA8 rows of img.
func Pixels(img *image.RGBA) []byte {
	w, h := Size(img)
	if img.Stride == w*4 && len(img.Pix) == w*h*4 {
		return img.Pix
	}
	out := make([]byte, 0, w*h*4)
	for y := 0; y < h; y++ {
		off := img.PixOffset(img.Bounds().Min.X, img.Bounds().Min.Y+y)
		out = append(out, img.Pix[off:off+w*4]...)
	}
	return out
}
