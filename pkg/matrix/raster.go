package matrix

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// threshold is the 8-bit channel level at or above which a line is driven on
const threshold = 0x80

// Quantize maps an arbitrary color to the nearest on/off color code
func Quantize(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	var code Color
	if r>>8 >= threshold {
		code |= Red
	}
	if g>>8 >= threshold {
		code |= Green
	}
	if b>>8 >= threshold {
		code |= Blue
	}
	return code
}

// FromImage quantizes the top-left Width x Height pixels of img into a frame.
// Pixels outside the image stay off.
func FromImage(img image.Image) Frame {
	var f Frame
	b := img.Bounds()
	for x := 0; x < Width && b.Min.X+x < b.Max.X; x++ {
		for y := 0; y < Height && b.Min.Y+y < b.Max.Y; y++ {
			f[x][y] = Quantize(img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return f
}

// LoadSVG rasterizes an SVG document scaled to the panel and quantizes it
func LoadSVG(r io.Reader) (Frame, error) {
	icon, err := oksvg.ReadIconStream(r)
	if err != nil {
		return Frame{}, fmt.Errorf("failed to parse svg: %w", err)
	}
	icon.SetTarget(0, 0, Width, Height)

	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	scanner := rasterx.NewScannerGV(Width, Height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(Width, Height, scanner), 1)

	return FromImage(img), nil
}
