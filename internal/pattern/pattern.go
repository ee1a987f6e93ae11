// Package pattern draws test patterns into a frame buffer
package pattern

import (
	"fmt"
	"sort"

	"github.com/fkcurrie/ledmatrix-golang/pkg/matrix"
)

// Diagonal draws the "V" test pattern: a red diagonal from the top-left
// corner and a green one from the top-right corner, meeting at the bottom row
func Diagonal(fb *matrix.FrameBuffer) {
	fb.Update(func(f *matrix.Frame) {
		*f = matrix.Frame{}
		for i := 0; i < matrix.Height; i++ {
			f[i][i] = matrix.Red
			f[matrix.Width-1-i][i] = matrix.Green
		}
	})
}

// Fill sets the whole panel to one color
func Fill(fb *matrix.FrameBuffer, c matrix.Color) {
	fb.FillRectangle(0, 0, matrix.Width, matrix.Height, c)
}

// Checkerboard draws yellow and black cells of cellSize pixels. Advancing
// offset by 8 shifts the board by one cell.
func Checkerboard(fb *matrix.FrameBuffer, cellSize, offset int) {
	if cellSize <= 0 {
		cellSize = 4
	}
	fb.Update(func(f *matrix.Frame) {
		for x := 0; x < matrix.Width; x++ {
			for y := 0; y < matrix.Height; y++ {
				if (y/cellSize+x/cellSize+offset/8)%2 == 0 {
					f[x][y] = matrix.Yellow
				} else {
					f[x][y] = matrix.Off
				}
			}
		}
	})
}

// Halves lights the upper half in one color and the lower half in another,
// which shows at a glance whether both data line sets are wired
func Halves(fb *matrix.FrameBuffer, upper, lower matrix.Color) {
	fb.Update(func(f *matrix.Frame) {
		for x := 0; x < matrix.Width; x++ {
			for y := 0; y < matrix.Height; y++ {
				if y < matrix.ScanRows {
					f[x][y] = upper
				} else {
					f[x][y] = lower
				}
			}
		}
	})
}

var named = map[string]func(fb *matrix.FrameBuffer){
	"diagonal": Diagonal,
	"checker":  func(fb *matrix.FrameBuffer) { Checkerboard(fb, 4, 0) },
	"halves":   func(fb *matrix.FrameBuffer) { Halves(fb, matrix.Red, matrix.Blue) },
	"clear":    func(fb *matrix.FrameBuffer) { fb.Clear() },
}

// Names returns the patterns accepted by Draw
func Names() []string {
	names := make([]string, 0, len(named)+8)
	for name := range named {
		names = append(names, name)
	}
	for c := matrix.Off; c <= matrix.White; c++ {
		names = append(names, c.String())
	}
	sort.Strings(names)
	return names
}

// Draw draws a pattern by name. A color name fills the panel with that color.
func Draw(fb *matrix.FrameBuffer, name string) error {
	if fn, ok := named[name]; ok {
		fn(fb)
		return nil
	}
	c, err := matrix.ParseColor(name)
	if err != nil {
		return fmt.Errorf("unknown pattern %q", name)
	}
	Fill(fb, c)
	return nil
}
