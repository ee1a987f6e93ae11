package matrix

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		c       Color
		r, g, b int
	}{
		{Off, 0, 0, 0},
		{Red, 1, 0, 0},
		{Green, 0, 1, 0},
		{Yellow, 1, 1, 0},
		{Blue, 0, 0, 1},
		{Magenta, 1, 0, 1},
		{Cyan, 0, 1, 1},
		{White, 1, 1, 1},
		{Color(9), 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.c.String(), func(t *testing.T) {
			r, g, b := Decode(tt.c)
			assert.Equal(t, tt.r, r, "red")
			assert.Equal(t, tt.g, g, "green")
			assert.Equal(t, tt.b, b, "blue")
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"off", Off, false},
		{"yellow", Yellow, false},
		{"white", White, false},
		{"2", Green, false},
		{"7", White, false},
		{"8", Off, true},
		{"-1", Off, true},
		{"pink", Off, true},
		{"3x", Off, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetPixelTouchesOneCell(t *testing.T) {
	for _, c := range []Color{Red, Green, Yellow, White} {
		for _, p := range []image.Point{{0, 0}, {31, 0}, {0, 15}, {31, 15}, {7, 8}} {
			fb := NewFrameBuffer()
			fb.SetPixel(p.X, p.Y, c)

			f := fb.Frame()
			for x := 0; x < Width; x++ {
				for y := 0; y < Height; y++ {
					want := Off
					if x == p.X && y == p.Y {
						want = c
					}
					if f[x][y] != want {
						t.Fatalf("SetPixel(%d, %d, %d): cell (%d, %d) = %d, want %d", p.X, p.Y, c, x, y, f[x][y], want)
					}
				}
			}
			assert.Equal(t, c, fb.At(p.X, p.Y))
		}
	}
}

func TestSetPixelOutOfRangePanics(t *testing.T) {
	fb := NewFrameBuffer()
	assert.Panics(t, func() { fb.SetPixel(Width, 0, Red) })
	assert.Panics(t, func() { fb.SetPixel(0, Height, Red) })
	assert.Panics(t, func() { fb.SetPixel(-1, 0, Red) })
	assert.False(t, InBounds(Width, 0))
	assert.False(t, InBounds(0, -1))
	assert.True(t, InBounds(Width-1, Height-1))
}

func TestFillRectangle(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 int
		cells          int
	}{
		{"full panel", 0, 0, Width, Height, Width * Height},
		{"upper half", 0, 0, Width, ScanRows, Width * ScanRows},
		{"block", 3, 2, 10, 9, 7 * 7},
		{"single cell", 5, 5, 6, 6, 1},
		{"empty width", 4, 4, 4, 10, 0},
		{"empty height", 4, 10, 8, 10, 0},
		{"inverted", 10, 10, 2, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewFrameBuffer()
			fb.SetPixel(31, 15, Blue)
			fb.FillRectangle(tt.x1, tt.y1, tt.x2, tt.y2, Cyan)

			f := fb.Frame()
			filled := 0
			for x := 0; x < Width; x++ {
				for y := 0; y < Height; y++ {
					inside := x >= tt.x1 && x < tt.x2 && y >= tt.y1 && y < tt.y2
					switch {
					case inside:
						assert.Equal(t, Cyan, f[x][y], "cell (%d, %d)", x, y)
						filled++
					case x == 31 && y == 15:
						assert.Equal(t, Blue, f[x][y], "untouched corner")
					default:
						assert.Equal(t, Off, f[x][y], "cell (%d, %d)", x, y)
					}
				}
			}
			assert.Equal(t, tt.cells, filled)
		})
	}
}

func TestClear(t *testing.T) {
	fb := NewFrameBuffer()
	fb.FillRectangle(0, 0, Width, Height, White)
	fb.Clear()
	assert.Equal(t, Frame{}, fb.Frame())
}

func TestSnapshotOrder(t *testing.T) {
	fb := NewFrameBuffer()
	fb.Update(func(f *Frame) {
		for x := 0; x < Width; x++ {
			for y := 0; y < Height; y++ {
				f[x][y] = Color((x + y*Width) % 8)
			}
		}
	})

	var got []Color
	for c := range fb.Snapshot() {
		got = append(got, c)
	}
	require.Len(t, got, Width*Height)
	for i, c := range got {
		assert.Equal(t, Color(i%8), c, "index %d", i)
	}

	// restartable, and stops early when asked
	n := 0
	for range fb.Snapshot() {
		if n++; n == 10 {
			break
		}
	}
	assert.Equal(t, 10, n)
}

func TestDiagonalBoard(t *testing.T) {
	fb := NewFrameBuffer()
	for i := 0; i < 16; i++ {
		fb.SetPixel(i, i, Red)
		fb.SetPixel(Width-1-i, i, Green)
	}

	lines := strings.Split(strings.TrimSuffix(fb.String(), "\n"), "\n")
	require.Len(t, lines, Height)

	for y, line := range lines {
		require.True(t, strings.HasSuffix(line, " "), "row %d", y)
		cols := strings.Fields(line)
		require.Len(t, cols, Width, "row %d", y)
		for x, v := range cols {
			want := "0"
			if x == y {
				want = "1"
			}
			if x == Width-1-y {
				want = "2"
			}
			assert.Equal(t, want, v, "row %d column %d", y, x)
		}
	}
	assert.Equal(t, "1", strings.Fields(lines[0])[0])
	assert.Equal(t, "2", strings.Fields(lines[0])[31])
	assert.Equal(t, "1", strings.Fields(lines[15])[15])
	assert.Equal(t, "2", strings.Fields(lines[15])[16])
}

func TestQuantize(t *testing.T) {
	assert.Equal(t, Off, Quantize(color.Black))
	assert.Equal(t, White, Quantize(color.White))
	assert.Equal(t, Red, Quantize(color.RGBA{R: 0xff, A: 0xff}))
	assert.Equal(t, Yellow, Quantize(color.RGBA{R: 0x90, G: 0xc0, B: 0x10, A: 0xff}))
	assert.Equal(t, Off, Quantize(color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff}))
}

func TestFromImageClipsToPanel(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 4))
	img.Set(0, 0, color.RGBA{G: 0xff, A: 0xff})
	img.Set(35, 1, color.White)

	f := FromImage(img)
	assert.Equal(t, Green, f[0][0])
	assert.Equal(t, Off, f[0][4])
	for x := 0; x < Width; x++ {
		assert.Equal(t, Off, f[x][1])
	}
}

func TestLoadSVG(t *testing.T) {
	const doc = `<svg xmlns="http://www.w3.org/2000/svg" width="32" height="16" viewBox="0 0 32 16">
<rect x="0" y="0" width="16" height="16" fill="#ff0000"/>
<rect x="16" y="0" width="16" height="16" fill="#0000ff"/>
</svg>`

	f, err := LoadSVG(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, Red, f[4][8])
	assert.Equal(t, Blue, f[28][8])
}
