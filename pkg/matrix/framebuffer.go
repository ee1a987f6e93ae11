package matrix

import (
	"bufio"
	"io"
	"iter"
	"strconv"
	"strings"
	"sync"
)

const (
	// Width is the number of columns on the panel
	Width = 32
	// Height is the number of pixel rows on the panel
	Height = 16
	// ScanRows is the number of addressable rows. Each one drives row r of the
	// upper half and row r+ScanRows of the lower half.
	ScanRows = Height / 2
)

// Frame is a full panel of color codes indexed [column][row]
type Frame [Width][Height]Color

// FrameBuffer holds the pixels shown by the scan engine. The panel has no
// memory of its own, so the buffer is the only copy of what is displayed.
//
// All methods are safe for concurrent use. Readers get whole frames, which
// keeps a scan pass from mixing old and new pixels.
type FrameBuffer struct {
	mu    sync.RWMutex
	cells Frame
}

// NewFrameBuffer returns a cleared frame buffer
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// InBounds reports whether (x, y) addresses a pixel on the panel
func InBounds(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

// SetPixel sets the pixel at (x, y). Coordinates must be in bounds.
func (fb *FrameBuffer) SetPixel(x, y int, c Color) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.cells[x][y] = c
}

// FillRectangle sets every pixel in [x1,x2) x [y1,y2) to c. The rectangle must
// lie within the panel; an empty rectangle changes nothing.
func (fb *FrameBuffer) FillRectangle(x1, y1, x2, y2 int, c Color) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for x := x1; x < x2; x++ {
		for y := y1; y < y2; y++ {
			fb.cells[x][y] = c
		}
	}
}

// Clear turns every pixel off
func (fb *FrameBuffer) Clear() {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.cells = Frame{}
}

// At returns the pixel at (x, y)
func (fb *FrameBuffer) At(x, y int) Color {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	return fb.cells[x][y]
}

// Frame returns a copy of the whole panel
func (fb *FrameBuffer) Frame() Frame {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	return fb.cells
}

// Load replaces the whole panel
func (fb *FrameBuffer) Load(f Frame) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.cells = f
}

// Update runs fn with exclusive access to the pixels, so a producer can draw
// a complete frame without a refresh observing it half done.
func (fb *FrameBuffer) Update(fn func(f *Frame)) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fn(&fb.cells)
}

// Snapshot returns every pixel in row-major order: rows 0..Height, and
// within a row, columns 0..Width. Each iteration works on a fresh copy.
func (fb *FrameBuffer) Snapshot() iter.Seq[Color] {
	return func(yield func(Color) bool) {
		f := fb.Frame()
		for y := 0; y < Height; y++ {
			for x := 0; x < Width; x++ {
				if !yield(f[x][y]) {
					return
				}
			}
		}
	}
}

// WriteBoard prints the panel as a grid of color codes, one row per line
func (fb *FrameBuffer) WriteBoard(w io.Writer) error {
	bw := bufio.NewWriter(w)
	col := 0
	for c := range fb.Snapshot() {
		bw.WriteString(strconv.Itoa(int(c)))
		bw.WriteByte(' ')
		if col++; col == Width {
			bw.WriteByte('\n')
			col = 0
		}
	}
	return bw.Flush()
}

// String returns the board dump
func (fb *FrameBuffer) String() string {
	var sb strings.Builder
	fb.WriteBoard(&sb)
	return sb.String()
}
