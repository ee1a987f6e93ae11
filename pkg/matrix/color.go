package matrix

import (
	"fmt"
	"strconv"
)

// Color is a packed color code. Bit 0 drives red, bit 1 green and bit 2 blue.
type Color uint8

// Named color codes
const (
	Off Color = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

var colorNames = [...]string{"off", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

// String returns the name of the color code
func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return fmt.Sprintf("Color(%d)", uint8(c))
}

// ParseColor parses a color name or a decimal color code
func ParseColor(s string) (Color, error) {
	for i, name := range colorNames {
		if s == name {
			return Color(i), nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > int(White) {
		return Off, fmt.Errorf("invalid color %q", s)
	}
	return Color(n), nil
}

// Decode splits a color code into red, green and blue line states.
// Only the low three bits are consulted.
func Decode(c Color) (r, g, b int) {
	r = int(c & 1)
	g = int((c >> 1) & 1)
	b = int((c >> 2) & 1)
	return r, g, b
}
