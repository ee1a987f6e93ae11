package monitor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fkcurrie/ledmatrix-golang/pkg/matrix"
)

// Command is a drawing instruction received from a monitor client
type Command struct {
	Op             string
	X1, Y1, X2, Y2 int
	Color          matrix.Color
}

// ParseCommand parses one text command:
//
//	set X Y COLOR
//	fill X1 Y1 X2 Y2 COLOR
//	clear
//
// Coordinates are checked against the panel so a client cannot crash the
// refresh loop.
func ParseCommand(message string) (Command, error) {
	fields := strings.Fields(message)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	cmd := Command{Op: strings.ToLower(fields[0])}
	args := fields[1:]

	switch cmd.Op {
	case "clear":
		if len(args) != 0 {
			return Command{}, fmt.Errorf("clear takes no arguments")
		}
		return cmd, nil

	case "set":
		if len(args) != 3 {
			return Command{}, fmt.Errorf("usage: set X Y COLOR")
		}
		x, y, err := parsePoint(args[0], args[1], 0)
		if err != nil {
			return Command{}, err
		}
		cmd.X1, cmd.Y1 = x, y

	case "fill":
		if len(args) != 5 {
			return Command{}, fmt.Errorf("usage: fill X1 Y1 X2 Y2 COLOR")
		}
		x1, y1, err := parsePoint(args[0], args[1], 0)
		if err != nil {
			return Command{}, err
		}
		// the far corner is exclusive, so the panel size itself is allowed
		x2, y2, err := parsePoint(args[2], args[3], 1)
		if err != nil {
			return Command{}, err
		}
		cmd.X1, cmd.Y1, cmd.X2, cmd.Y2 = x1, y1, x2, y2

	default:
		return Command{}, fmt.Errorf("unknown command %q", fields[0])
	}

	c, err := matrix.ParseColor(args[len(args)-1])
	if err != nil {
		return Command{}, err
	}
	cmd.Color = c
	return cmd, nil
}

// Apply draws the command into the frame buffer
func (c Command) Apply(fb *matrix.FrameBuffer) {
	switch c.Op {
	case "clear":
		fb.Clear()
	case "set":
		fb.SetPixel(c.X1, c.Y1, c.Color)
	case "fill":
		fb.FillRectangle(c.X1, c.Y1, c.X2, c.Y2, c.Color)
	}
}

func parsePoint(xs, ys string, slack int) (int, int, error) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x %q", xs)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y %q", ys)
	}
	if x < 0 || x >= matrix.Width+slack || y < 0 || y >= matrix.Height+slack {
		return 0, 0, fmt.Errorf("coordinates out of bounds: (%d, %d)", x, y)
	}
	return x, y, nil
}
