package hub75

import (
	"fmt"

	"github.com/fkcurrie/ledmatrix-golang/pkg/gpio"
)

// PinNames are the logical names of the panel lines, as understood by the
// GPIO backend in use
type PinNames struct {
	R1  string `json:"r1" yaml:"r1"`   // Red data for upper half
	G1  string `json:"g1" yaml:"g1"`   // Green data for upper half
	B1  string `json:"b1" yaml:"b1"`   // Blue data for upper half
	R2  string `json:"r2" yaml:"r2"`   // Red data for lower half
	G2  string `json:"g2" yaml:"g2"`   // Green data for lower half
	B2  string `json:"b2" yaml:"b2"`   // Blue data for lower half
	CLK string `json:"clk" yaml:"clk"` // Clock, one pulse per column
	LAT string `json:"lat" yaml:"lat"` // Latch, one pulse per row
	OE  string `json:"oe" yaml:"oe"`   // Output enable, high blanks the panel
	A   string `json:"a" yaml:"a"`     // Row address bit 0
	B   string `json:"b" yaml:"b"`     // Row address bit 1
	C   string `json:"c" yaml:"c"`     // Row address bit 2
}

// DefaultPinNames is the sysfs wiring of the reference board
var DefaultPinNames = PinNames{
	R1: "8", G1: "80", B1: "78",
	R2: "76", G2: "79", B2: "74",
	CLK: "73", LAT: "75", OE: "71",
	A: "72", B: "77", C: "70",
}

// List returns the names in acquisition order: upper colors, lower colors,
// timing lines, then row select
func (n PinNames) List() []string {
	return []string{
		n.R1, n.G1, n.B1,
		n.R2, n.G2, n.B2,
		n.CLK, n.LAT, n.OE,
		n.A, n.B, n.C,
	}
}

// Validate checks that every line is named exactly once
func (n PinNames) Validate() error {
	seen := make(map[string]bool)
	for _, name := range n.List() {
		if name == "" {
			return fmt.Errorf("pin names: all 12 lines must be named")
		}
		if seen[name] {
			return fmt.Errorf("pin names: line %q used twice", name)
		}
		seen[name] = true
	}
	return nil
}

// Pins holds the acquired panel lines
type Pins struct {
	R1, G1, B1 gpio.Line
	R2, G2, B2 gpio.Line
	CLK        gpio.Line
	LAT        gpio.Line
	OE         gpio.Line
	A, B, C    gpio.Line
}

// AcquirePins acquires all twelve panel lines. On failure nothing stays
// acquired and the *gpio.AcquireError is returned.
func AcquirePins(a gpio.Acquirer, names PinNames) (*Pins, error) {
	if err := names.Validate(); err != nil {
		return nil, err
	}
	lines, err := gpio.AcquireAll(a, names.List())
	if err != nil {
		return nil, err
	}
	return &Pins{
		R1: lines[0], G1: lines[1], B1: lines[2],
		R2: lines[3], G2: lines[4], B2: lines[5],
		CLK: lines[6], LAT: lines[7], OE: lines[8],
		A: lines[9], B: lines[10], C: lines[11],
	}, nil
}

func (p *Pins) list() []gpio.Line {
	return []gpio.Line{
		p.R1, p.G1, p.B1,
		p.R2, p.G2, p.B2,
		p.CLK, p.LAT, p.OE,
		p.A, p.B, p.C,
	}
}

// Close releases every line
func (p *Pins) Close() error {
	return gpio.CloseAll(p.list())
}
