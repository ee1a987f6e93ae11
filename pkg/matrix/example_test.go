package matrix_test

import (
	"fmt"

	"github.com/fkcurrie/ledmatrix-golang/pkg/matrix"
)

func ExampleDecode() {
	r, g, b := matrix.Decode(matrix.Yellow)
	fmt.Println(r, g, b)
	// Output: 1 1 0
}

func ExampleFrameBuffer_Snapshot() {
	fb := matrix.NewFrameBuffer()
	fb.FillRectangle(0, 0, 2, 1, matrix.Green)

	n := 0
	for c := range fb.Snapshot() {
		if c != matrix.Off {
			n++
		}
	}
	fmt.Println(n, "pixels lit")
	// Output: 2 pixels lit
}
