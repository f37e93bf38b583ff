// Package term renders decoded frames to a terminal. It supports the
// Kitty graphics protocol, Sixel, and plain ANSI block characters as the
// universal fallback.
package term

import (
	"image"
	"io"
)

// Renderer draws one frame at the current cursor position.
type Renderer interface {
	Name() string

	// CellGeometry returns the pixel footprint of one terminal cell in
	// this rendering mode. Block modes return small values (1 or 2)
	// which also enables cell quantization in the fit computation.
	CellGeometry() (cellW, cellH int)

	// Render writes img to w, indented by indentCells columns, leaving
	// the cursor on the line below the image.
	Render(w io.Writer, img image.Image, indentCells int) error

	// Rows returns how many terminal rows an image of the given pixel
	// height occupies, so callers can move the cursor back up between
	// animation frames.
	Rows(pixelHeight int) int
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
