package term

import (
	"fmt"
	"image"
	"io"

	"github.com/mattn/go-sixel"

	"github.com/termtools/tiv/internal/display"
)

// SixelRenderer emits DEC Sixel graphics.
type SixelRenderer struct {
	cellW, cellH int
}

func NewSixel() *SixelRenderer {
	w, h := display.CellSize()
	return &SixelRenderer{cellW: w, cellH: h}
}

func (s *SixelRenderer) Name() string { return "sixel" }

func (s *SixelRenderer) CellGeometry() (int, int) { return s.cellW, s.cellH }

func (s *SixelRenderer) Rows(pixelHeight int) int { return ceilDiv(pixelHeight, s.cellH) }

func (s *SixelRenderer) Render(w io.Writer, img image.Image, indentCells int) error {
	if indentCells > 0 {
		if _, err := fmt.Fprintf(w, "\x1b[%dC", indentCells); err != nil {
			return err
		}
	}
	enc := sixel.NewEncoder(w)
	enc.Dither = true
	if err := enc.Encode(img); err != nil {
		return fmt.Errorf("encode sixel: %w", err)
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}
