package term

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestHalfBlocksRender(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{G: 255, A: 255})
	img.Set(0, 1, color.RGBA{B: 255, A: 255})
	img.Set(1, 1, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	r := NewHalfBlocks()
	var buf bytes.Buffer
	if err := r.Render(&buf, img, 0); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	if got := strings.Count(out, "▄"); got != 2 {
		t.Errorf("2x2 image should emit 2 half blocks, got %d", got)
	}
	// Upper-left red as background, lower-left blue as foreground.
	if !strings.Contains(out, "\x1b[48;2;255;0;0m") {
		t.Error("missing red background sequence")
	}
	if !strings.Contains(out, "\x1b[38;2;0;0;255m") {
		t.Error("missing blue foreground sequence")
	}
	if !strings.Contains(out, resetSGR) {
		t.Error("line should end with an SGR reset")
	}
	if strings.Count(out, "\r\n") != 1 {
		t.Errorf("2-pixel-high image should emit one line")
	}
}

func TestHalfBlocksOddHeight(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 3))
	r := NewHalfBlocks()
	var buf bytes.Buffer
	if err := r.Render(&buf, img, 0); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Count(buf.String(), "\r\n") != 2 {
		t.Error("3-pixel-high image should emit two lines")
	}
}

func TestHalfBlocksIndent(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	r := NewHalfBlocks()
	var buf bytes.Buffer
	if err := r.Render(&buf, img, 4); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "    ") {
		t.Error("indent should pad each line with spaces")
	}
}

func TestQuarterBlocksUniformCell(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	r := NewQuarterBlocks()
	var buf bytes.Buffer
	if err := r.Render(&buf, img, 0); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "█") {
		t.Error("uniform cell should render as a solid block")
	}
	if !strings.Contains(buf.String(), "\x1b[38;2;10;20;30m") {
		t.Error("solid block should carry the shared color")
	}
}

func TestQuarterBlocksSplitCell(t *testing.T) {
	// Bright top, dark bottom: expect the upper-half glyph.
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(0, 1, color.RGBA{A: 255})
	img.Set(1, 1, color.RGBA{A: 255})

	r := NewQuarterBlocks()
	var buf bytes.Buffer
	if err := r.Render(&buf, img, 0); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "▀") {
		t.Error("bright-top cell should use the upper-half glyph")
	}
}

func TestCellGeometry(t *testing.T) {
	if w, h := NewHalfBlocks().CellGeometry(); w != 1 || h != 2 {
		t.Errorf("half blocks geometry = %dx%d, want 1x2", w, h)
	}
	if w, h := NewQuarterBlocks().CellGeometry(); w != 2 || h != 2 {
		t.Errorf("quarter blocks geometry = %dx%d, want 2x2", w, h)
	}
}
