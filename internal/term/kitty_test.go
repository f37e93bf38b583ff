package term

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 13), B: 128, A: 255})
		}
	}
	return img
}

func TestKittyRenderSmallImage(t *testing.T) {
	k := &KittyRenderer{cellW: 8, cellH: 16}
	var buf bytes.Buffer
	if err := k.Render(&buf, testImage(10, 10), 0); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, kittyStart) {
		t.Error("output should start with the protocol introducer")
	}
	for _, param := range []string{"a=T", "f=100", "q=2", "c=2", "r=1"} {
		if !strings.Contains(out, param) {
			t.Errorf("output missing parameter %s", param)
		}
	}
	if !strings.HasSuffix(out, "\r\n") {
		t.Error("output should end with a newline")
	}
}

func TestKittyRenderChunksLargeImage(t *testing.T) {
	k := &KittyRenderer{cellW: 8, cellH: 16}
	// Random noise compresses badly, guaranteeing the PNG payload
	// exceeds one 4096-byte chunk.
	noise := image.NewRGBA(image.Rect(0, 0, 128, 128))
	seed := uint32(1)
	for i := range noise.Pix {
		seed = seed*1664525 + 1013904223
		noise.Pix[i] = byte(seed >> 24)
	}
	var buf bytes.Buffer
	if err := k.Render(&buf, noise, 0); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	if strings.Count(out, kittyStart) < 2 {
		t.Fatal("large image should be transmitted in multiple chunks")
	}
	if !strings.Contains(out, "m=1") {
		t.Error("continuation chunks should be marked with m=1")
	}
	last := out[strings.LastIndex(out, kittyStart):]
	if !strings.Contains(last, "m=0") {
		t.Error("final chunk should be marked with m=0")
	}
}

func TestKittyRenderIndent(t *testing.T) {
	k := &KittyRenderer{cellW: 8, cellH: 16}
	var buf bytes.Buffer
	if err := k.Render(&buf, testImage(8, 8), 5); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "\x1b[5C") {
		t.Error("indent should emit a cursor-forward sequence before the image")
	}
}

func TestKittyRows(t *testing.T) {
	k := &KittyRenderer{cellW: 8, cellH: 16}
	tests := []struct{ px, rows int }{
		{1, 1}, {16, 1}, {17, 2}, {160, 10},
	}
	for _, tt := range tests {
		if got := k.Rows(tt.px); got != tt.rows {
			t.Errorf("Rows(%d) = %d, want %d", tt.px, got, tt.rows)
		}
	}
}
