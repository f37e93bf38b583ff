package source

import (
	"bytes"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/termtools/tiv/internal/display"
)

func writePNGFile(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "test.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeGIFFile(t *testing.T, w, h, frames int) string {
	t.Helper()
	g := &gif.GIF{Config: image.Config{Width: w, Height: h}}
	for i := 0; i < frames; i++ {
		frame := image.NewPaletted(image.Rect(0, 0, w, h), palette.Plan9)
		frame.SetColorIndex(i%w, 0, uint8(i+1))
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, 5) // 50ms
		g.Disposal = append(g.Disposal, gif.DisposalNone)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "test.gif")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func collectFrames(t *testing.T, src Source, duration time.Duration, loops int) []Frame {
	t.Helper()
	var got []Frame
	err := src.SendFrames(duration, loops, nil, func(img image.Image, delay time.Duration) error {
		got = append(got, Frame{Image: img, Delay: delay})
		return nil
	})
	if err != nil {
		t.Fatalf("SendFrames: %v", err)
	}
	return got
}

func TestRasterLoadAndScalePNG(t *testing.T) {
	path := writePNGFile(t, 400, 200)
	opts := &display.Options{Width: 100, Height: 100, WidthStretch: 1.0}

	src := newRasterSource(path)
	if err := src.LoadAndScale(opts, 0, 0); err != nil {
		t.Fatalf("LoadAndScale: %v", err)
	}

	frames := collectFrames(t, src, 0, 1)
	if len(frames) != 1 {
		t.Fatalf("still image emitted %d frames, want 1", len(frames))
	}
	b := frames[0].Image.Bounds()
	if b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("scaled to %dx%d, want 100x50", b.Dx(), b.Dy())
	}
}

func TestRasterDeclinesGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.bin")
	if err := os.WriteFile(path, []byte("certainly not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	src := newRasterSource(path)
	opts := &display.Options{Width: 100, Height: 100, WidthStretch: 1.0}
	if err := src.LoadAndScale(opts, 0, 0); err == nil {
		t.Error("expected decode failure for garbage input")
	}
}

func TestRasterAnimatedGIF(t *testing.T) {
	path := writeGIFFile(t, 8, 8, 4)
	opts := &display.Options{Width: 8, Height: 8, WidthStretch: 1.0}

	src := newRasterSource(path)
	if err := src.LoadAndScale(opts, 0, 0); err != nil {
		t.Fatalf("LoadAndScale: %v", err)
	}

	frames := collectFrames(t, src, 0, 1)
	if len(frames) != 4 {
		t.Fatalf("got %d frames, want 4", len(frames))
	}
	for i, f := range frames {
		if f.Delay != 50*time.Millisecond {
			t.Errorf("frame %d delay = %v, want 50ms", i, f.Delay)
		}
	}
}

func TestRasterGIFFrameRange(t *testing.T) {
	path := writeGIFFile(t, 8, 8, 5)
	opts := &display.Options{Width: 8, Height: 8, WidthStretch: 1.0}

	src := newRasterSource(path)
	if err := src.LoadAndScale(opts, 2, 2); err != nil {
		t.Fatalf("LoadAndScale: %v", err)
	}
	frames := collectFrames(t, src, 0, 1)
	if len(frames) != 2 {
		t.Errorf("frame range [2,2) gave %d frames, want 2", len(frames))
	}
}

func TestRasterGIFOffsetPastEnd(t *testing.T) {
	path := writeGIFFile(t, 8, 8, 2)
	opts := &display.Options{Width: 8, Height: 8, WidthStretch: 1.0}
	src := newRasterSource(path)
	if err := src.LoadAndScale(opts, 10, 0); err == nil {
		t.Error("offset past the animation end should fail")
	}
}

func TestSendFramesLoops(t *testing.T) {
	path := writeGIFFile(t, 8, 8, 3)
	opts := &display.Options{Width: 8, Height: 8, WidthStretch: 1.0}
	src := newRasterSource(path)
	if err := src.LoadAndScale(opts, 0, 0); err != nil {
		t.Fatal(err)
	}
	frames := collectFrames(t, src, 0, 2)
	if len(frames) != 6 {
		t.Errorf("2 loops of 3 frames gave %d emissions, want 6", len(frames))
	}
}

func TestSendFramesInterrupt(t *testing.T) {
	path := writeGIFFile(t, 8, 8, 3)
	opts := &display.Options{Width: 8, Height: 8, WidthStretch: 1.0}
	src := newRasterSource(path)
	if err := src.LoadAndScale(opts, 0, 0); err != nil {
		t.Fatal(err)
	}

	var interrupt atomic.Bool
	var count int
	err := src.SendFrames(0, -1, &interrupt, func(image.Image, time.Duration) error {
		count++
		if count == 2 {
			interrupt.Store(true)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("SendFrames: %v", err)
	}
	if count != 2 {
		t.Errorf("interrupt after 2 frames still emitted %d", count)
	}
}

func TestRasterUpscaleDisabledKeepsSize(t *testing.T) {
	path := writePNGFile(t, 50, 50)
	opts := &display.Options{Width: 200, Height: 200, WidthStretch: 1.0}
	src := newRasterSource(path)
	if err := src.LoadAndScale(opts, 0, 0); err != nil {
		t.Fatal(err)
	}
	frames := collectFrames(t, src, 0, 1)
	b := frames[0].Image.Bounds()
	if b.Dx() != 50 || b.Dy() != 50 {
		t.Errorf("no-upscale fit produced %dx%d, want 50x50", b.Dx(), b.Dy())
	}
}

func TestApplyOrientation(t *testing.T) {
	// 2x1 image: red left, blue right.
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{B: 255, A: 255})

	tests := []struct {
		orient     int
		wantW      int
		wantH      int
		redAtRight bool // after transform, is red on the trailing edge?
	}{
		{1, 2, 1, false},
		{2, 2, 1, true},  // mirrored
		{3, 2, 1, true},  // 180
		{6, 1, 2, false}, // 90 CW: red ends up at top
		{8, 1, 2, false}, // 90 CCW
	}
	for _, tt := range tests {
		got := applyOrientation(img, tt.orient)
		b := got.Bounds()
		if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
			t.Errorf("orientation %d: got %dx%d, want %dx%d",
				tt.orient, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			continue
		}
		if tt.wantW == 2 {
			r, _, _, _ := got.At(b.Max.X-1, b.Min.Y).RGBA()
			if (r > 0x7fff) != tt.redAtRight {
				t.Errorf("orientation %d: unexpected horizontal order", tt.orient)
			}
		}
	}
}
