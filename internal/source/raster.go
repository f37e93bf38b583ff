package source

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"sync/atomic"
	"time"

	// Formats the fallback decoder recognizes beyond GIF.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/termtools/tiv/internal/display"
)

// rasterSource is the general-purpose fallback, probed last. It decodes
// everything the registered stdlib and x/image decoders understand and is
// the only image backend producing multi-frame output (animated GIF).
type rasterSource struct {
	filename     string
	origW, origH int
	format       string
	frames       []Frame
}

func newRasterSource(filename string) Source {
	return &rasterSource{filename: filename}
}

func (s *rasterSource) Filename() string { return s.filename }

func (s *rasterSource) LoadAndScale(opts *display.Options, frameOffset, frameCount int) error {
	data, err := readInput(s.filename)
	if err != nil {
		return err
	}

	if isGIF(data) {
		return s.loadGIF(data, opts, frameOffset, frameCount)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s: %w", s.filename, err)
	}
	b := img.Bounds()
	s.origW, s.origH = b.Dx(), b.Dy()
	s.format = format
	w, h, _ := display.CalcScaleToFit(s.origW, s.origH, opts, false)
	s.frames = []Frame{{Image: scaleFrame(img, w, h, opts)}}
	return nil
}

func isGIF(data []byte) bool {
	return len(data) >= 6 &&
		(bytes.Equal(data[:6], []byte("GIF87a")) || bytes.Equal(data[:6], []byte("GIF89a")))
}

// loadGIF composites every frame onto the logical screen so partial
// frames and transparent patches render the way a browser shows them,
// then scales each resulting full frame.
func (s *rasterSource) loadGIF(data []byte, opts *display.Options, frameOffset, frameCount int) error {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s: %w", s.filename, err)
	}
	if len(g.Image) == 0 {
		return fmt.Errorf("%s: GIF without frames", s.filename)
	}

	s.origW, s.origH = g.Config.Width, g.Config.Height
	if s.origW == 0 || s.origH == 0 {
		b := g.Image[0].Bounds()
		s.origW, s.origH = b.Dx(), b.Dy()
	}
	s.format = "gif"
	w, h, _ := display.CalcScaleToFit(s.origW, s.origH, opts, false)

	canvas := image.NewRGBA(image.Rect(0, 0, s.origW, s.origH))
	for i, frame := range g.Image {
		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

		if i >= frameOffset {
			snapshot := image.NewRGBA(canvas.Bounds())
			copy(snapshot.Pix, canvas.Pix)
			delay := time.Duration(g.Delay[i]) * 10 * time.Millisecond
			s.frames = append(s.frames, Frame{
				Image: scaleFrame(snapshot, w, h, opts),
				Delay: delay,
			})
			if frameCount > 0 && len(s.frames) >= frameCount {
				break
			}
		}

		// Background disposal clears the frame area before the next one.
		if i < len(g.Disposal) && g.Disposal[i] == gif.DisposalBackground {
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		}
	}
	if len(s.frames) == 0 {
		return fmt.Errorf("%s: frame offset %d past end of animation", s.filename, frameOffset)
	}
	return nil
}

func (s *rasterSource) SendFrames(duration time.Duration, loops int, interrupt *atomic.Bool, sink Sink) error {
	return sendAnimation(s.frames, duration, loops, interrupt, sink)
}

func (s *rasterSource) FormatTitle(template string) string {
	return FormatTitle(template, s.filename, s.origW, s.origH, s.format)
}
