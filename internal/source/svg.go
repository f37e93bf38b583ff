package source

import (
	"bytes"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/termtools/tiv/internal/display"
)

// svgSource rasterizes vector graphics directly at the fitted size, so
// there is never a separate scaling pass and upscaling costs nothing.
type svgSource struct {
	filename     string
	origW, origH int
	frame        image.Image
}

func newSVGSource(filename string) Source {
	return &svgSource{filename: filename}
}

func (s *svgSource) Filename() string { return s.filename }

func (s *svgSource) LoadAndScale(opts *display.Options, _, _ int) error {
	data, err := readInput(s.filename)
	if err != nil {
		return err
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s: %w", s.filename, err)
	}
	w := int(icon.ViewBox.W)
	h := int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%s: SVG without usable dimensions", s.filename)
	}
	s.origW, s.origH = w, h

	// Vector content rasterizes cleanly at any size.
	fitOpts := *opts
	fitOpts.Upscale = true
	targetW, targetH, _ := display.CalcScaleToFit(w, h, &fitOpts, false)

	img := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	scanner := rasterx.NewScannerGV(targetW, targetH, img, img.Bounds())
	icon.SetTarget(0, 0, float64(targetW), float64(targetH))
	icon.Draw(rasterx.NewDasher(targetW, targetH, scanner), 1.0)
	s.frame = img
	return nil
}

func (s *svgSource) SendFrames(_ time.Duration, _ int, interrupt *atomic.Bool, sink Sink) error {
	return sendStill(s.frame, interrupt, sink)
}

func (s *svgSource) FormatTitle(template string) string {
	return FormatTitle(template, s.filename, s.origW, s.origH, "svg")
}
