package source

import (
	"bytes"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/xfmoulet/qoi"

	"github.com/termtools/tiv/internal/display"
)

// qoiSource decodes the QOI lossless format. It sits first in the probe
// order because its four byte magic makes recognition unambiguous.
type qoiSource struct {
	filename     string
	origW, origH int
	frame        image.Image
}

func newQOISource(filename string) Source {
	return &qoiSource{filename: filename}
}

func (s *qoiSource) Filename() string { return s.filename }

func (s *qoiSource) LoadAndScale(opts *display.Options, _, _ int) error {
	data, err := readInput(s.filename)
	if err != nil {
		return err
	}
	if len(data) < 4 || !bytes.Equal(data[:4], []byte("qoif")) {
		return fmt.Errorf("%s: not a QOI image", s.filename)
	}
	img, err := qoi.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s: %w", s.filename, err)
	}
	b := img.Bounds()
	s.origW, s.origH = b.Dx(), b.Dy()
	w, h, _ := display.CalcScaleToFit(s.origW, s.origH, opts, false)
	s.frame = scaleFrame(img, w, h, opts)
	return nil
}

func (s *qoiSource) SendFrames(_ time.Duration, _ int, interrupt *atomic.Bool, sink Sink) error {
	return sendStill(s.frame, interrupt, sink)
}

func (s *qoiSource) FormatTitle(template string) string {
	return FormatTitle(template, s.filename, s.origW, s.origH, "qoi")
}
