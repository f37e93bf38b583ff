package source

import (
	"bytes"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/jpegn"
	"github.com/rwcarlsen/goexif/exif"

	"github.com/termtools/tiv/internal/display"
)

// jpegSource is the dedicated JPEG path. It reads the EXIF orientation
// itself so the fit can happen in rotated space before any pixels are
// transposed.
type jpegSource struct {
	filename     string
	origW, origH int
	frame        image.Image
}

func newJPEGSource(filename string) Source {
	return &jpegSource{filename: filename}
}

func (s *jpegSource) Filename() string { return s.filename }

func (s *jpegSource) LoadAndScale(opts *display.Options, _, _ int) error {
	data, err := readInput(s.filename)
	if err != nil {
		return err
	}
	cfg, err := jpegn.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s: %w", s.filename, err)
	}

	orient := exifOrientation(data)
	rotated := orient >= 5 && orient <= 8

	// Fit the coded dimensions; with a rotated orientation the display
	// constraints trade places, and the transpose below makes the
	// result fit the real box.
	targetW, targetH, _ := display.CalcScaleToFit(cfg.Width, cfg.Height, opts, rotated)

	upsample := jpegn.NearestNeighbor
	if opts.Antialias {
		upsample = jpegn.CatmullRom
	}
	img, err := jpegn.Decode(bytes.NewReader(data), &jpegn.Options{
		ToRGBA:         true,
		UpsampleMethod: upsample,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", s.filename, err)
	}

	img = scaleFrame(img, targetW, targetH, opts)
	s.frame = applyOrientation(img, orient)

	// Report dimensions as the viewer sees them.
	s.origW, s.origH = cfg.Width, cfg.Height
	if rotated {
		s.origW, s.origH = cfg.Height, cfg.Width
	}
	return nil
}

func (s *jpegSource) SendFrames(_ time.Duration, _ int, interrupt *atomic.Bool, sink Sink) error {
	return sendStill(s.frame, interrupt, sink)
}

func (s *jpegSource) FormatTitle(template string) string {
	return FormatTitle(template, s.filename, s.origW, s.origH, "jpeg")
}

// exifOrientation returns the EXIF orientation value 1..8, or 1 when the
// tag is missing or malformed.
func exifOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return 1
	}
	return v
}

// applyOrientation maps the decoded pixels into viewing orientation.
func applyOrientation(img image.Image, orient int) image.Image {
	switch orient {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
