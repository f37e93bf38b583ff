package source

import (
	"image"
	"sync/atomic"
	"time"

	"github.com/nfnt/resize"

	"github.com/termtools/tiv/internal/display"
)

// scaleFrame resizes img to w x h. Lanczos gives the best quality for
// photographic content; nearest neighbor is used when antialiasing is off
// or when the target is a clean integer magnification, so pixel art stays
// crisp.
func scaleFrame(img image.Image, w, h int, opts *display.Options) image.Image {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	filter := resize.Lanczos3
	if !opts.Antialias || isIntegerZoom(b.Dx(), b.Dy(), w, h) {
		filter = resize.NearestNeighbor
	}
	return resize.Resize(uint(w), uint(h), img, filter)
}

func isIntegerZoom(srcW, srcH, dstW, dstH int) bool {
	if srcW <= 0 || srcH <= 0 {
		return false
	}
	return dstW >= srcW && dstH >= srcH && dstW%srcW == 0 && dstH%srcH == 0
}

func interrupted(flag *atomic.Bool) bool {
	return flag != nil && flag.Load()
}

// sendStill emits a single frame once.
func sendStill(img image.Image, interrupt *atomic.Bool, sink Sink) error {
	if interrupted(interrupt) {
		return nil
	}
	return sink(img, 0)
}

// sendAnimation cycles through frames until the duration elapses or the
// requested number of loops completes. loops < 0 plays for the whole
// duration; duration <= 0 means no time limit.
func sendAnimation(frames []Frame, duration time.Duration, loops int, interrupt *atomic.Bool, sink Sink) error {
	if len(frames) == 0 {
		return nil
	}
	if len(frames) == 1 {
		return sendStill(frames[0].Image, interrupt, sink)
	}
	var deadline time.Time
	if duration > 0 {
		deadline = time.Now().Add(duration)
	}
	for loop := 0; loops < 0 || loop < loops; loop++ {
		for _, f := range frames {
			if interrupted(interrupt) {
				return nil
			}
			if !deadline.IsZero() && time.Now().After(deadline) {
				return nil
			}
			if err := sink(f.Image, f.Delay); err != nil {
				return err
			}
		}
	}
	return nil
}
