// Package source turns a filename into a ready-to-render decoder handle.
// It owns the ordered probing of the compiled-in decoding backends, the
// title templating and the APNG detection used by callers to route
// animated PNGs to the video decoder.
package source

import (
	"image"
	"sync/atomic"
	"time"

	"github.com/termtools/tiv/internal/display"
)

// Frame is one decoded, display-sized frame. Delay is zero for stills.
type Frame struct {
	Image image.Image
	Delay time.Duration
}

// Sink receives frames during playback. Returning an error stops
// emission.
type Sink func(img image.Image, delay time.Duration) error

// Source is an opened decoder handle. LoadAndScale has already run when
// Create returns one, so frames are sized for the display.
type Source interface {
	// LoadAndScale probes the file content and, on success, decodes and
	// scales it according to opts. An error means the backend declines;
	// it must leave no file handles or partial state behind.
	LoadAndScale(opts *display.Options, frameOffset, frameCount int) error

	// SendFrames emits frames to sink. Animations repeat until duration
	// elapses or loops full cycles are done, whichever comes first;
	// loops < 0 means loop for the whole duration. Stills are emitted
	// once. The interrupt flag is checked between frames.
	SendFrames(duration time.Duration, loops int, interrupt *atomic.Bool, sink Sink) error

	// FormatTitle expands a title template for this source.
	FormatTitle(template string) string

	// Filename returns the name this source was created for.
	Filename() string
}
