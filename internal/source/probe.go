package source

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/termtools/tiv/internal/display"
)

type constructor func(filename string) Source

type backend struct {
	name   string
	create constructor
}

// imageBackends is the probe order: specific formats first, the
// general-purpose raster decoder as the fallback of last resort.
var imageBackends = []backend{
	{"qoi", newQOISource},
	{"jpeg", newJPEGSource},
	{"svg", newSVGSource},
	{"raster", newRasterSource},
}

// videoBackends is populated by the video build variant.
var videoBackends []backend

// Create probes filename with every enabled backend in priority order and
// returns the first one whose LoadAndScale succeeds. Individual backend
// failures are absorbed; on total failure the returned error describes
// the most likely cause (missing file, directory, permission, video file
// in a build without video support).
func Create(filename string, opts *display.Options, frameOffset, frameCount int, tryImage, tryVideo bool) (Source, error) {
	if tryImage {
		if src := tryList(imageBackends, filename, opts, frameOffset, frameCount); src != nil {
			return src, nil
		}
	}
	if tryVideo {
		if src := tryList(videoBackends, filename, opts, frameOffset, frameCount); src != nil {
			return src, nil
		}
	}
	return nil, errors.New(diagnose(filename, videoSupported))
}

func tryList(list []backend, filename string, opts *display.Options, frameOffset, frameCount int) Source {
	for _, b := range list {
		src := b.create(filename)
		err := src.LoadAndScale(opts, frameOffset, frameCount)
		if err == nil {
			return src
		}
		log.Debug("backend declined", "backend", b.name, "file", filename, "err", err)
	}
	return nil
}

// videoSuffixes are checked when a build without video support fails to
// load a file, to give a better hint than a generic decode failure.
var videoSuffixes = []string{".mov", ".mp4", ".mkv", ".avi", ".wmv", ".webm"}

func hasVideoSuffix(filename string) bool {
	lower := strings.ToLower(filename)
	for _, sfx := range videoSuffixes {
		if strings.HasSuffix(lower, sfx) {
			return true
		}
	}
	return false
}

// diagnose builds the failure message after all backends declined.
func diagnose(filename string, videoOK bool) string {
	var msg string
	if !isStdin(filename) {
		if fi, err := os.Stat(filename); err != nil {
			msg = fmt.Sprintf("%s: %v", filename, osReason(err))
		} else if fi.IsDir() {
			msg = filename + ": is a directory"
		} else if f, err := os.Open(filename); err != nil {
			msg = fmt.Sprintf("%s: %v", filename, osReason(err))
		} else {
			f.Close()
		}
	}

	if videoOK && isStdin(filename) {
		return "If this is a video on stdin, use '-V' to skip image probing"
	}
	if !videoOK && msg == "" && hasVideoSuffix(filename) {
		return filename + ": looks like a video file, but this build has no video support"
	}
	if msg == "" {
		msg = filename + ": unable to decode with any available backend"
	}
	return msg
}

// osReason strips the "stat path:" prefix wrapping so the message reads
// like the plain OS error text.
func osReason(err error) string {
	if u := errors.Unwrap(err); u != nil {
		return u.Error()
	}
	return err.Error()
}
