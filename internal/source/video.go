//go:build !novideo

package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/termtools/tiv/internal/display"
)

const videoSupported = true

func init() {
	videoBackends = append(videoBackends, backend{"video", newVideoSource})
}

// videoSource decodes through an ffmpeg subprocess: ffprobe answers the
// geometry questions up front and LoadAndScale never touches pixel data,
// so probing a large video is cheap. Frames are streamed as raw RGBA
// during SendFrames.
type videoSource struct {
	filename     string
	origW, origH int

	targetW, targetH int
	frameDelay       time.Duration
	frameOffset      int
	frameCount       int
}

func newVideoSource(filename string) Source {
	return &videoSource{filename: filename}
}

func (s *videoSource) Filename() string { return s.filename }

type ffprobeStream struct {
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	SideDataList []struct {
		Rotation int `json:"rotation"`
	} `json:"side_data_list"`
}

func (s *videoSource) inputArg() string {
	if isStdin(s.filename) {
		return "pipe:0"
	}
	return s.filename
}

// feedStdin attaches the cached stdin bytes when reading from a pipe.
// Buffering through readInput means probing and playback both see the
// full stream even though a pipe can only be read once.
func (s *videoSource) feedStdin(cmd *exec.Cmd) error {
	if !isStdin(s.filename) {
		return nil
	}
	data, err := readInput(s.filename)
	if err != nil {
		return err
	}
	cmd.Stdin = bytes.NewReader(data)
	return nil
}

func (s *videoSource) LoadAndScale(opts *display.Options, frameOffset, frameCount int) error {
	cmd := exec.Command("ffprobe",
		"-v", "error",
		"-print_format", "json",
		"-show_streams",
		s.inputArg(),
	)
	if err := s.feedStdin(cmd); err != nil {
		return err
	}
	out, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("%s: ffprobe: %w", s.filename, err)
	}

	var probed struct {
		Streams []ffprobeStream `json:"streams"`
	}
	if err := json.Unmarshal(out, &probed); err != nil {
		return fmt.Errorf("%s: ffprobe output: %w", s.filename, err)
	}

	var vs *ffprobeStream
	for i := range probed.Streams {
		st := &probed.Streams[i]
		if st.CodecType == "video" && st.Width > 0 && st.Height > 0 {
			vs = st
			break
		}
	}
	if vs == nil {
		return fmt.Errorf("%s: no video stream", s.filename)
	}

	// ffmpeg applies rotation metadata during decoding, so a rotated
	// stream reaches us with width and height already swapped.
	w, h := vs.Width, vs.Height
	for _, sd := range vs.SideDataList {
		if r := sd.Rotation; r == 90 || r == -90 || r == 270 || r == -270 {
			w, h = h, w
			break
		}
	}
	s.origW, s.origH = w, h
	s.targetW, s.targetH, _ = display.CalcScaleToFit(w, h, opts, false)
	s.frameDelay = frameDelay(vs.AvgFrameRate)
	s.frameOffset = frameOffset
	s.frameCount = frameCount
	return nil
}

// frameDelay converts an ffprobe rate fraction like "30000/1001" into the
// per-frame display time, falling back to 25fps.
func frameDelay(rate string) time.Duration {
	const fallback = time.Second / 25
	num, den, ok := strings.Cut(rate, "/")
	if !ok {
		return fallback
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || n <= 0 || d <= 0 {
		return fallback
	}
	return time.Duration(float64(time.Second) * d / n)
}

func (s *videoSource) SendFrames(duration time.Duration, loops int, interrupt *atomic.Bool, sink Sink) error {
	var deadline time.Time
	if duration > 0 {
		deadline = time.Now().Add(duration)
	}
	for loop := 0; loops < 0 || loop < loops; loop++ {
		done, err := s.playOnce(deadline, interrupt, sink)
		if err != nil || done {
			return err
		}
	}
	return nil
}

// playOnce streams one full pass of the video. done reports that the
// caller should not start another loop (interrupt or deadline).
func (s *videoSource) playOnce(deadline time.Time, interrupt *atomic.Bool, sink Sink) (done bool, err error) {
	args := []string{
		"-v", "error",
		"-i", s.inputArg(),
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-vf", fmt.Sprintf("scale=%d:%d", s.targetW, s.targetH),
	}
	if s.frameCount > 0 {
		args = append(args, "-frames:v", strconv.Itoa(s.frameOffset+s.frameCount))
	}
	args = append(args, "pipe:1")

	cmd := exec.Command("ffmpeg", args...)
	if err := s.feedStdin(cmd); err != nil {
		return true, err
	}
	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return true, err
	}
	if err := cmd.Start(); err != nil {
		return true, fmt.Errorf("%s: ffmpeg: %w", s.filename, err)
	}
	defer func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()

	frameBytes := s.targetW * s.targetH * 4
	reader := bufio.NewReaderSize(pipe, frameBytes)
	for n := 0; ; n++ {
		// Each sink call may retain the frame, so every read gets its
		// own buffer.
		buf := make([]byte, frameBytes)
		if _, err := io.ReadFull(reader, buf); err != nil {
			return false, nil // end of stream
		}
		if n < s.frameOffset {
			continue
		}
		if interrupted(interrupt) {
			return true, nil
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return true, nil
		}
		frame := &image.RGBA{
			Pix:    buf,
			Stride: s.targetW * 4,
			Rect:   image.Rect(0, 0, s.targetW, s.targetH),
		}
		if err := sink(frame, s.frameDelay); err != nil {
			return true, err
		}
	}
}

func (s *videoSource) FormatTitle(template string) string {
	return FormatTitle(template, s.filename, s.origW, s.origH, "video")
}
