package main

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/termtools/tiv/internal/config"
	"github.com/termtools/tiv/internal/display"
	"github.com/termtools/tiv/internal/errmsg"
	"github.com/termtools/tiv/internal/source"
	termrender "github.com/termtools/tiv/internal/term"
)

const version = "0.9.2"

var (
	cfg     *config.Config
	bgColor *color.RGBA
)

var cli struct {
	Files []string `arg:"" optional:"" name:"file" help:"Image or video files to show. '-' reads from stdin."`

	Geometry string `short:"g" placeholder:"WxH" help:"Output size in terminal cells. Defaults to the terminal size."`

	Upscale        bool    `short:"U" default:"${upscale}" help:"Allow images smaller than the output area to grow."`
	UpscaleInteger bool    `default:"${upscale_integer}" help:"Restrict upscaling to whole-number factors."`
	FitWidth       bool    `short:"W" help:"Fill the full width, letting the height overflow the terminal."`
	FillHeight     bool    `help:"Fill the full height, letting the width overflow the terminal."`
	WidthStretch   float64 `default:"${width_stretch}" help:"Horizontal stretch to compensate for non-square cells."`
	Center         bool    `short:"C" default:"${center}" help:"Center images horizontally."`
	Antialias      bool    `default:"${antialias}" negatable:"" help:"Resize with antialiasing."`
	Background     string  `short:"b" default:"${background}" placeholder:"#rrggbb" help:"Flatten transparency onto this color."`

	ImageOnly bool `short:"I" xor:"probe" help:"Only try to decode as image."`
	VideoOnly bool `short:"V" xor:"probe" help:"Only try to decode as video."`

	Frames      int           `default:"-1" help:"Limit animations to this many frames."`
	FrameOffset int           `help:"Skip this many frames before the first shown one."`
	Duration    time.Duration `short:"t" help:"Stop animations after this much time."`
	Loops       int           `default:"-1" help:"Number of animation cycles. -1 loops until duration or interrupt."`

	Pixelation    string `short:"p" default:"${pixelation}" enum:"auto,kitty,sixel,half,quarter" help:"Rendering mode (${enum})."`
	Title         bool   `default:"${title}" help:"Print a title line above each file."`
	TitleTemplate string `short:"F" default:"${title_template}" help:"Title template. %f name, %b basename, %w/%h size, %D decoder."`

	Verbose bool             `help:"Enable debug logging."`
	Version kong.VersionFlag `help:"Print version and exit."`
}

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpConfigLoad, err))
		os.Exit(1)
	}

	kong.Parse(&cli,
		kong.Name("tiv"),
		kong.Description("Show images and videos in the terminal."),
		kong.Vars{
			"version":         version,
			"pixelation":      cfg.Pixelation,
			"upscale":         strconv.FormatBool(cfg.Upscale),
			"upscale_integer": strconv.FormatBool(cfg.UpscaleInteger),
			"center":          strconv.FormatBool(cfg.Center),
			"antialias":       strconv.FormatBool(*cfg.Antialias),
			"title":           strconv.FormatBool(cfg.Title),
			"title_template":  cfg.TitleTemplate,
			"background":      cfg.Background,
			"width_stretch":   strconv.FormatFloat(cfg.WidthStretch, 'f', -1, 64),
		})

	log.SetOutput(os.Stderr)
	if cli.Verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if len(cli.Files) == 0 {
		fmt.Fprintln(os.Stderr, "tiv: no files given (try 'tiv --help')")
		os.Exit(2)
	}

	renderer := termrender.Detect(cli.Pixelation)
	log.Debug("renderer selected", "mode", renderer.Name())

	cols, rows, fromTerm := outputGeometry()
	cellW, cellH := renderer.CellGeometry()

	opts := &display.Options{
		Width:          cols * cellW,
		Height:         rows * cellH,
		Upscale:        cli.Upscale || cli.UpscaleInteger,
		UpscaleInteger: cli.UpscaleInteger,
		FillWidth:      cli.FitWidth,
		FillHeight:     cli.FillHeight,
		WidthStretch:   cli.WidthStretch,
		CellXPx:        cellW,
		CellYPx:        cellH,
		Antialias:      cli.Antialias,
		Center:         cli.Center,
		ShowTitle:      cli.Title,
		TitleTemplate:  cli.TitleTemplate,
		Background:     cli.Background,
	}
	if fromTerm && cli.Title {
		// Leave room for the title line so the image does not scroll
		// its own top row away.
		opts.Height -= cellH
	}

	if cli.Background != "" {
		if c, ok := parseBackground(cli.Background); ok {
			bgColor = &c
		} else {
			log.Warn("ignoring invalid background color", "value", cli.Background)
		}
	}

	var interrupt atomic.Bool
	installSignalHandler(&interrupt)

	exitCode := 0
	for _, f := range cli.Files {
		if interrupt.Load() {
			break
		}
		if !showFile(f, opts, renderer, cols, &interrupt) {
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

// outputGeometry returns the drawing area in cells. fromTerm reports
// whether it came from the live terminal rather than -g.
func outputGeometry() (cols, rows int, fromTerm bool) {
	if cli.Geometry != "" {
		w, h, ok := strings.Cut(cli.Geometry, "x")
		cw, errW := strconv.Atoi(w)
		ch, errH := strconv.Atoi(h)
		if !ok || errW != nil || errH != nil || cw <= 0 || ch <= 0 {
			fmt.Fprintf(os.Stderr, "tiv: invalid geometry %q, want WxH\n", cli.Geometry)
			os.Exit(2)
		}
		return cw, ch, false
	}

	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		log.Debug(errmsg.Format(errmsg.OpTermQuery, err))
		return 80, 24, false
	}
	// Keep one row so the shell prompt does not push the last image
	// line off screen.
	return cols, rows - 1, true
}

func installSignalHandler(interrupt *atomic.Bool) {
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		interrupt.Store(true)
		<-ch
		os.Exit(130)
	}()
}

// showFile opens, decodes and renders one file. It reports errors to
// stderr itself and returns false when anything failed.
func showFile(filename string, opts *display.Options, r termrender.Renderer, cols int, interrupt *atomic.Bool) bool {
	tryImage := !cli.VideoOnly
	tryVideo := !cli.ImageOnly && *cfg.Video

	var src source.Source
	var err error
	if tryImage && tryVideo && source.LooksLikeAPNG(filename) {
		// Animated PNGs decode fine as a still image, so the image
		// backends must not get first pick.
		src, err = source.Create(filename, opts, cli.FrameOffset, cli.Frames, false, true)
		if err != nil {
			src, err = source.Create(filename, opts, cli.FrameOffset, cli.Frames, true, false)
		}
	} else {
		src, err = source.Create(filename, opts, cli.FrameOffset, cli.Frames, tryImage, tryVideo)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.FormatWith(errmsg.OpOpenMedia, filename, err))
		return false
	}

	if fi, statErr := os.Stat(filename); statErr == nil {
		log.Debug("opened", "file", filename, "size", humanize.Bytes(uint64(fi.Size())))
	}

	if cli.Title {
		fmt.Println(src.FormatTitle(cli.TitleTemplate))
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	cellW, _ := r.CellGeometry()

	first := true
	hidCursor := false
	lastRows := 0
	sink := func(img image.Image, delay time.Duration) error {
		if bgColor != nil {
			img = flatten(img, *bgColor)
		}
		if !first {
			fmt.Fprintf(out, "\x1b[%dA", lastRows)
		} else if delay > 0 {
			// Hide the cursor for the duration of an animation.
			fmt.Fprint(out, "\x1b[?25l")
			hidCursor = true
		}
		first = false

		indent := 0
		if cli.Center {
			wCells := (img.Bounds().Dx() + cellW - 1) / cellW
			if wCells < cols {
				indent = (cols - wCells) / 2
			}
		}
		lastRows = r.Rows(img.Bounds().Dy())
		if err := r.Render(out, img, indent); err != nil {
			return err
		}
		if err := out.Flush(); err != nil {
			return err
		}
		if delay > 0 {
			time.Sleep(delay)
		}
		return nil
	}

	err = src.SendFrames(cli.Duration, cli.Loops, interrupt, sink)
	if hidCursor {
		fmt.Fprint(out, "\x1b[?25h")
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpPlayback, err))
		return false
	}
	return true
}

// parseBackground parses "#rrggbb" (the '#' is optional).
func parseBackground(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}

// flatten composites img over a solid background, discarding alpha.
func flatten(img image.Image, bg color.RGBA) image.Image {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(out, b, img, b.Min, draw.Over)
	return out
}
