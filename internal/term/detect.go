package term

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Detect picks the renderer for the requested pixelation mode. "auto"
// inspects the environment; explicit modes force a renderer.
func Detect(mode string) Renderer {
	switch mode {
	case "kitty":
		return NewKitty()
	case "sixel":
		return NewSixel()
	case "quarter":
		return NewQuarterBlocks()
	case "half":
		return NewHalfBlocks()
	}

	// When output is piped we avoid graphics protocols: they depend on
	// terminal state we cannot query. Blocks degrade gracefully.
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return NewHalfBlocks()
	}
	if isKittySupported() {
		return NewKitty()
	}
	if isSixelSupported() {
		return NewSixel()
	}
	return NewHalfBlocks()
}

// isKittySupported checks for environment markers of terminals speaking
// the Kitty graphics protocol.
func isKittySupported() bool {
	// Contour sets CONTOUR_PROFILE but doesn't support the Kitty
	// protocol; parent terminal variables can leak into it, so check
	// first.
	if os.Getenv("CONTOUR_PROFILE") != "" {
		return false
	}
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	if os.Getenv("TERM") == "xterm-kitty" {
		return true
	}
	if os.Getenv("TERM_PROGRAM") == "WezTerm" {
		return true
	}
	if os.Getenv("GHOSTTY_RESOURCES_DIR") != "" {
		return true
	}
	if version := os.Getenv("KONSOLE_VERSION"); version != "" {
		// Konsole speaks Kitty graphics from 22.04 on.
		if len(version) >= 4 && version[:4] >= "2204" {
			return true
		}
	}
	return strings.Contains(os.Getenv("TERM"), "kitty")
}

// isSixelSupported checks for terminals known to render Sixel.
func isSixelSupported() bool {
	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")

	if term == "foot" || term == "foot-extra" {
		return true
	}
	if termProgram == "vscode" || termProgram == "mintty" || termProgram == "iTerm.app" {
		return true
	}
	if termProgram == "contour" || os.Getenv("CONTOUR_PROFILE") != "" {
		return true
	}
	return false
}
