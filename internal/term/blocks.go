package term

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"
)

// BlocksRenderer draws with ANSI truecolor block characters. Half mode
// packs 1x2 pixels per cell using the lower-half block; quarter mode
// packs 2x2 pixels per cell using the quadrant glyphs. Works on any
// terminal with 24-bit color support.
type BlocksRenderer struct {
	quarter bool
}

func NewHalfBlocks() *BlocksRenderer    { return &BlocksRenderer{} }
func NewQuarterBlocks() *BlocksRenderer { return &BlocksRenderer{quarter: true} }

func (b *BlocksRenderer) Name() string {
	if b.quarter {
		return "quarter"
	}
	return "half"
}

func (b *BlocksRenderer) CellGeometry() (int, int) {
	if b.quarter {
		return 2, 2
	}
	return 1, 2
}

func (b *BlocksRenderer) Rows(pixelHeight int) int { return ceilDiv(pixelHeight, 2) }

const resetSGR = "\x1b[0m"

func (b *BlocksRenderer) Render(w io.Writer, img image.Image, indentCells int) error {
	bw := bufio.NewWriter(w)
	indent := strings.Repeat(" ", max(indentCells, 0))
	if b.quarter {
		renderQuarter(bw, img, indent)
	} else {
		renderHalf(bw, img, indent)
	}
	return bw.Flush()
}

func rgbAt(img image.Image, x, y int) (r, g, bl uint8) {
	bounds := img.Bounds()
	if x >= bounds.Max.X || y >= bounds.Max.Y {
		return 0, 0, 0
	}
	c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
	return c.R, c.G, c.B
}

// renderHalf uses the lower-half block: the cell background shows the
// upper pixel, the foreground the lower one.
func renderHalf(w *bufio.Writer, img image.Image, indent string) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		w.WriteString(indent)
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ur, ug, ub := rgbAt(img, x, y)
			lr, lg, lb := rgbAt(img, x, y+1)
			fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm\x1b[38;2;%d;%d;%dm▄",
				ur, ug, ub, lr, lg, lb)
		}
		w.WriteString(resetSGR)
		w.WriteString("\r\n")
	}
}

// quadrants maps a bit set of "bright" subpixels (1=upper left, 2=upper
// right, 4=lower left, 8=lower right) to the matching glyph.
var quadrants = [16]rune{
	' ', '▘', '▝', '▀',
	'▖', '▌', '▞', '▛',
	'▗', '▚', '▐', '▜',
	'▄', '▙', '▟', '█',
}

func luma(r, g, b uint8) int {
	return 2126*int(r) + 7152*int(g) + 722*int(b)
}

// renderQuarter picks, per 2x2 pixel cell, the quadrant glyph that best
// splits the four pixels into a bright foreground and a dark background,
// coloring each side with the average of its pixels.
func renderQuarter(w *bufio.Writer, img image.Image, indent string) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		w.WriteString(indent)
		for x := bounds.Min.X; x < bounds.Max.X; x += 2 {
			var px [4][3]uint8
			px[0][0], px[0][1], px[0][2] = rgbAt(img, x, y)
			px[1][0], px[1][1], px[1][2] = rgbAt(img, x+1, y)
			px[2][0], px[2][1], px[2][2] = rgbAt(img, x, y+1)
			px[3][0], px[3][1], px[3][2] = rgbAt(img, x+1, y+1)

			total := 0
			for _, p := range px {
				total += luma(p[0], p[1], p[2])
			}
			threshold := total / 4

			var bits int
			var fg, bg [3]int
			var fgN, bgN int
			for i, p := range px {
				if luma(p[0], p[1], p[2]) > threshold {
					bits |= 1 << i
					for c := 0; c < 3; c++ {
						fg[c] += int(p[c])
					}
					fgN++
				} else {
					for c := 0; c < 3; c++ {
						bg[c] += int(p[c])
					}
					bgN++
				}
			}
			if fgN == 0 {
				// Uniform cell: a solid block in the shared color.
				fg, fgN = bg, bgN
				bits = 15
			}
			for c := 0; c < 3; c++ {
				fg[c] /= fgN
				if bgN > 0 {
					bg[c] /= bgN
				}
			}
			fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm\x1b[38;2;%d;%d;%dm%c",
				bg[0], bg[1], bg[2], fg[0], fg[1], fg[2], quadrants[bits])
		}
		w.WriteString(resetSGR)
		w.WriteString("\r\n")
	}
}
