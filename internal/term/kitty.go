package term

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/termtools/tiv/internal/display"
)

// Kitty graphics protocol escape sequences.
const (
	kittyStart = "\x1b_G"
	kittyEnd   = "\x1b\\"

	// The protocol requires chunked transmission; 4096 bytes of payload
	// per escape sequence.
	kittyChunkSize = 4096
)

// KittyRenderer transmits frames with the Kitty graphics protocol,
// a=T (transmit and display in one step).
type KittyRenderer struct {
	cellW, cellH int
}

func NewKitty() *KittyRenderer {
	w, h := display.CellSize()
	return &KittyRenderer{cellW: w, cellH: h}
}

func (k *KittyRenderer) Name() string { return "kitty" }

func (k *KittyRenderer) CellGeometry() (int, int) { return k.cellW, k.cellH }

func (k *KittyRenderer) Rows(pixelHeight int) int { return ceilDiv(pixelHeight, k.cellH) }

func (k *KittyRenderer) Render(w io.Writer, img image.Image, indentCells int) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())

	b := img.Bounds()
	cols := ceilDiv(b.Dx(), k.cellW)
	rows := k.Rows(b.Dy())

	if indentCells > 0 {
		fmt.Fprintf(w, "\x1b[%dC", indentCells)
	}

	for i := 0; i < len(encoded); i += kittyChunkSize {
		end := min(i+kittyChunkSize, len(encoded))
		more := 0
		if end < len(encoded) {
			more = 1
		}
		var err error
		if i == 0 {
			// First chunk carries the parameters: PNG payload (f=100),
			// size in cells, quiet mode so the terminal stays silent.
			_, err = fmt.Fprintf(w, "%sa=T,f=100,c=%d,r=%d,q=2,m=%d;%s%s",
				kittyStart, cols, rows, more, encoded[i:end], kittyEnd)
		} else {
			_, err = fmt.Fprintf(w, "%sm=%d;%s%s", kittyStart, more, encoded[i:end], kittyEnd)
		}
		if err != nil {
			return err
		}
	}

	// a=T leaves the cursor at the end of the image.
	_, err := io.WriteString(w, "\r\n")
	return err
}
