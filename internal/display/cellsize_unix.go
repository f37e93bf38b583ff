//go:build unix

package display

import (
	"os"

	"golang.org/x/sys/unix"
)

// CellSize returns the pixel dimensions of one terminal cell by querying
// TIOCGWINSZ. Falls back to 8x16 when the terminal does not report pixel
// sizes (common over ssh or in multiplexers).
func CellSize() (cellW, cellH int) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 || ws.Xpixel == 0 || ws.Ypixel == 0 {
		return 8, 16
	}
	return int(ws.Xpixel) / int(ws.Col), int(ws.Ypixel) / int(ws.Row)
}
