//go:build !unix

package display

// CellSize returns the assumed pixel dimensions of one terminal cell on
// platforms without a TIOCGWINSZ equivalent.
func CellSize() (cellW, cellH int) {
	return 8, 16
}
