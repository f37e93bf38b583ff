package source

import (
	"io"
	"os"
	"sync"
)

// StdinName is the conventional filename for reading standard input.
const StdinName = "-"

func isStdin(filename string) bool {
	return filename == StdinName || filename == "/dev/stdin"
}

var (
	stdinOnce sync.Once
	stdinData []byte
	stdinErr  error
)

// readInput returns the full content of filename. Standard input can only
// be consumed once, so it is slurped on first use and cached; every
// backend in the probe order then sees the same bytes.
func readInput(filename string) ([]byte, error) {
	if isStdin(filename) {
		stdinOnce.Do(func() {
			stdinData, stdinErr = io.ReadAll(os.Stdin)
		})
		return stdinData, stdinErr
	}
	return os.ReadFile(filename)
}
