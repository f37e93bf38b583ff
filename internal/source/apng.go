package source

import (
	"bytes"
	"encoding/binary"
	"os"
	"strings"
)

const pngSignatureLen = 8

// LooksLikeAPNG reports whether filename is an animated PNG. Only files
// with a .png or .apng suffix are examined; for those the PNG chunk list
// is walked looking for an acTL (animation control) chunk. Animated PNGs
// share the container of still PNGs, so this is the only way to tell them
// apart without decoding.
func LooksLikeAPNG(filename string) bool {
	lower := strings.ToLower(filename)
	if !strings.HasSuffix(lower, ".png") && !strings.HasSuffix(lower, ".apng") {
		return false
	}
	return hasAPNGChunk(filename)
}

// hasAPNGChunk scans the chunk headers in the first kibibyte for acTL.
// Each chunk is an 8-byte prefix (big-endian length, 4-byte type tag)
// followed by the data and a 4-byte CRC. Best effort: any read problem
// just ends the scan.
func hasAPNGChunk(filename string) bool {
	f, err := os.Open(filename)
	if err != nil {
		return false
	}
	defer f.Close()

	var buf [8]byte
	pos := int64(pngSignatureLen)
	for pos < 1024 {
		if n, err := f.ReadAt(buf[:], pos); err != nil || n != len(buf) {
			break
		}
		if bytes.Equal(buf[4:], []byte("acTL")) {
			return true
		}
		pos += int64(binary.BigEndian.Uint32(buf[:4])) + 12
	}
	return false
}
