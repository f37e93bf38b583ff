package source

import (
	"strconv"
	"strings"
)

// FormatTitle expands a title template in a single left-to-right scan.
// A '%' consumes exactly one following character:
//
//	%f  full filename
//	%b  basename
//	%w  original image width
//	%h  original image height
//	%D  decoder name
//
// Any other escaped character, including a second '%', is emitted
// literally, as is a lone '%' at the end of the template.
func FormatTitle(template, filename string, origW, origH int, decoder string) string {
	var b strings.Builder
	b.Grow(len(template) + len(filename))
	for i := 0; i < len(template); i++ {
		if template[i] != '%' || i == len(template)-1 {
			b.WriteByte(template[i])
			continue
		}
		i++
		switch template[i] {
		case 'f':
			b.WriteString(filename)
		case 'b':
			b.WriteString(basename(filename))
		case 'w':
			b.WriteString(strconv.Itoa(origW))
		case 'h':
			b.WriteString(strconv.Itoa(origH))
		case 'D':
			b.WriteString(decoder)
		default:
			b.WriteByte(template[i])
		}
	}
	return b.String()
}

// basename returns the part after the last path separator, accepting both
// slash directions so titles of foreign paths still shorten.
func basename(filename string) string {
	if i := strings.LastIndexAny(filename, `/\`); i >= 0 {
		return filename[i+1:]
	}
	return filename
}
