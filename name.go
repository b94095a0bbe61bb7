package watercolor

import (
	"path/filepath"
	"strconv"
	"strings"
)

// MakeName derives the output file name for a source image:
// "{base}_watercolor-{n}colors.png", or "{base}_watercolor.png" when n <= 0.
// base is the file name up to its first dot.
func MakeName(path string, nColors int) string {
	return derive(path, "_watercolor", nColors)
}

// SwatchName is MakeName for the palette swatch.
func SwatchName(path string, nColors int) string {
	return derive(path, "_palette", nColors)
}

func derive(path, tag string, n int) string {
	base := filepath.Base(filepath.ToSlash(path))
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	var b strings.Builder
	b.WriteString(base)
	b.WriteString(tag)
	if n > 0 {
		b.WriteString("-")
		b.WriteString(strconv.Itoa(n))
		b.WriteString("colors")
	}
	b.WriteString(".png")
	return b.String()
}
