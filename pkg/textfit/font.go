package textfit

import "strings"

// Face measures text at one fixed font size.
type Face interface {
	// Advance returns the single-line advance width of s in pixels.
	Advance(s string) int

	// Height returns the height of one line of text (the height of a space
	// glyph's box) in pixels.
	Height() int
}

// Font produces faces of a single typeface at integer point sizes.
type Font interface {
	Face(size int) (Face, error)
}

// Measure returns the bounding box of lines drawn top to bottom with spacing
// pixels between consecutive lines. A trailing hard break on a line is treated
// as the line separator and not measured.
func Measure(face Face, lines []string, spacing int) (w, h int) {
	if len(lines) == 0 {
		return 0, 0
	}
	for _, line := range lines {
		w = max(w, face.Advance(trimBreak(line)))
	}
	h = len(lines)*face.Height() + (len(lines)-1)*spacing
	return w, h
}

// trimBreak drops one trailing hard line break.
func trimBreak(s string) string {
	return strings.TrimSuffix(s, "\n")
}
