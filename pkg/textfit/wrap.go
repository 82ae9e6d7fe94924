package textfit

import "strings"

// NextFitLength returns the length of the longest prefix of text[start:] that
// fits in width pixels without splitting a word.
//
// The candidate segment ends at the next literal newline (inclusive) or the
// end of the string. While the segment is too wide the end backs off past any
// trailing whitespace and then past the last word, stopping on the whitespace
// that precedes it. If the scan reaches start without finding a boundary the
// segment holds a single unbreakable word and 0 is returned.
func NextFitLength(text string, start int, face Face, width int) int {
	end := len(text) - 1
	if i := strings.IndexByte(text[start:], '\n'); i >= 0 {
		end = start + i
	}

	for end > start && face.Advance(trimBreak(text[start:end+1])) > width {
		charSeen := false
		found := false
		for end > start {
			if isSpace(text[end]) {
				if charSeen {
					found = true
					break
				}
			} else {
				charSeen = true
			}
			end--
		}
		if !found {
			return 0
		}
	}

	return end - start + 1
}

// SplitLines wraps text to width using [NextFitLength]. The returned lines
// concatenate back to text exactly. If a word cannot be broken the rest of the
// text is kept as a single line and unbreakable is true.
func SplitLines(text string, face Face, width int) (lines []string, unbreakable bool) {
	for index := 0; index < len(text); {
		n := NextFitLength(text, index, face, width)
		if n == 0 {
			return append(lines, text[index:]), true
		}
		lines = append(lines, text[index:index+n])
		index += n
	}
	return lines, false
}

// isSpace reports whether b is ASCII whitespace.
func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
