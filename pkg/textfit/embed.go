package textfit

import (
	"math"
	"strings"

	"github.com/tgrunnagle/playing-card-gen/pkg/geom"
)

// maxPaddingLen bounds the padding search for faces whose space advance is
// zero.
const maxPaddingLen = 256

// Embed records where a substituted word's padding starts in the padded text.
type Embed struct {
	Index   int
	ImageID string
}

// EmbeddedImage is a glyph box relative to the top-left of the text block.
type EmbeddedImage struct {
	Place   geom.Placement
	ImageID string
}

// EmbedOptions extends Options with the glyph sizing ratios.
type EmbedOptions struct {
	Options

	// SizeRatio is the glyph size as a fraction of line height (default 1).
	SizeRatio float64
	// VOffsetRatio shifts glyphs down by a fraction of line height.
	VOffsetRatio float64
}

// EmbeddedLayout is a Layout whose text contains padding for inline glyphs.
type EmbeddedLayout struct {
	Layout

	Padded  string
	Embeds  []EmbeddedImage
	EmbedDY int // extra vertical glyph offset, in pixels
}

// FitEmbedded fits text like [Fit] after replacing every word that is a key of
// embeddings with padding sized for an inline glyph.
func FitEmbedded(text string, p geom.Placement, font Font, embeddings map[string]string, opts EmbedOptions) (*EmbeddedLayout, error) {
	if opts.SizeRatio <= 0 {
		opts.SizeRatio = 1
	}

	var (
		padded string
		embeds []EmbeddedImage
	)
	l, err := fit(p, font, opts.Options, func(face Face, spacing int) ([]string, bool) {
		padding := Padding(face, opts.SizeRatio)
		var indexes []Embed
		padded, indexes = PadEmbeddings(text, padding, embeddings)
		lines, unbreakable := SplitLines(padded, face, p.W)
		embeds = PlaceEmbeds(lines, indexes, face, face.Height()+spacing, face.Advance(padding))
		return lines, unbreakable
	})
	if err != nil {
		return nil, err
	}

	return &EmbeddedLayout{
		Layout:  *l,
		Padded:  padded,
		Embeds:  embeds,
		EmbedDY: int(math.Floor(opts.VOffsetRatio * float64(l.LineHeight))),
	}, nil
}

// Padding returns the shortest run of spaces whose advance is at least ratio
// times the face's line height.
func Padding(face Face, ratio float64) string {
	target := ratio * float64(face.Height())
	padding := " "
	for float64(face.Advance(padding)) < target && len(padding) < maxPaddingLen {
		padding += " "
	}
	return padding
}

// PadEmbeddings replaces each whitespace-delimited word whose trimmed form is a
// key of embeddings with padding. It returns the padded text and, in order, the
// index in the padded text where each padding run starts.
func PadEmbeddings(text, padding string, embeddings map[string]string) (string, []Embed) {
	var (
		b      strings.Builder
		embeds []Embed
		last   int
		delta  int
	)

	for index := 0; index < len(text); {
		next := nextWordIndex(text, index)
		word := text[index:next]
		trimmed := strings.TrimSpace(word)

		if id, ok := embeddings[trimmed]; ok && trimmed != "" {
			embeds = append(embeds, Embed{Index: index + delta, ImageID: id})
			replacement := strings.Replace(word, trimmed, padding, 1)
			b.WriteString(text[last:index])
			b.WriteString(replacement)
			last = next
			delta += len(replacement) - len(word)
		}
		index = next
	}
	b.WriteString(text[last:])

	return b.String(), embeds
}

// PlaceEmbeds maps padding indexes onto wrapped lines. Each glyph box is
// padWidth square, positioned at the advance of the line prefix before its
// index and at its line's y offset.
func PlaceEmbeds(lines []string, embeds []Embed, face Face, lineHeight, padWidth int) []EmbeddedImage {
	var out []EmbeddedImage
	start := 0
	for i, line := range lines {
		end := start + len(line)
		for _, e := range embeds {
			if e.Index < start || e.Index >= end {
				continue
			}
			out = append(out, EmbeddedImage{
				Place: geom.Placement{
					X: face.Advance(line[:e.Index-start]),
					Y: i * lineHeight,
					W: padWidth,
					H: padWidth,
				},
				ImageID: e.ImageID,
			})
		}
		start = end
	}
	return out
}

// nextWordIndex returns the index of the first character of the word after the
// one starting at start.
func nextWordIndex(text string, start int) int {
	for start < len(text) && !isSpace(text[start]) {
		start++
	}
	for start < len(text) && isSpace(text[start]) {
		start++
	}
	return start
}
