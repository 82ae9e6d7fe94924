package textfit

import (
	"fmt"
	"image"
	"math"

	"github.com/tgrunnagle/playing-card-gen/pkg/geom"
)

// Font size bounds used when Options leaves them unset.
const (
	DefaultMaxFontSize = 32
	DefaultMinFontSize = 8
)

// VAlignment positions a text block vertically inside its box.
type VAlignment string

// Vertical alignments.
const (
	VAlignTop    VAlignment = "top"
	VAlignMiddle VAlignment = "middle"
	VAlignBottom VAlignment = "bottom"
)

// ParseVAlignment converts a configuration value into a VAlignment.
// The empty string selects VAlignTop.
func ParseVAlignment(s string) (VAlignment, error) {
	switch v := VAlignment(s); v {
	case "":
		return VAlignTop, nil
	case VAlignTop, VAlignMiddle, VAlignBottom:
		return v, nil
	}
	return "", fmt.Errorf("invalid v_alignment: %q (must be one of: top, middle, bottom)", s)
}

// Options controls the fit search.
type Options struct {
	MaxFontSize  int        // first size tried (default 32)
	MinFontSize  int        // smallest size tried (default 8)
	SpacingRatio float64    // extra line spacing as a fraction of line height
	VAlign       VAlignment // vertical alignment inside the box
}

func (o *Options) setDefaults() {
	if o.MaxFontSize <= 0 {
		o.MaxFontSize = DefaultMaxFontSize
	}
	if o.MinFontSize <= 0 {
		o.MinFontSize = DefaultMinFontSize
	}
	if o.VAlign == "" {
		o.VAlign = VAlignTop
	}
}

// Layout is the accepted result of a fit search.
type Layout struct {
	FontSize int
	Face     Face

	// Lines are substrings of the wrapped text, in order. Joined they
	// reproduce the wrapped text exactly.
	Lines []string

	Spacing    int // pixels between lines
	LineHeight int // height of a single line
	Width      int // measured block width
	Height     int // measured block height
	VOffset    int // vertical offset of the block inside the box

	// Overflow is set when no size down to MinFontSize fit the box.
	Overflow bool
	// Unbreakable is set when a word wider than the box forced an unwrapped
	// remainder line.
	Unbreakable bool
}

// DisplayLines returns Lines without their hard line breaks, ready to draw.
func (l *Layout) DisplayLines() []string {
	out := make([]string, len(l.Lines))
	for i, line := range l.Lines {
		out[i] = trimBreak(line)
	}
	return out
}

// LineY returns the y offset of line i relative to the top of the block.
func (l *Layout) LineY(i int) int {
	return i * (l.LineHeight + l.Spacing)
}

// wrapFunc wraps the text for one candidate face.
type wrapFunc func(face Face, spacing int) (lines []string, unbreakable bool)

// Fit finds the largest font size at most opts.MaxFontSize for which text,
// wrapped to the placement width, fits inside the placement.
func Fit(text string, p geom.Placement, font Font, opts Options) (*Layout, error) {
	return fit(p, font, opts, func(face Face, _ int) ([]string, bool) {
		return SplitLines(text, face, p.W)
	})
}

func fit(p geom.Placement, font Font, opts Options, wrap wrapFunc) (*Layout, error) {
	opts.setDefaults()
	outer := geom.MoveBox(image.Point{}, geom.ToBox(p))

	for size := opts.MaxFontSize; ; size-- {
		face, err := font.Face(size)
		if err != nil {
			return nil, fmt.Errorf("load face at %dpt: %w", size, err)
		}

		lineHeight := face.Height()
		spacing := int(math.Floor(opts.SpacingRatio * float64(lineHeight)))
		lines, unbreakable := wrap(face, spacing)
		w, h := Measure(face, lines, spacing)

		l := &Layout{
			FontSize:    size,
			Face:        face,
			Lines:       lines,
			Spacing:     spacing,
			LineHeight:  lineHeight,
			Width:       w,
			Height:      h,
			Unbreakable: unbreakable,
		}

		fits := geom.WithinBox(outer, geom.Box{X2: w, Y2: h})
		if !fits && size-1 < opts.MinFontSize {
			l.Overflow = true
			fits = true
		}
		if fits {
			l.VOffset = VOffset(opts.VAlign, p.H, h)
			return l, nil
		}
	}
}

// VOffset returns the offset that aligns a block of textHeight pixels inside a
// box of boxHeight pixels.
func VOffset(align VAlignment, boxHeight, textHeight int) int {
	switch align {
	case VAlignMiddle:
		return (boxHeight - textHeight) / 2
	case VAlignBottom:
		return boxHeight - textHeight
	}
	return 0
}
