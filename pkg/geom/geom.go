// Package geom provides the pixel-space rectangle model shared by every card
// layer.
//
// A [Placement] describes where a layer renders: an origin (top-left) plus a
// width and height. A [Box] is the same rectangle expressed as two corners,
// which is the form used for containment tests during text fitting.
//
// Placements are plain values. Layout code that walks a row of glyphs copies
// the placement and moves the copy, so the original is never disturbed:
//
//	p := geom.Placement{X: 10, Y: 10, W: 20, H: 20}
//	next := p.Move(p.W+5, 0)
package geom

import (
	"fmt"
	"image"
)

// Placement is an axis-aligned rectangle in pixel units with the origin at the
// top-left corner.
type Placement struct {
	X int `json:"x" toml:"x"`
	Y int `json:"y" toml:"y"`
	W int `json:"w" toml:"w"`
	H int `json:"h" toml:"h"`
}

// Box is a rectangle given by its top-left (X1, Y1) and bottom-right (X2, Y2)
// corners.
type Box struct {
	X1, Y1, X2, Y2 int
}

// Width returns the horizontal span of the box.
func (b Box) Width() int { return b.X2 - b.X1 }

// Height returns the vertical span of the box.
func (b Box) Height() int { return b.Y2 - b.Y1 }

// ToBox converts a placement into its corner form.
func ToBox(p Placement) Box {
	return Box{X1: p.X, Y1: p.Y, X2: p.X + p.W, Y2: p.Y + p.H}
}

// WithinBox reports whether outer fully contains inner on all four edges.
func WithinBox(outer, inner Box) bool {
	return outer.X1 <= inner.X1 &&
		outer.Y1 <= inner.Y1 &&
		outer.X2 >= inner.X2 &&
		outer.Y2 >= inner.Y2
}

// MoveBox translates b so that its top-left corner lands on target while
// keeping its width and height.
func MoveBox(target image.Point, b Box) Box {
	return Box{
		X1: target.X,
		Y1: target.Y,
		X2: b.X2 - (b.X1 - target.X),
		Y2: b.Y2 - (b.Y1 - target.Y),
	}
}

// Copy returns an independent copy of p.
func (p Placement) Copy() Placement { return p }

// Move returns a copy of p offset by (dx, dy).
func (p Placement) Move(dx, dy int) Placement {
	p.X += dx
	p.Y += dy
	return p
}

// Rect returns p as an image.Rectangle.
func (p Placement) Rect() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.W, p.Y+p.H)
}

// Origin returns the top-left corner of p.
func (p Placement) Origin() image.Point { return image.Pt(p.X, p.Y) }

// Validate checks that p has a positive width and height.
func (p Placement) Validate() error {
	if p.W <= 0 || p.H <= 0 {
		return fmt.Errorf("placement %s must have positive width and height", p)
	}
	return nil
}

// String formats p as "(x,y wxh)".
func (p Placement) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", p.X, p.Y, p.W, p.H)
}
