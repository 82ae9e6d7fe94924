package layer

import (
	"context"
	"fmt"
	"image"
	"unicode"

	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
	"github.com/tgrunnagle/playing-card-gen/pkg/geom"
	"github.com/tgrunnagle/playing-card-gen/pkg/source"
)

// Direction is the axis and sense a symbol row grows in.
type Direction string

// Directions.
const (
	Right Direction = "right"
	Left  Direction = "left"
	Down  Direction = "down"
	Up    Direction = "up"
)

// ParseDirection converts a configuration value into a Direction.
// The empty string selects Right.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case "":
		return Right, nil
	case Right, Left, Down, Up:
		return d, nil
	}
	return "", fmt.Errorf("invalid direction: %q (must be one of: right, left, down, up)", s)
}

// SymbolRow draws one image per non-space character of a string.
//
// The first glyph sits at the initial placement and each following glyph is
// offset by spacing plus the glyph size. Rows growing left or up are laid out
// from the end of the string, so the string still reads left to right (or
// top to bottom) on the card.
type SymbolRow struct {
	Name   string
	glyphs []*Image
}

// NewSymbolRow lays out symbols. Every non-space character must be a key of
// ids.
func NewSymbolRow(name, symbols string, ids map[string]string, initial geom.Placement, spacing int, dir Direction, src source.Source) (*SymbolRow, error) {
	runes := []rune(symbols)
	if dir == Left || dir == Up {
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
	}

	row := &SymbolRow{Name: name}
	p := initial.Copy()
	for _, r := range runes {
		if unicode.IsSpace(r) {
			continue
		}
		id, ok := ids[string(r)]
		if !ok {
			return nil, errors.Config("layer %s: no image for symbol %q", name, string(r))
		}
		row.glyphs = append(row.glyphs, &Image{Name: name, ID: id, Place: p, Source: src})

		switch dir {
		case Left:
			p = p.Move(-(spacing + p.W), 0)
		case Down:
			p = p.Move(0, spacing+p.H)
		case Up:
			p = p.Move(0, -(spacing + p.H))
		default:
			p = p.Move(spacing+p.W, 0)
		}
	}
	return row, nil
}

// Glyphs returns the per-symbol image layers in render order.
func (l *SymbolRow) Glyphs() []*Image {
	return l.glyphs
}

// ImageIDs implements ImageUser.
func (l *SymbolRow) ImageIDs() []string {
	ids := make([]string, 0, len(l.glyphs))
	for _, g := range l.glyphs {
		ids = append(ids, g.ID)
	}
	return ids
}

// Render draws every glyph.
func (l *SymbolRow) Render(ctx context.Context, canvas *image.RGBA) error {
	for _, g := range l.glyphs {
		if err := g.Render(ctx, canvas); err != nil {
			return err
		}
	}
	return nil
}
