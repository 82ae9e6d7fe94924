// Package deck packs rendered cards into output images.
//
// Two layouts are supported. [LayoutSheet] tiles every card into one image,
// row-major, at most MaxWidth cards per row, which is the format Tabletop
// Simulator imports as a custom deck. [LayoutSingleton] produces one image
// per card. In both layouts every card can be surrounded by a padding border
// filled with the background.
//
// All cards of a deck are assumed to share the first card's size.
package deck

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"slices"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/tgrunnagle/playing-card-gen/pkg/card"
	"github.com/tgrunnagle/playing-card-gen/pkg/observability"
)

// DefaultMaxWidth is the number of cards per sheet row when Options leaves
// it unset.
const DefaultMaxWidth = 10

// Layout selects how cards are packed.
type Layout string

// Layouts.
const (
	LayoutSheet     Layout = "sheet"
	LayoutSingleton Layout = "singleton"
)

// ParseLayout converts a configuration value into a Layout. The empty string
// selects LayoutSheet.
func ParseLayout(s string) (Layout, error) {
	switch l := Layout(s); l {
	case "":
		return LayoutSheet, nil
	case LayoutSheet, LayoutSingleton:
		return l, nil
	}
	return "", fmt.Errorf("invalid layout: %q (must be one of: sheet, singleton)", s)
}

// Options controls packing.
type Options struct {
	Layout     Layout
	Padding    int         // border around every card, on sheets and singletons
	Background color.Color // sheet and padding fill; transparent when nil
	MaxWidth   int         // cards per sheet row (default 10)
}

func (o *Options) setDefaults() {
	if o.Layout == "" {
		o.Layout = LayoutSheet
	}
	if o.MaxWidth <= 0 {
		o.MaxWidth = DefaultMaxWidth
	}
	if o.Background == nil {
		o.Background = color.Transparent
	}
	if o.Padding < 0 {
		o.Padding = 0
	}
}

// Deck is an ordered list of cards plus an optional shared back.
type Deck struct {
	Name    string
	Cards   []*card.Card
	Back    *card.Card
	Options Options
}

// New returns an empty deck.
func New(name string, opts Options) *Deck {
	return &Deck{Name: name, Options: opts}
}

// Add appends a card.
func (d *Deck) Add(c *card.Card) {
	d.Cards = append(d.Cards, c)
}

// Len returns the number of cards.
func (d *Deck) Len() int {
	return len(d.Cards)
}

// ImageIDs returns the distinct ids of the images drawn by the cards and
// the back, sorted.
func (d *Deck) ImageIDs() []string {
	var ids []string
	for _, c := range d.Cards {
		ids = append(ids, c.ImageIDs()...)
	}
	if d.Back != nil {
		ids = append(ids, d.Back.ImageIDs()...)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// Grid returns the sheet dimensions in cards for n cards: at most maxWidth
// columns and as many rows as needed.
func Grid(n, maxWidth int) (cols, rows int) {
	if n <= 0 {
		return 0, 0
	}
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	cols = min(maxWidth, n)
	rows = (n + cols - 1) / cols
	return cols, rows
}

// Render renders every card and packs the results according to the deck's
// layout. A deck without cards renders to no images.
func (d *Deck) Render(ctx context.Context) (images []image.Image, err error) {
	hooks := observability.Render()
	start := time.Now()
	defer func() {
		hooks.OnDeckComplete(ctx, d.Name, len(d.Cards), time.Since(start), err)
	}()

	if len(d.Cards) == 0 {
		return nil, nil
	}
	opts := d.Options
	opts.setDefaults()

	if opts.Layout == LayoutSingleton {
		return d.renderSingletons(ctx, opts)
	}
	sheet, err := d.renderSheet(ctx, opts)
	if err != nil {
		return nil, err
	}
	return []image.Image{sheet}, nil
}

// RenderBack renders the shared back, padded like a singleton card. It
// returns nil when the deck has no back.
func (d *Deck) RenderBack(ctx context.Context) (image.Image, error) {
	if d.Back == nil {
		return nil, nil
	}
	opts := d.Options
	opts.setDefaults()
	img, err := d.Back.Render(ctx)
	if err != nil {
		return nil, fmt.Errorf("deck %s: back: %w", d.Name, err)
	}
	return pad(img, opts.Padding, opts.Background), nil
}

func (d *Deck) renderSheet(ctx context.Context, opts Options) (*image.NRGBA, error) {
	cols, rows := Grid(len(d.Cards), opts.MaxWidth)
	p := opts.Padding
	cardW, cardH := d.Cards[0].Width, d.Cards[0].Height
	cellW, cellH := cardW+2*p, cardH+2*p
	sheet := imaging.New(cols*cellW, rows*cellH, opts.Background)

	for i, c := range d.Cards {
		img, err := c.Render(ctx)
		if err != nil {
			return nil, fmt.Errorf("deck %s: %w", d.Name, err)
		}
		// The background already fills the border of each cell.
		x, y := (i%cols)*cellW+p, (i/cols)*cellH+p
		draw.Draw(sheet, image.Rect(x, y, x+cardW, y+cardH), img, image.Point{}, draw.Src)
	}
	return sheet, nil
}

func (d *Deck) renderSingletons(ctx context.Context, opts Options) ([]image.Image, error) {
	out := make([]image.Image, 0, len(d.Cards))
	for _, c := range d.Cards {
		img, err := c.Render(ctx)
		if err != nil {
			return nil, fmt.Errorf("deck %s: %w", d.Name, err)
		}
		out = append(out, pad(img, opts.Padding, opts.Background))
	}
	return out, nil
}

// pad surrounds img with a border of p pixels filled with bg. With no
// padding img is returned as is.
func pad(img *image.RGBA, p int, bg color.Color) image.Image {
	if p <= 0 {
		return img
	}
	b := img.Bounds()
	out := imaging.New(b.Dx()+2*p, b.Dy()+2*p, bg)
	draw.Draw(out, image.Rect(p, p, p+b.Dx(), p+b.Dy()), img, b.Min, draw.Src)
	return out
}
