// Package card composites layers into a single card image.
//
// A card is rendered with the painter's algorithm: a fresh transparent
// canvas is created and every layer draws onto it in order, so later layers
// cover earlier ones. The first layer error aborts the card.
package card

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
	"github.com/tgrunnagle/playing-card-gen/pkg/layer"
	"github.com/tgrunnagle/playing-card-gen/pkg/observability"
)

// Card is an ordered stack of layers on a fixed-size canvas.
type Card struct {
	Name   string
	Width  int
	Height int
	Layers []layer.Layer
}

// New returns a card of the given size. Width and height must be positive.
func New(name string, width, height int, layers []layer.Layer) (*Card, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Config("card %s: size %dx%d must be positive", name, width, height)
	}
	return &Card{Name: name, Width: width, Height: height, Layers: layers}, nil
}

// Render draws every layer onto a new transparent canvas.
func (c *Card) Render(ctx context.Context) (img *image.RGBA, err error) {
	hooks := observability.Render()
	hooks.OnCardStart(ctx, c.Name)
	start := time.Now()
	defer func() {
		hooks.OnCardComplete(ctx, c.Name, time.Since(start), err)
	}()

	canvas := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	for i, l := range c.Layers {
		if err := l.Render(ctx, canvas); err != nil {
			return nil, fmt.Errorf("card %s: layer %d: %w", c.Name, i, err)
		}
	}
	return canvas, nil
}

// ImageIDs returns the ids of the images the card's layers fetch, in layer
// order. Ids may repeat.
func (c *Card) ImageIDs() []string {
	var ids []string
	for _, l := range c.Layers {
		if u, ok := l.(layer.ImageUser); ok {
			ids = append(ids, u.ImageIDs()...)
		}
	}
	return ids
}

// Size returns the card's bounds.
func (c *Card) Size() image.Point {
	return image.Pt(c.Width, c.Height)
}
