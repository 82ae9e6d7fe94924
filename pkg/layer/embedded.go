package layer

import (
	"context"
	"image"
	"image/color"
	"slices"

	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
	"github.com/tgrunnagle/playing-card-gen/pkg/geom"
	"github.com/tgrunnagle/playing-card-gen/pkg/source"
	"github.com/tgrunnagle/playing-card-gen/pkg/textfit"
)

// EmbeddedText draws fitted text in which words that are keys of Symbols
// are replaced by the image they map to, sized to the line height.
type EmbeddedText struct {
	Name    string
	Text    string
	Place   geom.Placement
	Font    textfit.Font
	Source  source.Source
	Symbols map[string]string
	Options textfit.EmbedOptions
	Color   color.Color
}

// Render fits the padded text, draws it, then draws each glyph over its
// padding.
func (l *EmbeddedText) Render(ctx context.Context, canvas *image.RGBA) error {
	lay, err := textfit.FitEmbedded(l.Text, l.Place, l.Font, l.Symbols, l.Options)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "layer %s", l.Name)
	}
	reportFit(ctx, l.Name, &lay.Layout)

	if err := drawLines(canvas, &lay.Layout, l.Place, l.Color); err != nil {
		return err
	}
	for _, glyph := range l.glyphs(lay) {
		if err := glyph.Render(ctx, canvas); err != nil {
			return err
		}
	}
	return nil
}

// ImageIDs implements ImageUser. Every symbol image is listed, whether or
// not the text uses it.
func (l *EmbeddedText) ImageIDs() []string {
	ids := make([]string, 0, len(l.Symbols))
	for _, id := range l.Symbols {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// glyphs converts block-relative embeds into image layers on the card.
func (l *EmbeddedText) glyphs(lay *textfit.EmbeddedLayout) []*Image {
	out := make([]*Image, 0, len(lay.Embeds))
	for _, e := range lay.Embeds {
		out = append(out, &Image{
			Name:   l.Name,
			ID:     e.ImageID,
			Place:  e.Place.Move(l.Place.X, l.Place.Y+lay.VOffset+lay.EmbedDY),
			Source: l.Source,
		})
	}
	return out
}
