package layer

import (
	"context"
	"image"
	"image/color"

	"github.com/charmbracelet/log"

	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
	"github.com/tgrunnagle/playing-card-gen/pkg/fonts"
	"github.com/tgrunnagle/playing-card-gen/pkg/geom"
	"github.com/tgrunnagle/playing-card-gen/pkg/observability"
	"github.com/tgrunnagle/playing-card-gen/pkg/textfit"
)

// Text draws a string fitted into its placement. Lines are left aligned.
type Text struct {
	Name    string
	Text    string
	Place   geom.Placement
	Font    textfit.Font
	Options textfit.Options
	Color   color.Color
}

// Render fits and draws the text.
func (l *Text) Render(ctx context.Context, canvas *image.RGBA) error {
	lay, err := textfit.Fit(l.Text, l.Place, l.Font, l.Options)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "layer %s", l.Name)
	}
	reportFit(ctx, l.Name, lay)
	return drawLines(canvas, lay, l.Place, l.Color)
}

// Layout returns the fit Render would draw, without drawing it.
func (l *Text) Layout() (*textfit.Layout, error) {
	return textfit.Fit(l.Text, l.Place, l.Font, l.Options)
}

func drawLines(canvas *image.RGBA, lay *textfit.Layout, p geom.Placement, c color.Color) error {
	d, ok := lay.Face.(fonts.Drawer)
	if !ok {
		return errors.New(errors.ErrCodeInternal, "font face %T cannot draw", lay.Face)
	}
	if c == nil {
		c = color.Black
	}
	for i, line := range lay.DisplayLines() {
		d.DrawString(canvas, line, p.X, p.Y+lay.VOffset+lay.LineY(i), c)
	}
	return nil
}

func reportFit(ctx context.Context, name string, lay *textfit.Layout) {
	if !lay.Overflow && !lay.Unbreakable {
		return
	}
	logger := log.FromContext(ctx)
	if lay.Unbreakable {
		logger.Warn("word wider than text box", "layer", name, "font_size", lay.FontSize)
	}
	if lay.Overflow {
		logger.Warn("text does not fit", "layer", name, "font_size", lay.FontSize,
			"width", lay.Width, "height", lay.Height)
		observability.Render().OnFitOverflow(ctx, name, lay.FontSize)
	}
}
