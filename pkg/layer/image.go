package layer

import (
	"context"
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
	"github.com/tgrunnagle/playing-card-gen/pkg/geom"
	"github.com/tgrunnagle/playing-card-gen/pkg/source"
)

// Image draws an image from a source, scaled to cover its placement and
// cropped from the top-left corner.
type Image struct {
	Name   string
	ID     string
	Place  geom.Placement
	Source source.Source
}

// Render fetches, fits and composites the image. An empty ID draws nothing.
func (l *Image) Render(ctx context.Context, canvas *image.RGBA) error {
	if l.ID == "" {
		return nil
	}
	img, err := l.Source.Get(ctx, l.ID)
	if err != nil {
		return err
	}
	if img.Bounds().Empty() {
		return errors.New(errors.ErrCodeInvalidInput, "layer %s: image %q is empty", l.Name, l.ID)
	}
	fitted := Cover(img, l.Place.W, l.Place.H)
	draw.Draw(canvas, l.Place.Rect(), fitted, image.Point{}, draw.Over)
	return nil
}

// ImageIDs implements ImageUser.
func (l *Image) ImageIDs() []string {
	if l.ID == "" {
		return nil
	}
	return []string{l.ID}
}

// Cover scales img so that it covers a w×h box while keeping its aspect
// ratio, then crops the top-left w×h region. An empty img yields a
// transparent w×h image.
func Cover(img image.Image, w, h int) *image.NRGBA {
	b := img.Bounds()
	if b.Empty() {
		return image.NewNRGBA(image.Rect(0, 0, w, h))
	}
	wRatio := float64(b.Dx()) / float64(w)
	hRatio := float64(b.Dy()) / float64(h)

	var rw, rh int
	if wRatio <= hRatio {
		rw, rh = w, max(h, int(float64(b.Dy())/wRatio))
	} else {
		rw, rh = max(w, int(float64(b.Dx())/hRatio)), h
	}

	resized := imaging.Resize(img, rw, rh, imaging.Lanczos)
	return imaging.Crop(resized, image.Rect(0, 0, w, h))
}
