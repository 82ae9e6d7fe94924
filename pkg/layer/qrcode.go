package layer

import (
	"context"
	"fmt"
	"image"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"

	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
	"github.com/tgrunnagle/playing-card-gen/pkg/geom"
)

// ParseQRLevel converts "low", "medium", "high" or "highest" to a recovery
// level. The empty string selects medium.
func ParseQRLevel(s string) (qrcode.RecoveryLevel, error) {
	switch s {
	case "", "medium":
		return qrcode.Medium, nil
	case "low":
		return qrcode.Low, nil
	case "high":
		return qrcode.High, nil
	case "highest":
		return qrcode.Highest, nil
	}
	return 0, fmt.Errorf("invalid qr_level: %q (must be one of: low, medium, high, highest)", s)
}

// QRCode draws a square QR code of Content, as large as the placement's
// shorter side allows, anchored at the top-left corner.
type QRCode struct {
	Name    string
	Content string
	Place   geom.Placement
	Level   qrcode.RecoveryLevel
}

// Render encodes and draws the code. Empty content draws nothing.
func (l *QRCode) Render(_ context.Context, canvas *image.RGBA) error {
	if l.Content == "" {
		return nil
	}
	q, err := qrcode.New(l.Content, l.Level)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "layer %s", l.Name)
	}
	q.DisableBorder = true

	size := min(l.Place.W, l.Place.H)
	img := q.Image(size)
	r := image.Rect(l.Place.X, l.Place.Y, l.Place.X+size, l.Place.Y+size)
	draw.Draw(canvas, r, img, img.Bounds().Min, draw.Over)
	return nil
}
