// Package source defines where card images come from and where rendered
// sheets go.
//
// Layers only ever see a [Source]. Implementations live in subpackages:
//   - local: an assets folder for reads and an output folder for writes
//   - remote: HTTP GET under a base URL, cached and retried
//   - gridfs: a MongoDB GridFS bucket
//
// [Memory] is a map-backed source used by tests and by the server for
// uploaded decks.
package source

import (
	"bytes"
	"context"
	"image"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
)

// Source resolves image IDs to decoded images and persists rendered output.
type Source interface {
	// Get returns the image for id. A missing image fails with
	// IMAGE_NOT_FOUND.
	Get(ctx context.Context, id string) (image.Image, error)

	// Save writes img as a PNG named name and returns where it was written
	// (a path or URL).
	Save(ctx context.Context, name string, img image.Image) (string, error)
}

// Decode decodes PNG, JPEG, GIF, BMP or WebP data, applying any EXIF
// orientation.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode image")
	}
	return img, nil
}

// DecodeBytes is Decode over a byte slice.
func DecodeBytes(data []byte) (image.Image, error) {
	return Decode(bytes.NewReader(data))
}

// EncodePNG encodes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

// PNGBytes encodes img as PNG into memory.
func PNGBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
