// Package local implements source.Source over the filesystem.
package local

import (
	"context"
	"image"
	"os"
	"path/filepath"

	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
	"github.com/tgrunnagle/playing-card-gen/pkg/source"
)

// Source reads images from an assets folder and writes output to another.
type Source struct {
	assetsDir string
	outputDir string
}

// New returns a Source. Image IDs are slash-separated paths relative to
// assetsDir.
func New(assetsDir, outputDir string) *Source {
	return &Source{assetsDir: assetsDir, outputDir: outputDir}
}

// AssetsDir returns the folder images are read from.
func (s *Source) AssetsDir() string { return s.assetsDir }

// OutputDir returns the folder output is written to.
func (s *Source) OutputDir() string { return s.outputDir }

// Get opens and decodes an image under the assets folder.
func (s *Source) Get(_ context.Context, id string) (image.Image, error) {
	if err := errors.ValidatePath(id); err != nil {
		return nil, err
	}

	path := filepath.Join(s.assetsDir, filepath.FromSlash(id))
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeImageNotFound, "image %q not found in %s", id, s.assetsDir)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageNotFound, err, "open image %q", id)
	}
	defer f.Close()

	img, err := source.Decode(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "image %q", id)
	}
	return img, nil
}

// Save writes img as PNG into the output folder, creating it if needed, and
// returns the file path.
func (s *Source) Save(_ context.Context, name string, img image.Image) (string, error) {
	if err := errors.ValidateAssetName(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "create output folder")
	}

	path := filepath.Join(s.outputDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	if err := source.EncodePNG(f, img); err != nil {
		f.Close()
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode %s", path)
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return path, nil
}

var _ source.Source = (*Source)(nil)
