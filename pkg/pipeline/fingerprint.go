package pipeline

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/tgrunnagle/playing-card-gen/pkg/cache"
	"github.com/tgrunnagle/playing-card-gen/pkg/source"
)

// memoSource keeps every image it has fetched for the lifetime of a build, so
// fingerprinting and rendering read each asset once.
type memoSource struct {
	source.Source

	mu     sync.Mutex
	images map[string]image.Image
}

func newMemoSource(src source.Source) *memoSource {
	return &memoSource{Source: src, images: make(map[string]image.Image)}
}

func (m *memoSource) Get(ctx context.Context, id string) (image.Image, error) {
	m.mu.Lock()
	img, ok := m.images[id]
	m.mu.Unlock()
	if ok {
		return img, nil
	}

	img, err := m.Source.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.images[id] = img
	m.mu.Unlock()
	return img, nil
}

// ImageFingerprint hashes the pixels of the images with the given ids. Any
// edit to an asset changes the fingerprint, and with it the artifact cache
// key of every deck drawing that asset.
func ImageFingerprint(ctx context.Context, src source.Source, ids []string) (string, error) {
	parts := make([][]byte, 0, 2*len(ids))
	for _, id := range ids {
		img, err := src.Get(ctx, id)
		if err != nil {
			return "", err
		}
		pix := imaging.Clone(img)
		b := pix.Bounds()
		sum := cache.HashAll([]byte(fmt.Sprintf("%dx%d", b.Dx(), b.Dy())), pix.Pix)
		parts = append(parts, []byte(id), []byte(sum))
	}
	return cache.HashAll(parts...), nil
}
