package source

import (
	"context"
	"image"
	"sort"
	"sync"

	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
)

// Memory is a map-backed Source. Saved images become readable under their
// name.
type Memory struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewMemory returns a Memory source preloaded with images.
func NewMemory(images map[string]image.Image) *Memory {
	m := &Memory{images: make(map[string]image.Image, len(images))}
	for id, img := range images {
		m.images[id] = img
	}
	return m
}

// Put adds or replaces an image.
func (m *Memory) Put(id string, img image.Image) {
	m.mu.Lock()
	m.images[id] = img
	m.mu.Unlock()
}

// Get implements Source.
func (m *Memory) Get(_ context.Context, id string) (image.Image, error) {
	m.mu.RLock()
	img, ok := m.images[id]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeImageNotFound, "image %q not found", id)
	}
	return img, nil
}

// Save implements Source. The location is "memory://<name>".
func (m *Memory) Save(_ context.Context, name string, img image.Image) (string, error) {
	if err := errors.ValidateAssetName(name); err != nil {
		return "", err
	}
	m.Put(name, img)
	return "memory://" + name, nil
}

// IDs returns the stored image IDs in sorted order.
func (m *Memory) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.images))
	for id := range m.images {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var _ Source = (*Memory)(nil)
