package remote

import (
	"bytes"
	"context"
	"image"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tgrunnagle/playing-card-gen/pkg/cache"
	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
	"github.com/tgrunnagle/playing-card-gen/pkg/source"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	data, err := source.PNGBytes(image.NewNRGBA(image.Rect(0, 0, 5, 7)))
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func fastRetries(t *testing.T) {
	t.Helper()
	prev := cache.InitialBackoff
	cache.InitialBackoff = time.Millisecond
	t.Cleanup(func() { cache.InitialBackoff = prev })
}

func TestGetCachesBody(t *testing.T) {
	body := pngBytes(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/assets/art/goblin.png" {
			http.NotFound(w, r)
			return
		}
		w.Write(body)
	}))
	defer srv.Close()

	c := cache.NewMemoryCache()
	s, err := New(Config{BaseURL: srv.URL + "/assets", Cache: c})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 3; i++ {
		img, err := s.Get(context.Background(), "art/goblin.png")
		if err != nil {
			t.Fatalf("Get #%d: %v", i, err)
		}
		if img.Bounds().Dx() != 5 || img.Bounds().Dy() != 7 {
			t.Errorf("bounds = %v", img.Bounds())
		}
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
	if c.Len() != 1 {
		t.Errorf("cache holds %d entries, want 1", c.Len())
	}
}

func TestGetRefreshBypassesCache(t *testing.T) {
	body := pngBytes(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(body)
	}))
	defer srv.Close()

	s, err := New(Config{BaseURL: srv.URL, Cache: cache.NewMemoryCache(), Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := s.Get(context.Background(), "x.png"); err != nil {
			t.Fatal(err)
		}
	}
	if hits.Load() != 2 {
		t.Errorf("server hit %d times, want 2", hits.Load())
	}
}

func TestGetNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	s, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.Get(context.Background(), "missing.png")
	if !errors.Is(err, errors.ErrCodeImageNotFound) {
		t.Errorf("Get error = %v, want %s", err, errors.ErrCodeImageNotFound)
	}
}

func TestGetRetriesServerErrors(t *testing.T) {
	fastRetries(t)
	body := pngBytes(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write(body)
	}))
	defer srv.Close()

	s, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(context.Background(), "flaky.png"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hits.Load() != 3 {
		t.Errorf("server hit %d times, want 3", hits.Load())
	}
}

func TestGetGivesUp(t *testing.T) {
	fastRetries(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.Get(context.Background(), "down.png")
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("Get error = %v, want %s", err, errors.ErrCodeNetwork)
	}
	if hits.Load() != 3 {
		t.Errorf("server hit %d times, want 3", hits.Load())
	}
}

func TestGetClientErrorNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s, _ := New(Config{BaseURL: srv.URL})
	if _, err := s.Get(context.Background(), "secret.png"); err == nil {
		t.Fatal("Get should fail on 403")
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
}

func TestNewRejectsBadURL(t *testing.T) {
	for _, u := range []string{"", "ftp://example.com", "example.com"} {
		if _, err := New(Config{BaseURL: u}); err == nil {
			t.Errorf("New(%q) should fail", u)
		}
	}
}

func TestURL(t *testing.T) {
	s, err := New(Config{BaseURL: "https://cdn.example.com/assets/"})
	if err != nil {
		t.Fatal(err)
	}
	tests := map[string]string{
		"goblin.png":    "https://cdn.example.com/assets/goblin.png",
		"art/orc 2.png": "https://cdn.example.com/assets/art/orc%202.png",
	}
	for id, want := range tests {
		if got := s.URL(id); got != want {
			t.Errorf("URL(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestSaveWritesLocally(t *testing.T) {
	out := t.TempDir()
	s, err := New(Config{BaseURL: "https://cdn.example.com", OutputDir: out})
	if err != nil {
		t.Fatal(err)
	}
	path, err := s.Save(context.Background(), "deck_0.png", image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("saved file is not a PNG")
	}
}
