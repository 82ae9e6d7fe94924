// Package remote implements source.Source over HTTP.
//
// Images are fetched with GET <base>/<id>. Response bodies are cached through
// a cache.Cache so repeated renders of a deck hit the network once per image.
// 5xx responses and transport errors are retried with exponential backoff.
package remote

import (
	"context"
	stderrors "errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tgrunnagle/playing-card-gen/pkg/cache"
	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
	"github.com/tgrunnagle/playing-card-gen/pkg/observability"
	"github.com/tgrunnagle/playing-card-gen/pkg/source"
	"github.com/tgrunnagle/playing-card-gen/pkg/source/local"
)

const (
	httpTimeout = 30 * time.Second

	// maxImageBytes caps a single download.
	maxImageBytes = 32 << 20
)

// Config configures a remote Source.
type Config struct {
	BaseURL   string
	OutputDir string // where Save writes; remote stores are read-only

	Cache      cache.Cache  // nil disables caching
	Keyer      cache.Keyer  // nil uses cache.NewDefaultKeyer()
	HTTPClient *http.Client // nil uses a client with a 30s timeout
	Refresh    bool         // bypass cached bodies on read
}

// Source fetches images from an HTTP server.
type Source struct {
	base    *url.URL
	http    *http.Client
	cache   cache.Cache
	keyer   cache.Keyer
	refresh bool
	out     *local.Source
}

// New validates cfg and returns a Source.
func New(cfg Config) (*Source, error) {
	if err := errors.ValidateURL(cfg.BaseURL); err != nil {
		return nil, err
	}
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "remote base_url")
	}

	s := &Source{
		base:    base,
		http:    cfg.HTTPClient,
		cache:   cfg.Cache,
		keyer:   cfg.Keyer,
		refresh: cfg.Refresh,
		out:     local.New("", cfg.OutputDir),
	}
	if s.http == nil {
		s.http = &http.Client{Timeout: httpTimeout}
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.keyer == nil {
		s.keyer = cache.NewDefaultKeyer()
	}
	return s, nil
}

// Get fetches and decodes the image for id.
func (s *Source) Get(ctx context.Context, id string) (image.Image, error) {
	if err := errors.ValidatePath(id); err != nil {
		return nil, err
	}
	key := s.keyer.ImageKey("remote", s.base.String()+id)

	if !s.refresh {
		if data, ok, _ := s.cache.Get(ctx, key); ok {
			observability.Cache().OnCacheHit(ctx, "image")
			return source.DecodeBytes(data)
		}
		observability.Cache().OnCacheMiss(ctx, "image")
	}

	var data []byte
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		data, err = s.fetch(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.classify(id, err)
	}

	img, err := source.DecodeBytes(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "image %q", id)
	}
	if err := s.cache.Set(ctx, key, data, cache.TTLImage); err == nil {
		observability.Cache().OnCacheSet(ctx, "image", len(data))
	}
	return img, nil
}

// Save writes img to the configured output folder.
func (s *Source) Save(ctx context.Context, name string, img image.Image) (string, error) {
	return s.out.Save(ctx, name, img)
}

// URL returns the address an id is fetched from.
func (s *Source) URL(id string) string {
	ref := &url.URL{Path: id}
	return s.base.ResolveReference(ref).String()
}

func (s *Source) fetch(ctx context.Context, id string) ([]byte, error) {
	u := s.URL(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)

	start := time.Now()
	resp, err := s.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image larger than %d bytes", maxImageBytes)
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return cache.ErrNotFound
	case code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", cache.ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", cache.ErrNetwork, code)
	}
}

func (s *Source) classify(id string, err error) error {
	switch {
	case stderrors.Is(err, cache.ErrNotFound):
		return errors.New(errors.ErrCodeImageNotFound, "image %q not found at %s", id, s.URL(id))
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "fetch image %q", id)
	case stderrors.Is(err, cache.ErrNetwork):
		return errors.Wrap(errors.ErrCodeNetwork, err, "fetch image %q", id)
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "fetch image %q", id)
}

var _ source.Source = (*Source)(nil)
