package pipeline

import (
	"context"

	"github.com/tgrunnagle/playing-card-gen/pkg/cache"
	"github.com/tgrunnagle/playing-card-gen/pkg/config"
	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
	"github.com/tgrunnagle/playing-card-gen/pkg/source"
	"github.com/tgrunnagle/playing-card-gen/pkg/source/gridfs"
	"github.com/tgrunnagle/playing-card-gen/pkg/source/local"
	"github.com/tgrunnagle/playing-card-gen/pkg/source/remote"
)

// OpenSource opens the image provider named by cfg. The returned function
// releases it and is never nil.
func OpenSource(ctx context.Context, cfg *config.Config, c cache.Cache, keyer cache.Keyer, refresh bool) (source.Source, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.ImageProvider {
	case config.ProviderLocal, "":
		return local.New(cfg.Assets.Folder, cfg.Output.Folder), noop, nil

	case config.ProviderRemote:
		src, err := remote.New(remote.Config{
			BaseURL:   cfg.Remote.BaseURL,
			OutputDir: cfg.Output.Folder,
			Cache:     c,
			Keyer:     keyer,
			Refresh:   refresh,
		})
		if err != nil {
			return nil, nil, err
		}
		return src, noop, nil

	case config.ProviderGridFS:
		src, err := gridfs.Connect(ctx, gridfs.Config{
			URI:      cfg.GridFS.URI,
			Database: cfg.GridFS.Database,
			Bucket:   cfg.GridFS.Bucket,
		})
		if err != nil {
			return nil, nil, err
		}
		return src, src.Close, nil
	}
	return nil, nil, errors.Config("unsupported image_provider %q", cfg.ImageProvider)
}

// OpenCache opens the cache backend described by cc. fileDir is used by the
// file backend.
func OpenCache(ctx context.Context, cc config.CacheConfig, fileDir string) (cache.Cache, error) {
	switch cc.Backend {
	case config.CacheFile, "":
		if fileDir == "" {
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(fileDir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	case config.CacheRedis:
		addr := cc.RedisAddr
		if addr == "" {
			addr = config.DefaultRedisAddr
		}
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: addr})
		if err != nil {
			return nil, err
		}
		return rc, nil
	case config.CacheMemory:
		return cache.NewMemoryCache(), nil
	case config.CacheNone:
		return cache.NewNullCache(), nil
	}
	return nil, errors.Config("unsupported cache.backend %q", cc.Backend)
}
