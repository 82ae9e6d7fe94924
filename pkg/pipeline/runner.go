package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tgrunnagle/playing-card-gen/pkg/cache"
	"github.com/tgrunnagle/playing-card-gen/pkg/config"
	"github.com/tgrunnagle/playing-card-gen/pkg/deck"
	"github.com/tgrunnagle/playing-card-gen/pkg/observability"
	"github.com/tgrunnagle/playing-card-gen/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Build is a deck ready to render, together with the source its images come
// from. Close releases the source.
type Build struct {
	Config   *config.Config
	Decklist *config.Decklist
	Deck     *deck.Deck
	Source   source.Source

	images      *memoSource // what the deck's layers read from
	closeSource func(context.Context) error
}

// Fingerprint hashes every image the deck draws.
func (b *Build) Fingerprint(ctx context.Context) (string, error) {
	var src source.Source = b.images
	if b.images == nil {
		src = b.Source
	}
	return ImageFingerprint(ctx, src, b.Deck.ImageIDs())
}

// Close releases the image source if the build opened it.
func (b *Build) Close(ctx context.Context) error {
	if b.closeSource == nil {
		return nil
	}
	return b.closeSource(ctx)
}

// CardNames returns the deck's card names in sheet order.
func (b *Build) CardNames() []string {
	names := make([]string, len(b.Deck.Cards))
	for i, c := range b.Deck.Cards {
		names[i] = c.Name
	}
	return names
}

// Execute runs the complete build → render → save pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		RunID:     uuid.NewString(),
		DeckName:  opts.DeckName,
		InputHash: opts.InputHash(),
	}
	logger := r.logger(opts).With("run", result.RunID[:8], "deck", opts.DeckName)
	ctx = log.WithContext(ctx, logger)
	opts.Logger = logger

	// Stage 1: Build
	buildStart := time.Now()
	b, err := r.BuildDeck(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	defer func() {
		if err := b.Close(ctx); err != nil {
			logger.Warn("close image source", "error", err)
		}
	}()
	result.Config = b.Config
	result.Cards = b.CardNames()
	result.Stats.CardCount = b.Deck.Len()
	result.Stats.BuildTime = time.Since(buildStart)

	logger.Info("built deck",
		"cards", b.Deck.Len(),
		"skipped", len(b.Decklist.Rows)-b.Deck.Len(),
		"duration", result.Stats.BuildTime)

	if b.Deck.Len() == 0 {
		logger.Warn("decklist has no cards to render")
		return result, nil
	}

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, b, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	logger.Info("rendered deck",
		"images", len(artifacts),
		"cached", hit,
		"duration", result.Stats.RenderTime)

	// Stage 3: Save
	saveStart := time.Now()
	if err := r.Save(ctx, b, artifacts); err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}
	result.Stats.SaveTime = time.Since(saveStart)

	for _, a := range artifacts {
		logger.Debug("saved", "name", a.Name, "location", a.Location)
	}
	return result, nil
}

// BuildDeck loads the configuration and decklist and builds every card.
// The caller must Close the returned build.
func (r *Runner) BuildDeck(ctx context.Context, opts Options) (*Build, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	cfg, err := config.Parse(opts.ConfigData, opts.ConfigFormat)
	if err != nil {
		return nil, err
	}
	if opts.Layout != "" {
		cfg.Output.Layout = opts.Layout
	}
	if opts.OutputDir != "" {
		cfg.Output.Folder = opts.OutputDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	list, err := config.ReadDecklist(opts.DeckName, bytes.NewReader(opts.DecklistData))
	if err != nil {
		return nil, err
	}

	b := &Build{Config: cfg, Decklist: list, Source: opts.Source}
	if b.Source == nil {
		src, closeFn, err := OpenSource(ctx, cfg, r.Cache, r.Keyer, opts.Refresh)
		if err != nil {
			return nil, err
		}
		b.Source, b.closeSource = src, closeFn
	}
	b.images = newMemoSource(b.Source)

	d, err := config.NewBuilder(cfg, b.images, opts.Fonts).Deck(list)
	if err != nil {
		_ = b.Close(ctx)
		return nil, err
	}
	b.Deck = d
	return b, nil
}

// RenderWithCacheInfo renders the deck's artifacts, or loads them from the
// cache when every one of them is present, and reports whether the cache
// served them. Artifacts are keyed by the run's inputs and by the pixels of
// every image the deck draws.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, b *Build, opts Options) ([]*Artifact, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	if b.Deck.Len() == 0 {
		return nil, false, nil
	}
	logger := r.logger(opts)
	ctx = log.WithContext(ctx, logger)

	fp, err := b.Fingerprint(ctx)
	if err != nil {
		return nil, false, err
	}
	hash := cache.HashAll([]byte(opts.InputHash()), []byte(fp))
	deckOpts := b.Deck.Options
	withBack := b.Deck.Back != nil && !opts.SkipBack

	faces := 1
	if deckOpts.Layout == deck.LayoutSingleton {
		faces = b.Deck.Len()
	}
	names := ArtifactNames(opts.DeckName, faces)
	keys := make([]string, 0, faces+1)
	for i := range names {
		keys = append(keys, r.Keyer.ArtifactKey(hash, ArtifactKeyOpts(deckOpts, b.Config.Output.Background, i)))
	}
	if withBack {
		keys = append(keys, r.Keyer.ArtifactKey(hash, ArtifactKeyOpts(deckOpts, b.Config.Output.Background, backIndex)))
	}

	if !opts.Refresh {
		if artifacts, ok := r.cached(ctx, keys, names, withBack, opts.DeckName); ok {
			return artifacts, true, nil
		}
	}

	artifacts, err := r.render(ctx, b, names, withBack, opts.DeckName)
	if err != nil {
		return nil, false, err
	}

	ttl, _ := b.Config.CacheTTL()
	if ttl == 0 {
		ttl = cache.TTLArtifact
	}
	for i, a := range artifacts {
		if err := r.Cache.Set(ctx, keys[i], a.Data, ttl); err != nil {
			logger.Debug("cache write failed", "name", a.Name, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(a.Data))
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Render(ctx context.Context, b *Build, opts Options) ([]*Artifact, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, b, opts)
	return artifacts, err
}

func (r *Runner) cached(ctx context.Context, keys, names []string, withBack bool, deckName string) ([]*Artifact, bool) {
	artifacts := make([]*Artifact, 0, len(keys))
	for i, key := range keys {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		a := &Artifact{Data: data}
		if i < len(names) {
			a.Name = names[i]
		} else {
			a.Name, a.Back = BackName(deckName), true
		}
		artifacts = append(artifacts, a)
	}
	observability.Cache().OnCacheHit(ctx, "artifact")
	return artifacts, true
}

func (r *Runner) render(ctx context.Context, b *Build, names []string, withBack bool, deckName string) ([]*Artifact, error) {
	images, err := b.Deck.Render(ctx)
	if err != nil {
		return nil, err
	}
	if len(images) != len(names) {
		return nil, fmt.Errorf("deck rendered %d images, want %d", len(images), len(names))
	}

	artifacts := make([]*Artifact, 0, len(images)+1)
	for i, img := range images {
		data, err := source.PNGBytes(img)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", names[i], err)
		}
		artifacts = append(artifacts, &Artifact{Name: names[i], Data: data, img: img})
	}

	if withBack {
		img, err := b.Deck.RenderBack(ctx)
		if err != nil {
			return nil, err
		}
		data, err := source.PNGBytes(img)
		if err != nil {
			return nil, fmt.Errorf("encode back: %w", err)
		}
		artifacts = append(artifacts, &Artifact{Name: BackName(deckName), Data: data, Back: true, img: img})
	}
	return artifacts, nil
}

// Save writes every artifact through the build's source and records where
// it went.
func (r *Runner) Save(ctx context.Context, b *Build, artifacts []*Artifact) error {
	for _, a := range artifacts {
		img, err := a.Image()
		if err != nil {
			return fmt.Errorf("decode %s: %w", a.Name, err)
		}
		loc, err := b.Source.Save(ctx, a.Name, img)
		if err != nil {
			return err
		}
		a.Location = loc
	}
	return nil
}

// logger returns the run's logger: opts.Logger when set, else the runner's.
func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
