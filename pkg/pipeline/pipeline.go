// Package pipeline provides the card rendering pipeline shared by the CLI
// and the HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: load the configuration and decklist, open the image source and
//     turn every decklist row into a card
//  2. Render: composite the cards and pack them into sheets or singletons,
//     encoded as PNG
//  3. Save: write each artifact through the image source (a local folder or
//     GridFS)
//
// Rendered artifacts are cached by a hash of the configuration and decklist
// bytes plus the packing options, so re-running an unchanged deck skips the
// render stage.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    ConfigPath:   "deck.toml",
//	    DecklistPath: "starter.csv",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, a := range result.Artifacts {
//	    fmt.Println(a.Location)
//	}
//
// Run individual stages:
//
//	b, err := runner.BuildDeck(ctx, opts)
//	defer b.Close(ctx)
//	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, b, opts)
//	err = runner.Save(ctx, b, artifacts)
package pipeline

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tgrunnagle/playing-card-gen/pkg/cache"
	"github.com/tgrunnagle/playing-card-gen/pkg/config"
	"github.com/tgrunnagle/playing-card-gen/pkg/deck"
	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
	"github.com/tgrunnagle/playing-card-gen/pkg/fonts"
	"github.com/tgrunnagle/playing-card-gen/pkg/source"
)

// DefaultDeckName names decks whose decklist did not come from a file.
const DefaultDeckName = "deck"

// backIndex marks the back artifact in cache keys.
const backIndex = -1

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all inputs of a pipeline run. Configuration and decklist
// are given either as paths or as raw bytes; bytes win.
type Options struct {
	ConfigPath   string        `json:"config_path,omitempty"`
	ConfigData   []byte        `json:"-"`
	ConfigFormat config.Format `json:"config_format,omitempty"` // for ConfigData; default json

	DecklistPath string `json:"decklist_path,omitempty"`
	DecklistData []byte `json:"-"`
	DeckName     string `json:"deck_name,omitempty"` // default: decklist file name

	// Overrides of the configuration's output section.
	Layout    string `json:"layout,omitempty"`
	OutputDir string `json:"output_dir,omitempty"`

	SkipBack bool `json:"skip_back,omitempty"` // do not render the back
	Refresh  bool `json:"refresh,omitempty"`   // ignore cached artifacts and images

	// Runtime options (not serialized)
	Logger *log.Logger   `json:"-"` // default: the runner's logger
	Source source.Source `json:"-"` // replaces the configured image provider
	Fonts  *fonts.Loader `json:"-"` // default: resolve against the assets folder

	validated bool
}

// ValidateAndSetDefaults reads file inputs and checks required fields.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.ConfigData == nil {
		if o.ConfigPath == "" {
			return errors.New(errors.ErrCodeInvalidInput, "config is required")
		}
		data, err := readInput("config", o.ConfigPath)
		if err != nil {
			return err
		}
		o.ConfigData = data
		o.ConfigFormat = config.FormatOf(o.ConfigPath)
	}
	if o.ConfigFormat == "" {
		o.ConfigFormat = config.FormatJSON
	}

	if o.DecklistData == nil {
		if o.DecklistPath == "" {
			return errors.New(errors.ErrCodeInvalidInput, "decklist is required")
		}
		data, err := readInput("decklist", o.DecklistPath)
		if err != nil {
			return err
		}
		o.DecklistData = data
	}
	if o.DeckName == "" {
		o.DeckName = DefaultDeckName
		if o.DecklistPath != "" {
			o.DeckName = strings.TrimSuffix(filepath.Base(o.DecklistPath), filepath.Ext(o.DecklistPath))
		}
	}
	if err := errors.ValidateAssetName(o.DeckName); err != nil {
		return err
	}

	if o.Layout != "" {
		if _, err := deck.ParseLayout(o.Layout); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "layout")
		}
	}
	o.validated = true
	return nil
}

// InputHash identifies the run's inputs for artifact caching.
func (o *Options) InputHash() string {
	return cache.HashAll(o.ConfigData, o.DecklistData, []byte(o.DeckName))
}

// ArtifactKeyOpts returns cache key options for artifact i of a deck packed
// with opts. The back uses index -1.
func ArtifactKeyOpts(opts deck.Options, bg string, i int) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Layout:     string(opts.Layout),
		Padding:    opts.Padding,
		Background: bg,
		MaxWidth:   opts.MaxWidth,
		Index:      i,
	}
}

func readInput(what, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "%s %s", what, path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s %s", what, path)
	}
	return data, nil
}

// =============================================================================
// Results
// =============================================================================

// Artifact is one rendered output image.
type Artifact struct {
	Name     string // file name, e.g. "starter.png"
	Data     []byte // PNG bytes
	Back     bool
	Location string // set by Save

	img image.Image // decoded image, when freshly rendered
}

// Image returns the decoded artifact.
func (a *Artifact) Image() (image.Image, error) {
	if a.img != nil {
		return a.img, nil
	}
	img, err := source.DecodeBytes(a.Data)
	if err != nil {
		return nil, err
	}
	a.img = img
	return img, nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	Config    *config.Config
	DeckName  string
	Cards     []string // card names in sheet order
	InputHash string

	// Artifacts holds face images first, then the back if any.
	Artifacts []*Artifact

	Stats     Stats
	CacheInfo CacheInfo
}

// Faces returns the face artifacts.
func (r *Result) Faces() []*Artifact {
	var out []*Artifact
	for _, a := range r.Artifacts {
		if !a.Back {
			out = append(out, a)
		}
	}
	return out
}

// BackArtifact returns the back artifact, or nil.
func (r *Result) BackArtifact() *Artifact {
	for _, a := range r.Artifacts {
		if a.Back {
			return a
		}
	}
	return nil
}

// Stats contains pipeline execution statistics.
type Stats struct {
	CardCount  int
	BuildTime  time.Duration
	RenderTime time.Duration
	SaveTime   time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// ArtifactNames returns the file names of a deck's outputs: "<deck>.png" for
// a single image, otherwise "<deck>_<i>.png".
func ArtifactNames(deckName string, n int) []string {
	if n == 1 {
		return []string{deckName + ".png"}
	}
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("%s_%d.png", deckName, i)
	}
	return names
}

// BackName returns the file name of a deck's back.
func BackName(deckName string) string {
	return deckName + "_back.png"
}
