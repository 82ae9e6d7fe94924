// Package config loads deck configuration and decklists.
//
// A configuration describes the card size, the layer stack of every card
// type, deck-wide text defaults, symbol maps and where images come from and
// go to. It is read from JSON or TOML:
//
//	w = 750
//	h = 1050
//	default_card_type = "creature"
//	text_font_file = "goregular"
//	symbol_id_map = { R = "red.png", G = "green.png" }
//
//	[[card_specs.creature]]
//	type = "image"
//	prop = "art"
//	place = { x = 0, y = 0, w = 750, h = 1050 }
//
//	[[card_specs.creature]]
//	type = "text"
//	prop = "name"
//	place = { x = 40, y = 40, w = 670, h = 80 }
//
// A decklist is a CSV file with one card per row; see [Decklist].
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tgrunnagle/playing-card-gen/pkg/deck"
	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
	"github.com/tgrunnagle/playing-card-gen/pkg/layer"
	"github.com/tgrunnagle/playing-card-gen/pkg/source/gridfs"
)

// Image providers.
const (
	ProviderLocal  = "local"
	ProviderRemote = "remote"
	ProviderGridFS = "gridfs"
)

// Cache backends.
const (
	CacheFile   = "file"
	CacheRedis  = "redis"
	CacheMemory = "memory"
	CacheNone   = "none"
)

// Defaults applied by Validate.
const (
	DefaultAssetsFolder = "assets"
	DefaultOutputFolder = "output"
	DefaultDatabase     = "cardgen"
	DefaultRedisAddr    = "localhost:6379"
)

// Format is a configuration file encoding.
type Format string

// Formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatOf picks the format from a file extension; anything but .toml is
// read as JSON.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatJSON
}

// Config is a deck configuration.
type Config struct {
	W int `json:"w" toml:"w"`
	H int `json:"h" toml:"h"`

	DefaultCardType string                  `json:"default_card_type" toml:"default_card_type"`
	CardSpecs       map[string][]layer.Spec `json:"card_specs" toml:"card_specs"`
	Back            []layer.Spec            `json:"back,omitempty" toml:"back"`

	TextFontFile          string            `json:"text_font_file,omitempty" toml:"text_font_file"`
	TextMaxFontSize       int               `json:"text_max_font_size,omitempty" toml:"text_max_font_size"`
	TextMinFontSize       int               `json:"text_min_font_size,omitempty" toml:"text_min_font_size"`
	TextSpacingRatio      float64           `json:"text_spacing_ratio,omitempty" toml:"text_spacing_ratio"`
	TextEmbedSymbolIDMap  map[string]string `json:"text_embed_symbol_id_map,omitempty" toml:"text_embed_symbol_id_map"`
	TextEmbedVOffsetRatio float64           `json:"text_embed_v_offset_ratio,omitempty" toml:"text_embed_v_offset_ratio"`
	TextEmbedSizeRatio    float64           `json:"text_embed_size_ratio,omitempty" toml:"text_embed_size_ratio"`
	SymbolIDMap           map[string]string `json:"symbol_id_map,omitempty" toml:"symbol_id_map"`

	ImageProvider string       `json:"image_provider,omitempty" toml:"image_provider"`
	Assets        AssetsConfig `json:"assets" toml:"assets"`
	Output        OutputConfig `json:"output" toml:"output"`
	Remote        RemoteConfig `json:"remote" toml:"remote"`
	GridFS        GridFSConfig `json:"gridfs" toml:"gridfs"`
	Cache         CacheConfig  `json:"cache" toml:"cache"`
	TTS           TTSConfig    `json:"tts" toml:"tts"`

	// Older flat keys, folded into Assets.Folder by Validate.
	LocalAssetsFolder string `json:"local_assets_folder,omitempty" toml:"local_assets_folder"`
	LocalImageFolder  string `json:"local_image_folder,omitempty" toml:"local_image_folder"`
}

// AssetsConfig locates images and fonts for the local provider.
type AssetsConfig struct {
	Folder string `json:"folder,omitempty" toml:"folder"`
}

// OutputConfig controls how rendered decks are packed and where they go.
type OutputConfig struct {
	Folder     string `json:"folder,omitempty" toml:"folder"`
	Layout     string `json:"layout,omitempty" toml:"layout"`
	Padding    int    `json:"padding,omitempty" toml:"padding"`
	Background string `json:"background,omitempty" toml:"background"`
	MaxWidth   int    `json:"max_width,omitempty" toml:"max_width"`
}

// RemoteConfig configures the HTTP image provider.
type RemoteConfig struct {
	BaseURL string `json:"base_url,omitempty" toml:"base_url"`
}

// GridFSConfig configures the MongoDB GridFS image provider.
type GridFSConfig struct {
	URI      string `json:"uri,omitempty" toml:"uri"`
	Database string `json:"database,omitempty" toml:"database"`
	Bucket   string `json:"bucket,omitempty" toml:"bucket"`
}

// CacheConfig selects the cache for fetched images and rendered sheets.
type CacheConfig struct {
	Backend   string `json:"backend,omitempty" toml:"backend"`
	RedisAddr string `json:"redis_addr,omitempty" toml:"redis_addr"`
	TTL       string `json:"ttl,omitempty" toml:"ttl"` // Go duration, e.g. "72h"
}

// TTSConfig configures the Tabletop Simulator export.
type TTSConfig struct {
	OutputFolder string `json:"output_folder,omitempty" toml:"output_folder"`
	BackImage    string `json:"back_image,omitempty" toml:"back_image"`
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "config %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	return Parse(data, FormatOf(path))
}

// Parse decodes and validates a configuration.
func Parse(data []byte, format Format) (*Config, error) {
	var cfg Config
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode toml config")
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode json config")
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fills defaults and checks the configuration. Every problem is
// reported as INVALID_CONFIG.
func (c *Config) Validate() error {
	if c.W <= 0 || c.H <= 0 {
		return errors.Config("card size w=%d h=%d must be positive", c.W, c.H)
	}

	if len(c.CardSpecs) == 0 {
		return errors.Config("card_specs is empty")
	}
	if c.DefaultCardType == "" {
		if len(c.CardSpecs) != 1 {
			return errors.Config("default_card_type is required with more than one card spec")
		}
		for name := range c.CardSpecs {
			c.DefaultCardType = name
		}
	}
	if _, ok := c.CardSpecs[c.DefaultCardType]; !ok {
		return errors.Config("default_card_type %q is not in card_specs", c.DefaultCardType)
	}
	for _, name := range c.CardTypes() {
		if err := validateSpecs(name, c.CardSpecs[name]); err != nil {
			return err
		}
	}
	if err := validateSpecs("back", c.Back); err != nil {
		return err
	}

	if c.TextMinFontSize < 0 || c.TextMaxFontSize < 0 {
		return errors.Config("font sizes must not be negative")
	}
	if c.TextMinFontSize > 0 && c.TextMaxFontSize > 0 && c.TextMinFontSize > c.TextMaxFontSize {
		return errors.Config("text_min_font_size %d exceeds text_max_font_size %d", c.TextMinFontSize, c.TextMaxFontSize)
	}

	if c.Assets.Folder == "" {
		c.Assets.Folder = firstNonEmpty(c.LocalAssetsFolder, c.LocalImageFolder, DefaultAssetsFolder)
	}
	if c.Output.Folder == "" {
		c.Output.Folder = DefaultOutputFolder
	}
	if err := c.validateProvider(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return c.validateCache()
}

func (c *Config) validateProvider() error {
	switch c.ImageProvider {
	case "":
		c.ImageProvider = ProviderLocal
	case ProviderLocal:
	case ProviderRemote:
		if err := errors.ValidateURL(c.Remote.BaseURL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "remote.base_url")
		}
	case ProviderGridFS:
		if c.GridFS.URI == "" {
			return errors.Config("gridfs.uri is required for the gridfs image provider")
		}
		if c.GridFS.Database == "" {
			c.GridFS.Database = DefaultDatabase
		}
		if c.GridFS.Bucket == "" {
			c.GridFS.Bucket = gridfs.DefaultBucket
		}
	default:
		return errors.Config("unsupported image_provider %q (must be one of: local, remote, gridfs)", c.ImageProvider)
	}
	return nil
}

func (c *Config) validateOutput() error {
	layout, err := deck.ParseLayout(c.Output.Layout)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "output.layout")
	}
	c.Output.Layout = string(layout)
	if c.Output.Padding < 0 {
		return errors.Config("output.padding %d must not be negative", c.Output.Padding)
	}
	if c.Output.MaxWidth < 0 {
		return errors.Config("output.max_width %d must not be negative", c.Output.MaxWidth)
	}
	if c.Output.MaxWidth == 0 {
		c.Output.MaxWidth = deck.DefaultMaxWidth
	}
	if _, err := layer.ParseColor(c.Output.Background, nil); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case "":
		c.Cache.Backend = CacheFile
	case CacheFile, CacheMemory, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			c.Cache.RedisAddr = DefaultRedisAddr
		}
	default:
		return errors.Config("unsupported cache.backend %q (must be one of: file, redis, memory, none)", c.Cache.Backend)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	return nil
}

// CacheTTL returns the configured artifact TTL, or zero when unset.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0, errors.Config("invalid cache.ttl %q", c.Cache.TTL)
	}
	return d, nil
}

// CardTypes returns the configured card types in sorted order.
func (c *Config) CardTypes() []string {
	names := make([]string, 0, len(c.CardSpecs))
	for name := range c.CardSpecs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DeckOptions converts the output section into packing options. It assumes
// Validate has succeeded.
func (c *Config) DeckOptions() deck.Options {
	layout, _ := deck.ParseLayout(c.Output.Layout)
	bg, _ := layer.ParseColor(c.Output.Background, nil)
	return deck.Options{
		Layout:     layout,
		Padding:    c.Output.Padding,
		Background: bg,
		MaxWidth:   c.Output.MaxWidth,
	}
}

func validateSpecs(cardType string, specs []layer.Spec) error {
	for i, s := range specs {
		if !slices.Contains(layer.Types, s.Type) {
			return errors.Config("card_specs.%s[%d]: unsupported layer type %q", cardType, i, s.Type)
		}
		if err := s.Place.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "card_specs.%s[%d]", cardType, i)
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
