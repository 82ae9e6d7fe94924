package config

import (
	"fmt"

	"github.com/tgrunnagle/playing-card-gen/pkg/card"
	"github.com/tgrunnagle/playing-card-gen/pkg/deck"
	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
	"github.com/tgrunnagle/playing-card-gen/pkg/fonts"
	"github.com/tgrunnagle/playing-card-gen/pkg/layer"
	"github.com/tgrunnagle/playing-card-gen/pkg/source"
)

// Builder turns decklist rows into cards using a validated configuration.
type Builder struct {
	cfg *Config
	env *layer.Env
}

// NewBuilder returns a builder drawing images from src. A nil loader resolves
// fonts against the assets folder.
func NewBuilder(cfg *Config, src source.Source, loader *fonts.Loader) *Builder {
	if loader == nil {
		loader = fonts.NewLoader(cfg.Assets.Folder)
	}
	return &Builder{
		cfg: cfg,
		env: &layer.Env{
			Source:            src,
			Fonts:             loader,
			FontFile:          cfg.TextFontFile,
			MaxFontSize:       cfg.TextMaxFontSize,
			MinFontSize:       cfg.TextMinFontSize,
			SpacingRatio:      cfg.TextSpacingRatio,
			EmbedSymbols:      cfg.TextEmbedSymbolIDMap,
			EmbedVOffsetRatio: cfg.TextEmbedVOffsetRatio,
			EmbedSizeRatio:    cfg.TextEmbedSizeRatio,
			Symbols:           cfg.SymbolIDMap,
		},
	}
}

// Card builds the card for one row. The row's card_type selects the layer
// stack, falling back to the default type.
func (b *Builder) Card(name string, row Row) (*card.Card, error) {
	cardType := row.CardType(b.cfg.DefaultCardType)
	specs, ok := b.cfg.CardSpecs[cardType]
	if !ok {
		return nil, errors.Config("card %s: unknown card_type %q", name, cardType)
	}
	layers, err := layer.Build(specs, b.env, row)
	if err != nil {
		return nil, fmt.Errorf("card %s: %w", name, err)
	}
	return card.New(name, b.cfg.W, b.cfg.H, layers)
}

// Back builds the deck back, or returns nil when none is configured.
func (b *Builder) Back() (*card.Card, error) {
	if len(b.cfg.Back) == 0 {
		return nil, nil
	}
	layers, err := layer.Build(b.cfg.Back, b.env, nil)
	if err != nil {
		return nil, fmt.Errorf("back: %w", err)
	}
	return card.New("back", b.cfg.W, b.cfg.H, layers)
}

// Deck builds every card of the decklist that is not skipped, plus the
// back. The first invalid row aborts the build.
func (b *Builder) Deck(list *Decklist) (*deck.Deck, error) {
	d := deck.New(list.Name, b.cfg.DeckOptions())
	for i, row := range list.Cards() {
		name := row[ColumnName]
		if name == "" {
			name = fmt.Sprintf("%s_%d", list.Name, i)
		}
		c, err := b.Card(name, row)
		if err != nil {
			return nil, err
		}
		d.Add(c)
	}

	back, err := b.Back()
	if err != nil {
		return nil, err
	}
	d.Back = back
	return d, nil
}
