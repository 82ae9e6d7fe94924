package layer

import (
	"fmt"
	"image/color"

	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
	"github.com/tgrunnagle/playing-card-gen/pkg/fonts"
	"github.com/tgrunnagle/playing-card-gen/pkg/geom"
	"github.com/tgrunnagle/playing-card-gen/pkg/source"
	"github.com/tgrunnagle/playing-card-gen/pkg/textfit"
)

// Spec is the configuration of one layer. Numeric fields left at zero
// inherit the deck-wide value from [Env].
type Spec struct {
	Name  string         `json:"name,omitempty" toml:"name"`
	Type  Type           `json:"type" toml:"type"`
	Place geom.Placement `json:"place" toml:"place"`

	// Text is the fixed string of static_text and qr_code; Prop names the card
	// property read by text, embedded_text, image, symbol_row and qr_code.
	Text string `json:"text,omitempty" toml:"text"`
	Prop string `json:"prop,omitempty" toml:"prop"`

	FontFile          string  `json:"font_file,omitempty" toml:"font_file"`
	MaxFontSize       int     `json:"max_font_size,omitempty" toml:"max_font_size"`
	MinFontSize       int     `json:"min_font_size,omitempty" toml:"min_font_size"`
	SpacingRatio      float64 `json:"spacing_ratio,omitempty" toml:"spacing_ratio"`
	VAlignment        string  `json:"v_alignment,omitempty" toml:"v_alignment"`
	EmbedVOffsetRatio float64 `json:"embed_v_offset_ratio,omitempty" toml:"embed_v_offset_ratio"`
	EmbedSizeRatio    float64 `json:"embed_size_ratio,omitempty" toml:"embed_size_ratio"`
	Color             string  `json:"color,omitempty" toml:"color"`

	Image     string `json:"image,omitempty" toml:"image"`
	Spacing   int    `json:"spacing,omitempty" toml:"spacing"`
	Direction string `json:"direction,omitempty" toml:"direction"`
	QRLevel   string `json:"qr_level,omitempty" toml:"qr_level"`
}

// label identifies the spec in errors and logs.
func (s Spec) label(i int) string {
	if s.Name != "" {
		return s.Name
	}
	if s.Prop != "" {
		return fmt.Sprintf("%d:%s(%s)", i, s.Type, s.Prop)
	}
	return fmt.Sprintf("%d:%s", i, s.Type)
}

// Env is the deck-wide context layers are built in.
type Env struct {
	Source source.Source
	Fonts  *fonts.Loader

	FontFile          string
	MaxFontSize       int
	MinFontSize       int
	SpacingRatio      float64
	EmbedSymbols      map[string]string // word -> image id
	EmbedVOffsetRatio float64
	EmbedSizeRatio    float64
	Symbols           map[string]string // character -> image id
}

// Build turns specs into layers for one card. props holds the card's row from
// the decklist. Any invalid spec fails the whole card with INVALID_CONFIG.
func Build(specs []Spec, env *Env, props map[string]string) ([]Layer, error) {
	layers := make([]Layer, 0, len(specs))
	for i, s := range specs {
		l, err := buildOne(s, s.label(i), env, props)
		if err != nil {
			return nil, err
		}
		layers = append(layers, l)
	}
	return layers, nil
}

func buildOne(s Spec, name string, env *Env, props map[string]string) (Layer, error) {
	if err := s.Place.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "layer %s", name)
	}

	switch s.Type {
	case TypeStaticText, TypeText:
		text := s.Text
		if s.Type == TypeText {
			text = props[s.Prop]
		}
		font, opts, clr, err := textSettings(s, name, env)
		if err != nil {
			return nil, err
		}
		return &Text{Name: name, Text: text, Place: s.Place, Font: font, Options: opts, Color: clr}, nil

	case TypeEmbeddedText:
		font, opts, clr, err := textSettings(s, name, env)
		if err != nil {
			return nil, err
		}
		return &EmbeddedText{
			Name:    name,
			Text:    props[s.Prop],
			Place:   s.Place,
			Font:    font,
			Source:  env.Source,
			Symbols: env.EmbedSymbols,
			Options: textfit.EmbedOptions{
				Options:      opts,
				SizeRatio:    orFloat(s.EmbedSizeRatio, env.EmbedSizeRatio),
				VOffsetRatio: orFloat(s.EmbedVOffsetRatio, env.EmbedVOffsetRatio),
			},
			Color: clr,
		}, nil

	case TypeStaticImage:
		if s.Image == "" {
			return nil, errors.Config("layer %s: static_image requires image", name)
		}
		return &Image{Name: name, ID: s.Image, Place: s.Place, Source: env.Source}, nil

	case TypeImage:
		return &Image{Name: name, ID: props[s.Prop], Place: s.Place, Source: env.Source}, nil

	case TypeSymbolRow:
		dir, err := ParseDirection(s.Direction)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "layer %s", name)
		}
		return NewSymbolRow(name, props[s.Prop], env.Symbols, s.Place, s.Spacing, dir, env.Source)

	case TypeQRCode:
		level, err := ParseQRLevel(s.QRLevel)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "layer %s", name)
		}
		content := s.Text
		if s.Prop != "" {
			content = props[s.Prop]
		}
		return &QRCode{Name: name, Content: content, Place: s.Place, Level: level}, nil
	}

	return nil, errors.Config("layer %s: unsupported layer type %q", name, s.Type)
}

// textSettings resolves the font and fit options of a text layer. The font
// comes from the layer, then the deck; having neither is a configuration
// error.
func textSettings(s Spec, name string, env *Env) (textfit.Font, textfit.Options, color.Color, error) {
	var opts textfit.Options

	fontFile := s.FontFile
	if fontFile == "" {
		fontFile = env.FontFile
	}
	if fontFile == "" {
		return nil, opts, nil, errors.Config("layer %s: no font_file and no text_font_file configured", name)
	}
	if env.Fonts == nil {
		return nil, opts, nil, errors.Config("layer %s: no font loader", name)
	}
	font, err := env.Fonts.Load(fontFile)
	if err != nil {
		return nil, opts, nil, err
	}

	valign, err := textfit.ParseVAlignment(s.VAlignment)
	if err != nil {
		return nil, opts, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "layer %s", name)
	}
	clr, err := ParseColor(s.Color, color.Black)
	if err != nil {
		return nil, opts, nil, err
	}

	opts = textfit.Options{
		MaxFontSize:  orInt(s.MaxFontSize, env.MaxFontSize),
		MinFontSize:  orInt(s.MinFontSize, env.MinFontSize),
		SpacingRatio: orFloat(s.SpacingRatio, env.SpacingRatio),
		VAlign:       valign,
	}
	return font, opts, clr, nil
}

func orInt(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}

func orFloat(v, def float64) float64 {
	if v != 0 {
		return v
	}
	return def
}
