package config

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
	"github.com/tgrunnagle/playing-card-gen/pkg/geom"
	"github.com/tgrunnagle/playing-card-gen/pkg/layer"
	"github.com/tgrunnagle/playing-card-gen/pkg/source"
)

const decklistCSV = "\ufeffname,card_type,art,skip\r\n" +
	"Goblin,,goblin.png,\r\n" +
	"Bolt,spell,,\r\n" +
	"Draft,,,x\r\n" +
	"\"Ogre, Big\",creature,ogre.png,false\r\n" +
	",,,\r\n" +
	"Short\r\n"

func TestReadDecklist(t *testing.T) {
	d, err := ReadDecklist("starter", strings.NewReader(decklistCSV))
	if err != nil {
		t.Fatalf("ReadDecklist() error: %v", err)
	}
	if d.Name != "starter" {
		t.Errorf("Name = %q", d.Name)
	}
	if len(d.Rows) != 5 {
		t.Fatalf("got %d rows, want 5 (blank row dropped)", len(d.Rows))
	}
	if d.Rows[0]["name"] != "Goblin" || d.Rows[0]["art"] != "goblin.png" {
		t.Errorf("row 0 = %v (BOM not stripped?)", d.Rows[0])
	}
	if d.Rows[3]["name"] != "Ogre, Big" {
		t.Errorf("quoted cell = %q", d.Rows[3]["name"])
	}
	if v, ok := d.Rows[4]["art"]; !ok || v != "" {
		t.Errorf("short row art = %q, %v; want present and empty", v, ok)
	}

	cards := d.Cards()
	var names []string
	for _, r := range cards {
		names = append(names, r["name"])
	}
	if got := strings.Join(names, "|"); got != "Goblin|Bolt|Ogre, Big|Short" {
		t.Errorf("Cards() = %s", got)
	}
}

func TestRowSkipped(t *testing.T) {
	tests := map[string]bool{
		"":      false,
		"0":     false,
		"false": false,
		"FALSE": false,
		"no":    false,
		" ":     false,
		"1":     true,
		"x":     true,
		"true":  true,
		"yes":   true,
	}
	for v, want := range tests {
		if got := (Row{"skip": v}).Skipped(); got != want {
			t.Errorf("Skipped(%q) = %v, want %v", v, got, want)
		}
	}
}

func TestRowCardType(t *testing.T) {
	if got := (Row{}).CardType("basic"); got != "basic" {
		t.Errorf("CardType() = %q, want default", got)
	}
	if got := (Row{"card_type": " spell "}).CardType("basic"); got != "spell" {
		t.Errorf("CardType() = %q, want spell", got)
	}
}

func TestReadDecklistErrors(t *testing.T) {
	if _, err := ReadDecklist("empty", strings.NewReader("")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty: error = %v", err)
	}
	if _, err := ReadDecklist("bad", strings.NewReader("a,b\n\"unterminated\n")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad quote: error = %v", err)
	}
}

func TestLoadDecklist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "my deck.csv")
	if err := os.WriteFile(path, []byte("name\nA\nB\n"), 0644); err != nil {
		t.Fatal(err)
	}
	d, err := LoadDecklist(path)
	if err != nil {
		t.Fatalf("LoadDecklist() error: %v", err)
	}
	if d.Name != "my deck" || len(d.Rows) != 2 {
		t.Errorf("LoadDecklist() = %q with %d rows", d.Name, len(d.Rows))
	}

	if _, err := LoadDecklist(filepath.Join(t.TempDir(), "nope.csv")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing: error = %v", err)
	}
}

func builderConfig() *Config {
	full := geom.Placement{W: 20, H: 30}
	cfg := &Config{
		W: 20, H: 30,
		DefaultCardType: "creature",
		TextFontFile:    "goregular",
		TextMaxFontSize: 12,
		SymbolIDMap:     map[string]string{"R": "red.png"},
		CardSpecs: map[string][]layer.Spec{
			"creature": {
				{Type: layer.TypeImage, Prop: "art", Place: full},
				{Type: layer.TypeText, Prop: "name", Place: geom.Placement{X: 1, Y: 1, W: 18, H: 10}},
			},
			"spell": {
				{Type: layer.TypeStaticImage, Image: "red.png", Place: full},
				{Type: layer.TypeSymbolRow, Prop: "cost", Place: geom.Placement{W: 4, H: 4}},
			},
		},
		Back: []layer.Spec{{Type: layer.TypeStaticImage, Image: "red.png", Place: full}},
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

func testSource() *source.Memory {
	red := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(red.Pix); i += 4 {
		red.Pix[i], red.Pix[i+3] = 255, 255
	}
	return source.NewMemory(map[string]image.Image{"red.png": red, "goblin.png": red})
}

func TestBuilderDeck(t *testing.T) {
	list := &Decklist{Name: "starter", Rows: []Row{
		{"name": "Goblin", "art": "goblin.png"},
		{"card_type": "spell", "cost": "RR"},
		{"name": "Draft", "skip": "1"},
	}}

	b := NewBuilder(builderConfig(), testSource(), nil)
	d, err := b.Deck(list)
	if err != nil {
		t.Fatalf("Deck() error: %v", err)
	}
	if d.Name != "starter" || d.Len() != 2 {
		t.Fatalf("deck %q has %d cards, want 2", d.Name, d.Len())
	}
	if d.Cards[0].Name != "Goblin" || d.Cards[1].Name != "starter_1" {
		t.Errorf("card names = %q, %q", d.Cards[0].Name, d.Cards[1].Name)
	}
	if len(d.Cards[0].Layers) != 2 {
		t.Errorf("creature has %d layers", len(d.Cards[0].Layers))
	}
	if row, ok := d.Cards[1].Layers[1].(*layer.SymbolRow); !ok || len(row.Glyphs()) != 2 {
		t.Errorf("spell cost layer = %#v", d.Cards[1].Layers[1])
	}
	if d.Back == nil || d.Back.Name != "back" {
		t.Errorf("Back = %v", d.Back)
	}
	if d.Options.MaxWidth != 10 {
		t.Errorf("Options = %+v", d.Options)
	}

	images, err := d.Render(context.Background())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got := images[0].Bounds(); got != image.Rect(0, 0, 40, 30) {
		t.Errorf("sheet bounds = %v", got)
	}
	r, g, _, a := images[0].At(25, 25).RGBA()
	if r>>8 < 200 || g>>8 > 50 || a>>8 < 200 {
		t.Errorf("spell background = %v, want red", color.NRGBAModel.Convert(images[0].At(25, 25)))
	}
}

func TestBuilderErrors(t *testing.T) {
	b := NewBuilder(builderConfig(), testSource(), nil)

	if _, err := b.Card("x", Row{"card_type": "land"}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown card type: error = %v", err)
	}
	if _, err := b.Card("x", Row{"card_type": "spell", "cost": "RQ"}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown symbol: error = %v", err)
	}

	// A missing image only fails at render time.
	c, err := b.Card("x", Row{"art": "missing.png"})
	if err != nil {
		t.Fatalf("Card() error: %v", err)
	}
	if _, err := c.Render(context.Background()); !errors.Is(err, errors.ErrCodeImageNotFound) {
		t.Errorf("Render() error = %v, want IMAGE_NOT_FOUND", err)
	}
}
