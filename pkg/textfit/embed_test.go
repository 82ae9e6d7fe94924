package textfit

import (
	"strings"
	"testing"

	"github.com/tgrunnagle/playing-card-gen/pkg/geom"
)

func TestPadding(t *testing.T) {
	tests := []struct {
		size  int
		ratio float64
		want  int
	}{
		{10, 1, 2},   // 5px per space, need 10px
		{10, 0.5, 1}, // 5px is enough
		{10, 1.2, 3}, // need 12px
		{7, 1, 2},    // two spaces advance 7px
	}

	for _, tt := range tests {
		got := Padding(monoFace{size: tt.size}, tt.ratio)
		if strings.Trim(got, " ") != "" {
			t.Fatalf("Padding() = %q, want only spaces", got)
		}
		if len(got) != tt.want {
			t.Errorf("Padding(size=%d, ratio=%v) length = %d, want %d", tt.size, tt.ratio, len(got), tt.want)
		}
	}
}

func TestPadEmbeddings(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		padding    string
		wantText   string
		wantIndex  []int
		wantImages []string
	}{
		{
			name:       "single symbol",
			text:       "Pay {R} now",
			padding:    "   ",
			wantText:   "Pay     now",
			wantIndex:  []int{4},
			wantImages: []string{"red.png"},
		},
		{
			name:       "indexes account for earlier growth",
			text:       "{R} and {G}",
			padding:    "     ",
			wantText:   "      and      ",
			wantIndex:  []int{0, 10},
			wantImages: []string{"red.png", "green.png"},
		},
		{
			name:       "padding shorter than word",
			text:       "{R} {G}",
			padding:    " ",
			wantText:   "   ",
			wantIndex:  []int{0, 2},
			wantImages: []string{"red.png", "green.png"},
		},
		{
			name:     "no matches",
			text:     "plain text",
			padding:  "  ",
			wantText: "plain text",
		},
		{
			name:       "symbol at line break",
			text:       "cost\n{G} x",
			padding:    "  ",
			wantText:   "cost\n   x",
			wantIndex:  []int{5},
			wantImages: []string{"green.png"},
		},
	}
	embeddings := map[string]string{"{R}": "red.png", "{G}": "green.png"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, embeds := PadEmbeddings(tt.text, tt.padding, embeddings)
			if got != tt.wantText {
				t.Errorf("padded = %q, want %q", got, tt.wantText)
			}
			if len(embeds) != len(tt.wantIndex) {
				t.Fatalf("got %d embeds, want %d", len(embeds), len(tt.wantIndex))
			}
			for i, e := range embeds {
				if e.Index != tt.wantIndex[i] {
					t.Errorf("embed %d index = %d, want %d", i, e.Index, tt.wantIndex[i])
				}
				if e.ImageID != tt.wantImages[i] {
					t.Errorf("embed %d image = %q, want %q", i, e.ImageID, tt.wantImages[i])
				}
				if got[e.Index:e.Index+len(tt.padding)] != tt.padding {
					t.Errorf("embed %d does not point at padding in %q", i, got)
				}
			}
		})
	}
}

func TestPaddingNeverSplitAcrossLines(t *testing.T) {
	texts := []string{
		"Deal 2 {R} damage to any target",
		"{R} {R} {G} then {G}",
		"Add {G}{G} or {R}",
		"Tap: {R}\nUntap: {G}",
		"a {R} b {G} c {R} d {G} e",
	}
	embeddings := map[string]string{"{R}": "red.png", "{G}": "green.png"}
	padding := "    "

	for _, text := range texts {
		padded, embeds := PadEmbeddings(text, padding, embeddings)
		for _, width := range []int{20, 35, 50, 90} {
			lines, _ := SplitLines(padded, monoFace{size: 10}, width)
			start := 0
			for _, line := range lines {
				end := start + len(line)
				for _, e := range embeds {
					if e.Index >= start && e.Index < end && e.Index+len(padding) > end {
						t.Errorf("%q width %d: padding at %d split by line ending at %d", text, width, e.Index, end)
					}
				}
				start = end
			}
		}
	}
}

func TestPlaceEmbeds(t *testing.T) {
	face := monoFace{size: 10}
	lines := []string{"Pay  ", "  now\n", "x  "}
	embeds := []Embed{{Index: 4, ImageID: "a"}, {Index: 5, ImageID: "b"}, {Index: 12, ImageID: "c"}}

	got := PlaceEmbeds(lines, embeds, face, 12, 10)
	want := []EmbeddedImage{
		{Place: geom.Placement{X: 20, Y: 0, W: 10, H: 10}, ImageID: "a"},
		{Place: geom.Placement{X: 0, Y: 12, W: 10, H: 10}, ImageID: "b"},
		{Place: geom.Placement{X: 5, Y: 24, W: 10, H: 10}, ImageID: "c"},
	}

	if len(got) != len(want) {
		t.Fatalf("got %d placements, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("placement %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFitEmbedded(t *testing.T) {
	p := geom.Placement{X: 40, Y: 60, W: 200, H: 100}
	l, err := FitEmbedded("Deal 2 {R} damage", p, monoFont{}, map[string]string{"{R}": "red.png"}, EmbedOptions{
		Options:      Options{MaxFontSize: 10},
		VOffsetRatio: 0.5,
	})
	if err != nil {
		t.Fatalf("FitEmbedded() error: %v", err)
	}

	if l.FontSize != 10 {
		t.Errorf("FontSize = %d, want 10", l.FontSize)
	}
	if l.Padded != "Deal 2    damage" {
		t.Errorf("Padded = %q", l.Padded)
	}
	if len(l.Lines) != 1 {
		t.Errorf("Lines = %q, want one line", l.Lines)
	}
	if len(l.Embeds) != 1 {
		t.Fatalf("got %d embeds, want 1", len(l.Embeds))
	}
	want := EmbeddedImage{Place: geom.Placement{X: 35, Y: 0, W: 10, H: 10}, ImageID: "red.png"}
	if l.Embeds[0] != want {
		t.Errorf("embed = %+v, want %+v", l.Embeds[0], want)
	}
	if l.EmbedDY != 5 {
		t.Errorf("EmbedDY = %d, want 5", l.EmbedDY)
	}
}

func TestFitEmbeddedWrapsAfterGlyph(t *testing.T) {
	p := geom.Placement{W: 40, H: 100}
	l, err := FitEmbedded("Gain {G} life", p, monoFont{}, map[string]string{"{G}": "g.png"}, EmbedOptions{
		Options: Options{MaxFontSize: 10},
	})
	if err != nil {
		t.Fatalf("FitEmbedded() error: %v", err)
	}

	// "Gain " + "   " is 8 bytes (40px), so the glyph stays on line one.
	if len(l.Embeds) != 1 {
		t.Fatalf("got %d embeds, want 1", len(l.Embeds))
	}
	e := l.Embeds[0]
	if e.Place.Y != 0 || e.Place.X != 25 {
		t.Errorf("embed at (%d,%d), want (25,0)", e.Place.X, e.Place.Y)
	}
	if len(l.Lines) != 2 || l.Lines[1] != "life" {
		t.Errorf("Lines = %q", l.Lines)
	}
}
