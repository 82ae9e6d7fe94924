package deck

import (
	"context"
	stderrors "errors"
	"image"
	"image/color"
	"image/draw"
	"slices"
	"testing"

	"github.com/tgrunnagle/playing-card-gen/pkg/card"
	"github.com/tgrunnagle/playing-card-gen/pkg/layer"
)

type fill struct{ c color.RGBA }

func (f fill) Render(_ context.Context, canvas *image.RGBA) error {
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(f.c), image.Point{}, draw.Src)
	return nil
}

type failing struct{}

func (failing) Render(context.Context, *image.RGBA) error { return stderrors.New("boom") }

func shade(i int) color.RGBA {
	return color.RGBA{R: uint8(i * 10), G: 100, A: 255}
}

func cards(n, w, h int) []*card.Card {
	out := make([]*card.Card, n)
	for i := range out {
		out[i] = &card.Card{Name: "c", Width: w, Height: h, Layers: []layer.Layer{fill{shade(i)}}}
	}
	return out
}

func nrgba(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func TestGrid(t *testing.T) {
	tests := []struct {
		n, maxWidth int
		cols, rows  int
	}{
		{0, 10, 0, 0},
		{1, 10, 1, 1},
		{10, 10, 10, 1},
		{11, 10, 10, 2},
		{23, 10, 10, 3},
		{5, 2, 2, 3},
		{7, 0, 7, 1},
	}
	for _, tt := range tests {
		cols, rows := Grid(tt.n, tt.maxWidth)
		if cols != tt.cols || rows != tt.rows {
			t.Errorf("Grid(%d, %d) = %d×%d, want %d×%d", tt.n, tt.maxWidth, cols, rows, tt.cols, tt.rows)
		}
		if tt.n > 0 && (cols*rows < tt.n || cols*(rows-1) >= tt.n) {
			t.Errorf("Grid(%d, %d) = %d×%d does not bound n tightly", tt.n, tt.maxWidth, cols, rows)
		}
	}
}

func TestRenderSheet(t *testing.T) {
	d := &Deck{Name: "goblins", Cards: cards(23, 4, 6)}
	images, err := d.Render(context.Background())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("got %d images, want 1", len(images))
	}

	sheet := images[0]
	if got := sheet.Bounds(); got != image.Rect(0, 0, 40, 18) {
		t.Errorf("sheet bounds = %v, want 40×18", got)
	}
	// Card 12 sits at column 2, row 1.
	if got, want := nrgba(sheet.At(2*4+1, 1*6+1)), nrgba(shade(12)); got != want {
		t.Errorf("card 12 pixel = %v, want %v", got, want)
	}
	// Cells past the last card stay transparent.
	if _, _, _, a := sheet.At(39, 17).RGBA(); a != 0 {
		t.Errorf("empty cell alpha = %d, want 0", a)
	}
}

func TestRenderSheetBackground(t *testing.T) {
	bg := color.NRGBA{R: 1, G: 2, B: 3, A: 255}
	d := &Deck{Cards: cards(3, 2, 2), Options: Options{MaxWidth: 2, Background: bg}}
	images, err := d.Render(context.Background())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got := nrgba(images[0].At(3, 3)); got != bg {
		t.Errorf("empty cell = %v, want background %v", got, bg)
	}
}

func TestRenderSheetPadded(t *testing.T) {
	bg := color.NRGBA{R: 9, G: 9, B: 9, A: 255}
	d := &Deck{Cards: cards(3, 10, 20), Options: Options{Padding: 5, Background: bg}}
	images, err := d.Render(context.Background())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	sheet := images[0]
	if got := sheet.Bounds(); got != image.Rect(0, 0, 60, 30) {
		t.Fatalf("sheet bounds = %v, want 60×30", got)
	}
	tests := []struct {
		name string
		x, y int
		want color.NRGBA
	}{
		{"first cell border", 0, 0, bg},
		{"first card", 5, 5, nrgba(shade(0))},
		{"second cell border", 24, 4, bg},
		{"second card", 25, 5, nrgba(shade(1))},
		{"second card far corner", 34, 24, nrgba(shade(1))},
		{"second cell bottom border", 30, 25, bg},
		{"third card", 45, 10, nrgba(shade(2))},
		{"last cell right border", 59, 29, bg},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nrgba(sheet.At(tt.x, tt.y)); got != tt.want {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestImageIDs(t *testing.T) {
	d := &Deck{
		Cards: []*card.Card{
			{Name: "a", Layers: []layer.Layer{&layer.Image{ID: "b.png"}, &layer.Image{ID: "a.png"}}},
			{Name: "b", Layers: []layer.Layer{fill{shade(0)}, &layer.Image{ID: "a.png"}}},
		},
		Back: &card.Card{Name: "back", Layers: []layer.Layer{&layer.Image{ID: "back.png"}}},
	}
	want := []string{"a.png", "b.png", "back.png"}
	if got := d.ImageIDs(); !slices.Equal(got, want) {
		t.Errorf("ImageIDs() = %v, want %v", got, want)
	}
}

func TestRenderSingletons(t *testing.T) {
	bg := color.NRGBA{B: 200, A: 255}
	d := &Deck{
		Cards:   cards(3, 4, 6),
		Options: Options{Layout: LayoutSingleton, Padding: 2, Background: bg},
	}
	images, err := d.Render(context.Background())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if len(images) != 3 {
		t.Fatalf("got %d images, want 3", len(images))
	}
	for i, img := range images {
		if got := img.Bounds(); got != image.Rect(0, 0, 8, 10) {
			t.Errorf("image %d bounds = %v, want 8×10", i, got)
		}
		if got := nrgba(img.At(0, 0)); got != bg {
			t.Errorf("image %d border = %v, want %v", i, got, bg)
		}
		if got, want := nrgba(img.At(2, 2)), nrgba(shade(i)); got != want {
			t.Errorf("image %d card pixel = %v, want %v", i, got, want)
		}
	}
}

func TestRenderSingletonsUnpadded(t *testing.T) {
	d := &Deck{Cards: cards(1, 4, 6), Options: Options{Layout: LayoutSingleton}}
	images, err := d.Render(context.Background())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got := images[0].Bounds(); got != image.Rect(0, 0, 4, 6) {
		t.Errorf("bounds = %v, want 4×6", got)
	}
}

func TestRenderEmpty(t *testing.T) {
	for _, layout := range []Layout{LayoutSheet, LayoutSingleton} {
		d := New("empty", Options{Layout: layout})
		images, err := d.Render(context.Background())
		if err != nil || len(images) != 0 {
			t.Errorf("%s: Render() = %d images, %v; want none", layout, len(images), err)
		}
	}
}

func TestRenderCardError(t *testing.T) {
	d := New("broken", Options{})
	d.Add(&card.Card{Name: "ok", Width: 2, Height: 2})
	d.Add(&card.Card{Name: "bad", Width: 2, Height: 2, Layers: []layer.Layer{failing{}}})
	if d.Len() != 2 {
		t.Fatalf("Len() = %d", d.Len())
	}
	if _, err := d.Render(context.Background()); err == nil {
		t.Error("Render() expected error")
	}
}

func TestRenderBack(t *testing.T) {
	d := &Deck{Cards: cards(2, 4, 6)}
	back, err := d.RenderBack(context.Background())
	if err != nil || back != nil {
		t.Errorf("RenderBack() without back = %v, %v; want nil", back, err)
	}

	d.Back = &card.Card{Name: "back", Width: 4, Height: 6, Layers: []layer.Layer{fill{shade(5)}}}
	d.Options.Padding = 1
	back, err = d.RenderBack(context.Background())
	if err != nil {
		t.Fatalf("RenderBack() error: %v", err)
	}
	if got := back.Bounds(); got != image.Rect(0, 0, 6, 8) {
		t.Errorf("back bounds = %v, want 6×8", got)
	}
	if got, want := nrgba(back.At(3, 3)), nrgba(shade(5)); got != want {
		t.Errorf("back pixel = %v, want %v", got, want)
	}
}

func TestParseLayout(t *testing.T) {
	tests := []struct {
		in      string
		want    Layout
		wantErr bool
	}{
		{"", LayoutSheet, false},
		{"sheet", LayoutSheet, false},
		{"singleton", LayoutSingleton, false},
		{"grid", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLayout(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLayout(%q) = %q, %v", tt.in, got, err)
		}
	}
}
