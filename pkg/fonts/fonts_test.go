package fonts

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
)

func TestLoadBuiltin(t *testing.T) {
	l := NewLoader()
	f, err := l.Load(Default)
	if err != nil {
		t.Fatalf("Load(%q) error: %v", Default, err)
	}
	if f.Name() != Default {
		t.Errorf("Name() = %q, want %q", f.Name(), Default)
	}

	again, err := l.Load(Default)
	if err != nil {
		t.Fatal(err)
	}
	if again != f {
		t.Error("Load() did not reuse the cached font")
	}
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "custom.ttf"), goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := NewLoader(dir).Load("custom.ttf")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if _, err := f.Face(12); err != nil {
		t.Errorf("Face(12) error: %v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	tests := []string{"", "definitely-not-a-real-font-4f2a.ttf"}
	for _, name := range tests {
		_, err := NewLoader(t.TempDir()).Load(name)
		if !errors.Is(err, errors.ErrCodeFontNotFound) {
			t.Errorf("Load(%q) error = %v, want %s", name, err, errors.ErrCodeFontNotFound)
		}
	}
}

func TestConfinedLoader(t *testing.T) {
	root := t.TempDir()
	assets := filepath.Join(root, "assets")
	if err := os.MkdirAll(filepath.Join(assets, "fonts"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{filepath.Join(assets, "fonts", "card.ttf"), filepath.Join(root, "outside.ttf")} {
		if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name string
		font string
		code errors.Code
	}{
		{"builtin", "gobold", ""},
		{"inside assets", "fonts/card.ttf", ""},
		{"parent reference", "../outside.ttf", errors.ErrCodeInvalidPath},
		{"absolute path", filepath.Join(root, "outside.ttf"), errors.ErrCodeInvalidPath},
		{"missing", "fonts/none.ttf", errors.ErrCodeFontNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfinedLoader(assets).Load(tt.font)
			if tt.code == "" {
				if err != nil {
					t.Errorf("Load(%q) error: %v", tt.font, err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Load(%q) error = %v, want %s", tt.font, err, tt.code)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte("not a font")); err == nil {
		t.Error("Parse() expected error")
	}
}

func TestIsBuiltin(t *testing.T) {
	for _, name := range []string{"goregular", "gobold", "gomono"} {
		if !IsBuiltin(name) {
			t.Errorf("IsBuiltin(%q) = false", name)
		}
	}
	if IsBuiltin("arial") {
		t.Error("IsBuiltin(arial) = true")
	}
}

func TestFaceMetrics(t *testing.T) {
	f, err := NewLoader().Load("gomono")
	if err != nil {
		t.Fatal(err)
	}

	small, err := f.FaceAt(10)
	if err != nil {
		t.Fatal(err)
	}
	large, err := f.FaceAt(40)
	if err != nil {
		t.Fatal(err)
	}

	if small.Height() <= 0 || large.Height() <= small.Height() {
		t.Errorf("heights small=%d large=%d, want 0 < small < large", small.Height(), large.Height())
	}
	if small.Size() != 10 {
		t.Errorf("Size() = %d, want 10", small.Size())
	}
	if small.Advance("") != 0 {
		t.Errorf("Advance(\"\") = %d, want 0", small.Advance(""))
	}
	if a, b := small.Advance("abc"), small.Advance("abcdef"); b <= a {
		t.Errorf("Advance(abcdef)=%d not greater than Advance(abc)=%d", b, a)
	}
	if small.Advance("WWWW") >= large.Advance("WWWW") {
		t.Error("larger face should be wider")
	}
	// Monospace: a space is as wide as a letter.
	if small.Advance(" ") != small.Advance("m") {
		t.Errorf("gomono space=%d m=%d", small.Advance(" "), small.Advance("m"))
	}
}

func TestFaceCached(t *testing.T) {
	f, err := NewLoader().Load(Default)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := f.FaceAt(14)
	b, _ := f.FaceAt(14)
	if a != b {
		t.Error("FaceAt() did not reuse the cached face")
	}
	if _, err := f.FaceAt(0); err == nil {
		t.Error("FaceAt(0) expected error")
	}
}

func TestDrawString(t *testing.T) {
	f, err := NewLoader().Load(Default)
	if err != nil {
		t.Fatal(err)
	}
	face, err := f.FaceAt(20)
	if err != nil {
		t.Fatal(err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, 100, 40))
	face.DrawString(dst, "Hi", 5, 5, color.Black)

	var drawn int
	for i := 3; i < len(dst.Pix); i += 4 {
		if dst.Pix[i] != 0 {
			drawn++
		}
	}
	if drawn == 0 {
		t.Fatal("DrawString() left the canvas transparent")
	}

	// Nothing above the requested top edge.
	for x := 0; x < 100; x++ {
		for y := 0; y < 5; y++ {
			if _, _, _, a := dst.At(x, y).RGBA(); a != 0 {
				t.Fatalf("pixel (%d,%d) drawn above top edge", x, y)
			}
		}
	}
}

func TestBuiltins(t *testing.T) {
	names := Builtins()
	if !slices.IsSorted(names) {
		t.Errorf("Builtins() = %v, not sorted", names)
	}
	for _, name := range names {
		if _, err := NewLoader().Load(name); err != nil {
			t.Errorf("Load(%q): %v", name, err)
		}
	}
}
