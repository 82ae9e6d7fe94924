// Package fonts loads TrueType/OpenType fonts and exposes them as
// [textfit.Font] implementations that can also draw.
//
// A font is named in configuration in one of three ways:
//   - a builtin name ("goregular", "gobold", "gomono"), served from the Go
//     font family embedded in golang.org/x/image;
//   - a file path, absolute or relative to one of the loader's directories;
//   - a bare file name such as "DejaVuSans.ttf", looked up in the system font
//     directories via go-findfont.
//
// A loader made with [NewConfinedLoader] accepts only builtin names and
// relative paths inside its directory, for serving untrusted configurations.
//
// Parsed fonts and their per-size faces are cached, so a deck of many cards
// parses each font file once.
package fonts

import (
	"fmt"
	"image"
	"image/color"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
	"github.com/tgrunnagle/playing-card-gen/pkg/textfit"
)

// Default is the builtin font used when nothing else is configured.
const Default = "goregular"

var builtins = map[string][]byte{
	"goregular": goregular.TTF,
	"gobold":    gobold.TTF,
	"gomono":    gomono.TTF,
}

// IsBuiltin reports whether name selects an embedded font.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// Builtins lists the embedded font names in sorted order.
func Builtins() []string {
	return slices.Sorted(maps.Keys(builtins))
}

// Loader resolves font names to parsed fonts. It is safe for concurrent use.
type Loader struct {
	dirs     []string
	confined bool

	mu    sync.Mutex
	fonts map[string]*Font
}

// NewLoader returns a loader that resolves relative paths against dirs, in
// order, before falling back to system fonts.
func NewLoader(dirs ...string) *Loader {
	return &Loader{dirs: dirs, fonts: make(map[string]*Font)}
}

// NewConfinedLoader returns a loader that serves builtin fonts and font files
// under dir only. Absolute paths, parent references and system fonts are
// refused.
func NewConfinedLoader(dir string) *Loader {
	l := NewLoader(dir)
	l.confined = true
	return l
}

// Load returns the font for name, parsing it on first use. Unresolvable names
// fail with FONT_NOT_FOUND.
func (l *Loader) Load(name string) (*Font, error) {
	if name == "" {
		return nil, errors.New(errors.ErrCodeFontNotFound, "no font configured")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if f, ok := l.fonts[name]; ok {
		return f, nil
	}

	data, err := l.read(name)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "font %s", name)
	}
	f.name = name
	l.fonts[name] = f
	return f, nil
}

func (l *Loader) read(name string) ([]byte, error) {
	if data, ok := builtins[name]; ok {
		return data, nil
	}

	if l.confined {
		return l.readConfined(name)
	}

	candidates := []string{name}
	if !filepath.IsAbs(name) {
		for _, dir := range l.dirs {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "read font %s", path)
		}
	}

	path, err := findfont.Find(name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "font %s", name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "read font %s", path)
	}
	return data, nil
}

func (l *Loader) readConfined(name string) ([]byte, error) {
	if err := errors.ValidatePath(name); err != nil {
		return nil, fmt.Errorf("font %s: %w", name, err)
	}
	if filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return nil, errors.New(errors.ErrCodeInvalidPath, "font %s: path must be relative", name)
	}
	for _, dir := range l.dirs {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "read font %s", name)
		}
	}
	return nil, errors.New(errors.ErrCodeFontNotFound, "font %s not found", name)
}

// Font is a parsed typeface. Faces are created lazily per point size.
type Font struct {
	name string
	sfnt *opentype.Font

	mu    sync.Mutex
	faces map[int]*Face
}

// Parse parses TrueType or OpenType font data.
func Parse(data []byte) (*Font, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Font{sfnt: f, faces: make(map[int]*Face)}, nil
}

// Name returns the name the font was loaded under.
func (f *Font) Name() string { return f.name }

// Face implements [textfit.Font].
func (f *Font) Face(size int) (textfit.Face, error) {
	return f.FaceAt(size)
}

// FaceAt returns the face at size points (72 DPI, so points equal pixels).
func (f *Font) FaceAt(size int) (*Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %d", size)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if face, ok := f.faces[size]; ok {
		return face, nil
	}
	ff, err := opentype.NewFace(f.sfnt, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("face at %dpt: %w", size, err)
	}

	m := ff.Metrics()
	face := &Face{
		face:   ff,
		size:   size,
		ascent: m.Ascent.Ceil(),
		height: m.Ascent.Ceil() + m.Descent.Ceil(),
	}
	f.faces[size] = face
	return face, nil
}

// Face measures and draws text at one size. Opentype faces keep scratch
// buffers, so access is serialized.
type Face struct {
	mu     sync.Mutex
	face   font.Face
	size   int
	ascent int
	height int
}

// Size returns the point size of the face.
func (f *Face) Size() int { return f.size }

// Advance returns the width of s in whole pixels, rounded up.
func (f *Face) Advance(s string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return font.MeasureString(f.face, s).Ceil()
}

// Height returns the line height: ascent plus descent.
func (f *Face) Height() int { return f.height }

// DrawString draws s with its top-left corner at (x, y).
func (f *Face) DrawString(dst *image.RGBA, s string, x, y int, c color.Color) {
	f.mu.Lock()
	defer f.mu.Unlock()

	dc := gg.NewContextForRGBA(dst)
	dc.SetFontFace(f.face)
	dc.SetColor(c)
	dc.DrawString(s, float64(x), float64(y+f.ascent))
}

// Drawer is a face that can render text onto a canvas.
type Drawer interface {
	textfit.Face
	DrawString(dst *image.RGBA, s string, x, y int, c color.Color)
}

var _ Drawer = (*Face)(nil)
