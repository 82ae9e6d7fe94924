package layer

import (
	"encoding/hex"
	"image/color"
	"strings"

	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
)

// ParseColor parses "#rrggbb" or "#rrggbbaa" (the leading # is optional).
// The empty string yields def.
func ParseColor(s string, def color.Color) (color.Color, error) {
	if s == "" {
		return def, nil
	}
	b, err := hex.DecodeString(strings.TrimPrefix(s, "#"))
	if err != nil || (len(b) != 3 && len(b) != 4) {
		return nil, errors.Config("invalid color %q (want #rrggbb or #rrggbbaa)", s)
	}
	c := color.NRGBA{R: b[0], G: b[1], B: b[2], A: 0xff}
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}
