package generator

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ErrInvalidColor is returned when a color is neither a known name nor a hex value
var ErrInvalidColor = errors.New("invalid color")

// ParseColor converts a color name ("red", "DarkSlateGray") or a hex value
// ("#f00", "#ff0000", "#ff000080") into a color.Color.
func ParseColor(s string) (color.Color, error) {
	value := strings.ToLower(strings.TrimSpace(s))
	if value == "" {
		return nil, fmt.Errorf("%w: empty value", ErrInvalidColor)
	}

	if strings.HasPrefix(value, "#") {
		return parseHex(value[1:], s)
	}

	c, ok := colornames.Map[value]
	if !ok {
		return nil, fmt.Errorf("%w: unknown color name %q", ErrInvalidColor, s)
	}
	return c, nil
}

func parseHex(hex, original string) (color.Color, error) {
	switch len(hex) {
	case 3:
		// #rgb expands each digit, f -> ff
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}) + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return nil, fmt.Errorf("%w: hex color %q must have 3, 6 or 8 digits", ErrInvalidColor, original)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: hex color %q: %v", ErrInvalidColor, original, err)
	}

	// color.NRGBA keeps the alpha channel non-premultiplied
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
