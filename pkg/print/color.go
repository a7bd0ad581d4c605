package print

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// LegacyGray is the old default tile background. It prints as white.
const LegacyGray = "#d9d9d9"

const white = "#FFFFFF"

// FillColor returns the document fill color for a tile background: hex
// colors pass through, rgb() and rgba() strings are converted to hex, the
// legacy gray and the empty string become white.
func FillColor(bg string) string {
	bg = strings.TrimSpace(bg)
	switch {
	case bg == "" || strings.EqualFold(bg, LegacyGray):
		return white
	case strings.HasPrefix(bg, "#"):
		return bg
	}
	if c, ok := parseRGBFunc(bg); ok {
		return hex(c)
	}
	return bg
}

// ParseColor parses hex (#rgb, #rrggbb, #rrggbbaa), rgb()/rgba() and CSS
// named colors.
func ParseColor(s string) (color.NRGBA, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	if c, ok := parseRGBFunc(s); ok {
		return c, true
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return color.NRGBA{c.R, c.G, c.B, c.A}, true
	}
	return color.NRGBA{}, false
}

func parseHex(h string) (color.NRGBA, bool) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, true
}

// parseRGBFunc extracts components from "rgb(r, g, b)" or "rgba(r, g, b, a)".
// Alpha is a fraction in [0, 1].
func parseRGBFunc(s string) (color.NRGBA, bool) {
	lower := strings.ToLower(s)
	var body string
	switch {
	case strings.HasPrefix(lower, "rgba(") && strings.HasSuffix(lower, ")"):
		body = s[5 : len(s)-1]
	case strings.HasPrefix(lower, "rgb(") && strings.HasSuffix(lower, ")"):
		body = s[4 : len(s)-1]
	default:
		return color.NRGBA{}, false
	}

	parts := strings.Split(body, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.NRGBA{}, false
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return color.NRGBA{}, false
		}
		rgb[i] = uint8(v)
	}
	alpha := uint8(255)
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return color.NRGBA{}, false
		}
		alpha = uint8(a*255 + 0.5)
	}
	return color.NRGBA{rgb[0], rgb[1], rgb[2], alpha}, true
}

func hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
