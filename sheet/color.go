package sheet

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned for colours ParseColor does not understand.
var ErrInvalidColor = errors.New("invalid colour")

var namedColors = map[string]color.NRGBA{
	"black":   {0, 0, 0, 255},
	"white":   {255, 255, 255, 255},
	"red":     {255, 0, 0, 255},
	"green":   {0, 128, 0, 255},
	"blue":    {0, 0, 255, 255},
	"cyan":    {0, 255, 255, 255},
	"magenta": {255, 0, 255, 255},
	"yellow":  {255, 255, 0, 255},
	"gray":    {128, 128, 128, 255},
	"grey":    {128, 128, 128, 255},
}

// ParseColor parses an SVG style colour: "#rgb", "#rrggbb" or a basic
// colour name. "none" and the empty string report ok == false.
func ParseColor(s string) (c color.NRGBA, ok bool, err error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "none" {
		return color.NRGBA{}, false, nil
	}
	if named, found := namedColors[s]; found {
		return named, true, nil
	}
	hex, found := strings.CutPrefix(s, "#")
	if !found {
		return color.NRGBA{}, false, fmt.Errorf("%w %q", ErrInvalidColor, s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, false, fmt.Errorf("%w %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, false, fmt.Errorf("%w %q", ErrInvalidColor, s)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true, nil
}
