package shutterscene

import (
	"fmt"
	"math/rand"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBA stores linear color components; each should be in [0,1].
type RGBA struct {
	R, G, B, A Real
}

// namedColors are sRGB hex codes (CSS names).
var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"gray":    "#808080",
	"grey":    "#808080",
	"red":     "#ff0000",
	"green":   "#008000",
	"lime":    "#00ff00",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"brown":   "#a52a2a",
	"pink":    "#ffc0cb",
	"sienna":  "#a0522d",
}

// GetColor returns the linear color for a CSS color name or a "#rrggbb" hex code.
func GetColor(name string) (RGBA, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	hex, ok := namedColors[key]
	if !ok {
		if !strings.HasPrefix(key, "#") {
			return RGBA{}, fmt.Errorf("unknown color name %q", name)
		}
		hex = key
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return RGBA{}, fmt.Errorf("parse color %q: %w", name, err)
	}
	return fromColorful(c), nil
}

// MustGetColor is GetColor for compile-time known names.
func MustGetColor(name string) RGBA {
	c, err := GetColor(name)
	if err != nil {
		panic(err)
	}
	return c
}

// RandomHueColor picks a uniformly random hue at full saturation and value.
func RandomHueColor(rng *rand.Rand) RGBA {
	return HSVColor(rng.Float64(), 1, 1)
}

// HSVColor converts hue in [0,1), saturation and value to a linear color.
func HSVColor(h, s, v Real) RGBA {
	return fromColorful(colorful.Hsv(h*360, s, v))
}

func fromColorful(c colorful.Color) RGBA {
	r, g, b := c.Clamped().LinearRgb()
	return RGBA{R: r, G: g, B: b, A: 1}
}

// SRGB returns the color encoded with the sRGB transfer curve.
func (c RGBA) SRGB() RGBA {
	s := colorful.LinearRgb(clamp01(c.R), clamp01(c.G), clamp01(c.B))
	return RGBA{R: s.R, G: s.G, B: s.B, A: clamp01(c.A)}
}

func (c RGBA) Mul(s Real) RGBA { return RGBA{c.R * s, c.G * s, c.B * s, c.A} }

func clamp01(x Real) Real {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
