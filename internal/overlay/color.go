package overlay

import (
	"fmt"
	"image/color"
	"strings"
)

// RGB is an 8-bit color triple. Alpha is decided at draw time: the ramp
// emits fully opaque colors and the rasterizer overrides alpha for glow
// and soft-edge strokes.
type RGB struct {
	R, G, B uint8
}

// Interpolate returns the color a fraction t of the way from a to b,
// interpolating each channel linearly and truncating to integer. Alpha is
// fixed at 255; callers needing a translucent variant overwrite A on the
// result.
//
// t outside [0,1] extrapolates along the same line. Channels saturate at
// the representable range; t itself is never clamped.
func Interpolate(a, b RGB, t float64) color.NRGBA {
	return color.NRGBA{
		R: lerpChannel(a.R, b.R, t),
		G: lerpChannel(a.G, b.G, t),
		B: lerpChannel(a.B, b.B, t),
		A: 255,
	}
}

func lerpChannel(a, b uint8, t float64) uint8 {
	v := int(float64(a) + (float64(b)-float64(a))*t)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ParseHex parses a "#RRGGBB" (or "RRGGBB") color string.
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("overlay: invalid hex color %q (want #RRGGBB)", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(h, "%02x%02x%02x", &r, &g, &b); err != nil {
		return RGB{}, fmt.Errorf("overlay: invalid hex color %q: %w", s, err)
	}
	return RGB{R: r, G: g, B: b}, nil
}

// Hex returns the "#RRGGBB" form of the color.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
