package overlay

import "fmt"

// GlowStyle selects how the halo around the tracer line is produced.
type GlowStyle int

const (
	// GlowLayered stacks a few translucent thick strokes per segment,
	// outer layers wider and fainter. Approximates a soft halo at a
	// fraction of the cost of a real blur.
	GlowLayered GlowStyle = iota

	// GlowGaussian strokes a single wide pass and runs a true Gaussian
	// blur over it before the core pass. Softer result, noticeably more
	// expensive per frame.
	GlowGaussian
)

// Style describes the look of the tracer line. Immutable for the duration
// of a render.
type Style struct {
	// StartColor is the color at the head of the trail (t = 0).
	StartColor RGB
	// EndColor is the color at the tail of the trail (t = 1).
	EndColor RGB
	// LineWidth is the core stroke width in output pixels. Must be > 0.
	LineWidth float64
	// GlowIntensity controls halo width. 0 disables the glow pass
	// entirely. Must be >= 0.
	GlowIntensity float64
	// Glow selects the halo algorithm. Ignored when GlowIntensity == 0.
	Glow GlowStyle
}

// DefaultStyle returns the stock look: gold to orange-red gradient,
// width 4, glow 10, layered halo.
func DefaultStyle() Style {
	return Style{
		StartColor:    RGB{R: 0xFF, G: 0xD7, B: 0x00}, // gold
		EndColor:      RGB{R: 0xFF, G: 0x45, B: 0x00}, // orange-red
		LineWidth:     4,
		GlowIntensity: 10,
		Glow:          GlowLayered,
	}
}

// Validate fails fast on styles no rasterizer pass can honor.
func (s Style) Validate() error {
	if s.LineWidth <= 0 {
		return fmt.Errorf("overlay: line width %.2f must be positive", s.LineWidth)
	}
	if s.GlowIntensity < 0 {
		return fmt.Errorf("overlay: glow intensity %.2f must not be negative", s.GlowIntensity)
	}
	if s.Glow != GlowLayered && s.Glow != GlowGaussian {
		return fmt.Errorf("overlay: unknown glow style %d", s.Glow)
	}
	return nil
}
