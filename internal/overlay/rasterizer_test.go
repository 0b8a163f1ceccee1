package overlay

import (
	"image"
	"testing"
)

func isTransparent(img *image.NRGBA) bool {
	for _, b := range img.Pix {
		if b != 0 {
			return false
		}
	}
	return true
}

func countOpaquePixels(img *image.NRGBA) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			n++
		}
	}
	return n
}

// TestRenderTooFewPoints validates that fewer than two visible points
// yields a fully transparent frame of the output dimensions, for any
// style and scale.
func TestRenderTooFewPoints(t *testing.T) {
	for _, scale := range []int{1, 2} {
		r := NewRasterizer(64, 48, scale, DefaultStyle())

		for _, visible := range [][]Point{nil, {}, {{SourceFrame: 0, X: 10, Y: 10}}} {
			frame := r.Render(visible)
			if got := frame.Bounds(); got.Dx() != 64 || got.Dy() != 48 {
				t.Fatalf("scale %d: frame is %dx%d, want 64x48", scale, got.Dx(), got.Dy())
			}
			if !isTransparent(frame) {
				t.Errorf("scale %d: frame with %d points is not transparent", scale, len(visible))
			}
		}
	}
}

// TestRenderEmptyFrameShared validates the empty-frame fast path: every
// sub-threshold render returns the same cached buffer, no reallocation.
func TestRenderEmptyFrameShared(t *testing.T) {
	r := NewRasterizer(32, 32, 2, DefaultStyle())

	a := r.Render(nil)
	b := r.Render([]Point{{SourceFrame: 0, X: 1, Y: 1}})
	if &a.Pix[0] != &b.Pix[0] {
		t.Error("empty frames do not share the cached buffer")
	}
	if &a.Pix[0] != &r.Empty().Pix[0] {
		t.Error("Render did not return the cached Empty() buffer")
	}
}

// TestRenderDrawsSegment validates that two visible points produce marks
// on the canvas along the segment and leave far corners untouched.
func TestRenderDrawsSegment(t *testing.T) {
	r := NewRasterizer(100, 100, 1, DefaultStyle())

	frame := r.Render([]Point{
		{SourceFrame: 0, X: 10, Y: 50},
		{SourceFrame: 5, X: 90, Y: 50},
	})

	if isTransparent(frame) {
		t.Fatal("frame with a segment is fully transparent")
	}
	// Midpoint of the stroke must be covered.
	if _, _, _, a := frame.At(50, 50).RGBA(); a == 0 {
		t.Error("segment midpoint (50,50) is transparent")
	}
	// A corner far from the stroke and its glow must stay transparent.
	if _, _, _, a := frame.At(1, 1).RGBA(); a != 0 {
		t.Error("corner (1,1) is painted, want transparent")
	}
}

// TestRenderSupersampledDimensions validates the supersampling invariant:
// a 2x render downsamples to exactly the requested output dimensions.
func TestRenderSupersampledDimensions(t *testing.T) {
	for _, scale := range []int{1, 2} {
		r := NewRasterizer(120, 80, scale, DefaultStyle())
		frame := r.Render([]Point{
			{SourceFrame: 0, X: 10, Y: 40},
			{SourceFrame: 3, X: 110, Y: 40},
		})
		if got := frame.Bounds(); got.Dx() != 120 || got.Dy() != 80 {
			t.Errorf("scale %d: frame is %dx%d, want 120x80", scale, got.Dx(), got.Dy())
		}
	}
}

// TestRenderGlowDisabled validates that glowIntensity 0 skips the glow
// pass: the painted area shrinks to roughly the core stroke.
func TestRenderGlowDisabled(t *testing.T) {
	points := []Point{
		{SourceFrame: 0, X: 20, Y: 50},
		{SourceFrame: 5, X: 80, Y: 50},
	}

	withGlow := DefaultStyle()
	noGlow := DefaultStyle()
	noGlow.GlowIntensity = 0

	glowArea := countOpaquePixels(NewRasterizer(100, 100, 1, withGlow).Render(points))
	coreArea := countOpaquePixels(NewRasterizer(100, 100, 1, noGlow).Render(points))

	if coreArea == 0 {
		t.Fatal("core-only render painted nothing")
	}
	if coreArea >= glowArea {
		t.Errorf("core-only area %d should be smaller than glowing area %d", coreArea, glowArea)
	}
}

// TestRenderGaussianGlow validates the alternative glow policy renders
// and stays within the output dimensions.
func TestRenderGaussianGlow(t *testing.T) {
	style := DefaultStyle()
	style.Glow = GlowGaussian

	r := NewRasterizer(100, 100, 1, style)
	frame := r.Render([]Point{
		{SourceFrame: 0, X: 20, Y: 50},
		{SourceFrame: 5, X: 80, Y: 50},
	})
	if got := frame.Bounds(); got.Dx() != 100 || got.Dy() != 100 {
		t.Fatalf("frame is %dx%d, want 100x100", got.Dx(), got.Dy())
	}
	if isTransparent(frame) {
		t.Error("gaussian-glow frame is fully transparent")
	}
}

// TestRenderOffCanvasPoints validates that out-of-canvas coordinates are
// not an error; they simply draw off-frame.
func TestRenderOffCanvasPoints(t *testing.T) {
	r := NewRasterizer(50, 50, 2, DefaultStyle())
	frame := r.Render([]Point{
		{SourceFrame: 0, X: -500, Y: -500},
		{SourceFrame: 5, X: -400, Y: -500},
	})
	if got := frame.Bounds(); got.Dx() != 50 || got.Dy() != 50 {
		t.Fatalf("frame is %dx%d, want 50x50", got.Dx(), got.Dy())
	}
	if !isTransparent(frame) {
		t.Error("fully off-canvas segment painted on-canvas pixels")
	}
}

// TestRenderDuplicateFramePoints validates that coincident points (shared
// frame index, same position) degrade to dots instead of dividing by a
// zero-length segment.
func TestRenderDuplicateFramePoints(t *testing.T) {
	r := NewRasterizer(50, 50, 1, DefaultStyle())
	frame := r.Render([]Point{
		{SourceFrame: 2, X: 25, Y: 25},
		{SourceFrame: 2, X: 25, Y: 25},
	})
	if _, _, _, a := frame.At(25, 25).RGBA(); a == 0 {
		t.Error("coincident points painted nothing at their position")
	}
}
