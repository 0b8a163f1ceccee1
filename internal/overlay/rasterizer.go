package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/blur"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// Glow and core pass tuning. These shape the look, not the contract:
// outer glow layers are wider and fainter than inner ones, the core
// tapers toward the tail and never drops below a visible width.
const (
	glowLayers    = 3
	glowBaseAlpha = 60  // innermost layer alpha; divided by layer index outward
	strokeAlpha   = 150 // single-pass stroke alpha for the Gaussian glow
	softEdgeScale = 1.8
	softEdgeAlpha = 90
	taperFactor   = 0.5
	minCoreWidth  = 2.0
)

// circleKappa is the cubic Bezier constant for approximating a quarter
// circle.
const circleKappa = 0.5522847498

// Rasterizer draws tracer overlay frames.
//
// One Rasterizer serves one render job: it caches the shared transparent
// frame and reuses its scratch buffers across frames. Not safe for
// concurrent use.
type Rasterizer struct {
	width, height int
	scale         int
	style         Style

	// empty is the cached fully transparent frame, returned whenever the
	// visible set is too small to draw. Shared across frames; callers
	// must treat returned frames as read-only.
	empty *image.NRGBA

	vr  *vector.Rasterizer
	src *image.Uniform
}

// NewRasterizer returns a rasterizer producing width x height frames,
// working internally at scale times that resolution. scale must be >= 1;
// width and height must be positive (enforced by Geometry validation).
func NewRasterizer(width, height, scale int, style Style) *Rasterizer {
	if scale < 1 {
		scale = 1
	}
	return &Rasterizer{
		width:  width,
		height: height,
		scale:  scale,
		style:  style,
		empty:  image.NewNRGBA(image.Rect(0, 0, width, height)),
		vr:     vector.NewRasterizer(width*scale, height*scale),
		src:    &image.Uniform{},
	}
}

// Empty returns the shared transparent frame. Read-only.
func (r *Rasterizer) Empty() *image.NRGBA {
	return r.empty
}

// Render draws the tracer for the given visible prefix of the track and
// returns a straight-alpha RGBA frame of the output dimensions.
//
// Fewer than two visible points means there is no segment to draw; the
// shared transparent frame is returned without touching a canvas. This is
// the dominant case for leading frames before the tracked object appears
// and is deliberately free.
//
// Out-of-canvas coordinates are not validated; they simply draw off-frame.
func (r *Rasterizer) Render(visible []Point) *image.NRGBA {
	if len(visible) < 2 {
		return r.empty
	}

	s := float64(r.scale)
	canvas := image.NewRGBA(image.Rect(0, 0, r.width*r.scale, r.height*r.scale))

	if r.style.GlowIntensity > 0 {
		switch r.style.Glow {
		case GlowGaussian:
			r.glowGaussian(canvas, visible, s)
		default:
			r.glowLayered(canvas, visible, s)
		}
	}
	r.corePass(canvas, visible, s)

	if r.scale > 1 {
		small := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
		xdraw.CatmullRom.Scale(small, small.Bounds(), canvas, canvas.Bounds(), xdraw.Src, nil)
		canvas = small
	}
	return unpremultiply(canvas)
}

// glowLayered draws the halo as stacked translucent strokes, outermost
// first so inner layers paint over it along the whole polyline.
func (r *Rasterizer) glowLayered(dst *image.RGBA, visible []Point, s float64) {
	n := len(visible)
	for layer := glowLayers; layer >= 1; layer-- {
		width := (r.style.LineWidth + r.style.GlowIntensity*float64(layer)) * s
		alpha := uint8(glowBaseAlpha / layer)
		for i := 1; i < n; i++ {
			col := Interpolate(r.style.StartColor, r.style.EndColor, segmentT(i, n))
			col.A = alpha
			r.strokeSegment(dst, visible[i-1], visible[i], width, width, s, col)
		}
	}
}

// glowGaussian strokes one wide pass into a scratch layer, blurs it, and
// composites the result under where the core pass will land.
func (r *Rasterizer) glowGaussian(dst *image.RGBA, visible []Point, s float64) {
	layer := image.NewRGBA(dst.Bounds())
	width := (r.style.LineWidth + r.style.GlowIntensity) * s
	n := len(visible)
	for i := 1; i < n; i++ {
		col := Interpolate(r.style.StartColor, r.style.EndColor, segmentT(i, n))
		col.A = strokeAlpha
		r.strokeSegment(layer, visible[i-1], visible[i], width, width, s, col)
	}
	blurred := blur.Gaussian(layer, r.style.GlowIntensity*s/2)
	draw.Draw(dst, dst.Bounds(), blurred, image.Point{}, draw.Over)
}

// corePass draws the soft edge, the opaque tapering core and the joint
// dots that hide seams between consecutive segments.
func (r *Rasterizer) corePass(dst *image.RGBA, visible []Point, s float64) {
	n := len(visible)
	for i := 1; i < n; i++ {
		t := segmentT(i, n)
		col := Interpolate(r.style.StartColor, r.style.EndColor, t)

		w1 := coreWidth(r.style.LineWidth, segmentT(i-1, n))
		w2 := coreWidth(r.style.LineWidth, t)

		soft := col
		soft.A = softEdgeAlpha
		r.strokeSegment(dst, visible[i-1], visible[i], w1*softEdgeScale*s, w2*softEdgeScale*s, s, soft)
		r.strokeSegment(dst, visible[i-1], visible[i], w1*s, w2*s, s, col)
		r.fillCircle(dst, visible[i].X*s, visible[i].Y*s, w2*s/2, col)
	}
}

// coreWidth tapers the stroke from full width at the head to half width
// at the tail, clamped so the tail stays visible.
func coreWidth(lineWidth, t float64) float64 {
	w := lineWidth * (1 - t*taperFactor)
	if w < minCoreWidth {
		w = minCoreWidth
	}
	return w
}

// segmentT is the normalized position of segment i along a polyline of n
// points: 0 at the head, 1 at the tail. Callers guarantee n >= 2.
func segmentT(i, n int) float64 {
	return float64(i) / float64(n-1)
}

// strokeSegment fills the quad spanning p1..p2 with endpoint widths w1 and
// w2 (already in canvas pixels). Degenerate segments (coincident points,
// e.g. duplicate frame indices) fall back to a dot.
func (r *Rasterizer) strokeSegment(dst *image.RGBA, p1, p2 Point, w1, w2, s float64, col color.NRGBA) {
	x1, y1 := p1.X*s, p1.Y*s
	x2, y2 := p2.X*s, p2.Y*s
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length == 0 {
		r.fillCircle(dst, x1, y1, math.Max(w1, w2)/2, col)
		return
	}
	nx, ny := -dy/length, dx/length
	h1, h2 := w1/2, w2/2

	z := r.vr
	z.Reset(dst.Bounds().Dx(), dst.Bounds().Dy())
	z.MoveTo(float32(x1+nx*h1), float32(y1+ny*h1))
	z.LineTo(float32(x2+nx*h2), float32(y2+ny*h2))
	z.LineTo(float32(x2-nx*h2), float32(y2-ny*h2))
	z.LineTo(float32(x1-nx*h1), float32(y1-ny*h1))
	z.ClosePath()
	r.src.C = col
	z.Draw(dst, dst.Bounds(), r.src, image.Point{})
}

// fillCircle fills a disc at (cx, cy) in canvas pixels using four cubic
// Bezier quarter arcs.
func (r *Rasterizer) fillCircle(dst *image.RGBA, cx, cy, radius float64, col color.NRGBA) {
	if radius <= 0 {
		return
	}
	k := radius * circleKappa
	z := r.vr
	z.Reset(dst.Bounds().Dx(), dst.Bounds().Dy())
	z.MoveTo(float32(cx+radius), float32(cy))
	z.CubeTo(float32(cx+radius), float32(cy+k), float32(cx+k), float32(cy+radius), float32(cx), float32(cy+radius))
	z.CubeTo(float32(cx-k), float32(cy+radius), float32(cx-radius), float32(cy+k), float32(cx-radius), float32(cy))
	z.CubeTo(float32(cx-radius), float32(cy-k), float32(cx-k), float32(cy-radius), float32(cx), float32(cy-radius))
	z.CubeTo(float32(cx+k), float32(cy-radius), float32(cx+radius), float32(cy-k), float32(cx+radius), float32(cy))
	z.ClosePath()
	r.src.C = col
	z.Draw(dst, dst.Bounds(), r.src, image.Point{})
}

// unpremultiply converts the premultiplied working canvas to the
// straight-alpha layout the encoder sink expects.
func unpremultiply(src *image.RGBA) *image.NRGBA {
	out := image.NewNRGBA(src.Bounds())
	for i := 0; i < len(src.Pix); i += 4 {
		a := src.Pix[i+3]
		switch a {
		case 0:
			// out is zeroed already
		case 255:
			out.Pix[i] = src.Pix[i]
			out.Pix[i+1] = src.Pix[i+1]
			out.Pix[i+2] = src.Pix[i+2]
			out.Pix[i+3] = 255
		default:
			out.Pix[i] = uint8(uint32(src.Pix[i]) * 255 / uint32(a))
			out.Pix[i+1] = uint8(uint32(src.Pix[i+1]) * 255 / uint32(a))
			out.Pix[i+2] = uint8(uint32(src.Pix[i+2]) * 255 / uint32(a))
			out.Pix[i+3] = a
		}
	}
	return out
}
