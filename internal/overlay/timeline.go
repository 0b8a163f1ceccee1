package overlay

// Point is a single tracked position on the source timeline.
//
// SourceFrame is the frame index at which the point was recorded, at the
// source video's frame rate. Tracks are ordered by SourceFrame ascending;
// multiple points may share a frame. Points are immutable once handed to
// the renderer.
type Point struct {
	SourceFrame int
	X, Y        float64
}

// SourceIndex maps an output-timeline frame number onto the source
// point-sampling timeline. fpsScale is outputFPS/sourceFPS and must be
// positive (enforced by Geometry validation, not here).
//
// The mapping is monotonically non-decreasing in outputFrame for a fixed
// positive fpsScale.
func SourceIndex(outputFrame int, fpsScale float64) float64 {
	return float64(outputFrame) / fpsScale
}

// VisibleUpTo returns the maximal prefix of points whose SourceFrame is at
// or before cutoff. points must be ordered by SourceFrame ascending. The
// result aliases the input slice; callers must not mutate it.
func VisibleUpTo(points []Point, cutoff float64) []Point {
	n := 0
	for n < len(points) && float64(points[n].SourceFrame) <= cutoff {
		n++
	}
	return points[:n]
}

// Cursor walks a point track under a monotonically non-decreasing cutoff.
//
// Output frames are produced in increasing order, so the visibility
// boundary only ever moves forward. Cursor exploits that: each Advance
// resumes the scan where the previous one stopped, making the whole
// render's filtering cost linear in len(points) + frames instead of
// quadratic.
//
// Not safe for concurrent use; each render job owns its own Cursor.
type Cursor struct {
	points []Point
	n      int // visible prefix length so far
}

// NewCursor returns a cursor over points, which must be ordered by
// SourceFrame ascending.
func NewCursor(points []Point) *Cursor {
	return &Cursor{points: points}
}

// Advance extends the visible prefix to cover cutoff and returns it.
//
// Contract: successive cutoffs must be non-decreasing. A cutoff below the
// previous one returns the previous prefix unchanged (the boundary never
// retreats). The result aliases the underlying slice.
func (c *Cursor) Advance(cutoff float64) []Point {
	for c.n < len(c.points) && float64(c.points[c.n].SourceFrame) <= cutoff {
		c.n++
	}
	return c.points[:c.n]
}
