package pipeline

import (
	"fmt"
	"math"
)

// Geometry fixes the output raster and the two timelines of a render job.
// Immutable once the job starts.
type Geometry struct {
	// Width and Height of the output frames in pixels.
	Width, Height int
	// SourceFPS is the frame rate the tracer points were sampled at.
	SourceFPS float64
	// OutputFPS is the frame rate of the rendered result.
	OutputFPS float64
	// Duration of the output in seconds.
	Duration float64
}

// TotalFrames is the number of output frames: floor(Duration * OutputFPS).
func (g Geometry) TotalFrames() int {
	return int(math.Floor(g.Duration * g.OutputFPS))
}

// FPSScale is the ratio between the output and source timelines. Dividing
// an output frame index by it yields the equivalent source index.
func (g Geometry) FPSScale() float64 {
	return g.OutputFPS / g.SourceFPS
}

// Validate fails fast on geometry no render could honor. Runs before any
// frame is produced or any encoder is started.
func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("pipeline: invalid dimensions %dx%d", g.Width, g.Height)
	}
	if g.SourceFPS <= 0 {
		return fmt.Errorf("pipeline: source fps %.2f must be positive", g.SourceFPS)
	}
	if g.OutputFPS <= 0 {
		return fmt.Errorf("pipeline: output fps %.2f must be positive", g.OutputFPS)
	}
	if g.Duration <= 0 {
		return fmt.Errorf("pipeline: duration %.2fs must be positive", g.Duration)
	}
	return nil
}
