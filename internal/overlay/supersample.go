package overlay

// Supersampling cost model. Rendering at 2x quadruples the pixels pushed
// through the rasterizer and adds a downsample per frame, so large
// resolutions and long jobs run at native resolution instead.
const (
	// uhdPixelCount is the 4K (3840x2160) pixel count at which rendering
	// switches to the throughput-bound regime.
	uhdPixelCount = 3840 * 2160

	// longJobFrames is the frame count past which a job counts as
	// throughput-bound regardless of resolution.
	longJobFrames = 600
)

// ChooseScale picks the supersampling factor for a render.
//
// Returns 1 (native resolution) when the output is 4K-class or the job
// exceeds longJobFrames, otherwise 2 (render at double resolution, then
// downsample for anti-aliasing). This is a cost/quality heuristic, not a
// correctness rule; the pipeline accepts a caller-supplied policy or a
// forced factor in its place.
func ChooseScale(width, height, totalFrames int) int {
	if width*height >= uhdPixelCount || totalFrames > longJobFrames {
		return 1
	}
	return 2
}
