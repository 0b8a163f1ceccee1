// Package encode owns the contract with the external video encoder.
//
// The encoder is an ffmpeg subprocess consuming two inputs: the original
// video file and a stream of raw straight-alpha RGBA overlay frames. It
// alpha-composites the overlay over the video frame for frame, in arrival
// order, copies the first audio stream unchanged, and produces one MP4.
// This package never reimplements any encoding; it only frames bytes into
// the subprocess and surfaces its verdict.
package encode

import "fmt"

// Sink is one render job's write-ordered channel into the encoder.
//
// Implementations must guarantee:
//   - WriteFrame consumes exactly one width*height*4 byte frame; frames
//     are temporally ordered by byte order alone, so callers must write
//     them strictly in sequence.
//   - WriteFrame may block while the encoder applies backpressure; there
//     is no internal reordering or buffering beyond the pipe's own.
//   - Finish signals end-of-input exactly once, waits for the encoder to
//     exit, and returns the full composited video bytes on success or an
//     *EncoderError on a non-success exit. No partial output is ever
//     returned.
//   - Close releases the sink's resources; idempotent and safe to call
//     after a failed WriteFrame or Finish.
type Sink interface {
	WriteFrame(pix []byte) error
	Finish() ([]byte, error)
	Close() error
}

// EncoderError reports a non-success exit from the external encoder. The
// encoder's diagnostic output is carried verbatim as the sole failure
// detail.
type EncoderError struct {
	JobID  string
	Detail string
	Err    error
}

func (e *EncoderError) Error() string {
	return fmt.Sprintf("encode: encoder failed (job %s): %s", e.JobID, e.Detail)
}

func (e *EncoderError) Unwrap() error {
	return e.Err
}

// Options configures a sink for one render job.
type Options struct {
	// JobID tags logs and errors; informational only.
	JobID string
	// InputPath is the original video file, the encoder's first input.
	InputPath string
	// OutputPath is where the encoder writes the composited video.
	OutputPath string
	// Width and Height are the overlay frame dimensions in pixels.
	Width, Height int
	// FPS is the output frame rate the overlay stream is declared at.
	FPS float64
	// FFmpegPath overrides the encoder binary; empty means "ffmpeg" from
	// PATH.
	FFmpegPath string
}

func (o Options) ffmpeg() string {
	if o.FFmpegPath != "" {
		return o.FFmpegPath
	}
	return "ffmpeg"
}

func (o Options) frameSize() int {
	return o.Width * o.Height * 4
}

// overlayFilter composites the overlay stream ([1:v]) over the source
// video ([0:v]) pixel for pixel.
const overlayFilter = "[0:v][1:v]overlay=0:0:format=auto[out]"

// outputArgs are the fixed encoding parameters of the composited video:
// H.264 at CRF 18, web-ready faststart layout, audio copied from the
// source's first audio stream if present.
func outputArgs(fps float64, outputPath string) []string {
	return []string{
		"-filter_complex", overlayFilter,
		"-map", "[out]",
		"-map", "0:a?",
		"-c:a", "copy",
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "18",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		"-r", formatFPS(fps),
		"-y",
		outputPath,
	}
}

func formatFPS(fps float64) string {
	return fmt.Sprintf("%g", fps)
}
