package opentrace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jewbetcha/opentrace/internal/encode"
	"github.com/jewbetcha/opentrace/internal/overlay"
	"github.com/jewbetcha/opentrace/internal/pipeline"
)

// TracerPoint is re-exported from the internal overlay package.
// See internal/overlay/timeline.go for full documentation.
type TracerPoint = overlay.Point

// RGB is re-exported from the internal overlay package.
type RGB = overlay.RGB

// Style is re-exported from the internal overlay package.
// See internal/overlay/style.go for full documentation.
type Style = overlay.Style

// GlowStyle selects the halo algorithm; see the Glow* constants.
type GlowStyle = overlay.GlowStyle

const (
	GlowLayered  = overlay.GlowLayered
	GlowGaussian = overlay.GlowGaussian
)

// Geometry is re-exported from the internal pipeline package.
// See internal/pipeline/geometry.go for full documentation.
type Geometry = pipeline.Geometry

// Result is re-exported from the internal pipeline package.
type Result = pipeline.Result

// Stats is re-exported from the internal pipeline package.
type Stats = pipeline.Stats

// ProgressFunc observes streaming progress; see pipeline.ProgressFunc.
type ProgressFunc = pipeline.ProgressFunc

// EncoderError is re-exported from the internal encode package. Returned
// (wrapped) when the external encoder exits with a non-success status;
// Detail carries its diagnostic output verbatim.
type EncoderError = encode.EncoderError

// Backend selects how frames reach the encoder.
type Backend = pipeline.Backend

const (
	// BackendPipe streams raw RGBA frames over the encoder's stdin.
	// Default.
	BackendPipe = pipeline.BackendPipe
	// BackendSequence writes PNG frames to disk first. Legacy fallback.
	BackendSequence = pipeline.BackendSequence
)

// DefaultStyle returns the stock tracer look: gold to orange-red
// gradient, width 4, glow 10.
func DefaultStyle() Style {
	return overlay.DefaultStyle()
}

// ParseHexColor parses a "#RRGGBB" color string.
func ParseHexColor(s string) (RGB, error) {
	return overlay.ParseHex(s)
}

// Config carries renderer-wide settings shared by all jobs.
// The zero value is production-ready.
type Config struct {
	// Backend selects the sink implementation. Default BackendPipe.
	Backend Backend
	// FFmpegPath overrides the encoder binary; empty means "ffmpeg"
	// from PATH.
	FFmpegPath string
	// ForceScale pins the supersampling factor (1 or 2). 0 lets the
	// policy decide from resolution and frame count.
	ForceScale int
	// Progress observes streaming progress; may be nil. Invoked at a
	// bounded rate with no effect on control flow.
	Progress ProgressFunc
}

// Job is one render request.
//
// Exactly one of Video and InputPath must be set: Video carries the
// source video bytes (written to a scratch file for the encoder),
// InputPath points at an existing file. Points, Geometry and Style are
// read-only for the job's duration.
type Job struct {
	// ID tags logs and errors. Empty means a generated UUID.
	ID string
	// Video is the source video content.
	Video []byte
	// InputPath is an existing source video file.
	InputPath string
	// Points is the tracked path, ordered by SourceFrame ascending.
	// Unsorted input is sorted (stably) on ingestion.
	Points []TracerPoint
	// Geometry fixes dimensions, frame rates and duration. Required.
	Geometry Geometry
	// Style fixes the tracer look. Zero value means DefaultStyle.
	Style Style
}

// Renderer runs render jobs. Safe for concurrent use: jobs share no
// state beyond the immutable config.
type Renderer struct {
	cfg Config
}

// New returns a renderer with the given configuration.
func New(cfg Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Render executes one job and returns the composited video.
//
// Semantics:
//   - Fail-fast: geometry and style are validated before any frame is
//     produced or any encoder process is started.
//   - Atomic: either Result carries the complete video, or an error is
//     returned and no video exists. No partial output, no retries.
//   - Blocking: returns when the encoder has exited. Cancel ctx to
//     abandon the job; the encoder is torn down and an error returned.
//
// An encoder failure unwraps to *EncoderError with the subprocess
// diagnostics verbatim.
func (r *Renderer) Render(ctx context.Context, job Job) (*Result, error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Style == (Style{}) {
		job.Style = DefaultStyle()
	}

	// Fail fast before any scratch file exists; the pipeline validates
	// again before opening the encoder.
	if err := job.Geometry.Validate(); err != nil {
		return nil, err
	}
	if err := job.Style.Validate(); err != nil {
		return nil, err
	}

	inputPath := job.InputPath
	switch {
	case len(job.Video) > 0 && inputPath != "":
		return nil, fmt.Errorf("opentrace: job %s sets both Video and InputPath", job.ID)
	case len(job.Video) == 0 && inputPath == "":
		return nil, fmt.Errorf("opentrace: job %s has no source video", job.ID)
	case len(job.Video) > 0:
		dir, err := os.MkdirTemp("", "opentrace-in-")
		if err != nil {
			return nil, fmt.Errorf("opentrace: creating input directory: %w", err)
		}
		defer os.RemoveAll(dir)
		inputPath = filepath.Join(dir, "input.mp4")
		if err := os.WriteFile(inputPath, job.Video, 0o600); err != nil {
			return nil, fmt.Errorf("opentrace: writing input video: %w", err)
		}
	}

	return pipeline.Run(ctx, pipeline.Config{
		Backend:    r.cfg.Backend,
		FFmpegPath: r.cfg.FFmpegPath,
		ForceScale: r.cfg.ForceScale,
		Progress:   r.cfg.Progress,
	}, pipeline.Job{
		ID:        job.ID,
		InputPath: inputPath,
		Points:    job.Points,
		Geometry:  job.Geometry,
		Style:     job.Style,
	})
}
