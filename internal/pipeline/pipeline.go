// Package pipeline orchestrates one render job end to end: timeline
// remapping, overlay rasterization, and streaming composition through the
// external encoder.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jewbetcha/opentrace/internal/encode"
	"github.com/jewbetcha/opentrace/internal/overlay"
)

// Backend selects the sink implementation frames are delivered through.
type Backend int

const (
	// BackendPipe streams raw RGBA frames into the encoder's stdin.
	BackendPipe Backend = iota
	// BackendSequence writes PNG frames to disk and composites at the
	// end. Legacy fallback; same encoder contract.
	BackendSequence
)

// state tracks a job through its lifecycle. Transitions are linear:
// Idle -> Streaming -> Finalizing -> Succeeded | Failed.
type state int

const (
	stateIdle state = iota
	stateStreaming
	stateFinalizing
	stateSucceeded
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateStreaming:
		return "streaming"
	case stateFinalizing:
		return "finalizing"
	case stateSucceeded:
		return "succeeded"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Config carries per-pipeline knobs shared by all jobs run through it.
// The zero value is production-ready.
type Config struct {
	// Backend selects the sink implementation. Default BackendPipe.
	Backend Backend
	// FFmpegPath overrides the encoder binary; empty means PATH lookup.
	FFmpegPath string
	// ForceScale pins the supersampling factor. 0 delegates to the
	// policy.
	ForceScale int
	// ChooseScale replaces the default supersampling policy. Receives
	// output width, height and total frame count; must return >= 1.
	ChooseScale func(width, height, totalFrames int) int
	// Progress observes streaming progress; may be nil.
	Progress ProgressFunc
	// OpenSink replaces sink construction. Nil means the Backend field
	// decides. Exists for custom backends and tests.
	OpenSink func(ctx context.Context, opts encode.Options) (encode.Sink, error)
}

// Job is one render request: a source video on disk, a point track and
// the style/geometry to render it with. All fields are read-only for the
// job's duration.
type Job struct {
	// ID tags logs and errors. Informational only.
	ID string
	// InputPath is the source video file.
	InputPath string
	// Points is the tracked path, ordered by SourceFrame ascending.
	// Unsorted input is sorted (stably) on ingestion.
	Points []overlay.Point
	// Geometry fixes dimensions, frame rates and duration.
	Geometry Geometry
	// Style fixes the tracer look.
	Style overlay.Style
}

// Stats is a snapshot of one completed (or failed) job.
type Stats struct {
	FramesTotal   int
	FramesWritten int
	EmptyFrames   int
	BytesWritten  int64
	Scale         int
	Elapsed       time.Duration
}

// Result is a successful job's output.
type Result struct {
	// Video is the complete composited video. Never partial.
	Video []byte
	Stats Stats
}

// Run executes one render job to completion. Atomic from the caller's
// view: either the full composited video comes back, or an error and no
// video. No retries happen at this layer.
func Run(ctx context.Context, cfg Config, job Job) (*Result, error) {
	if err := job.Geometry.Validate(); err != nil {
		return nil, err
	}
	if err := job.Style.Validate(); err != nil {
		return nil, err
	}
	if job.InputPath == "" {
		return nil, fmt.Errorf("pipeline: input path is required")
	}
	if !sort.SliceIsSorted(job.Points, pointsLess(job.Points)) {
		sort.SliceStable(job.Points, pointsLess(job.Points))
	}

	geom := job.Geometry
	total := geom.TotalFrames()
	if total == 0 {
		return nil, fmt.Errorf("pipeline: duration %.2fs at %.2f fps yields no frames", geom.Duration, geom.OutputFPS)
	}
	scale := cfg.ForceScale
	if scale < 1 {
		choose := cfg.ChooseScale
		if choose == nil {
			choose = overlay.ChooseScale
		}
		scale = choose(geom.Width, geom.Height, total)
		if scale < 1 {
			scale = 1
		}
	}

	st := stateIdle
	started := time.Now()
	slog.Info("pipeline: starting render",
		"job_id", job.ID,
		"frames", total,
		"size", fmt.Sprintf("%dx%d", geom.Width, geom.Height),
		"fps_scale", geom.FPSScale(),
		"supersample", scale,
		"points", len(job.Points),
	)

	outDir, err := os.MkdirTemp("", "opentrace-out-")
	if err != nil {
		return nil, fmt.Errorf("pipeline: creating output directory: %w", err)
	}
	defer os.RemoveAll(outDir)

	sink, err := openSink(ctx, cfg, encode.Options{
		JobID:      job.ID,
		InputPath:  job.InputPath,
		OutputPath: filepath.Join(outDir, "output.mp4"),
		Width:      geom.Width,
		Height:     geom.Height,
		FPS:        geom.OutputFPS,
		FFmpegPath: cfg.FFmpegPath,
	})
	if err != nil {
		return nil, err
	}
	defer sink.Close()

	st = stateStreaming
	stream := &frameStream{
		ras:      overlay.NewRasterizer(geom.Width, geom.Height, scale, job.Style),
		cursor:   overlay.NewCursor(job.Points),
		fpsScale: geom.FPSScale(),
		total:    total,
		progress: cfg.Progress,
	}
	if err := stream.run(ctx, sink); err != nil {
		st = stateFailed
		slog.Error("pipeline: render failed", "job_id", job.ID, "state", st.String(), "error", err)
		return nil, err
	}

	st = stateFinalizing
	video, err := sink.Finish()
	if err != nil {
		st = stateFailed
		slog.Error("pipeline: render failed", "job_id", job.ID, "state", st.String(), "error", err)
		return nil, err
	}

	st = stateSucceeded
	stats := Stats{
		FramesTotal:   total,
		FramesWritten: stream.framesWritten,
		EmptyFrames:   stream.emptyFrames,
		BytesWritten:  stream.bytesWritten,
		Scale:         scale,
		Elapsed:       time.Since(started),
	}
	slog.Info("pipeline: render complete",
		"job_id", job.ID,
		"state", st.String(),
		"frames", stats.FramesWritten,
		"empty_frames", stats.EmptyFrames,
		"bytes", stats.BytesWritten,
		"elapsed", stats.Elapsed,
		"output_bytes", len(video),
	)
	return &Result{Video: video, Stats: stats}, nil
}

func openSink(ctx context.Context, cfg Config, opts encode.Options) (encode.Sink, error) {
	if cfg.OpenSink != nil {
		return cfg.OpenSink(ctx, opts)
	}
	switch cfg.Backend {
	case BackendSequence:
		return encode.NewSequenceSink(ctx, opts)
	default:
		return encode.NewPipeSink(ctx, opts)
	}
}

func pointsLess(points []overlay.Point) func(i, j int) bool {
	return func(i, j int) bool {
		return points[i].SourceFrame < points[j].SourceFrame
	}
}
