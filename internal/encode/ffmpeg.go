package encode

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
)

// PipeSink streams raw RGBA frames into ffmpeg's stdin.
//
// This is the converged sink design: no frame ever touches the disk, the
// pipe's own buffering provides backpressure, and peak memory stays at a
// few raw frames regardless of job length.
type PipeSink struct {
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stderr    *bytes.Buffer
	opts      Options
	frameSize int
	finished  bool
	closed    bool
}

// pipeArgs builds the full ffmpeg invocation for the pipe backend. The
// original video is input 0, the rawvideo stream on stdin is input 1.
func pipeArgs(o Options) []string {
	args := []string{
		"-i", o.InputPath,
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", o.Width, o.Height),
		"-framerate", formatFPS(o.FPS),
		"-i", "pipe:0",
	}
	return append(args, outputArgs(o.FPS, o.OutputPath)...)
}

// NewPipeSink starts the encoder subprocess and returns its open input
// channel. The returned sink is owned by exactly one render job and must
// be finished or closed exactly once.
func NewPipeSink(ctx context.Context, opts Options) (*PipeSink, error) {
	if _, err := exec.LookPath(opts.ffmpeg()); err != nil {
		return nil, fmt.Errorf("encode: encoder binary not found: %w", err)
	}

	cmd := exec.CommandContext(ctx, opts.ffmpeg(), pipeArgs(opts)...)
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("encode: stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("encode: starting encoder: %w", err)
	}

	slog.Debug("encode: encoder started",
		"job_id", opts.JobID,
		"input", opts.InputPath,
		"size", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"fps", opts.FPS,
	)

	return &PipeSink{
		cmd:       cmd,
		stdin:     stdin,
		stderr:    stderr,
		opts:      opts,
		frameSize: opts.frameSize(),
	}, nil
}

// WriteFrame sends one raw frame down the pipe. Blocks while the encoder
// applies backpressure.
func (p *PipeSink) WriteFrame(pix []byte) error {
	if len(pix) != p.frameSize {
		return fmt.Errorf("encode: frame is %d bytes, want %d", len(pix), p.frameSize)
	}
	if _, err := p.stdin.Write(pix); err != nil {
		return fmt.Errorf("encode: writing frame: %w", err)
	}
	return nil
}

// Finish half-closes the pipe, waits for the encoder to exit, and reads
// back the composited video. A non-success exit surfaces the encoder's
// stderr verbatim as an *EncoderError.
func (p *PipeSink) Finish() ([]byte, error) {
	if p.finished {
		return nil, fmt.Errorf("encode: sink already finished (job %s)", p.opts.JobID)
	}
	p.finished = true

	if err := p.stdin.Close(); err != nil {
		return nil, fmt.Errorf("encode: closing encoder input: %w", err)
	}
	if err := p.cmd.Wait(); err != nil {
		return nil, &EncoderError{JobID: p.opts.JobID, Detail: p.stderr.String(), Err: err}
	}

	out, err := os.ReadFile(p.opts.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("encode: reading encoder output: %w", err)
	}
	return out, nil
}

// Close tears the sink down without collecting a result. Idempotent; used
// on the failure path so an abandoned encoder never outlives its job.
func (p *PipeSink) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if !p.finished {
		p.stdin.Close()
		p.cmd.Process.Kill()
		p.cmd.Wait()
	}
	return nil
}
