package encode

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// SequenceSink is the legacy sink backend: each overlay frame is written
// as a transparent PNG into a scratch directory and the encoder reads the
// sequence as its second input when Finish runs.
//
// Slower and disk-bound compared to PipeSink, but easier to inspect (the
// frames survive as files until Close) and independent of pipe semantics.
// The encoder contract and output parameters are identical.
type SequenceSink struct {
	ctx      context.Context
	opts     Options
	dir      string
	next     int
	finished bool
	closed   bool
}

// NewSequenceSink creates the frame directory and returns the sink. The
// encoder itself only runs at Finish time, once all frames exist.
func NewSequenceSink(ctx context.Context, opts Options) (*SequenceSink, error) {
	if _, err := exec.LookPath(opts.ffmpeg()); err != nil {
		return nil, fmt.Errorf("encode: encoder binary not found: %w", err)
	}
	dir, err := os.MkdirTemp("", "opentrace-overlays-")
	if err != nil {
		return nil, fmt.Errorf("encode: creating overlay directory: %w", err)
	}
	return &SequenceSink{ctx: ctx, opts: opts, dir: dir}, nil
}

// WriteFrame encodes one raw frame as overlay%06d.png. Frame order is the
// file-name order, so writes must be strictly sequential here too.
func (s *SequenceSink) WriteFrame(pix []byte) error {
	if len(pix) != s.opts.frameSize() {
		return fmt.Errorf("encode: frame is %d bytes, want %d", len(pix), s.opts.frameSize())
	}
	img := &image.NRGBA{
		Pix:    pix,
		Stride: s.opts.Width * 4,
		Rect:   image.Rect(0, 0, s.opts.Width, s.opts.Height),
	}
	path := filepath.Join(s.dir, fmt.Sprintf("overlay%06d.png", s.next))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("encode: creating overlay frame: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode: encoding overlay frame: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("encode: closing overlay frame: %w", err)
	}
	s.next++
	return nil
}

// Finish runs the encoder over the accumulated sequence and reads back
// the composited video.
func (s *SequenceSink) Finish() ([]byte, error) {
	if s.finished {
		return nil, fmt.Errorf("encode: sink already finished (job %s)", s.opts.JobID)
	}
	s.finished = true

	args := []string{
		"-i", s.opts.InputPath,
		"-framerate", formatFPS(s.opts.FPS),
		"-i", filepath.Join(s.dir, "overlay%06d.png"),
	}
	args = append(args, outputArgs(s.opts.FPS, s.opts.OutputPath)...)

	cmd := exec.CommandContext(s.ctx, s.opts.ffmpeg(), args...)
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	slog.Debug("encode: compositing frame sequence",
		"job_id", s.opts.JobID,
		"frames", s.next,
		"dir", s.dir,
	)

	if err := cmd.Run(); err != nil {
		return nil, &EncoderError{JobID: s.opts.JobID, Detail: stderr.String(), Err: err}
	}
	out, err := os.ReadFile(s.opts.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("encode: reading encoder output: %w", err)
	}
	return out, nil
}

// Close removes the frame directory. Idempotent.
func (s *SequenceSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return os.RemoveAll(s.dir)
}
