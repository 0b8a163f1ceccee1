package pipeline

import (
	"context"
	"fmt"

	"github.com/jewbetcha/opentrace/internal/encode"
	"github.com/jewbetcha/opentrace/internal/overlay"
)

// ProgressFunc observes streaming progress. Invoked at a bounded rate
// (roughly every 2% of the job, plus the final frame) from the producer
// goroutine. Must not block for long; it has no effect on control flow.
type ProgressFunc func(framesDone, framesTotal int)

// frameStream produces every output frame in strict order and writes each
// raw pixel buffer into the sink.
//
// There is no producer goroutine pool and no reordering buffer: frames
// are generated and transmitted one at a time, and a blocked sink write
// simply stalls production. That single-threaded coupling is what makes
// byte order equal temporal order on the wire.
type frameStream struct {
	ras      *overlay.Rasterizer
	cursor   *overlay.Cursor
	fpsScale float64
	total    int
	progress ProgressFunc

	framesWritten int
	emptyFrames   int
	bytesWritten  int64
}

// run streams frames 0..total-1 into sink. Context cancellation between
// frames aborts the job; the sink's own Close handles encoder teardown.
func (f *frameStream) run(ctx context.Context, sink encode.Sink) error {
	every := f.total / 50
	if every < 1 {
		every = 1
	}

	for i := 0; i < f.total; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("pipeline: streaming aborted at frame %d: %w", i, ctx.Err())
		default:
		}

		cutoff := overlay.SourceIndex(i, f.fpsScale)
		visible := f.cursor.Advance(cutoff)

		// Leading frames with no visible trail dominate many jobs; they
		// reuse the rasterizer's shared transparent buffer instead of
		// rendering anything.
		frame := f.ras.Render(visible)
		if len(visible) < 2 {
			f.emptyFrames++
		}

		if err := sink.WriteFrame(frame.Pix); err != nil {
			return fmt.Errorf("pipeline: frame %d: %w", i, err)
		}
		f.framesWritten++
		f.bytesWritten += int64(len(frame.Pix))

		if f.progress != nil && ((i+1)%every == 0 || i == f.total-1) {
			f.progress(i+1, f.total)
		}
	}
	return nil
}
