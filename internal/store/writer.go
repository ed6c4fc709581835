// internal/store/writer.go
package store

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/softphys/api/schemas"
)

// DefaultBatchSize is the number of frames buffered before a copy.
const DefaultBatchSize = 120

// FrameWriter buffers the snapshots of one session and persists them in batches.
// It is not safe for concurrent use.
type FrameWriter struct {
	store     *Store
	sessionID string
	size      int
	buf       []schemas.FrameSnapshot
	written   int
	onClose   func()
}

// NewFrameWriter returns a writer for sessionID. A non-positive batchSize uses DefaultBatchSize.
func (s *Store) NewFrameWriter(sessionID string, batchSize int) *FrameWriter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &FrameWriter{
		store:     s,
		sessionID: sessionID,
		size:      batchSize,
		buf:       make([]schemas.FrameSnapshot, 0, batchSize),
	}
}

// Write buffers one snapshot and flushes once the batch is full.
func (w *FrameWriter) Write(ctx context.Context, snap schemas.FrameSnapshot) error {
	w.buf = append(w.buf, snap)
	if len(w.buf) >= w.size {
		return w.Flush(ctx)
	}
	return nil
}

// Flush persists whatever is buffered.
func (w *FrameWriter) Flush(ctx context.Context) error {
	if len(w.buf) == 0 {
		return nil
	}
	if err := w.store.PersistFrames(ctx, w.sessionID, w.buf); err != nil {
		return err
	}
	w.written += len(w.buf)
	w.buf = w.buf[:0]
	return nil
}

// Drain writes snapshots until frames is closed, then flushes the remainder.
func (w *FrameWriter) Drain(ctx context.Context, frames <-chan schemas.FrameSnapshot) error {
	for snap := range frames {
		if err := w.Write(ctx, snap); err != nil {
			return fmt.Errorf("persisting frame %d: %w", snap.Frame, err)
		}
	}
	return w.Flush(ctx)
}

// OnClose registers fn to run on Close, typically releasing the pool.
func (w *FrameWriter) OnClose(fn func()) *FrameWriter {
	w.onClose = fn
	return w
}

// Close runs the registered release function once. Buffered frames are not flushed.
func (w *FrameWriter) Close() {
	if w.onClose != nil {
		w.onClose()
		w.onClose = nil
	}
}

// Written reports how many frames have been committed.
func (w *FrameWriter) Written() int { return w.written }
