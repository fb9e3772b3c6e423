// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sinkio

import (
	"context"
	"io"
	"math/bits"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

const (
	// DefaultPipeCapacity is the number of chunks a pipe holds when
	// NewPipe is given a non-positive capacity.
	DefaultPipeCapacity = 16
	// DefaultPipeChunkSize is the largest chunk a single write enqueues
	// when NewPipe is given a non-positive chunk size.
	DefaultPipeChunkSize = 4096
)

// pipe holds both ends, the chunk queue and the shared counters in a
// single allocation.
type pipe struct {
	r         PipeReader
	w         PipeWriter
	q         lfq.SPSC[[]byte]
	capacity  int64
	chunkSize int
	pending   atomix.Int64  // enqueued chunks not yet taken by the reader
	wclosed   atomix.Uint32 // writer closed: reader sees io.EOF once drained
	rclosed   atomix.Uint32 // reader closed: writes fail
	flushing  atomix.Uint32 // an incomplete flush is owed
	wake      atomix.Uint32 // set by Wakeup, taken by the next readiness wait
}

// NewPipe creates a bounded in-memory pipe. At most capacity chunks of at
// most chunkSize bytes each are in flight.
//
// The pipe is single-producer single-consumer: one goroutine writes
// through the PipeWriter and one reads through the PipeReader.
// Both ends are non-blocking; wrap the writer in a Writer for blocking writes.
func NewPipe(capacity, chunkSize int) (*PipeReader, *PipeWriter) {
	if capacity <= 0 {
		capacity = DefaultPipeCapacity
	}
	if chunkSize <= 0 {
		chunkSize = DefaultPipeChunkSize
	}
	p := &pipe{capacity: int64(capacity), chunkSize: chunkSize}
	// Queue size is a power of two of at least 2; pending enforces the
	// exact capacity.
	p.q.Init(max(2, 1<<bits.Len(uint(capacity-1))))
	p.r.p = p
	p.w.p = p
	return &p.r, &p.w
}

// PipeWriter is the Sink end of a pipe.
type PipeWriter struct {
	p *pipe
}

var (
	_ Sink  = (*PipeWriter)(nil)
	_ Waker = (*PipeWriter)(nil)
)

func (w *PipeWriter) closed() bool {
	return w.p.wclosed.Load() != 0 || w.p.rclosed.Load() != 0
}

// Write enqueues up to one chunk copied from b.
// Returns iox.ErrWouldBlock when the pipe is full.
func (w *PipeWriter) Write(b []byte) (int, error) {
	if w.closed() {
		return 0, io.ErrClosedPipe
	}
	if len(b) == 0 {
		return 0, nil
	}
	chunk := make([]byte, min(len(b), w.p.chunkSize))
	n := copy(chunk, b)
	if err := w.enqueue(chunk); err != nil {
		return 0, err
	}
	return n, nil
}

// WriteBuffers gathers up to one chunk from bufs.
// Returns iox.ErrWouldBlock when the pipe is full.
func (w *PipeWriter) WriteBuffers(bufs [][]byte) (int64, error) {
	if w.closed() {
		return 0, io.ErrClosedPipe
	}
	chunk := gather(bufs, w.p.chunkSize)
	if len(chunk) == 0 {
		return 0, nil
	}
	if err := w.enqueue(chunk); err != nil {
		return 0, err
	}
	return int64(len(chunk)), nil
}

// enqueue counts the chunk before publishing it, so pending never
// under-reports what the reader has yet to take. A write attempt drops
// any flush left owed by an abandoned Flush.
func (w *PipeWriter) enqueue(chunk []byte) error {
	w.p.flushing.Store(0)
	if w.p.pending.Add(1) > w.p.capacity {
		w.p.pending.Add(-1)
		return iox.ErrWouldBlock
	}
	if err := w.p.q.Enqueue(&chunk); err != nil {
		w.p.pending.Add(-1)
		return err
	}
	return nil
}

// Flush completes once the reader has taken every chunk.
// Returns iox.ErrWouldBlock until then.
func (w *PipeWriter) Flush() error {
	if w.closed() {
		return io.ErrClosedPipe
	}
	if w.p.pending.Load() > 0 {
		w.p.flushing.Store(1)
		return iox.ErrWouldBlock
	}
	w.p.flushing.Store(0)
	return nil
}

// ready reports whether the next attempt can progress. While a flush is
// owed that means a drained pipe; otherwise room for one chunk.
// A closed pipe is always ready so the next attempt reports it.
func (w *PipeWriter) ready() bool {
	if w.closed() {
		return true
	}
	if w.p.flushing.Load() != 0 {
		return w.p.pending.Load() == 0
	}
	return w.p.pending.Load() < w.p.capacity
}

// AwaitWritable waits with adaptive backoff until the pipe is ready,
// ctx is done, or Wakeup is called.
func (w *PipeWriter) AwaitWritable(ctx context.Context) error {
	return w.await(ctx, time.Time{})
}

// AwaitWritableTimeout is AwaitWritable bounded by d.
func (w *PipeWriter) AwaitWritableTimeout(ctx context.Context, d time.Duration) error {
	return w.await(ctx, time.Now().Add(d))
}

func (w *PipeWriter) await(ctx context.Context, deadline time.Time) error {
	var bo iox.Backoff
	for !w.ready() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if w.p.wake.Swap(0) != 0 {
			return nil
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return nil
		}
		bo.Wait()
	}
	return nil
}

// Wakeup ends the readiness wait in progress, or the next one to start
// if none is.
func (w *PipeWriter) Wakeup() {
	w.p.wake.Store(1)
}

// IsOpen reports whether neither end has been closed.
func (w *PipeWriter) IsOpen() bool {
	return !w.closed()
}

// Close closes the writing end. The reader drains what is queued and
// then sees io.EOF. Closing twice is harmless.
func (w *PipeWriter) Close() error {
	w.p.wclosed.Store(1)
	return nil
}

// PipeReader is the receiving end of a pipe.
type PipeReader struct {
	p   *pipe
	rem []byte
}

var _ io.ReadCloser = (*PipeReader)(nil)

// Read copies queued bytes into b without blocking.
// Returns iox.ErrWouldBlock when nothing is queued, and io.EOF once the
// writer has closed and everything has been read.
func (r *PipeReader) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	if len(r.rem) == 0 {
		// Observe close before dequeueing: a chunk enqueued before
		// the close is then still found.
		closed := r.p.wclosed.Load() != 0
		chunk, err := r.p.q.Dequeue()
		if err != nil {
			if closed {
				return 0, io.EOF
			}
			return 0, iox.ErrWouldBlock
		}
		r.p.pending.Add(-1)
		r.rem = chunk
	}
	n := copy(b, r.rem)
	r.rem = r.rem[n:]
	return n, nil
}

// Buffered returns the number of chunks queued, excluding a partially
// read one.
func (r *PipeReader) Buffered() int {
	return int(max(r.p.pending.Load(), 0))
}

// Close closes the reading end. Subsequent writes and flushes fail with
// io.ErrClosedPipe.
func (r *PipeReader) Close() error {
	r.p.rclosed.Store(1)
	return nil
}
