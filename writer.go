// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sinkio

import (
	"context"
	"errors"
	"io"
	"math"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

// noTimeout is the stored value meaning "wait without deadline".
// math.MaxInt64 is accepted as a synonym.
const noTimeout = 0

// Writer is a blocking write/flush bridge over a non-blocking Sink.
//
// Writes return as soon as at least one byte has been written, or fail with
// a *TimeoutError once the write timeout elapses with nothing written.
// Flush returns once the sink reports a full flush, under the same timeout.
//
// The timeout may be changed from any goroutine at any time; calls in flight
// see the new value on their next iteration. Concurrent writers on one Writer
// are serialized by nobody: the sink's own rules apply.
type Writer struct {
	sink    Sink
	timeout atomix.Int64 // nanoseconds; 0 or math.MaxInt64 means no deadline
}

var _ io.WriteCloser = (*Writer)(nil)

// NewWriter returns a Writer over s that waits without deadline.
// s must already be open. The Writer does not own s beyond forwarding Close.
func NewWriter(s Sink) *Writer {
	return &Writer{sink: s}
}

// NewWriterTimeout returns a Writer over s with write timeout d.
// Zero means no deadline. Negative d fails with ErrInvalidArgument.
func NewWriterTimeout(s Sink, d time.Duration) (*Writer, error) {
	if d < 0 {
		return nil, errNegativeTimeout
	}
	w := &Writer{sink: s}
	w.timeout.Store(int64(d))
	return w, nil
}

// SetWriteTimeout sets the timeout shared by writes and flushes.
// Zero means no deadline. Negative d fails with ErrInvalidArgument and
// leaves the current setting alone.
func (w *Writer) SetWriteTimeout(d time.Duration) error {
	if d < 0 {
		return errNegativeTimeout
	}
	w.storeTimeout(int64(d))
	return nil
}

// SetWriteTimeoutIn sets the timeout to v units. An overflowing product
// saturates to "no deadline"; a positive v never collapses to zero.
func (w *Writer) SetWriteTimeoutIn(v int64, unit time.Duration) error {
	ns, err := timeoutNanos(v, unit)
	if err != nil {
		return err
	}
	w.storeTimeout(ns)
	return nil
}

// WriteTimeout returns the current setting. Zero means no deadline.
func (w *Writer) WriteTimeout() time.Duration {
	t := w.timeout.LoadAcquire()
	if t == math.MaxInt64 {
		return noTimeout
	}
	return time.Duration(t)
}

func (w *Writer) storeTimeout(ns int64) {
	w.timeout.StoreRelease(ns)
	if wk, ok := w.sink.(Waker); ok {
		wk.Wakeup()
	}
}

func timeoutNanos(v int64, unit time.Duration) (int64, error) {
	if v < 0 {
		return 0, errNegativeTimeout
	}
	if v == 0 {
		return noTimeout, nil
	}
	if unit <= 0 {
		return 0, errTimeoutUnit
	}
	if v > math.MaxInt64/int64(unit) {
		return math.MaxInt64, nil
	}
	return max(v*int64(unit), 1), nil
}

// Write writes from p, blocking until at least one byte is written.
// It returns 0 at once if p is empty.
func (w *Writer) Write(p []byte) (int, error) {
	return w.WriteContext(context.Background(), p)
}

// WriteContext is Write with a context whose cancellation interrupts the
// readiness wait with an *InterruptedError.
func (w *Writer) WriteContext(ctx context.Context, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := w.sink.Write(p)
	if !noProgress(int64(n), err) {
		return n, settle(err)
	}
	start := time.Now()
	for {
		if err := w.await(ctx, opWrite, start); err != nil {
			return 0, err
		}
		n, err = w.sink.Write(p)
		if !noProgress(int64(n), err) {
			return n, settle(err)
		}
	}
}

// Writev is WriteBuffers over all of bufs.
func (w *Writer) Writev(bufs [][]byte) (int64, error) {
	return w.WriteBuffersContext(context.Background(), bufs, 0, len(bufs))
}

// WriteBuffers performs a gathering write from bufs[offset:offset+length],
// blocking until at least one byte is written. It returns 0 at once if the
// range holds no bytes.
func (w *Writer) WriteBuffers(bufs [][]byte, offset, length int) (int64, error) {
	return w.WriteBuffersContext(context.Background(), bufs, offset, length)
}

// WriteBuffersContext is WriteBuffers with an interrupting context.
func (w *Writer) WriteBuffersContext(ctx context.Context, bufs [][]byte, offset, length int) (int64, error) {
	if offset < 0 || length < 0 || offset > len(bufs)-length {
		return 0, errBufferRange
	}
	srcs := bufs[offset : offset+length]
	if !hasRemaining(srcs) {
		return 0, nil
	}
	n, err := w.sink.WriteBuffers(srcs)
	if !noProgress(n, err) {
		return n, settle(err)
	}
	start := time.Now()
	for {
		if err := w.await(ctx, opWrite, start); err != nil {
			return 0, err
		}
		n, err = w.sink.WriteBuffers(srcs)
		if !noProgress(n, err) {
			return n, settle(err)
		}
	}
}

// Flush blocks until the sink reports everything flushed.
func (w *Writer) Flush() error {
	return w.FlushContext(context.Background())
}

// FlushContext is Flush with an interrupting context.
func (w *Writer) FlushContext(ctx context.Context) error {
	err := w.sink.Flush()
	if !iox.IsWouldBlock(err) {
		return err
	}
	start := time.Now()
	for {
		if err := w.await(ctx, opFlush, start); err != nil {
			return err
		}
		if err = w.sink.Flush(); !iox.IsWouldBlock(err) {
			return err
		}
	}
}

// WriteAll writes all of p, looping over partial writes. It stops at the
// first error and reports how much was written before it.
func (w *Writer) WriteAll(ctx context.Context, p []byte) (int, error) {
	written := 0
	for written < len(p) {
		n, err := w.WriteContext(ctx, p[written:])
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// IsOpen reports whether the sink is open.
func (w *Writer) IsOpen() bool {
	return w.sink.IsOpen()
}

// Close closes the sink.
func (w *Writer) Close() error {
	return w.sink.Close()
}

// await performs one readiness wait of a retry loop started at start, or
// fails with a *TimeoutError when the budget read now is already spent.
func (w *Writer) await(ctx context.Context, op string, start time.Time) error {
	if err := ctx.Err(); err != nil {
		return &InterruptedError{Op: op, Err: err}
	}
	var err error
	timeout := w.timeout.LoadAcquire()
	if timeout == noTimeout || timeout == math.MaxInt64 {
		err = w.sink.AwaitWritable(ctx)
	} else {
		elapsed := time.Since(start)
		if int64(elapsed) >= timeout {
			return &TimeoutError{Op: op, Limit: time.Duration(timeout), Elapsed: elapsed}
		}
		err = w.sink.AwaitWritableTimeout(ctx, time.Duration(timeout)-elapsed)
	}
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return &InterruptedError{Op: op, Err: err}
	}
	return err
}
