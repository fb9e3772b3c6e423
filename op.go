// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sinkio

import (
	"context"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// sinkDispatcher is the structural interface for sink operations.
// DispatchSink is non-blocking and returns iox.ErrWouldBlock when the sink
// cannot make progress. dispatchWriter blocks through a Writer.
type sinkDispatcher interface {
	DispatchSink(s Sink) (kont.Resumed, error)
	dispatchWriter(ctx context.Context, w *Writer) (kont.Resumed, error)
}

// Write is the effect operation for writing bytes.
// Perform(Write{Data: p}) resumes with the number of bytes written,
// which may be short.
type Write struct {
	kont.Phantom[int]
	Data []byte
}

// DispatchSink attempts one non-blocking write.
// An empty Data completes with 0.
func (op Write) DispatchSink(s Sink) (kont.Resumed, error) {
	if len(op.Data) == 0 {
		return 0, nil
	}
	n, err := s.Write(op.Data)
	if noProgress(int64(n), err) {
		return nil, iox.ErrWouldBlock
	}
	if err = settle(err); err != nil {
		return nil, err
	}
	return n, nil
}

func (op Write) dispatchWriter(ctx context.Context, w *Writer) (kont.Resumed, error) {
	n, err := w.WriteContext(ctx, op.Data)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// WriteBuffers is the effect operation for a gathering write.
// Perform(WriteBuffers{Bufs: bufs}) resumes with the int64 byte count.
type WriteBuffers struct {
	kont.Phantom[int64]
	Bufs [][]byte
}

// DispatchSink attempts one non-blocking gathering write.
func (op WriteBuffers) DispatchSink(s Sink) (kont.Resumed, error) {
	if !hasRemaining(op.Bufs) {
		return int64(0), nil
	}
	n, err := s.WriteBuffers(op.Bufs)
	if noProgress(n, err) {
		return nil, iox.ErrWouldBlock
	}
	if err = settle(err); err != nil {
		return nil, err
	}
	return n, nil
}

func (op WriteBuffers) dispatchWriter(ctx context.Context, w *Writer) (kont.Resumed, error) {
	n, err := w.WriteBuffersContext(ctx, op.Bufs, 0, len(op.Bufs))
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Flush is the effect operation for flushing the sink.
// Perform(Flush{}) resumes once the sink reports a full flush.
type Flush struct {
	kont.Phantom[struct{}]
}

// DispatchSink attempts one non-blocking flush.
// Returns iox.ErrWouldBlock while the flush is incomplete.
func (Flush) DispatchSink(s Sink) (kont.Resumed, error) {
	if err := s.Flush(); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

func (Flush) dispatchWriter(ctx context.Context, w *Writer) (kont.Resumed, error) {
	if err := w.FlushContext(ctx); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}
