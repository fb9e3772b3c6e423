// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sinkio provides a blocking write/flush bridge over non-blocking,
// readiness-notified byte sinks.
//
// A [Sink] never blocks on Write, WriteBuffers or Flush: it reports
// [code.hybscloud.com/iox.ErrWouldBlock] (or a zero count) instead, and exposes
// a separate readiness wait. A [Writer] turns that into the classic blocking
// contract with a bounded, live-reconfigurable timeout.
//
// # Architecture
//
//   - Fast path: every blocking call makes one non-blocking attempt first and returns on any progress.
//   - Slow path: on no progress, the call suspends on the sink's readiness wait for at most the
//     remaining budget, then re-attempts. The timeout is re-read on every iteration, so
//     [Writer.SetWriteTimeout] from another goroutine affects calls already in flight.
//   - Progress wins: once a write moves at least one byte it returns; callers loop
//     (or use [Writer.WriteAll]) to drain a whole payload.
//   - Errors: [ErrTimeout] when the budget is exhausted with no progress, [ErrInterrupted] on
//     context cancellation, sink errors unchanged.
//
// # Sinks
//
//   - [NewPipe]: bounded in-memory pipe on lock-free SPSC queues from [code.hybscloud.com/lfq].
//   - [NewFDSink] (linux): non-blocking file descriptor using writev(2) and poll(2).
//
// # Effects
//
// Sink operations are also available as algebraic effects on [code.hybscloud.com/kont]:
// [Write], [WriteBuffers] and [Flush]. A protocol runs blocking through a Writer
// with [Exec], or one effect at a time against a raw Sink with [Step] and [Advance],
// which suits a proactor loop.
//
// # Example
//
//	r, pw := sinkio.NewPipe(16, 4096)
//	w, _ := sinkio.NewWriterTimeout(pw, 2*time.Second)
//	go drain(r)
//	if _, err := w.WriteAll(ctx, payload); errors.Is(err, sinkio.ErrTimeout) {
//		// peer stalled
//	}
//	err := w.Flush()
package sinkio
