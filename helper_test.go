// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sinkio_test

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
	"code.hybscloud.com/sinkio"
)

// fakeSink is a scriptable Sink. Nil hooks mean: writes never progress,
// flush never completes, bounded waits sleep their full duration and
// unbounded waits block until ctx is done.
type fakeSink struct {
	write  func(call int64, p []byte) (int, error)
	writev func(call int64, bufs [][]byte) (int64, error)
	flush  func(call int64) error
	await  func(ctx context.Context, d time.Duration) error // d < 0: no deadline

	attempts  atomic.Int64
	flushes   atomic.Int64
	awaits    atomic.Int64
	unbounded atomic.Int64
	closes    atomic.Int64
	closed    atomic.Bool
}

func (s *fakeSink) Write(p []byte) (int, error) {
	call := s.attempts.Add(1)
	if s.write == nil {
		return 0, iox.ErrWouldBlock
	}
	return s.write(call, p)
}

func (s *fakeSink) WriteBuffers(bufs [][]byte) (int64, error) {
	call := s.attempts.Add(1)
	if s.writev == nil {
		return 0, nil
	}
	return s.writev(call, bufs)
}

func (s *fakeSink) Flush() error {
	call := s.flushes.Add(1)
	if s.flush == nil {
		return iox.ErrWouldBlock
	}
	return s.flush(call)
}

func (s *fakeSink) AwaitWritable(ctx context.Context) error {
	s.awaits.Add(1)
	s.unbounded.Add(1)
	if s.await != nil {
		return s.await(ctx, -1)
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *fakeSink) AwaitWritableTimeout(ctx context.Context, d time.Duration) error {
	s.awaits.Add(1)
	if s.await != nil {
		return s.await(ctx, d)
	}
	return sleepCtx(ctx, d)
}

func (s *fakeSink) IsOpen() bool { return !s.closed.Load() }

func (s *fakeSink) Close() error {
	s.closes.Add(1)
	s.closed.Store(true)
	return nil
}

// wakingSink is a fakeSink whose bounded waits end early on Wakeup.
type wakingSink struct {
	fakeSink
	wake chan struct{}
}

func newWakingSink() *wakingSink {
	s := &wakingSink{wake: make(chan struct{}, 1)}
	s.await = func(ctx context.Context, d time.Duration) error {
		t := time.NewTimer(max(d, 0))
		defer t.Stop()
		select {
		case <-t.C:
		case <-s.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	}
	return s
}

func (s *wakingSink) Wakeup() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// readAll drains r until io.EOF, spinning with iox.Backoff on ErrWouldBlock.
func readAll(r io.Reader) ([]byte, error) {
	var out []byte
	buf := make([]byte, 512)
	var bo iox.Backoff
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		switch {
		case err == io.EOF:
			return out, nil
		case iox.IsWouldBlock(err):
			bo.Wait()
		case err != nil:
			return out, err
		default:
			bo.Reset()
		}
	}
}

// execExpr drives a protocol to completion against s via Step+Advance,
// retrying on iox.ErrWouldBlock. Other errors are returned with the
// pending suspension discarded.
func execExpr[R any](s sinkio.Sink, protocol kont.Expr[R]) (R, error) {
	result, susp := sinkio.Step[R](protocol)
	var bo iox.Backoff
	for susp != nil {
		var err error
		result, susp, err = sinkio.Advance(s, susp)
		if iox.IsWouldBlock(err) {
			bo.Wait()
			continue
		}
		if err != nil {
			susp.Discard()
			var zero R
			return zero, err
		}
		bo.Reset()
	}
	return result, nil
}
