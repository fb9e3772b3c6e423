// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sinkio_test

import (
	"context"
	"testing"
	"time"

	"code.hybscloud.com/sinkio"
)

// BenchmarkWriteFastPath measures a write that progresses on the first attempt.
func BenchmarkWriteFastPath(b *testing.B) {
	s := &fakeSink{write: func(_ int64, p []byte) (int, error) { return len(p), nil }}
	w, _ := sinkio.NewWriterTimeout(s, time.Second)
	p := make([]byte, 64)
	b.ReportAllocs()
	for b.Loop() {
		_, _ = w.Write(p)
	}
}

// BenchmarkWritevFastPath measures a gathering write on the first attempt.
func BenchmarkWritevFastPath(b *testing.B) {
	s := &fakeSink{writev: func(_ int64, bufs [][]byte) (int64, error) { return sinkio.Remaining(bufs), nil }}
	w, _ := sinkio.NewWriterTimeout(s, time.Second)
	bufs := [][]byte{make([]byte, 16), make([]byte, 48)}
	b.ReportAllocs()
	for b.Loop() {
		_, _ = w.Writev(bufs)
	}
}

// BenchmarkPipeWriteRead measures one chunk through the pipe, with the
// read on the same goroutine.
func BenchmarkPipeWriteRead(b *testing.B) {
	skipRace(b)
	r, pw := sinkio.NewPipe(4, 256)
	w := sinkio.NewWriter(pw)
	p := make([]byte, 256)
	buf := make([]byte, 256)
	b.ReportAllocs()
	for b.Loop() {
		_, _ = w.Write(p)
		_, _ = r.Read(buf)
	}
}

// BenchmarkExecWriteFlush measures a write+flush protocol through Exec.
func BenchmarkExecWriteFlush(b *testing.B) {
	s := &fakeSink{
		write: func(_ int64, p []byte) (int, error) { return len(p), nil },
		flush: func(int64) error { return nil },
	}
	w := sinkio.NewWriter(s)
	p := make([]byte, 64)
	ctx := context.Background()
	b.ReportAllocs()
	for b.Loop() {
		sinkio.Exec(ctx, w, sinkio.WriteThen(p, sinkio.FlushDone(struct{}{})))
	}
}

// BenchmarkExprWriteFlush measures the Expr-world equivalent.
func BenchmarkExprWriteFlush(b *testing.B) {
	s := &fakeSink{
		write: func(_ int64, p []byte) (int, error) { return len(p), nil },
		flush: func(int64) error { return nil },
	}
	w := sinkio.NewWriter(s)
	p := make([]byte, 64)
	ctx := context.Background()
	b.ReportAllocs()
	for b.Loop() {
		sinkio.ExecExpr[struct{}](ctx, w, sinkio.ExprWriteThen(p, sinkio.ExprFlushDone(struct{}{})))
	}
}
