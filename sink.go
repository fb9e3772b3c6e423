// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sinkio

import (
	"context"
	"errors"
	"time"

	"code.hybscloud.com/iox"
)

// Sink is a non-blocking destination for outbound bytes with writability
// notification.
//
// Write, WriteBuffers and Flush must never block. When a write cannot accept
// any byte it returns either (0, nil) or (0, iox.ErrWouldBlock). Flush returns
// nil once everything is flushed and iox.ErrWouldBlock while it is not.
//
// AwaitWritable suspends the caller until the sink is writable.
// AwaitWritableTimeout does the same for at most d and does not report which
// of the two happened. Both return the context's error when ctx is done.
type Sink interface {
	Write(p []byte) (n int, err error)
	WriteBuffers(bufs [][]byte) (n int64, err error)
	Flush() error
	AwaitWritable(ctx context.Context) error
	AwaitWritableTimeout(ctx context.Context, d time.Duration) error
	IsOpen() bool
	Close() error
}

// Waker is implemented by sinks whose readiness waits can be cut short.
// Writer calls Wakeup after a timeout change so that a call suspended under
// the old budget re-reads the new one. A Wakeup with no wait in progress
// must end the next wait, since the caller may have read the old budget
// just before the change.
type Waker interface {
	Wakeup()
}

// noProgress reports whether a non-blocking attempt moved nothing and
// should be retried after a readiness wait.
func noProgress(n int64, err error) bool {
	if n > 0 {
		return false
	}
	return err == nil || iox.IsWouldBlock(err)
}

// settle drops the iox extended results that only signal scheduling,
// leaving real failures.
func settle(err error) error {
	if err == nil || iox.IsWouldBlock(err) || errors.Is(err, iox.ErrMore) {
		return nil
	}
	return err
}
