// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package sinkio

import (
	"context"
	"os"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"golang.org/x/sys/unix"
)

const (
	// iovMax bounds a single writev(2).
	iovMax = 1024
	// pollSlice bounds a single poll(2) so a done context is noticed.
	pollSlice = 50 * time.Millisecond
)

// FDSink is a Sink over a non-blocking file descriptor: a socket, a pipe
// or a character device.
type FDSink struct {
	fd     int
	closed atomix.Uint32
}

var _ Sink = (*FDSink)(nil)

// NewFDSink switches fd to non-blocking mode and wraps it.
// The FDSink owns fd from then on and closes it on Close.
func NewFDSink(fd int) (*FDSink, error) {
	if err := unix.SetNonblock(fd, true); err != nil {
		return nil, os.NewSyscallError("setnonblock", err)
	}
	return &FDSink{fd: fd}, nil
}

// Fd returns the wrapped descriptor.
func (s *FDSink) Fd() int {
	return s.fd
}

// Write performs one write(2). EAGAIN and EINTR become iox.ErrWouldBlock.
func (s *FDSink) Write(p []byte) (int, error) {
	if s.closed.Load() != 0 {
		return 0, os.ErrClosed
	}
	n, err := unix.Write(s.fd, p)
	if err != nil {
		return 0, mapErrno("write", err)
	}
	return n, nil
}

// WriteBuffers performs one writev(2) over at most 1024 buffers.
func (s *FDSink) WriteBuffers(bufs [][]byte) (int64, error) {
	if s.closed.Load() != 0 {
		return 0, os.ErrClosed
	}
	if len(bufs) > iovMax {
		bufs = bufs[:iovMax]
	}
	n, err := unix.Writev(s.fd, bufs)
	if err != nil {
		return 0, mapErrno("writev", err)
	}
	return int64(n), nil
}

// Flush is always complete: the kernel owns whatever write accepted.
func (s *FDSink) Flush() error {
	if s.closed.Load() != 0 {
		return os.ErrClosed
	}
	return nil
}

// AwaitWritable polls for POLLOUT without deadline.
func (s *FDSink) AwaitWritable(ctx context.Context) error {
	return s.poll(ctx, time.Time{})
}

// AwaitWritableTimeout polls for POLLOUT for at most d.
func (s *FDSink) AwaitWritableTimeout(ctx context.Context, d time.Duration) error {
	return s.poll(ctx, time.Now().Add(d))
}

// poll returns on POLLOUT, on an error condition (left for the next
// attempt to report), at the deadline, or when ctx is done.
func (s *FDSink) poll(ctx context.Context, deadline time.Time) error {
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLOUT}}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.closed.Load() != 0 {
			return os.ErrClosed
		}
		wait := pollSlice
		if !deadline.IsZero() {
			left := time.Until(deadline)
			if left <= 0 {
				return nil
			}
			wait = min(wait, left)
		}
		n, err := unix.Poll(fds, pollMillis(wait))
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return os.NewSyscallError("poll", err)
		}
		if n > 0 && fds[0].Revents != 0 {
			return nil
		}
	}
}

// pollMillis rounds d up so a short wait does not become a busy poll.
func pollMillis(d time.Duration) int {
	return int((d + time.Millisecond - 1) / time.Millisecond)
}

// IsOpen reports whether Close has not been called.
func (s *FDSink) IsOpen() bool {
	return s.closed.Load() == 0
}

// Close closes the descriptor once; later calls return nil.
func (s *FDSink) Close() error {
	if s.closed.Add(1) != 1 {
		return nil
	}
	if err := unix.Close(s.fd); err != nil {
		return os.NewSyscallError("close", err)
	}
	return nil
}

func mapErrno(op string, err error) error {
	switch err {
	case unix.EAGAIN, unix.EINTR:
		return iox.ErrWouldBlock
	}
	return os.NewSyscallError(op, err)
}
