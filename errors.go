// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sinkio

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidArgument is returned for a negative timeout or an
	// out-of-range buffer slice. Nothing is changed when it is returned.
	ErrInvalidArgument = errors.New("sinkio: invalid argument")

	// ErrTimeout is matched by every *TimeoutError.
	ErrTimeout = errors.New("sinkio: timed out")

	// ErrInterrupted is matched by every *InterruptedError.
	ErrInterrupted = errors.New("sinkio: interrupted")
)

var (
	errNegativeTimeout = fmt.Errorf("%w: negative write timeout", ErrInvalidArgument)
	errTimeoutUnit     = fmt.Errorf("%w: non-positive timeout unit", ErrInvalidArgument)
	errBufferRange     = fmt.Errorf("%w: buffer range out of bounds", ErrInvalidArgument)
)

const (
	opWrite = "write"
	opFlush = "flush"
)

// TimeoutError reports a write or flush whose budget elapsed with no progress.
type TimeoutError struct {
	Op      string
	Limit   time.Duration // the timeout in force when the call gave up
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return e.Op + " timed out"
}

// Is matches ErrTimeout.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// Timeout always reports true, matching net.Error.
func (e *TimeoutError) Timeout() bool { return true }

// InterruptedError reports a readiness wait cut short by its context.
type InterruptedError struct {
	Op  string
	Err error
}

func (e *InterruptedError) Error() string {
	return e.Op + " interrupted: " + e.Err.Error()
}

// Is matches ErrInterrupted.
func (e *InterruptedError) Is(target error) bool {
	return target == ErrInterrupted
}

func (e *InterruptedError) Unwrap() error { return e.Err }
