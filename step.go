// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sinkio

import (
	"code.hybscloud.com/kont"
)

// Step runs protocol up to its first sink operation. A finished protocol
// yields its result and a nil suspension.
func Step[R any](protocol kont.Expr[R]) (R, *kont.Suspension[R]) {
	return kont.StepExpr(protocol)
}

// Advance performs the operation held by susp as one non-blocking attempt
// on s, for callers that drive protocols from their own readiness loop.
//
// When the attempt moves data (or the flush completes), the protocol
// resumes and Advance returns what it produced next: a result, or the
// following suspension. When s would block, Advance returns
// iox.ErrWouldBlock and hands susp back untouched, to be retried once s
// is writable. Any other sink error also hands susp back; the caller
// decides whether to retry or Discard it.
func Advance[R any](s Sink, susp *kont.Suspension[R]) (R, *kont.Suspension[R], error) {
	op, ok := susp.Op().(sinkDispatcher)
	if !ok {
		panic("sinkio: unhandled effect in Advance")
	}
	v, err := op.DispatchSink(s)
	if err != nil {
		var zero R
		return zero, susp, err
	}
	result, next := susp.Resume(v)
	return result, next, nil
}
