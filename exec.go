// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sinkio

import (
	"context"

	"code.hybscloud.com/kont"
)

// writerHandler implements kont.Handler for sink effects by running each
// operation through a blocking Writer. The first error short-circuits
// the computation to Left.
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type writerHandler[R any] struct {
	ctx context.Context
	w   *Writer
}

// Dispatch implements kont.Handler via structural interface assertion.
func (h writerHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	sop, ok := op.(sinkDispatcher)
	if !ok {
		panic("sinkio: unhandled effect in writerHandler")
	}
	v, err := sop.dispatchWriter(h.ctx, h.w)
	if err != nil {
		return kont.Left[error, R](err), false
	}
	return v, true
}

// Exec runs a Cont-world sink protocol on w, blocking under w's write
// timeout. Returns Right with the result, or Left with the first error
// (a *TimeoutError, an *InterruptedError, or the sink's own error).
func Exec[R any](ctx context.Context, w *Writer, protocol kont.Eff[R]) kont.Either[error, R] {
	wrapped := kont.Map[kont.Resumed, R, kont.Either[error, R]](protocol, func(r R) kont.Either[error, R] {
		return kont.Right[error, R](r)
	})
	return kont.Handle(wrapped, writerHandler[R]{ctx: ctx, w: w})
}

// ExecExpr runs an Expr-world sink protocol on w. See Exec.
func ExecExpr[R any](ctx context.Context, w *Writer, protocol kont.Expr[R]) kont.Either[error, R] {
	wrapped := kont.ExprMap(protocol, func(r R) kont.Either[error, R] {
		return kont.Right[error, R](r)
	})
	return kont.HandleExpr(wrapped, writerHandler[R]{ctx: ctx, w: w})
}
