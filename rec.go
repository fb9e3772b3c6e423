// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sinkio

import (
	"code.hybscloud.com/kont"
)

// Loop repeats a sink protocol round over a carried state, such as the
// unwritten tail of a message. Each round ends in Left with the state for
// the next round, or Right with the final value.
func Loop[S, A any](state S, round func(S) kont.Eff[kont.Either[S, A]]) kont.Eff[A] {
	return kont.Bind(round(state), func(e kont.Either[S, A]) kont.Eff[A] {
		if next, ok := e.GetLeft(); ok {
			return Loop(next, round)
		}
		done, _ := e.GetRight()
		return kont.Pure(done)
	})
}

// WriteAllThen writes all of p, one Write effect per partial write,
// and continues with next.
func WriteAllThen[B any](p []byte, next kont.Eff[B]) kont.Eff[B] {
	drain := Loop(p, func(rest []byte) kont.Eff[kont.Either[[]byte, struct{}]] {
		if len(rest) == 0 {
			return kont.Pure(kont.Right[[]byte, struct{}](struct{}{}))
		}
		return WriteBind(rest, func(n int) kont.Eff[kont.Either[[]byte, struct{}]] {
			return kont.Pure(kont.Left[[]byte, struct{}](rest[n:]))
		})
	})
	return kont.Then(drain, next)
}
