// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sinkio

import (
	"code.hybscloud.com/kont"
)

// WriteThen writes p once, discards the count and continues with next.
// A short write is not retried; use WriteAllThen for that.
// Fuses Perform(Write{Data: p}) + Then.
func WriteThen[B any](p []byte, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Write{Data: p}), next)
}

// WriteBind writes p once and passes the byte count to f.
// Fuses Perform(Write{Data: p}) + Bind.
func WriteBind[B any](p []byte, f func(int) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Write{Data: p}), f)
}

// WriteBuffersBind performs one gathering write and passes the count to f.
// Fuses Perform(WriteBuffers{Bufs: bufs}) + Bind.
func WriteBuffersBind[B any](bufs [][]byte, f func(int64) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(WriteBuffers{Bufs: bufs}), f)
}

// FlushThen flushes and continues with next.
// Fuses Perform(Flush{}) + Then.
func FlushThen[B any](next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Flush{}), next)
}

// FlushDone flushes and returns a.
// Fuses Perform(Flush{}) + Then + Pure.
func FlushDone[A any](a A) kont.Eff[A] {
	return kont.Then(kont.Perform(Flush{}), kont.Pure(a))
}
