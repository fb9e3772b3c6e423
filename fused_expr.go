// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sinkio

import (
	"code.hybscloud.com/kont"
)

// Pre-allocated erased values to avoid boxing empty structs into
// kont.Erased/kont.Frame on every Expr-world construction.
var (
	exprReturnFrame kont.Frame  = kont.ReturnFrame{}
	exprFlush       kont.Erased = Flush{}
)

// identityResume is the identity resume function for EffectFrame construction.
func identityResume(v kont.Erased) kont.Erased { return v }

// ExprWriteThen writes p once and then continues with next.
// Fuses ExprPerform(Write{Data: p}) + ExprThen.
func ExprWriteThen[B any](p []byte, next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = Write{Data: p}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

// ExprFlushThen flushes and then continues with next.
// Fuses ExprPerform(Flush{}) + ExprThen.
func ExprFlushThen[B any](next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = exprFlush
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

// ExprFlushDone flushes and returns a.
// Fuses ExprPerform(Flush{}) + ExprThen + ExprReturn.
func ExprFlushDone[A any](a A) kont.Expr[A] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(a), Frame: exprReturnFrame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = exprFlush
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[A](ef)
}
