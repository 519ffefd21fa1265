// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package konc

import (
	"runtime/debug"
	"sync/atomic"
)

// Observer is the three-callback result sink of a single run: exactly one of
// Then, Else or Crash receives the terminal result. Structural update —
// swapping one callback while keeping the others — is the mechanism every
// combinator uses to intercept a channel; see [SwapThen], [SwapElse] and
// [SwapCrash].
//
// Observers handed to a continuation body always have all three callbacks
// non-nil; [Run] substitutes no-ops for nil caller callbacks.
type Observer[F, A any] struct {
	Then  func(A)
	Else  func(F)
	Crash func(Crash)
}

// SwapThen returns an observer with the success callback replaced, keeping
// the failure and crash callbacks. The success type may change.
func SwapThen[B, F, A any](o Observer[F, A], then func(B)) Observer[F, B] {
	return Observer[F, B]{Then: then, Else: o.Else, Crash: o.Crash}
}

// SwapElse returns an observer with the failure callback replaced, keeping
// the success and crash callbacks. The failure type may change.
func SwapElse[G, F, A any](o Observer[F, A], elseFn func(G)) Observer[G, A] {
	return Observer[G, A]{Then: o.Then, Else: elseFn, Crash: o.Crash}
}

// SwapCrash returns an observer with the crash callback replaced.
func SwapCrash[F, A any](o Observer[F, A], crash func(Crash)) Observer[F, A] {
	return Observer[F, A]{Then: o.Then, Else: o.Else, Crash: crash}
}

// gate wraps an observer with the delivery contract of a single run:
// at most one delivery (later ones silently dropped), no delivery once
// cancellation has been observed, and a panic thrown by the terminal
// callback itself routed to the panic sink — that panic indicates the
// contract, not the computation, has failed.
func gate[E, F, A any](rt Runtime[E], ob Observer[F, A]) Observer[F, A] {
	var used atomic.Uintptr
	claim := func() bool {
		if rt.Cancelled() {
			return false
		}
		return used.Add(1) == 1
	}
	return Observer[F, A]{
		Then: func(a A) {
			if claim() {
				deliver(rt, func() { ob.Then(a) })
			}
		},
		Else: func(f F) {
			if claim() {
				deliver(rt, func() { ob.Else(f) })
			}
		},
		Crash: func(c Crash) {
			if claim() {
				deliver(rt, func() { ob.Crash(c) })
			}
		},
	}
}

// onceObserver wraps an observer so only the first delivery is acted on.
// Unlike gate it ignores cancellation: bracket's release path must see the
// use result even when the governing token was cancelled mid-use.
func onceObserver[F, A any](ob Observer[F, A]) Observer[F, A] {
	var used atomic.Uintptr
	return Observer[F, A]{
		Then: func(a A) {
			if used.Add(1) == 1 {
				ob.Then(a)
			}
		},
		Else: func(f F) {
			if used.Add(1) == 1 {
				ob.Else(f)
			}
		},
		Crash: func(c Crash) {
			if used.Add(1) == 1 {
				ob.Crash(c)
			}
		},
	}
}

// deliver invokes a terminal callback, converting a panic inside it into a
// PanicFault on the runtime's sink.
func deliver[E any](rt Runtime[E], fn func()) {
	defer func() {
		if r := recover(); r != nil {
			rt.Panic(PanicFault{Value: r, Stack: debug.Stack(), Run: rt.run})
		}
	}()
	fn()
}

func orNop[T any](f func(T)) func(T) {
	if f == nil {
		return func(T) {}
	}
	return f
}
