// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package konc

// Channel binds. Each runs the source with the same runtime, intercepting
// exactly one channel: on that channel the builder produces the next
// continuation, which runs with the same runtime and observer. A panicking
// builder crashes the run — never a silent no-op. Every derived operator in
// this package is a composition of these binds and observer swaps.

// ThenDo sequences f after m's success.
func ThenDo[E, F, A, B any](m Cont[E, F, A], f func(A) Cont[E, F, B]) Cont[E, F, B] {
	return func(rt Runtime[E], ob Observer[F, B]) {
		m.exec(rt, SwapThen(ob, func(a A) {
			var next Cont[E, F, B]
			if !guard(rt, ob, func() { next = f(a) }) {
				return
			}
			next.exec(rt, ob)
		}))
	}
}

// ElseDo sequences f after m's domain failure, leaving success and crash
// untouched. The failure type may change.
func ElseDo[E, F, G, A any](m Cont[E, F, A], f func(F) Cont[E, G, A]) Cont[E, G, A] {
	return func(rt Runtime[E], ob Observer[G, A]) {
		m.exec(rt, SwapElse(ob, func(fv F) {
			var next Cont[E, G, A]
			if !guard(rt, ob, func() { next = f(fv) }) {
				return
			}
			next.exec(rt, ob)
		}))
	}
}

// CrashDo sequences f after m's crash, leaving success and failure untouched.
func CrashDo[E, F, A any](m Cont[E, F, A], f func(Crash) Cont[E, F, A]) Cont[E, F, A] {
	return func(rt Runtime[E], ob Observer[F, A]) {
		m.exec(rt, SwapCrash(ob, func(c Crash) {
			var next Cont[E, F, A]
			if !guard(rt, ob, func() { next = f(c) }) {
				return
			}
			next.exec(rt, ob)
		}))
	}
}
