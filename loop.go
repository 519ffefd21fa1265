// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package konc

// Looping operators over [Iterate]. A body resolving synchronously costs no
// stack growth per iteration, so tight loops of arbitrary length are safe.
// A cancelled runtime stops a loop silently before the next pass.

// loopPass carries one loop iteration's result and the verdict computed
// from it, so the trampoline's decide stays a pure state function while the
// user predicate runs guarded inside the step.
type loopPass[A any] struct {
	value A
	halt  bool
}

// ThenWhile repeats body as long as pred holds for its latest success, then
// succeeds with the first value the predicate rejects. A failure or crash of
// body ends the loop with that outcome; a panicking predicate crashes the
// run.
func ThenWhile[E, F, A any](pred func(A) bool, body Cont[E, F, A]) Cont[E, F, A] {
	return func(rt Runtime[E], ob Observer[F, A]) {
		Iterate(
			loopPass[A]{},
			func(s loopPass[A]) Verdict[struct{}, A] {
				if s.halt {
					return Halt[struct{}, A](s.value)
				}
				return Continue[struct{}, A](struct{}{})
			},
			func(_ struct{}, advance func(loopPass[A])) {
				if rt.Cancelled() {
					return
				}
				body.exec(rt, SwapThen(ob, func(a A) {
					keep := false
					if !guard(rt, ob, func() { keep = pred(a) }) {
						return
					}
					advance(loopPass[A]{value: a, halt: !keep})
				}))
			},
			ob.Then,
		)
	}
}

// ThenUntil repeats body until pred holds for its latest success; the same
// loop as [ThenWhile] with the predicate negated.
func ThenUntil[E, F, A any](pred func(A) bool, body Cont[E, F, A]) Cont[E, F, A] {
	return ThenWhile(func(a A) bool { return !pred(a) }, body)
}

// Forever repeats body indefinitely; only a failure or crash ends the loop.
// The result type is [Never]: use [Widen] to place a Forever loop where a
// success type is expected.
func Forever[E, F, A any](body Cont[E, F, A]) Cont[E, F, Never] {
	return func(rt Runtime[E], ob Observer[F, Never]) {
		Iterate(
			struct{}{},
			func(struct{}) Verdict[struct{}, Never] {
				return Continue[struct{}, Never](struct{}{})
			},
			func(_ struct{}, advance func(struct{})) {
				if rt.Cancelled() {
					return
				}
				body.exec(rt, Observer[F, A]{
					Then:  func(A) { advance(struct{}{}) },
					Else:  ob.Else,
					Crash: ob.Crash,
				})
			},
			func(Never) {},
		)
	}
}
