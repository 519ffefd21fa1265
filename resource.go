// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package konc

// Resource safety primitives for exception-safe resource management.
// These provide the minimal interface for bracketed resource handling.

// Bracket provides exception-safe resource acquisition and release.
// This follows the bracket pattern: acquire → use → release, where release
// runs exactly once after a successful acquire, on every exit path — use
// success, domain failure, crash, or cancellation observed before use
// begins (the release outcome is then discarded and nothing is delivered).
// Release executes under a derived runtime whose cancellation predicate is
// hard-wired to false, so cleanup cannot be skipped by an external cancel.
//
// Combination: both succeed → the use value; only one side fails → that
// failure; both fail → mergeFailure(useFailure, releaseFailure). A use crash
// dominates a release domain failure; when both sides crash the result is
// the merged crash. A panic while building or running release, or while
// merging failures, counts as the release-side fault. A nil mergeFailure
// keeps the release failure.
func Bracket[E, F, R, A any](
	acquire Cont[E, F, R],
	release func(R) Cont[E, F, struct{}],
	use func(R) Cont[E, F, A],
	mergeFailure Merge[F],
) Cont[E, F, A] {
	return func(rt Runtime[E], ob Observer[F, A]) {
		mf := orLast(mergeFailure)
		acquire.exec(rt, Observer[F, R]{
			Then: func(resource R) {
				if rt.Cancelled() {
					runRelease(rt, release, resource, func(Outcome[F, struct{}]) {})
					return
				}
				useOb := onceObserver(Observer[F, A]{
					Then: func(a A) {
						runRelease(rt, release, resource, func(r Outcome[F, struct{}]) {
							switch {
							case r.IsDone():
								ob.Then(a)
							case r.IsFailed():
								rf, _ := r.Failure()
								ob.Else(rf)
							default:
								rc, _ := r.Cause()
								ob.Crash(rc)
							}
						})
					},
					Else: func(f F) {
						runRelease(rt, release, resource, func(r Outcome[F, struct{}]) {
							switch {
							case r.IsDone():
								ob.Else(f)
							case r.IsFailed():
								rf, _ := r.Failure()
								var merged F
								if !guard(rt, ob, func() { merged = mf(f, rf) }) {
									return
								}
								ob.Else(merged)
							default:
								rc, _ := r.Cause()
								ob.Crash(rc)
							}
						})
					},
					Crash: func(c Crash) {
						runRelease(rt, release, resource, func(r Outcome[F, struct{}]) {
							if rc, ok := r.Cause(); ok {
								ob.Crash(&MergedCrash{Left: c, Right: rc})
								return
							}
							ob.Crash(c)
						})
					},
				})
				var next Cont[E, F, A]
				if !guard(rt, useOb, func() { next = use(resource) }) {
					return
				}
				next.exec(rt, useOb)
			},
			Else:  ob.Else,
			Crash: ob.Crash,
		})
	}
}

// runRelease executes the release phase under a runtime that cannot be
// cancelled, translating every exit — including a panic while building or
// running release — into an Outcome handed to done.
func runRelease[E, F, R any](rt Runtime[E], release func(R) Cont[E, F, struct{}], resource R, done func(Outcome[F, struct{}])) {
	fin := rt.WithoutCancel()
	finOb := onceObserver(Observer[F, struct{}]{
		Then:  func(struct{}) { done(Done[F, struct{}](struct{}{})) },
		Else:  func(f F) { done(Failed[F, struct{}](f)) },
		Crash: func(c Crash) { done(Crashed[F, struct{}](c)) },
	})
	var rel Cont[E, F, struct{}]
	if !guard(fin, finOb, func() { rel = release(resource) }) {
		return
	}
	rel.exec(fin, finOb)
}

// OnElse runs cleanup only when body fails on the domain channel, then
// re-delivers the original failure.
func OnElse[E, F, A any](body Cont[E, F, A], cleanup func(F) Cont[E, F, struct{}]) Cont[E, F, A] {
	return ElseDo(body, func(f F) Cont[E, F, A] {
		return ThenDo(cleanup(f), func(struct{}) Cont[E, F, A] {
			return Stop[E, A, F](f)
		})
	})
}
