// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package konc

import "sync"

// Binary combinators. Both and Either are the two-operand counterparts of
// All and Any, with an explicit four-state resolution bookkeeping instead of
// generic N-way counting, because the binary case carries an ordering
// guarantee the N-ary case does not: under RunAll, accumulated failures are
// always merged left-before-right regardless of arrival order, while
// successful values are merged in arrival order — whichever side resolves
// first is the accumulator passed first to the merge.

type pairSide uint8

const (
	sideLeft pairSide = iota
	sideRight
)

// pairPhase is the explicit four-state resolution bookkeeping of a binary
// combinator run.
type pairPhase uint8

const (
	pairNeither   pairPhase = iota // neither side resolved
	pairLeftOnly                   // left resolved, right pending
	pairRightOnly                  // right resolved, left pending
	pairDone                       // both resolved, or decided early
)

// pairState is owned exclusively by one Both/Either run. mu guards every
// field; the settle methods are only legal under the lock or once decided.
type pairState[F, A any] struct {
	mu      sync.Mutex
	phase   pairPhase
	first   pairSide
	decided bool
	val     [2]A
	ok      [2]bool
	fail    [2]F
	failed  [2]bool
	crash   [2]Crash
}

func (st *pairState[F, A]) isDecided() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.decided
}

// step advances the four-state machine for one side's resolution.
func (st *pairState[F, A]) step(side pairSide) {
	switch st.phase {
	case pairNeither:
		st.first = side
		if side == sideLeft {
			st.phase = pairLeftOnly
		} else {
			st.phase = pairRightOnly
		}
	case pairLeftOnly, pairRightOnly:
		st.phase = pairDone
	}
}

// resolve records one side's terminal result through apply. decideAlone
// short-circuits the pair with settle's result immediately; otherwise the
// pair settles once both sides have resolved.
func (st *pairState[F, A]) resolve(side pairSide, decideAlone bool, apply func(), settle func() Outcome[F, A]) (Outcome[F, A], bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.decided {
		return Outcome[F, A]{}, false
	}
	apply()
	st.step(side)
	if decideAlone {
		st.decided = true
		st.phase = pairDone
		return settle(), true
	}
	if st.phase != pairDone {
		return Outcome[F, A]{}, false
	}
	st.decided = true
	return settle(), true
}

// resolvePair is resolve with the user-supplied merges guarded: a panic
// inside a merge crashes the pair instead of unwinding into the resuming
// branch.
func resolvePair[E, F, A any](st *pairState[F, A], rt Runtime[E], ob Observer[F, A], side pairSide, decideAlone bool, apply func(), settle func() Outcome[F, A]) (Outcome[F, A], bool) {
	var out Outcome[F, A]
	var done bool
	if !guard(rt, ob, func() { out, done = st.resolve(side, decideAlone, apply, settle) }) {
		return Outcome[F, A]{}, false
	}
	return out, done
}

// settleBoth resolves a fully resolved Both pair: crashes dominate (merged
// left-before-right when both crashed), then failures merged strictly
// left-before-right, then values merged in arrival order.
func (st *pairState[F, A]) settleBoth(mergeValue Merge[A], mergeFailure Merge[F]) Outcome[F, A] {
	switch {
	case st.crash[sideLeft] != nil && st.crash[sideRight] != nil:
		return Crashed[F, A](&MergedCrash{Left: st.crash[sideLeft], Right: st.crash[sideRight]})
	case st.crash[sideLeft] != nil:
		return Crashed[F, A](st.crash[sideLeft])
	case st.crash[sideRight] != nil:
		return Crashed[F, A](st.crash[sideRight])
	case st.failed[sideLeft] && st.failed[sideRight]:
		return Failed[F, A](mergeFailure(st.fail[sideLeft], st.fail[sideRight]))
	case st.failed[sideLeft]:
		return Failed[F, A](st.fail[sideLeft])
	case st.failed[sideRight]:
		return Failed[F, A](st.fail[sideRight])
	default:
		if st.first == sideLeft {
			return Done[F, A](mergeValue(st.val[sideLeft], st.val[sideRight]))
		}
		return Done[F, A](mergeValue(st.val[sideRight], st.val[sideLeft]))
	}
}

// settleEither resolves a fully resolved Either pair: any success wins (both
// merged in arrival order), then crashes, then failures merged strictly
// left-before-right.
func (st *pairState[F, A]) settleEither(mergeValue Merge[A], mergeFailure Merge[F]) Outcome[F, A] {
	switch {
	case st.ok[sideLeft] && st.ok[sideRight]:
		if st.first == sideLeft {
			return Done[F, A](mergeValue(st.val[sideLeft], st.val[sideRight]))
		}
		return Done[F, A](mergeValue(st.val[sideRight], st.val[sideLeft]))
	case st.ok[sideLeft]:
		return Done[F, A](st.val[sideLeft])
	case st.ok[sideRight]:
		return Done[F, A](st.val[sideRight])
	case st.crash[sideLeft] != nil && st.crash[sideRight] != nil:
		return Crashed[F, A](&MergedCrash{Left: st.crash[sideLeft], Right: st.crash[sideRight]})
	case st.crash[sideLeft] != nil:
		return Crashed[F, A](st.crash[sideLeft])
	case st.crash[sideRight] != nil:
		return Crashed[F, A](st.crash[sideRight])
	default:
		return Failed[F, A](mergeFailure(st.fail[sideLeft], st.fail[sideRight]))
	}
}

// Both combines two continuations, succeeding only when both succeed.
// Sequence runs left then right, short-circuiting on the first failure or
// crash. QuitFast starts both and short-circuits at whichever side fails
// first, discarding the other side's eventual outcome. RunAll waits for
// both: failures merge strictly left-before-right regardless of arrival
// order, values merge in arrival order. Nil merges keep the later operand.
func Both[E, F, A any](left, right Cont[E, F, A], p Policies, mergeValue Merge[A], mergeFailure Merge[F]) Cont[E, F, A] {
	return func(rt Runtime[E], ob Observer[F, A]) {
		mv, mf := orLast(mergeValue), orLast(mergeFailure)
		if p.Outcome == Sequence {
			bothSequence(left, right, rt, ob, mv)
			return
		}
		bothConcurrent(left, right, rt, ob, p, mv, mf)
	}
}

// Either combines two continuations, succeeding when either succeeds.
// Sequence tries left and falls back to right on a domain failure. QuitFast
// races them: whichever side succeeds first wins immediately and the other
// side's eventual outcome is discarded through the shared cancellation
// predicate. RunAll waits for both, merging successes in arrival order.
// When both sides fail, the failures always merge left-before-right.
func Either[E, F, A any](left, right Cont[E, F, A], p Policies, mergeValue Merge[A], mergeFailure Merge[F]) Cont[E, F, A] {
	return func(rt Runtime[E], ob Observer[F, A]) {
		mv, mf := orLast(mergeValue), orLast(mergeFailure)
		if p.Outcome == Sequence {
			eitherSequence(left, right, rt, ob, mf)
			return
		}
		eitherConcurrent(left, right, rt, ob, p, mv, mf)
	}
}

func bothSequence[E, F, A any](left, right Cont[E, F, A], rt Runtime[E], ob Observer[F, A], mergeValue Merge[A]) {
	left.exec(rt, SwapThen(ob, func(a A) {
		if rt.Cancelled() {
			return
		}
		right.exec(rt, SwapThen(ob, func(b A) {
			var out A
			if !guard(rt, ob, func() { out = mergeValue(a, b) }) {
				return
			}
			ob.Then(out)
		}))
	}))
}

func eitherSequence[E, F, A any](left, right Cont[E, F, A], rt Runtime[E], ob Observer[F, A], mergeFailure Merge[F]) {
	left.exec(rt, SwapElse(ob, func(fl F) {
		if rt.Cancelled() {
			return
		}
		right.exec(rt, SwapElse(ob, func(fr F) {
			var out F
			if !guard(rt, ob, func() { out = mergeFailure(fl, fr) }) {
				return
			}
			ob.Else(out)
		}))
	}))
}

func bothConcurrent[E, F, A any](left, right Cont[E, F, A], rt Runtime[E], ob Observer[F, A], p Policies, mergeValue Merge[A], mergeFailure Merge[F]) {
	st := &pairState[F, A]{}
	shared := rt.ExtendCancel(st.isDecided)
	quickFailure := p.Outcome == QuitFast
	quickCrash := p.Crash != RunAll
	side := func(s pairSide) Observer[F, A] {
		return Observer[F, A]{
			Then: func(a A) {
				out, done := resolvePair(st, shared, ob, s, false, func() {
					st.val[s], st.ok[s] = a, true
				}, func() Outcome[F, A] { return st.settleBoth(mergeValue, mergeFailure) })
				if done {
					deliverOutcome(out, ob)
				}
			},
			Else: func(f F) {
				out, done := resolvePair(st, shared, ob, s, quickFailure, func() {
					st.fail[s], st.failed[s] = f, true
				}, func() Outcome[F, A] {
					if quickFailure {
						return Failed[F, A](f)
					}
					return st.settleBoth(mergeValue, mergeFailure)
				})
				if done {
					deliverOutcome(out, ob)
				}
			},
			Crash: func(c Crash) {
				out, done := resolvePair(st, shared, ob, s, quickCrash, func() {
					st.crash[s] = c
				}, func() Outcome[F, A] {
					if quickCrash {
						return Crashed[F, A](c)
					}
					return st.settleBoth(mergeValue, mergeFailure)
				})
				if done {
					deliverOutcome(out, ob)
				}
			},
		}
	}
	left.exec(shared, side(sideLeft))
	if shared.Cancelled() {
		return
	}
	right.exec(shared, side(sideRight))
}

func eitherConcurrent[E, F, A any](left, right Cont[E, F, A], rt Runtime[E], ob Observer[F, A], p Policies, mergeValue Merge[A], mergeFailure Merge[F]) {
	st := &pairState[F, A]{}
	shared := rt.ExtendCancel(st.isDecided)
	quickSuccess := p.Outcome == QuitFast
	quickCrash := p.Crash != RunAll
	side := func(s pairSide) Observer[F, A] {
		return Observer[F, A]{
			Then: func(a A) {
				out, done := resolvePair(st, shared, ob, s, quickSuccess, func() {
					st.val[s], st.ok[s] = a, true
				}, func() Outcome[F, A] {
					if quickSuccess {
						return Done[F, A](a)
					}
					return st.settleEither(mergeValue, mergeFailure)
				})
				if done {
					deliverOutcome(out, ob)
				}
			},
			Else: func(f F) {
				out, done := resolvePair(st, shared, ob, s, false, func() {
					st.fail[s], st.failed[s] = f, true
				}, func() Outcome[F, A] { return st.settleEither(mergeValue, mergeFailure) })
				if done {
					deliverOutcome(out, ob)
				}
			},
			Crash: func(c Crash) {
				out, done := resolvePair(st, shared, ob, s, quickCrash, func() {
					st.crash[s] = c
				}, func() Outcome[F, A] {
					if quickCrash {
						return Crashed[F, A](c)
					}
					return st.settleEither(mergeValue, mergeFailure)
				})
				if done {
					deliverOutcome(out, ob)
				}
			},
		}
	}
	left.exec(shared, side(sideLeft))
	if shared.Cancelled() {
		return
	}
	right.exec(shared, side(sideRight))
}
