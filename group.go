// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package konc

import (
	"maps"
	"slices"
	"sync"
)

// N-ary aggregation. All and Any combine a list of continuations into one
// aggregate outcome under a per-channel policy choice. The input list is
// defensively copied at the start of each run, and aggregate collections
// handed to callbacks are copies, so external mutation never affects a live
// or future run.

// All succeeds with every branch's value (order-preserving by index) and
// fails per the outcome policy: Sequence and QuitFast propagate the first
// failure alone; RunAll waits for every branch and merges all failures
// encountered, in completion order, through mergeFailure. Crashes combine
// per the crash policy: RunAll collects them by branch index, anything else
// decides at the first crash. An empty list succeeds immediately with an
// empty result. mergeFailure is only consulted under RunAll; nil keeps the
// later failure.
func All[E, F, A any](items []Cont[E, F, A], p Policies, mergeFailure Merge[F]) Cont[E, F, []A] {
	items = slices.Clone(items)
	return func(rt Runtime[E], ob Observer[F, []A]) {
		xs := slices.Clone(items)
		if len(xs) == 0 {
			ob.Then([]A{})
			return
		}
		if p.Outcome == Sequence {
			allSequence(xs, rt, ob)
			return
		}
		allConcurrent(xs, rt, ob, p, orLast(mergeFailure))
	}
}

// Any succeeds at the first success under Sequence and QuitFast, and under
// RunAll waits for every branch, merging all successes in completion order
// through mergeValue. When no branch succeeds the failures merge through
// mergeFailure — in list order under Sequence, completion order otherwise.
// Branch bodies are started in list order in the caller's frame with no
// scheduler of their own, so a branch delivering synchronously completes at
// its list position; completion order only diverges for branches that
// deliver on a later turn. An empty list fails immediately with the zero
// failure. Nil merges keep the
// later operand.
func Any[E, F, A any](items []Cont[E, F, A], p Policies, mergeValue Merge[A], mergeFailure Merge[F]) Cont[E, F, A] {
	items = slices.Clone(items)
	return func(rt Runtime[E], ob Observer[F, A]) {
		xs := slices.Clone(items)
		if len(xs) == 0 {
			var zero F
			ob.Else(zero)
			return
		}
		if p.Outcome == Sequence {
			anySequence(xs, rt, ob, orLast(mergeFailure))
			return
		}
		anyConcurrent(xs, rt, ob, p, orLast(mergeValue), orLast(mergeFailure))
	}
}

// seqAllState is the trampoline state of a sequential All run.
type seqAllState[A any] struct {
	idx int
	acc []A
}

func allSequence[E, F, A any](xs []Cont[E, F, A], rt Runtime[E], ob Observer[F, []A]) {
	Iterate(
		seqAllState[A]{acc: make([]A, 0, len(xs))},
		func(s seqAllState[A]) Verdict[seqAllState[A], []A] {
			if s.idx == len(xs) {
				return Halt[seqAllState[A], []A](s.acc)
			}
			return Continue[seqAllState[A], []A](s)
		},
		func(s seqAllState[A], advance func(seqAllState[A])) {
			if rt.Cancelled() {
				return
			}
			xs[s.idx].exec(rt, Observer[F, A]{
				Then: func(a A) {
					advance(seqAllState[A]{idx: s.idx + 1, acc: append(s.acc, a)})
				},
				Else:  ob.Else,
				Crash: ob.Crash,
			})
		},
		func(acc []A) { ob.Then(slices.Clone(acc)) },
	)
}

// seqAnyState is the trampoline state of a sequential Any run.
type seqAnyState[F any] struct {
	idx     int
	failure F
	failed  bool
}

func anySequence[E, F, A any](xs []Cont[E, F, A], rt Runtime[E], ob Observer[F, A], mergeFailure Merge[F]) {
	Iterate(
		seqAnyState[F]{},
		func(s seqAnyState[F]) Verdict[seqAnyState[F], F] {
			if s.idx == len(xs) {
				return Halt[seqAnyState[F], F](s.failure)
			}
			return Continue[seqAnyState[F], F](s)
		},
		func(s seqAnyState[F], advance func(seqAnyState[F])) {
			if rt.Cancelled() {
				return
			}
			xs[s.idx].exec(rt, Observer[F, A]{
				Then: ob.Then,
				Else: func(f F) {
					next := seqAnyState[F]{idx: s.idx + 1, failure: f, failed: true}
					if s.failed {
						if !guard(rt, ob, func() { next.failure = mergeFailure(s.failure, f) }) {
							return
						}
					}
					advance(next)
				},
				Crash: ob.Crash,
			})
		},
		ob.Else,
	)
}

// joinState is the bookkeeping of one concurrent aggregation run. It is
// owned exclusively by its combinator; mu guards every field because branch
// callbacks may fire from any goroutine. settleAll/settleAny read without
// the lock and are only legal once decided is set.
type joinState[F, A any] struct {
	mu        sync.Mutex
	decided   bool
	pending   int
	values    []A
	value     A
	succeeded bool
	failure   F
	failed    bool
	crashes   map[int]Crash
}

func newJoinState[F, A any](n int) *joinState[F, A] {
	return &joinState[F, A]{pending: n, values: make([]A, n)}
}

func (st *joinState[F, A]) isDecided() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.decided
}

// allValue records branch i's success. The second result reports that this
// arrival completed the aggregate.
func (st *joinState[F, A]) allValue(i int, a A) (Outcome[F, []A], bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.decided {
		return Outcome[F, []A]{}, false
	}
	st.values[i] = a
	st.pending--
	if st.pending > 0 {
		return Outcome[F, []A]{}, false
	}
	st.decided = true
	return st.settleAll(), true
}

func (st *joinState[F, A]) allFailure(f F, quick bool, mergeFailure Merge[F]) (Outcome[F, []A], bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.decided {
		return Outcome[F, []A]{}, false
	}
	if quick {
		st.decided = true
		return Failed[F, []A](f), true
	}
	if st.failed {
		st.failure = mergeFailure(st.failure, f)
	} else {
		st.failure, st.failed = f, true
	}
	st.pending--
	if st.pending > 0 {
		return Outcome[F, []A]{}, false
	}
	st.decided = true
	return st.settleAll(), true
}

func (st *joinState[F, A]) anyValue(a A, quick bool, mergeValue Merge[A]) (Outcome[F, A], bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.decided {
		return Outcome[F, A]{}, false
	}
	if quick {
		st.decided = true
		return Done[F, A](a), true
	}
	if st.succeeded {
		st.value = mergeValue(st.value, a)
	} else {
		st.value, st.succeeded = a, true
	}
	st.pending--
	if st.pending > 0 {
		return Outcome[F, A]{}, false
	}
	st.decided = true
	return st.settleAny(), true
}

func (st *joinState[F, A]) anyFailure(f F, mergeFailure Merge[F]) (Outcome[F, A], bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.decided {
		return Outcome[F, A]{}, false
	}
	if st.failed {
		st.failure = mergeFailure(st.failure, f)
	} else {
		st.failure, st.failed = f, true
	}
	st.pending--
	if st.pending > 0 {
		return Outcome[F, A]{}, false
	}
	st.decided = true
	return st.settleAny(), true
}

// noteCrash records branch i's crash. A crash always ends its own branch;
// the crash policy decides whether it ends the aggregate too: quick decides
// now (first result reports the crash should be emitted alone), otherwise
// the crash is collected and the second result reports whether every branch
// has now finished.
func (st *joinState[F, A]) noteCrash(i int, c Crash, quick bool) (decideNow, allDone bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.decided {
		return false, false
	}
	if quick {
		st.decided = true
		return true, false
	}
	if st.crashes == nil {
		st.crashes = make(map[int]Crash)
	}
	st.crashes[i] = c
	st.pending--
	if st.pending > 0 {
		return false, false
	}
	st.decided = true
	return false, true
}

// settleAll resolves a finished All aggregate: collected crashes dominate
// the domain channels, then merged failures, then the indexed values.
func (st *joinState[F, A]) settleAll() Outcome[F, []A] {
	if len(st.crashes) > 0 {
		return Crashed[F, []A](&CollectedCrash{ByIndex: maps.Clone(st.crashes)})
	}
	if st.failed {
		return Failed[F, []A](st.failure)
	}
	return Done[F, []A](slices.Clone(st.values))
}

// settleAny resolves a finished Any aggregate: any success wins, then
// collected crashes, then the merged failure.
func (st *joinState[F, A]) settleAny() Outcome[F, A] {
	if st.succeeded {
		return Done[F, A](st.value)
	}
	if len(st.crashes) > 0 {
		return Crashed[F, A](&CollectedCrash{ByIndex: maps.Clone(st.crashes)})
	}
	return Failed[F, A](st.failure)
}

func allConcurrent[E, F, A any](xs []Cont[E, F, A], rt Runtime[E], ob Observer[F, []A], p Policies, mergeFailure Merge[F]) {
	st := newJoinState[F, A](len(xs))
	shared := rt.ExtendCancel(st.isDecided)
	quickFailure := p.Outcome == QuitFast
	quickCrash := p.Crash != RunAll
	for i := range xs {
		if shared.Cancelled() {
			return
		}
		xs[i].exec(shared, Observer[F, A]{
			Then: func(a A) {
				if out, done := st.allValue(i, a); done {
					deliverOutcome(out, ob)
				}
			},
			Else: func(f F) {
				var out Outcome[F, []A]
				var done bool
				if !guard(shared, ob, func() { out, done = st.allFailure(f, quickFailure, mergeFailure) }) {
					return
				}
				if done {
					deliverOutcome(out, ob)
				}
			},
			Crash: func(c Crash) {
				decideNow, allDone := st.noteCrash(i, c, quickCrash)
				if decideNow {
					ob.Crash(c)
					return
				}
				if allDone {
					deliverOutcome(st.settleAll(), ob)
				}
			},
		})
	}
}

func anyConcurrent[E, F, A any](xs []Cont[E, F, A], rt Runtime[E], ob Observer[F, A], p Policies, mergeValue Merge[A], mergeFailure Merge[F]) {
	st := newJoinState[F, A](len(xs))
	shared := rt.ExtendCancel(st.isDecided)
	quickSuccess := p.Outcome == QuitFast
	quickCrash := p.Crash != RunAll
	for i := range xs {
		if shared.Cancelled() {
			return
		}
		xs[i].exec(shared, Observer[F, A]{
			Then: func(a A) {
				var out Outcome[F, A]
				var done bool
				if !guard(shared, ob, func() { out, done = st.anyValue(a, quickSuccess, mergeValue) }) {
					return
				}
				if done {
					deliverOutcome(out, ob)
				}
			},
			Else: func(f F) {
				var out Outcome[F, A]
				var done bool
				if !guard(shared, ob, func() { out, done = st.anyFailure(f, mergeFailure) }) {
					return
				}
				if done {
					deliverOutcome(out, ob)
				}
			},
			Crash: func(c Crash) {
				decideNow, allDone := st.noteCrash(i, c, quickCrash)
				if decideNow {
					ob.Crash(c)
					return
				}
				if allDone {
					deliverOutcome(st.settleAny(), ob)
				}
			},
		})
	}
}
