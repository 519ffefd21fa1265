// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package konc

// Outcome represents one of the three terminal results of a computation:
// Done (success), Failed (domain failure) or Crashed (unexpected fault).
type Outcome[F, A any] struct {
	kind    outcomeKind
	value   A
	failure F
	crash   Crash
}

type outcomeKind uint8

const (
	outcomeDone outcomeKind = iota
	outcomeFailed
	outcomeCrashed
)

// Done creates a success outcome.
func Done[F, A any](a A) Outcome[F, A] {
	return Outcome[F, A]{kind: outcomeDone, value: a}
}

// Failed creates a domain-failure outcome.
func Failed[F, A any](f F) Outcome[F, A] {
	return Outcome[F, A]{kind: outcomeFailed, failure: f}
}

// Crashed creates a crash outcome.
func Crashed[F, A any](c Crash) Outcome[F, A] {
	return Outcome[F, A]{kind: outcomeCrashed, crash: c}
}

// IsDone returns true if this is a success outcome.
func (o Outcome[F, A]) IsDone() bool { return o.kind == outcomeDone }

// IsFailed returns true if this is a domain-failure outcome.
func (o Outcome[F, A]) IsFailed() bool { return o.kind == outcomeFailed }

// IsCrashed returns true if this is a crash outcome.
func (o Outcome[F, A]) IsCrashed() bool { return o.kind == outcomeCrashed }

// Value returns the success value and true, or zero and false.
func (o Outcome[F, A]) Value() (A, bool) {
	if o.kind == outcomeDone {
		return o.value, true
	}
	var zero A
	return zero, false
}

// Failure returns the domain failure and true, or zero and false.
func (o Outcome[F, A]) Failure() (F, bool) {
	if o.kind == outcomeFailed {
		return o.failure, true
	}
	var zero F
	return zero, false
}

// Cause returns the crash and true, or nil and false.
func (o Outcome[F, A]) Cause() (Crash, bool) {
	if o.kind == outcomeCrashed {
		return o.crash, true
	}
	return nil, false
}

// MatchOutcome pattern matches on the outcome, calling exactly one arm.
func MatchOutcome[F, A, T any](o Outcome[F, A], onDone func(A) T, onFailed func(F) T, onCrashed func(Crash) T) T {
	switch o.kind {
	case outcomeDone:
		return onDone(o.value)
	case outcomeFailed:
		return onFailed(o.failure)
	default:
		return onCrashed(o.crash)
	}
}

// deliverOutcome replays a settled outcome onto an observer.
func deliverOutcome[F, T any](o Outcome[F, T], ob Observer[F, T]) {
	switch o.kind {
	case outcomeDone:
		ob.Then(o.value)
	case outcomeFailed:
		ob.Else(o.failure)
	default:
		ob.Crash(o.crash)
	}
}
