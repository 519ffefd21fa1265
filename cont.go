// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package konc

import "runtime/debug"

// Cont represents a continuation: an immutable description of a computation
// producing a success A, a domain failure F or a crash, read from an
// environment E. Constructing a Cont performs no work; work begins strictly
// inside [Run]. A Cont may be executed any number of times, each execution
// fully independent.
//
// The function receives the runtime context and the observer that will
// receive the terminal result. A body may return before delivering — it has
// scheduled the delivery for a later turn.
type Cont[E, F, A any] func(rt Runtime[E], ob Observer[F, A])

// FromRun wraps an arbitrary callback-driven procedure as a continuation.
// This is the primitive constructor for computations that need direct access
// to the runtime and observer.
func FromRun[E, F, A any](body func(Runtime[E], Observer[F, A])) Cont[E, F, A] {
	return Cont[E, F, A](body)
}

// FromDeferred defers even the construction of the inner continuation until
// run time. A panicking thunk crashes that run.
func FromDeferred[E, F, A any](thunk func() Cont[E, F, A]) Cont[E, F, A] {
	return func(rt Runtime[E], ob Observer[F, A]) {
		var next Cont[E, F, A]
		if !guard(rt, ob, func() { next = thunk() }) {
			return
		}
		next.exec(rt, ob)
	}
}

// Of lifts a pure value into a continuation that succeeds with it.
func Of[E, F, A any](value A) Cont[E, F, A] {
	return func(rt Runtime[E], ob Observer[F, A]) {
		ob.Then(value)
	}
}

// Stop lifts a domain failure into a continuation that fails with it.
func Stop[E, A, F any](failure F) Cont[E, F, A] {
	return func(rt Runtime[E], ob Observer[F, A]) {
		ob.Else(failure)
	}
}

// CrashWith lifts an error into a continuation that crashes with it.
// The stack is captured at construction time.
func CrashWith[E, F, A any](err error) Cont[E, F, A] {
	c := &Faulted{Err: err, Stack: debug.Stack()}
	return func(rt Runtime[E], ob Observer[F, A]) {
		ob.Crash(c)
	}
}

// Never is the phantom success type of continuations that cannot succeed.
// A Cont[E, F, Never] is statically known to deliver only on the failure or
// crash channel; [Widen] moves it into a context expecting any success type.
type Never struct{}

// Widen adapts a continuation that can never succeed to an arbitrary success
// type. No runtime type test is involved: the success channel of the widened
// continuation is simply unreachable.
func Widen[A, E, F any](m Cont[E, F, Never]) Cont[E, F, A] {
	return func(rt Runtime[E], ob Observer[F, A]) {
		m.exec(rt, SwapThen(ob, func(Never) {}))
	}
}

// Run executes the continuation once and returns its cancellation token.
// The contract: cancellation is checked before starting; at most one of the
// three callbacks fires, at most once; a panic raised while executing the
// body or any user-supplied function reachable from it is re-routed as a
// Crash, never allowed to escape Run; a panic raised by a terminal callback
// goes to the panic sink. Nil callbacks are allowed and ignored.
func Run[E, F, A any](m Cont[E, F, A], env E, onThen func(A), onElse func(F), onCrash func(Crash)) *CancelToken {
	return RunSink(m, env, onThen, onElse, onCrash, nil)
}

// RunSink is [Run] with an explicit panic sink; a nil sink selects the
// default deferred-rethrow sink.
func RunSink[E, F, A any](m Cont[E, F, A], env E, onThen func(A), onElse func(F), onCrash func(Crash), sink func(PanicFault)) *CancelToken {
	token := newCancelToken()
	rt := newRuntime(env, token, sink)
	if rt.Cancelled() {
		return token
	}
	ob := gate(rt, Observer[F, A]{Then: orNop(onThen), Else: orNop(onElse), Crash: orNop(onCrash)})
	m.exec(rt, ob)
	return token
}

// exec runs the continuation body, absorbing a panic into the crash channel.
func (m Cont[E, F, A]) exec(rt Runtime[E], ob Observer[F, A]) {
	guard(rt, ob, func() { m(rt, ob) })
}

// guard runs a user-supplied function, converting a panic into a crash
// delivery on ob. Reports whether fn completed normally.
func guard[E, F, A any](rt Runtime[E], ob Observer[F, A], fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ob.Crash(recoverCrash(r))
		}
	}()
	fn()
	return true
}
