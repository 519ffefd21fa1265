// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package konc

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Runtime carries the read-only execution context of a single run: the
// environment value, the cancellation predicate and the panic sink.
// Runtimes are immutable; derived runtimes are produced by [WithEnv],
// [Runtime.ExtendCancel] and [Runtime.WithoutCancel], and share everything
// they do not replace.
type Runtime[E any] struct {
	env       E
	cancelled func() bool
	sink      func(PanicFault)
	run       uuid.UUID
}

func newRuntime[E any](env E, token *CancelToken, sink func(PanicFault)) Runtime[E] {
	if sink == nil {
		sink = defaultPanicSink
	}
	return Runtime[E]{env: env, cancelled: token.Cancelled, sink: sink, run: token.id}
}

// Env returns the environment value.
func (rt Runtime[E]) Env() E { return rt.env }

// Cancelled reports whether cancellation has been observed.
// Cancellation is advisory: it suppresses delivery and further branch
// startup at the points the engine polls it, never preempting work in flight.
func (rt Runtime[E]) Cancelled() bool {
	return rt.cancelled != nil && rt.cancelled()
}

// RunID returns the identity of the run this runtime belongs to.
func (rt Runtime[E]) RunID() uuid.UUID { return rt.run }

// WithEnv returns a runtime with the environment replaced, keeping the
// cancellation predicate, panic sink and run identity. The environment type
// may change; this is the copy-update operation behind [Provide] and [Local].
func WithEnv[E2, E any](rt Runtime[E], env E2) Runtime[E2] {
	return Runtime[E2]{env: env, cancelled: rt.cancelled, sink: rt.sink, run: rt.run}
}

// ExtendCancel returns a runtime whose cancellation predicate is the OR of
// the existing one and pred. Every concurrent combinator uses this to build
// the shared derived runtime of a branch group: the group's decided flag is
// OR'd with the parent's cancellation.
func (rt Runtime[E]) ExtendCancel(pred func() bool) Runtime[E] {
	prev := rt.cancelled
	out := rt
	out.cancelled = func() bool {
		return (prev != nil && prev()) || pred()
	}
	return out
}

// WithoutCancel returns a runtime whose cancellation predicate is hard-wired
// to false. Bracket's release phase runs under it so cleanup cannot be
// skipped by an external cancel.
func (rt Runtime[E]) WithoutCancel() Runtime[E] {
	out := rt
	out.cancelled = neverCancelled
	return out
}

// WithPanicSink returns a runtime with the panic sink replaced.
func (rt Runtime[E]) WithPanicSink(sink func(PanicFault)) Runtime[E] {
	out := rt
	out.sink = sink
	return out
}

// Panic routes a contract violation to the panic sink.
func (rt Runtime[E]) Panic(p PanicFault) {
	if rt.sink != nil {
		rt.sink(p)
		return
	}
	defaultPanicSink(p)
}

func neverCancelled() bool { return false }

// DeferredPanicSink builds a panic sink that schedules a rethrow through the
// given deferral strategy, so the fault surfaces as an unhandled crash on a
// later turn instead of silently vanishing. The strategy is injected rather
// than implicit: tests pass a synchronous scheduler to observe the fault.
func DeferredPanicSink(schedule func(func())) func(PanicFault) {
	return func(p PanicFault) {
		schedule(func() { panic(p) })
	}
}

// The default sink rethrows on a fresh goroutine, which takes the process
// down the way an unhandled panic does.
var defaultPanicSink = DeferredPanicSink(func(fn func()) { go fn() })

// CancelToken is the external cancellation handle returned by [Run].
// It is a monotonic two-state flag: not-cancelled, then cancelled forever.
type CancelToken struct {
	done atomic.Bool
	id   uuid.UUID
}

func newCancelToken() *CancelToken {
	return &CancelToken{id: uuid.New()}
}

// Cancel requests cooperative cancellation. Idempotent.
func (t *CancelToken) Cancel() { t.done.Store(true) }

// Cancelled reports whether Cancel has been called. Pure query.
func (t *CancelToken) Cancelled() bool { return t.done.Load() }

// ID returns the identity of the run this token governs.
func (t *CancelToken) ID() uuid.UUID { return t.id }
