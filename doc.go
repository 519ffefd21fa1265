// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package konc provides a continuation-based effect runtime in Go.
//
// The core type [Cont] describes a computation producing a success, a typed
// domain failure or a crash, read from an environment, without running
// anything until [Run] is called. Continuations are pure values: build large
// graphs of sequenced, branched and parallel work once and run them zero,
// one or many times, each run fully independent, with cooperative
// cancellation and deterministic failure semantics.
//
// # Channels
//
// Every run terminates on exactly one of three channels, delivered to the
// three callbacks of an [Observer]:
//
//   - success (Then), carrying the value
//   - domain failure (Else), carrying a caller-defined, accumulable failure
//   - crash (Crash), carrying a captured unexpected fault
//
// A panic raised anywhere inside a body, builder, predicate or merge
// function is converted to a [Crash]; it never escapes [Run]. A panic
// raised by a terminal callback itself is a contract violation, reported as
// a [PanicFault] through the runtime's panic sink instead.
//
// # Construction
//
//   - [FromRun]: wrap an arbitrary callback-driven procedure
//   - [FromDeferred]: defer even construction until run time
//   - [Of], [Stop], [CrashWith]: the unit constructors per channel
//   - [Never], [Widen]: phantom success type and its widening constructor
//
// # Execution
//
//   - [Run]: execute once, returning a [CancelToken]
//   - [RunSink]: execute with an injected panic sink
//   - [Runtime]: environment, cancellation predicate and panic sink
//   - [WithEnv], [Runtime.ExtendCancel], [Runtime.WithoutCancel]: the
//     derived-runtime operations
//
// Cancellation is advisory: a cancelled token suppresses delivery and
// further branch startup at the points the engine polls it; work already in
// flight is never preempted. The engine provides no scheduler of its own —
// a body may deliver synchronously or schedule delivery for a later turn
// from any goroutine.
//
// # Binds
//
//   - [ThenDo], [ElseDo], [CrashDo]: the per-channel sequencing primitives
//   - [SwapThen], [SwapElse], [SwapCrash]: observer structural update
//
// Every derived operator — [Map], [MapElse], [Tap], [TapElse], [Zip],
// [Filter], [Provide], [Ask], [Asks], [Local] — is a composition of these
// two mechanisms.
//
// # Trampoline
//
// [Iterate] is the stack-safe iterate-until-stop engine under the loops and
// the sequential aggregation policy. It distinguishes steps that resume
// before returning (the outer loop just continues, no stack growth) from
// steps that resume later (the loop re-enters from the resumption's own
// frame), so 100,000 back-to-back synchronous iterations run at constant
// stack depth.
//
//   - [Iterate], [Verdict], [Continue], [Halt]
//   - [ThenWhile], [ThenUntil], [Forever]: the looping consumers
//
// # Aggregation
//
// [All] and [Any] combine a list of branches; [Both] and [Either] are the
// binary forms with stricter ordering guarantees. Each takes a [Policies]
// pair choosing, independently per channel, one of three strategies:
//
//   - [Sequence]: one at a time, in order, short-circuiting
//   - [QuitFast]: all at once, first deciding outcome wins, the rest
//     discarded through the group's shared cancellation predicate
//   - [RunAll]: all at once, always awaited, merged in completion order
//
// Crashes combine through the independent crash policy: collected by branch
// index ([CollectedCrash]) for N-ary groups, merged positionally
// ([MergedCrash]) for binary ones.
//
// # Resource Safety
//
// [Bracket] guarantees the release phase runs exactly once after a
// successful acquire — under a runtime that cannot be cancelled — no matter
// how the use phase ends. [OnElse] runs cleanup only on domain failure.
//
// # Outcome
//
// [Outcome] reifies a terminal result as a value: [Done], [Failed],
// [Crashed], with [MatchOutcome] for three-way dispatch.
//
// # Example
//
//	fetch := konc.Asks[Config, []string](func(c Config) string { return c.Addr })
//	loadAll := konc.All([]konc.Cont[Config, []string, Page]{a, b, c},
//		konc.Uniform(konc.QuitFast), nil)
//	token := konc.Run(loadAll, cfg,
//		func(pages []Page) { render(pages) },
//		func(errs []string) { report(errs) },
//		func(crash konc.Crash) { alert(crash) },
//	)
//	// later: token.Cancel()
package konc
