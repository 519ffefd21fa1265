// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package konc

import "sync"

// Stack-safe trampoline. Looping and sequential-aggregation combinators
// would grow the call stack once per iteration if each step resumed the next
// recursively; Iterate keeps back-to-back synchronous steps at O(1) stack
// depth by detecting, for every step, whether it resumed before or after
// returning.

// Verdict is the decision of one trampoline pass: keep running with the next
// input, or halt with a result.
type Verdict[I, R any] struct {
	input  I
	result R
	halt   bool
}

// Continue keeps the loop running with the given input.
func Continue[I, R any](input I) Verdict[I, R] {
	return Verdict[I, R]{input: input}
}

// Halt stops the loop and delivers the result to finish.
func Halt[I, R any](result R) Verdict[I, R] {
	return Verdict[I, R]{result: result, halt: true}
}

// Iterate drives an iterate-until-stop loop. Each pass calls decide(state);
// a halt verdict delivers to finish and ends the loop, otherwise
// step(input, advance) performs one pass and supplies the next state through
// advance, which must be called at most once per step (later calls are
// ignored). decide must be a pure function of its state.
//
// When advance fires before step returns, the outer loop continues in place
// with the new state — no stack frame is added, giving unbounded iteration
// count at constant stack depth. When advance fires after step has returned,
// the loop re-enters from advance's own call frame; the original frame is
// already gone, so the depth bound holds on that path too.
func Iterate[S, I, R any](seed S, decide func(S) Verdict[I, R], step func(I, func(S)), finish func(R)) {
	state := seed
	for {
		v := decide(state)
		if v.halt {
			finish(v.result)
			return
		}
		cell := &advanceCell[S]{
			reenter: func(s S) { Iterate(s, decide, step, finish) },
		}
		step(v.input, cell.advance)
		next, synced := cell.settle()
		if !synced {
			return
		}
		state = next
	}
}

// advanceCell tracks whether one step's advance fired before or after the
// step returned. The bookkeeping is mutex-guarded because a step may resume
// from another goroutine.
type advanceCell[S any] struct {
	mu       sync.Mutex
	used     bool
	returned bool
	synced   bool
	next     S
	reenter  func(S)
}

func (c *advanceCell[S]) advance(s S) {
	c.mu.Lock()
	if c.used {
		c.mu.Unlock()
		return
	}
	c.used = true
	if !c.returned {
		c.synced = true
		c.next = s
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.reenter(s)
}

// settle marks the step call as returned and reports whether advance already
// fired synchronously, handing back the next state if so.
func (c *advanceCell[S]) settle() (S, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.returned = true
	return c.next, c.synced
}
