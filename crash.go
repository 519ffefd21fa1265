// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package konc

import (
	"fmt"
	"maps"
	"runtime/debug"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Crash is a captured unexpected fault: a panic raised somewhere inside a
// computation, as opposed to a domain failure the caller planned for.
// The interface is sealed; the only variants are [Faulted], [MergedCrash]
// and [CollectedCrash]. Every Crash is an error, so it plugs into ordinary
// error plumbing.
type Crash interface {
	error
	crash()
}

// Faulted is a single captured fault with the stack at the capture site.
type Faulted struct {
	Err   error
	Stack []byte
}

func (*Faulted) crash() {}

func (c *Faulted) Error() string { return "konc: crash: " + c.Err.Error() }

// Unwrap exposes the captured error to errors.Is/As.
func (c *Faulted) Unwrap() error { return c.Err }

// MergedCrash combines the crashes of the two sides of a binary combinator.
// Left and Right are positional (declaration order), not arrival order.
type MergedCrash struct {
	Left  Crash
	Right Crash
}

func (*MergedCrash) crash() {}

func (c *MergedCrash) Error() string {
	return "konc: merged crash: left: " + c.Left.Error() + "; right: " + c.Right.Error()
}

// CollectedCrash combines the crashes of an N-ary aggregation, keyed by the
// index of the branch that crashed.
type CollectedCrash struct {
	ByIndex map[int]Crash
}

func (*CollectedCrash) crash() {}

func (c *CollectedCrash) Error() string {
	var b strings.Builder
	b.WriteString("konc: collected crash:")
	for _, i := range slices.Sorted(maps.Keys(c.ByIndex)) {
		b.WriteString(" [")
		b.WriteString(strconv.Itoa(i))
		b.WriteString("] ")
		b.WriteString(c.ByIndex[i].Error())
		b.WriteString(";")
	}
	return b.String()
}

// NewFault wraps an error as a single Crash, capturing the current stack.
func NewFault(err error) Crash {
	return &Faulted{Err: err, Stack: debug.Stack()}
}

// recoverCrash converts a recovered panic value into a Crash.
// A value that already is a Crash passes through untouched, so a crash
// re-raised across a recovery boundary is not double-wrapped.
func recoverCrash(r any) Crash {
	if c, ok := r.(Crash); ok {
		return c
	}
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("konc: panic: %v", r)
	}
	return &Faulted{Err: err, Stack: debug.Stack()}
}

// PanicFault reports a violation of the observer contract: a terminal
// callback itself panicked. It is not a computation outcome — it never
// travels on the crash channel and never participates in aggregation
// bookkeeping. It is routed to the runtime's panic sink exactly once.
type PanicFault struct {
	Value any
	Stack []byte
	Run   uuid.UUID
}

func (p PanicFault) Error() string {
	return fmt.Sprintf("konc: observer contract violated in run %s: %v", p.Run, p.Value)
}
