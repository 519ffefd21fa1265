// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package konc_test

import (
	"errors"
	"strings"
	"testing"

	"code.hybscloud.com/konc"
)

func TestOutcomePredicates(t *testing.T) {
	done := konc.Done[string](7)
	failed := konc.Failed[string, int]("oops")
	crashed := konc.Crashed[string, int](konc.NewFault(errors.New("boom")))

	if !done.IsDone() || done.IsFailed() || done.IsCrashed() {
		t.Fatal("done predicates")
	}
	if !failed.IsFailed() || failed.IsDone() || failed.IsCrashed() {
		t.Fatal("failed predicates")
	}
	if !crashed.IsCrashed() || crashed.IsDone() || crashed.IsFailed() {
		t.Fatal("crashed predicates")
	}

	if v, ok := done.Value(); !ok || v != 7 {
		t.Fatalf("got %v %v", v, ok)
	}
	if _, ok := failed.Value(); ok {
		t.Fatal("a failed outcome must not expose a value")
	}
	if f, ok := failed.Failure(); !ok || f != "oops" {
		t.Fatalf("got %v %v", f, ok)
	}
	if c, ok := crashed.Cause(); !ok || c == nil {
		t.Fatalf("got %v %v", c, ok)
	}
	if c, ok := done.Cause(); ok || c != nil {
		t.Fatalf("got %v %v", c, ok)
	}
}

func TestMatchOutcomeCallsExactlyOneArm(t *testing.T) {
	render := func(o konc.Outcome[string, int]) string {
		return konc.MatchOutcome(o,
			func(n int) string { return "done" },
			func(f string) string { return "failed " + f },
			func(c konc.Crash) string { return "crashed" },
		)
	}
	if got := render(konc.Done[string](1)); got != "done" {
		t.Fatalf("got %q", got)
	}
	if got := render(konc.Failed[string, int]("x")); got != "failed x" {
		t.Fatalf("got %q", got)
	}
	if got := render(konc.Crashed[string, int](konc.NewFault(errors.New("e")))); got != "crashed" {
		t.Fatalf("got %q", got)
	}
}

func TestFaultedWrapsAndUnwraps(t *testing.T) {
	base := errors.New("disk on fire")
	c := konc.NewFault(base)
	if !errors.Is(c, base) {
		t.Fatal("errors.Is must see through the fault")
	}
	if !strings.Contains(c.Error(), "disk on fire") {
		t.Fatalf("got %q", c.Error())
	}
	f, ok := c.(*konc.Faulted)
	if !ok {
		t.Fatalf("got %T", c)
	}
	if len(f.Stack) == 0 {
		t.Fatal("a fault must capture the stack")
	}
}

func TestMergedCrashErrorNamesBothSides(t *testing.T) {
	m := &konc.MergedCrash{
		Left:  konc.NewFault(errors.New("first")),
		Right: konc.NewFault(errors.New("second")),
	}
	msg := m.Error()
	if !strings.Contains(msg, "first") || !strings.Contains(msg, "second") {
		t.Fatalf("got %q", msg)
	}
	if strings.Index(msg, "first") > strings.Index(msg, "second") {
		t.Fatalf("left must come before right in %q", msg)
	}
}

func TestCollectedCrashErrorSortsIndexes(t *testing.T) {
	c := &konc.CollectedCrash{ByIndex: map[int]konc.Crash{
		4: konc.NewFault(errors.New("four")),
		1: konc.NewFault(errors.New("one")),
	}}
	msg := c.Error()
	if strings.Index(msg, "[1]") > strings.Index(msg, "[4]") {
		t.Fatalf("indexes must appear in order in %q", msg)
	}
}
