// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package konc_test

import (
	"strconv"
	"testing"

	"code.hybscloud.com/konc"
)

func TestMap(t *testing.T) {
	var rec recorder[string, string]
	konc.Run(konc.Map(konc.Of[struct{}, string](21), func(n int) string { return strconv.Itoa(n * 2) }),
		struct{}{}, rec.onThen, rec.onElse, rec.onCrash)
	if len(rec.thens) != 1 || rec.thens[0] != "42" {
		t.Fatalf("got %v", rec.thens)
	}
}

func TestMapElse(t *testing.T) {
	var rec recorder[int, int]
	konc.Run(konc.MapElse(konc.Stop[struct{}, int]("7"), func(f string) int {
		n, _ := strconv.Atoi(f)
		return n
	}), struct{}{}, rec.onThen, rec.onElse, rec.onCrash)
	if len(rec.elses) != 1 || rec.elses[0] != 7 {
		t.Fatalf("got %v", rec.elses)
	}
}

func TestTapObservesWithoutChanging(t *testing.T) {
	seen := 0
	var rec recorder[string, int]
	konc.Run(konc.Tap(konc.Of[struct{}, string](5), func(n int) { seen = n }),
		struct{}{}, rec.onThen, rec.onElse, rec.onCrash)
	if seen != 5 {
		t.Fatalf("tap saw %d", seen)
	}
	if len(rec.thens) != 1 || rec.thens[0] != 5 {
		t.Fatalf("got %v", rec.thens)
	}
}

func TestTapElseObservesFailure(t *testing.T) {
	seen := ""
	var rec recorder[string, int]
	konc.Run(konc.TapElse(konc.Stop[struct{}, int]("oops"), func(f string) { seen = f }),
		struct{}{}, rec.onThen, rec.onElse, rec.onCrash)
	if seen != "oops" {
		t.Fatalf("tap saw %q", seen)
	}
	if len(rec.elses) != 1 || rec.elses[0] != "oops" {
		t.Fatalf("got %v", rec.elses)
	}
}

func TestZipSequencesLeftThenRight(t *testing.T) {
	order := []string{}
	ma := konc.FromRun(func(_ konc.Runtime[struct{}], ob konc.Observer[string, int]) {
		order = append(order, "a")
		ob.Then(6)
	})
	mb := konc.FromRun(func(_ konc.Runtime[struct{}], ob konc.Observer[string, int]) {
		order = append(order, "b")
		ob.Then(7)
	})
	var rec recorder[string, int]
	konc.Run(konc.Zip(ma, mb, func(a, b int) int { return a * b }),
		struct{}{}, rec.onThen, rec.onElse, rec.onCrash)
	if len(rec.thens) != 1 || rec.thens[0] != 42 {
		t.Fatalf("got %v", rec.thens)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("got order %v", order)
	}
}

func TestFilter(t *testing.T) {
	even := func(n int) bool { return n%2 == 0 }
	oddFailure := func(n int) string { return strconv.Itoa(n) + " is odd" }

	var pass recorder[string, int]
	konc.Run(konc.Filter(konc.Of[struct{}, string](4), even, oddFailure),
		struct{}{}, pass.onThen, pass.onElse, pass.onCrash)
	if len(pass.thens) != 1 || pass.thens[0] != 4 {
		t.Fatalf("got %v", pass.thens)
	}

	var reject recorder[string, int]
	konc.Run(konc.Filter(konc.Of[struct{}, string](5), even, oddFailure),
		struct{}{}, reject.onThen, reject.onElse, reject.onCrash)
	if len(reject.elses) != 1 || reject.elses[0] != "5 is odd" {
		t.Fatalf("got %v", reject.elses)
	}
}

func TestAskReadsEnvironment(t *testing.T) {
	var rec recorder[string, int]
	konc.Run(konc.Ask[int, string](), 11, rec.onThen, rec.onElse, rec.onCrash)
	if len(rec.thens) != 1 || rec.thens[0] != 11 {
		t.Fatalf("got %v", rec.thens)
	}
}

func TestAsksProjectsEnvironment(t *testing.T) {
	type conf struct{ limit int }
	var rec recorder[string, int]
	konc.Run(konc.Asks[conf, string](func(c conf) int { return c.limit }),
		conf{limit: 64}, rec.onThen, rec.onElse, rec.onCrash)
	if len(rec.thens) != 1 || rec.thens[0] != 64 {
		t.Fatalf("got %v", rec.thens)
	}
}

func TestAsksPanicCrashes(t *testing.T) {
	var rec recorder[string, int]
	konc.Run(konc.Asks[int, string](func(int) int { panic("projection blew up") }),
		3, rec.onThen, rec.onElse, rec.onCrash)
	if len(rec.crashes) != 1 {
		t.Fatalf("got %v %v", rec.thens, rec.crashes)
	}
}

func TestProvideFixesEnvironment(t *testing.T) {
	inner := konc.Asks[int, string](func(n int) int { return n + 1 })
	var rec recorder[string, int]
	konc.Run(konc.Provide[int, string](inner, 41), "ignored outer env", rec.onThen, rec.onElse, rec.onCrash)
	if len(rec.thens) != 1 || rec.thens[0] != 42 {
		t.Fatalf("got %v", rec.thens)
	}
}

func TestLocalTransformsEnvironment(t *testing.T) {
	inner := konc.Ask[int, string]()
	var rec recorder[string, int]
	konc.Run(konc.Local(inner, func(n int) int { return n * 10 }),
		4, rec.onThen, rec.onElse, rec.onCrash)
	if len(rec.thens) != 1 || rec.thens[0] != 40 {
		t.Fatalf("got %v", rec.thens)
	}
}
