// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package konc_test

import (
	"testing"

	"code.hybscloud.com/konc"
)

// capture returns a continuation that suspends on each run, exposing the
// observer it received through the returned slot so a test can deliver the
// result later, simulating an asynchronous completion.
func capture[F, A any]() (*konc.Observer[F, A], konc.Cont[struct{}, F, A]) {
	slot := new(konc.Observer[F, A])
	return slot, konc.FromRun(func(_ konc.Runtime[struct{}], ob konc.Observer[F, A]) {
		*slot = ob
	})
}

// recorder collects every delivery a run makes, per channel.
type recorder[F, A any] struct {
	thens   []A
	elses   []F
	crashes []konc.Crash
}

func (r *recorder[F, A]) onThen(a A)           { r.thens = append(r.thens, a) }
func (r *recorder[F, A]) onElse(f F)           { r.elses = append(r.elses, f) }
func (r *recorder[F, A]) onCrash(c konc.Crash) { r.crashes = append(r.crashes, c) }

func (r *recorder[F, A]) deliveries() int {
	return len(r.thens) + len(r.elses) + len(r.crashes)
}

func (r *recorder[F, A]) requireSilent(t *testing.T) {
	t.Helper()
	if n := r.deliveries(); n != 0 {
		t.Fatalf("expected no delivery, got %d (%v %v %v)", n, r.thens, r.elses, r.crashes)
	}
}

// concat merges two failure strings, recording order of accumulation.
func concat(a, b string) string { return a + "|" + b }
