// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package konc

// Policy selects how an aggregation combinator combines the outcomes of its
// branches.
type Policy uint8

const (
	// Sequence runs branches one at a time in declaration order and stops at
	// the first deciding outcome; later branches are never started.
	Sequence Policy = iota
	// QuitFast starts every branch immediately and decides at the first
	// deciding outcome; late results are discarded through the group's
	// shared cancellation predicate.
	QuitFast
	// RunAll starts every branch immediately and always waits for all of
	// them, combining results strictly in completion order.
	RunAll
)

func (p Policy) String() string {
	switch p {
	case Sequence:
		return "Sequence"
	case QuitFast:
		return "QuitFast"
	case RunAll:
		return "RunAll"
	default:
		return "Policy(unknown)"
	}
}

// Policies is the per-channel policy choice of one aggregation: the policy
// governing the success/failure channels and, independently, the policy
// governing crash aggregation.
type Policies struct {
	Outcome Policy
	Crash   Policy
}

// Uniform applies the same policy to both channels.
func Uniform(p Policy) Policies {
	return Policies{Outcome: p, Crash: p}
}

// Merge is an associative caller-supplied combination of two values of the
// same channel.
type Merge[T any] func(T, T) T

// orLast returns m, or a merge keeping the later operand when m is nil.
func orLast[T any](m Merge[T]) Merge[T] {
	if m != nil {
		return m
	}
	return func(_, b T) T { return b }
}
