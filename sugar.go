// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package konc

// Derived operators. Everything here is a mechanical composition of the
// channel binds and observer swaps — no additional runtime state.

// Map applies a function to the success value.
func Map[E, F, A, B any](m Cont[E, F, A], f func(A) B) Cont[E, F, B] {
	return ThenDo(m, func(a A) Cont[E, F, B] {
		return Of[E, F, B](f(a))
	})
}

// MapElse applies a function to the domain failure.
func MapElse[E, F, G, A any](m Cont[E, F, A], f func(F) G) Cont[E, G, A] {
	return ElseDo(m, func(fv F) Cont[E, G, A] {
		return Stop[E, A, G](f(fv))
	})
}

// Tap observes the success value without changing it.
func Tap[E, F, A any](m Cont[E, F, A], f func(A)) Cont[E, F, A] {
	return ThenDo(m, func(a A) Cont[E, F, A] {
		f(a)
		return Of[E, F, A](a)
	})
}

// TapElse observes the domain failure without changing it.
func TapElse[E, F, A any](m Cont[E, F, A], f func(F)) Cont[E, F, A] {
	return ElseDo(m, func(fv F) Cont[E, F, A] {
		f(fv)
		return Stop[E, A, F](fv)
	})
}

// Zip sequences two continuations and combines their successes.
func Zip[E, F, A, B, C any](ma Cont[E, F, A], mb Cont[E, F, B], f func(A, B) C) Cont[E, F, C] {
	return ThenDo(ma, func(a A) Cont[E, F, C] {
		return ThenDo(mb, func(b B) Cont[E, F, C] {
			return Of[E, F, C](f(a, b))
		})
	})
}

// Filter passes the success value through pred; a rejected value fails with
// reject's failure.
func Filter[E, F, A any](m Cont[E, F, A], pred func(A) bool, reject func(A) F) Cont[E, F, A] {
	return ThenDo(m, func(a A) Cont[E, F, A] {
		if pred(a) {
			return Of[E, F, A](a)
		}
		return Stop[E, A, F](reject(a))
	})
}

// Provide supplies the environment a continuation reads, adapting it to an
// outer environment type.
func Provide[E2, E, F, A any](m Cont[E2, F, A], env E2) Cont[E, F, A] {
	return func(rt Runtime[E], ob Observer[F, A]) {
		m.exec(WithEnv(rt, env), ob)
	}
}

// Ask succeeds with the environment value.
func Ask[E, F any]() Cont[E, F, E] {
	return func(rt Runtime[E], ob Observer[F, E]) {
		ob.Then(rt.Env())
	}
}

// Asks succeeds with a projection of the environment.
func Asks[E, F, A any](f func(E) A) Cont[E, F, A] {
	return func(rt Runtime[E], ob Observer[F, A]) {
		var a A
		if !guard(rt, ob, func() { a = f(rt.Env()) }) {
			return
		}
		ob.Then(a)
	}
}

// Local runs a continuation under a modified environment.
func Local[E, F, A any](m Cont[E, F, A], f func(E) E) Cont[E, F, A] {
	return func(rt Runtime[E], ob Observer[F, A]) {
		var env E
		if !guard(rt, ob, func() { env = f(rt.Env()) }) {
			return
		}
		m.exec(WithEnv(rt, env), ob)
	}
}
