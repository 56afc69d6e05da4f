package collectives

import "golang.org/x/exp/constraints"

// Number are the Go numeric types accepted by Sum and Prod.
type Number interface {
	constraints.Integer | constraints.Float
}

// Sum is a reducer that adds the two values.
func Sum[T Number](a, b T) T { return a + b }

// Prod is a reducer that multiplies the two values.
func Prod[T Number](a, b T) T { return a * b }

// Min is a reducer that keeps the smaller of the two values.
func Min[T constraints.Ordered](a, b T) T {
	if b < a {
		return b
	}
	return a
}

// Max is a reducer that keeps the larger of the two values.
func Max[T constraints.Ordered](a, b T) T {
	if b > a {
		return b
	}
	return a
}
