package utils

import (
	"fmt"
	"math/rand"

	"golang.org/x/exp/constraints"
)

// Helper for escape analysis; avoids go thinking the variadic argument escapes.
// Default "verb" behaviour.
func V[T any](copyThatEscapes T) string {
	return fmt.Sprintf("%v", copyThatEscapes)
}

// Helper for escape analysis; avoids go thinking the variadic argument escapes.
// Uses the given format string.
func F[T any](f string, copyThatEscapes T) string {
	return fmt.Sprintf(f, copyThatEscapes)
}

func Max[T constraints.Ordered](x, y T) T {
	if x < y {
		return y
	}
	return x
}

func Min[T constraints.Ordered](x, y T) T {
	if y < x {
		return y
	}
	return x
}

func Sum[T constraints.Integer | constraints.Float](slice []T) (sum T) {
	for i := range slice {
		sum += slice[i]
	}
	return sum
}

// Fisher-Yates with a caller supplied source, for reproducible permutations.
func Shuffle[T any](rng *rand.Rand, slice []T) {
	for i := len(slice) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		slice[i], slice[j] = slice[j], slice[i]
	}
}
