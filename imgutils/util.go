package imgutils

import (
	cerrors "github.com/cockroachdb/errors"
)

type Unsigned interface {
	~uint | ~uint32 | ~uint64
}

// AlignUp rounds value up to the next multiple of alignment. The alignment
// must be a power of two.
func AlignUp[T Unsigned](value T, alignment T) T {
	return (value + alignment - 1) &^ (alignment - 1)
}

// AlignDown rounds value down to the previous multiple of alignment. The
// alignment must be a power of two.
func AlignDown[T Unsigned](value T, alignment T) T {
	return value &^ (alignment - 1)
}

// DivRoundUp divides numerator by denominator, rounding up.
func DivRoundUp[T Unsigned](numerator T, denominator T) T {
	return (numerator + denominator - 1) / denominator
}

func IsPow2[T Unsigned](number T) bool {
	return number != 0 && number&(number-1) == 0
}

func CheckPow2[T Unsigned](number T, name string) error {
	if !IsPow2(number) {
		return cerrors.Wrapf(ErrNotPowerOfTwo, "%s is %d", name, number)
	}
	return nil
}

// NextPow2 returns the smallest power of two greater than or equal to number.
func NextPow2[T Unsigned](number T) T {
	if number <= 1 {
		return 1
	}

	result := T(1)
	for result < number {
		result <<= 1
	}
	return result
}

// Max returns the larger of a and b.
func Max[T Unsigned](a T, b T) T {
	if a > b {
		return a
	}
	return b
}

// Minify halves a mip dimension the given number of times, never going
// below 1.
func Minify[T Unsigned](value T, levels uint32) T {
	minified := value >> levels
	if minified == 0 {
		return 1
	}
	return minified
}

// MaxUint returns the largest value representable in the given number of
// bits, as used for hardware descriptor field bounds checks.
func MaxUint(bits uint32) uint64 {
	return (1 << bits) - 1
}
