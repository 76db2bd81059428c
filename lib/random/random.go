// Package random draws the values used to populate benchmark payloads.
// Every function takes the generator explicitly; nothing here keeps state.
package random

import (
	"math/rand/v2"
)

const (
	// FloatMin and FloatMax bound the uniform range for floating point draws
	FloatMin = -10000.0
	FloatMax = 10000.0

	// StringMinLen and StringMaxLen bound the length of random strings (inclusive)
	StringMinLen = 3
	StringMaxLen = 30

	// PrintableMin and PrintableMax bound the characters of random strings (inclusive)
	PrintableMin = ' '
	PrintableMax = '~'
)

// Integer is the set of integral types Int can draw
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Float is the set of floating point types Float can draw
type Float interface {
	~float32 | ~float64
}

// Char is the set of character types Runes can draw
type Char interface {
	~uint8 | ~uint16 | ~int32
}

// New creates a generator. A seed of 0 draws the seed from the runtime's
// entropy source, so two runs never share a sequence. Any other seed gives
// a reproducible stream.
func New(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// FloatValue draws uniformly from [FloatMin, FloatMax)
func FloatValue[T Float](r *rand.Rand) T {
	return T(FloatMin + r.Float64()*(FloatMax-FloatMin))
}

// Int draws uniformly from the full representable range of T.
// Truncating a uniform 64 bit value keeps the low bits uniform.
func Int[T Integer](r *rand.Rand) T {
	return T(r.Uint64())
}

// Runes draws a string of length [StringMinLen, StringMaxLen] with every
// character in [PrintableMin, PrintableMax]
func Runes[T Char](r *rand.Rand) []T {
	n := StringMinLen + r.IntN(StringMaxLen-StringMinLen+1)
	s := make([]T, n)
	for i := range s {
		s[i] = T(PrintableMin + r.IntN(PrintableMax-PrintableMin+1))
	}
	return s
}

// String is Runes for plain byte strings
func String(r *rand.Rand) string {
	return string(Runes[byte](r))
}

// BinaryString draws n characters from {'0', '1'}
func BinaryString(r *rand.Rand, n int) string {
	s := make([]byte, n)
	for i := range s {
		s[i] = byte('0' + r.IntN(2))
	}
	return string(s)
}
