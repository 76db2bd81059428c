// Package payload defines the data that is pushed through the archives
// under test. The set of payload kinds is closed:
//
//   - Doubles: a sequence of IEEE-754 float64 values
//   - Bytes: a sequence of uint8 values
//   - Records: a sequence of fixed-layout Record values
//   - Children: a sequence of Child values, each composing a Record and
//     owning a variable-length sequence of float32
//
// Archives switch over these kinds explicitly instead of reflecting over
// arbitrary types, so every supported shape is visible in one place.
//
// Equality:
//
//	Round-trip validation uses Compare with a FloatPolicy. PolicyBitwise
//	(the default) compares the bit patterns of floating point values, so a
//	NaN that survives the round trip unchanged compares equal while -0 and
//	+0 do not. PolicyIEEE uses the == operator, so any NaN fails and -0
//	equals +0. A nil slice and an empty slice are equal under both
//	policies.
package payload
