package payload

import (
	"fmt"
	"math"
	"strings"
)

// FloatPolicy decides how floating point values are compared during
// round-trip validation
type FloatPolicy uint8

const (
	// PolicyBitwise compares bit patterns: NaN equals an identical NaN, -0 differs from +0
	PolicyBitwise FloatPolicy = iota
	// PolicyIEEE uses ==: NaN never equals anything, -0 equals +0
	PolicyIEEE
)

func (p FloatPolicy) String() string {
	switch p {
	case PolicyBitwise:
		return "bitwise"
	case PolicyIEEE:
		return "ieee"
	default:
		return "unknown"
	}
}

// ParseFloatPolicy parses the result of FloatPolicy.String
func ParseFloatPolicy(s string) (FloatPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bitwise", "":
		return PolicyBitwise, nil
	case "ieee":
		return PolicyIEEE, nil
	default:
		return PolicyBitwise, fmt.Errorf("invalid float policy %q (expected bitwise or ieee)", s)
	}
}

func (p FloatPolicy) equal64(a, b float64) bool {
	if p == PolicyIEEE {
		return a == b
	}
	return math.Float64bits(a) == math.Float64bits(b)
}

func (p FloatPolicy) equal32(a, b float32) bool {
	if p == PolicyIEEE {
		return a == b
	}
	return math.Float32bits(a) == math.Float32bits(b)
}

func (p FloatPolicy) equalRecord(a, b Record) bool {
	return a.A == b.A && a.B == b.B && p.equal32(a.C, b.C) && p.equal64(a.D, b.D)
}

// Equal reports whether a and b hold the same values under policy
func Equal(a, b Payload, policy FloatPolicy) bool {
	return Compare(a, b, policy) == nil
}

// Compare returns nil if a and b hold the same values under policy, and an
// error describing the first difference otherwise
func Compare(a, b Payload, policy FloatPolicy) error {
	if a == nil || b == nil {
		return fmt.Errorf("cannot compare nil payload")
	}
	if a.Kind() != b.Kind() {
		return fmt.Errorf("kind mismatch: %s != %s", a.Kind(), b.Kind())
	}
	if a.Len() != b.Len() {
		return fmt.Errorf("length mismatch: %d != %d", a.Len(), b.Len())
	}

	switch x := a.(type) {
	case *Doubles:
		y := *b.(*Doubles)
		for i, v := range *x {
			if !policy.equal64(v, y[i]) {
				return fmt.Errorf("element %d: %v != %v", i, v, y[i])
			}
		}
	case *Bytes:
		y := *b.(*Bytes)
		for i, v := range *x {
			if v != y[i] {
				return fmt.Errorf("element %d: %d != %d", i, v, y[i])
			}
		}
	case *Records:
		y := *b.(*Records)
		for i, v := range *x {
			if !policy.equalRecord(v, y[i]) {
				return fmt.Errorf("element %d: %+v != %+v", i, v, y[i])
			}
		}
	case *Children:
		y := *b.(*Children)
		for i, v := range *x {
			if !policy.equalRecord(v.Base, y[i].Base) {
				return fmt.Errorf("element %d base: %+v != %+v", i, v.Base, y[i].Base)
			}
			if len(v.V) != len(y[i].V) {
				return fmt.Errorf("element %d nested length mismatch: %d != %d", i, len(v.V), len(y[i].V))
			}
			for j, f := range v.V {
				if !policy.equal32(f, y[i].V[j]) {
					return fmt.Errorf("element %d nested %d: %v != %v", i, j, f, y[i].V[j])
				}
			}
		}
	default:
		return fmt.Errorf("unsupported payload type %T", a)
	}
	return nil
}
