package payload

import (
	"fmt"
	"github.com/ValentinKolb/archbench/lib/random"
	"math/rand/v2"
	"strings"
)

// Kind identifies one of the closed set of payload shapes
type Kind uint8

const (
	KindUnknown Kind = iota
	KindDoubles
	KindBytes
	KindRecords
	KindChildren
)

// ChildFloats is the length of the nested sequence of a default Child
const ChildFloats = 1024

// Kinds lists every valid kind in the order the benchmark matrix uses
var Kinds = []Kind{KindDoubles, KindBytes, KindRecords, KindChildren}

func (k Kind) String() string {
	switch k {
	case KindDoubles:
		return "doubles"
	case KindBytes:
		return "bytes"
	case KindRecords:
		return "records"
	case KindChildren:
		return "children"
	default:
		return "unknown"
	}
}

// ElementName is the element type name used in test names
func (k Kind) ElementName() string {
	switch k {
	case KindDoubles:
		return "double"
	case KindBytes:
		return "uint8"
	case KindRecords:
		return "Record"
	case KindChildren:
		return "Child"
	default:
		return "unknown"
	}
}

// ParseKind parses the result of Kind.String
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(strings.TrimSpace(s), k.String()) {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("invalid payload kind %q (expected one of: doubles, bytes, records, children)", s)
}

// --------------------------------------------------------------------------
// Payload types
// --------------------------------------------------------------------------

// Payload is implemented by pointers to the slice types of this package
type Payload interface {
	// Kind returns the shape of the payload
	Kind() Kind
	// Len returns the number of top level elements
	Len() int
	// Empty returns a new, empty payload of the same kind, used as the
	// target of a load
	Empty() Payload
}

// Record is a plain fixed-layout record
type Record struct {
	A int32
	B int64
	C float32
	D float64
}

// Child composes a Record and owns a nested sequence of float32.
// Archives write Base before V.
type Child struct {
	Base Record
	V    []float32
}

// NewChild returns a zeroed Child owning ChildFloats floats
func NewChild() Child {
	return Child{V: make([]float32, ChildFloats)}
}

type (
	Doubles  []float64
	Bytes    []uint8
	Records  []Record
	Children []Child
)

func (d *Doubles) Kind() Kind { return KindDoubles }
func (d *Doubles) Len() int { return len(*d) }
func (d *Doubles) Empty() Payload { return &Doubles{} }
func (b *Bytes) Kind() Kind { return KindBytes }
func (b *Bytes) Len() int { return len(*b) }
func (b *Bytes) Empty() Payload { return &Bytes{} }
func (r *Records) Kind() Kind { return KindRecords }
func (r *Records) Len() int { return len(*r) }
func (r *Records) Empty() Payload { return &Records{} }
func (c *Children) Kind() Kind { return KindChildren }
func (c *Children) Len() int { return len(*c) }
func (c *Children) Empty() Payload { return &Children{} }

// --------------------------------------------------------------------------
// Construction
// --------------------------------------------------------------------------

// New builds a payload of the given kind with n top level elements.
// Elements are default-initialised when r is nil and drawn from r otherwise.
func New(kind Kind, n int, r *rand.Rand) (Payload, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid payload size %d", n)
	}

	switch kind {
	case KindDoubles:
		d := make(Doubles, n)
		if r != nil {
			for i := range d {
				d[i] = random.FloatValue[float64](r)
			}
		}
		return &d, nil
	case KindBytes:
		b := make(Bytes, n)
		if r != nil {
			for i := range b {
				b[i] = random.Int[uint8](r)
			}
		}
		return &b, nil
	case KindRecords:
		recs := make(Records, n)
		if r != nil {
			for i := range recs {
				recs[i] = randomRecord(r)
			}
		}
		return &recs, nil
	case KindChildren:
		children := make(Children, n)
		for i := range children {
			children[i] = NewChild()
			if r != nil {
				children[i].Base = randomRecord(r)
				for j := range children[i].V {
					children[i].V[j] = random.FloatValue[float32](r)
				}
			}
		}
		return &children, nil
	default:
		return nil, fmt.Errorf("invalid payload kind %d", kind)
	}
}

func randomRecord(r *rand.Rand) Record {
	return Record{
		A: random.Int[int32](r),
		B: random.Int[int64](r),
		C: random.FloatValue[float32](r),
		D: random.FloatValue[float64](r),
	}
}
