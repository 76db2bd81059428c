package archive

import (
	"encoding/gob"
	"fmt"
	"github.com/ValentinKolb/archbench/lib/payload"
	"io"
	"math"
)

// NewGOBArchive creates an archive using Go's binary gob format
func NewGOBArchive() IArchive {
	return &gobArchive{}
}

// gobArchive implements the IArchive interface using gob encoding
type gobArchive struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see archive.IArchive)
// --------------------------------------------------------------------------

func (g gobArchive) Name() string {
	return "gob"
}

func (g gobArchive) Save(w io.Writer, data payload.Payload) error {
	var value any
	switch d := data.(type) {
	case *payload.Doubles, *payload.Bytes:
		value = d
	case *payload.Records:
		records := make([]gobRecord, len(*d))
		for i, r := range *d {
			records[i] = toGobRecord(r)
		}
		value = records
	case *payload.Children:
		children := make([]gobChild, len(*d))
		for i, c := range *d {
			children[i] = gobChild{Base: toGobRecord(c.Base), V: c.V}
		}
		value = children
	default:
		return unsupported(g.Name(), data)
	}

	enc := gob.NewEncoder(w)
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("gob: %w", err)
	}
	return nil
}

func (g gobArchive) Load(r io.Reader, out payload.Payload) (err error) {
	defer recoverError(g.Name(), &err)

	dec := gob.NewDecoder(r)
	switch o := out.(type) {
	case *payload.Doubles:
		return gobDecode(dec, o)
	case *payload.Bytes:
		return gobDecode(dec, o)
	case *payload.Records:
		var records []gobRecord
		if err := gobDecode(dec, &records); err != nil {
			return err
		}
		result := make(payload.Records, len(records))
		for i, rec := range records {
			result[i] = rec.record()
		}
		*o = result
		return nil
	case *payload.Children:
		var children []gobChild
		if err := gobDecode(dec, &children); err != nil {
			return err
		}
		result := make(payload.Children, len(children))
		for i, c := range children {
			result[i].Base = c.Base.record()
			// gob omits empty slices, restore them
			result[i].V = c.V
			if result[i].V == nil {
				result[i].V = []float32{}
			}
		}
		*o = result
		return nil
	default:
		return unsupported(g.Name(), out)
	}
}

// gobDecode decodes the next value into out, which is only touched on success
func gobDecode[S ~[]E, E any](dec *gob.Decoder, out *S) error {
	var v S
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("gob: %w", err)
	}
	if v == nil {
		v = S{}
	}
	*out = v
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// gobRecord is the wire form of payload.Record. gob omits struct fields
// equal to zero, which would turn -0 into +0, so floats travel as bits.
type gobRecord struct {
	A int32
	B int64
	C uint32
	D uint64
}

type gobChild struct {
	Base gobRecord
	V    []float32
}

func toGobRecord(r payload.Record) gobRecord {
	return gobRecord{A: r.A, B: r.B, C: math.Float32bits(r.C), D: math.Float64bits(r.D)}
}

func (r gobRecord) record() payload.Record {
	return payload.Record{A: r.A, B: r.B, C: math.Float32frombits(r.C), D: math.Float64frombits(r.D)}
}
