package archive

import (
	"capnproto.org/go/capnp/v3"
	"fmt"
	"github.com/ValentinKolb/archbench/lib/payload"
	"io"
	"math"
)

// NewCapnpArchive creates an archive writing Cap'n Proto messages. The
// structs are laid out by hand and correspond to the following schema:
//
//	struct Root   { values @0 :AnyPointer; }
//	struct Record { a @0 :Int32; c @1 :Float32; b @2 :Int64; d @3 :Float64; }
//	struct Child  { a @0 :Int32; c @1 :Float32; b @2 :Int64; d @3 :Float64;
//	                v @4 :List(Float32); }
//
// Doubles are stored as List(Float64), records and children as composite
// lists. Bytes are stored as List(Data) in chunks of capnpChunkSize
// because a single Cap'n Proto list holds at most 2^29-1 elements.
func NewCapnpArchive() IArchive {
	return &capnpArchive{}
}

// capnpArchive implements IArchive using Cap'n Proto
type capnpArchive struct {
}

const capnpChunkSize = 1 << 28

// Data section offsets shared by Record and Child, the base fields of a
// child occupy the same positions as in a plain record
const (
	capnpOffA capnp.DataOffset = 0
	capnpOffC capnp.DataOffset = 4
	capnpOffB capnp.DataOffset = 8
	capnpOffD capnp.DataOffset = 16
)

var (
	capnpRootSize   = capnp.ObjectSize{DataSize: 0, PointerCount: 1}
	capnpRecordSize = capnp.ObjectSize{DataSize: 24, PointerCount: 0}
	capnpChildSize  = capnp.ObjectSize{DataSize: 24, PointerCount: 1}
)

// --------------------------------------------------------------------------
// Interface Methods (docu see archive.IArchive)
// --------------------------------------------------------------------------

func (c capnpArchive) Name() string {
	return "capnp"
}

func (c capnpArchive) Save(w io.Writer, data payload.Payload) (err error) {
	defer recoverError(c.Name(), &err)

	if data.Len() > math.MaxInt32 {
		return fmt.Errorf("capnp: payload of %d elements exceeds list limit", data.Len())
	}

	msg, seg, err := capnp.NewMessage(capnp.SingleSegment(nil))
	if err != nil {
		return fmt.Errorf("capnp: %w", err)
	}
	root, err := capnp.NewRootStruct(seg, capnpRootSize)
	if err != nil {
		return fmt.Errorf("capnp: %w", err)
	}

	var values capnp.Ptr
	switch d := data.(type) {
	case *payload.Doubles:
		l, err := capnp.NewFloat64List(seg, int32(len(*d)))
		if err != nil {
			return fmt.Errorf("capnp: %w", err)
		}
		for i, v := range *d {
			l.Set(i, v)
		}
		values = l.ToPtr()
	case *payload.Bytes:
		chunks := (len(*d) + capnpChunkSize - 1) / capnpChunkSize
		l, err := capnp.NewDataList(seg, int32(chunks))
		if err != nil {
			return fmt.Errorf("capnp: %w", err)
		}
		for i := 0; i < chunks; i++ {
			start := i * capnpChunkSize
			end := min(start+capnpChunkSize, len(*d))
			if err := l.Set(i, (*d)[start:end]); err != nil {
				return fmt.Errorf("capnp: chunk %d: %w", i, err)
			}
		}
		values = l.ToPtr()
	case *payload.Records:
		l, err := capnp.NewCompositeList(seg, capnpRecordSize, int32(len(*d)))
		if err != nil {
			return fmt.Errorf("capnp: %w", err)
		}
		for i, r := range *d {
			capnpSetRecord(l.Struct(i), r)
		}
		values = l.ToPtr()
	case *payload.Children:
		l, err := capnp.NewCompositeList(seg, capnpChildSize, int32(len(*d)))
		if err != nil {
			return fmt.Errorf("capnp: %w", err)
		}
		for i, child := range *d {
			s := l.Struct(i)
			capnpSetRecord(s, child.Base)

			v, err := capnp.NewFloat32List(seg, int32(len(child.V)))
			if err != nil {
				return fmt.Errorf("capnp: child %d: %w", i, err)
			}
			for j, f := range child.V {
				v.Set(j, f)
			}
			if err := s.SetPtr(0, v.ToPtr()); err != nil {
				return fmt.Errorf("capnp: child %d: %w", i, err)
			}
		}
		values = l.ToPtr()
	default:
		return unsupported(c.Name(), data)
	}

	if err := root.SetPtr(0, values); err != nil {
		return fmt.Errorf("capnp: %w", err)
	}
	if err := capnp.NewEncoder(w).Encode(msg); err != nil {
		return fmt.Errorf("capnp: %w", err)
	}
	return nil
}

func (c capnpArchive) Load(r io.Reader, out payload.Payload) (err error) {
	defer recoverError(c.Name(), &err)

	b, err := readAll(r)
	if err != nil {
		return fmt.Errorf("capnp: %w", err)
	}
	msg, err := capnp.Unmarshal(b)
	if err != nil {
		return fmt.Errorf("capnp: %w", err)
	}
	// large payloads exceed the default traversal limit of 64 MiB
	msg.ResetReadLimit(math.MaxUint64)

	rootPtr, err := msg.Root()
	if err != nil {
		return fmt.Errorf("capnp: %w", err)
	}
	values, err := rootPtr.Struct().Ptr(0)
	if err != nil {
		return fmt.Errorf("capnp: %w", err)
	}

	switch o := out.(type) {
	case *payload.Doubles:
		l := capnp.Float64List(values.List())
		result := make(payload.Doubles, l.Len())
		for i := range result {
			result[i] = l.At(i)
		}
		*o = result
	case *payload.Bytes:
		l := capnp.DataList(values.List())
		chunks := make([][]byte, l.Len())
		total := 0
		for i := range chunks {
			if chunks[i], err = l.At(i); err != nil {
				return fmt.Errorf("capnp: chunk %d: %w", i, err)
			}
			total += len(chunks[i])
		}
		result := make(payload.Bytes, 0, total)
		for _, chunk := range chunks {
			result = append(result, chunk...)
		}
		*o = result
	case *payload.Records:
		l := values.List()
		result := make(payload.Records, l.Len())
		for i := range result {
			result[i] = capnpRecord(l.Struct(i))
		}
		*o = result
	case *payload.Children:
		l := values.List()
		result := make(payload.Children, l.Len())
		for i := range result {
			s := l.Struct(i)
			result[i].Base = capnpRecord(s)

			p, err := s.Ptr(0)
			if err != nil {
				return fmt.Errorf("capnp: child %d: %w", i, err)
			}
			v := capnp.Float32List(p.List())
			result[i].V = make([]float32, v.Len())
			for j := range result[i].V {
				result[i].V[j] = v.At(j)
			}
		}
		*o = result
	default:
		return unsupported(c.Name(), out)
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func capnpSetRecord(s capnp.Struct, r payload.Record) {
	s.SetUint32(capnpOffA, uint32(r.A))
	s.SetUint32(capnpOffC, math.Float32bits(r.C))
	s.SetUint64(capnpOffB, uint64(r.B))
	s.SetUint64(capnpOffD, math.Float64bits(r.D))
}

func capnpRecord(s capnp.Struct) payload.Record {
	return payload.Record{
		A: int32(s.Uint32(capnpOffA)),
		B: int64(s.Uint64(capnpOffB)),
		C: math.Float32frombits(s.Uint32(capnpOffC)),
		D: math.Float64frombits(s.Uint64(capnpOffD)),
	}
}
