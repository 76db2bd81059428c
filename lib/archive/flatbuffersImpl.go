package archive

import (
	"bytes"
	"fmt"
	"github.com/ValentinKolb/archbench/lib/payload"
	flatbuffers "github.com/google/flatbuffers/go"
	"io"
	"math"
)

// NewFlatbuffersArchive creates an archive writing FlatBuffers. The tables
// are built by hand and correspond to the following schema:
//
//	struct Record { a:int; b:long; c:float; d:double; }   // 32 bytes
//	table  Child  { base:Record; v:[float]; }
//	table  Root   { values:[...]; kind:ubyte; }
//
// FlatBuffers address the buffer with 32 bit offsets, payloads whose
// encoding exceeds 2 GiB are rejected with an error.
func NewFlatbuffersArchive() IArchive {
	return &flatbuffersArchive{}
}

// flatbuffersArchive implements IArchive using FlatBuffers
type flatbuffersArchive struct {
}

const (
	fbRecordSize  = 32
	fbMaxSize     = math.MaxInt32
	fbOverhead    = 128
	fbSlotValues  = 0
	fbSlotKind    = 1
	fbSlotBase    = 0
	fbSlotV       = 1
	fbVTableFirst = flatbuffers.VOffsetT(4)
)

// fbFieldOffset returns the vtable entry of a slot
func fbFieldOffset(slot int) flatbuffers.VOffsetT {
	return fbVTableFirst + flatbuffers.VOffsetT(slot*2)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see archive.IArchive)
// --------------------------------------------------------------------------

func (f flatbuffersArchive) Name() string {
	return "flatbuffers"
}

func (f flatbuffersArchive) Save(w io.Writer, data payload.Payload) (err error) {
	defer recoverError(f.Name(), &err)

	size := f.estimateSize(data)
	if size > fbMaxSize {
		return fmt.Errorf("flatbuffers: encoding of %d bytes exceeds the 2 GiB buffer limit", size)
	}
	b := flatbuffers.NewBuilder(size)

	var values flatbuffers.UOffsetT
	switch d := data.(type) {
	case *payload.Doubles:
		b.StartVector(8, len(*d), 8)
		for i := len(*d) - 1; i >= 0; i-- {
			b.PrependFloat64((*d)[i])
		}
		values = b.EndVector(len(*d))
	case *payload.Bytes:
		values = b.CreateByteVector(*d)
	case *payload.Records:
		b.StartVector(fbRecordSize, len(*d), 8)
		for i := len(*d) - 1; i >= 0; i-- {
			fbCreateRecord(b, (*d)[i])
		}
		values = b.EndVector(len(*d))
	case *payload.Children:
		children := make([]flatbuffers.UOffsetT, len(*d))
		for i, child := range *d {
			children[i] = fbCreateChild(b, child)
		}
		b.StartVector(flatbuffers.SizeUOffsetT, len(children), flatbuffers.SizeUOffsetT)
		for i := len(children) - 1; i >= 0; i-- {
			b.PrependUOffsetT(children[i])
		}
		values = b.EndVector(len(children))
	default:
		return unsupported(f.Name(), data)
	}

	b.StartObject(2)
	b.PrependUOffsetTSlot(fbSlotValues, values, 0)
	b.PrependByteSlot(fbSlotKind, byte(data.Kind()), 0)
	b.Finish(b.EndObject())

	if _, err := w.Write(b.FinishedBytes()); err != nil {
		return fmt.Errorf("flatbuffers: %w", err)
	}
	return nil
}

func (f flatbuffersArchive) Load(r io.Reader, out payload.Payload) (err error) {
	defer recoverError(f.Name(), &err)

	buf, err := readAll(r)
	if err != nil {
		return fmt.Errorf("flatbuffers: %w", err)
	}
	if len(buf) < 2*flatbuffers.SizeUOffsetT {
		return fmt.Errorf("flatbuffers: data too short for root table")
	}

	root := &flatbuffers.Table{Bytes: buf, Pos: flatbuffers.GetUOffsetT(buf)}
	if kind := payload.Kind(root.GetByteSlot(fbFieldOffset(fbSlotKind), 0)); kind != out.Kind() {
		return kindMismatch(f.Name(), kind, out)
	}

	o := flatbuffers.UOffsetT(root.Offset(fbFieldOffset(fbSlotValues)))
	n, vec := 0, flatbuffers.UOffsetT(0)
	if o != 0 {
		n, vec = root.VectorLen(o), root.Vector(o)
	}

	switch t := out.(type) {
	case *payload.Doubles:
		result := make(payload.Doubles, n)
		for i := range result {
			result[i] = root.GetFloat64(vec + flatbuffers.UOffsetT(i*8))
		}
		*t = result
	case *payload.Bytes:
		if o == 0 {
			*t = payload.Bytes{}
			return nil
		}
		*t = bytes.Clone(root.ByteVector(o + root.Pos))
	case *payload.Records:
		result := make(payload.Records, n)
		for i := range result {
			result[i] = fbRecord(root, vec+flatbuffers.UOffsetT(i*fbRecordSize))
		}
		*t = result
	case *payload.Children:
		result := make(payload.Children, n)
		for i := range result {
			pos := root.Indirect(vec + flatbuffers.UOffsetT(i*flatbuffers.SizeUOffsetT))
			result[i] = fbChild(&flatbuffers.Table{Bytes: buf, Pos: pos})
		}
		*t = result
	default:
		return unsupported(f.Name(), out)
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// estimateSize returns an upper bound of the encoded size so the builder
// never has to grow while saving
func (f flatbuffersArchive) estimateSize(data payload.Payload) int {
	switch d := data.(type) {
	case *payload.Doubles:
		return 8*len(*d) + fbOverhead
	case *payload.Bytes:
		return len(*d) + fbOverhead
	case *payload.Records:
		return fbRecordSize*len(*d) + fbOverhead
	case *payload.Children:
		size := fbOverhead
		for _, child := range *d {
			// table, vtable, inline record, vector length and offset in the parent vector
			size += 4*len(child.V) + fbRecordSize + 48
		}
		return size
	default:
		return fbOverhead
	}
}

// fbCreateRecord writes a Record struct inline, fields are written back to front
func fbCreateRecord(b *flatbuffers.Builder, r payload.Record) flatbuffers.UOffsetT {
	b.Prep(8, fbRecordSize)
	b.PrependFloat64(r.D)
	b.Pad(4)
	b.PrependFloat32(r.C)
	b.PrependInt64(r.B)
	b.Pad(4)
	b.PrependInt32(r.A)
	return b.Offset()
}

func fbRecord(t *flatbuffers.Table, pos flatbuffers.UOffsetT) payload.Record {
	return payload.Record{
		A: t.GetInt32(pos),
		B: t.GetInt64(pos + 8),
		C: t.GetFloat32(pos + 16),
		D: t.GetFloat64(pos + 24),
	}
}

func fbCreateChild(b *flatbuffers.Builder, c payload.Child) flatbuffers.UOffsetT {
	b.StartVector(4, len(c.V), 4)
	for i := len(c.V) - 1; i >= 0; i-- {
		b.PrependFloat32(c.V[i])
	}
	v := b.EndVector(len(c.V))

	b.StartObject(2)
	b.PrependUOffsetTSlot(fbSlotV, v, 0)
	b.PrependStructSlot(fbSlotBase, fbCreateRecord(b, c.Base), 0)
	return b.EndObject()
}

func fbChild(t *flatbuffers.Table) payload.Child {
	var c payload.Child
	if o := flatbuffers.UOffsetT(t.Offset(fbFieldOffset(fbSlotBase))); o != 0 {
		c.Base = fbRecord(t, t.Pos+o)
	}

	c.V = []float32{}
	if o := flatbuffers.UOffsetT(t.Offset(fbFieldOffset(fbSlotV))); o != 0 {
		vec := t.Vector(o)
		c.V = make([]float32, t.VectorLen(o))
		for j := range c.V {
			c.V[j] = t.GetFloat32(vec + flatbuffers.UOffsetT(j*4))
		}
	}
	return c
}
