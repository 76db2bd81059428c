package archive

import (
	"bytes"
	"fmt"
	"github.com/ValentinKolb/archbench/lib/payload"
	"google.golang.org/protobuf/encoding/protowire"
	"io"
	"math"
	"slices"
)

// NewProtobufArchive creates an archive writing the Protocol Buffers wire
// format. The layout corresponds to the following schema:
//
//	message Doubles  { repeated double values = 1; }      // packed
//	message Bytes    { bytes values = 1; }
//	message Record   { sint32 a = 1; sint64 b = 2; float c = 3; double d = 4; }
//	message Records  { repeated Record values = 1; }
//	message Child    { Record base = 1; repeated float v = 2; } // packed
//	message Children { repeated Child values = 1; }
func NewProtobufArchive() IArchive {
	return &protobufArchive{}
}

// protobufArchive implements IArchive using protowire
type protobufArchive struct {
}

const (
	pbValues protowire.Number = 1

	pbRecordA protowire.Number = 1
	pbRecordB protowire.Number = 2
	pbRecordC protowire.Number = 3
	pbRecordD protowire.Number = 4

	pbChildBase protowire.Number = 1
	pbChildV    protowire.Number = 2
)

// --------------------------------------------------------------------------
// Interface Methods (docu see archive.IArchive)
// --------------------------------------------------------------------------

func (p protobufArchive) Name() string {
	return "protobuf"
}

func (p protobufArchive) Save(w io.Writer, data payload.Payload) error {
	var b []byte

	switch d := data.(type) {
	case *payload.Doubles:
		if len(*d) > 0 {
			b = make([]byte, 0, protowire.SizeTag(pbValues)+protowire.SizeBytes(8*len(*d)))
			b = protowire.AppendTag(b, pbValues, protowire.BytesType)
			b = protowire.AppendVarint(b, uint64(8*len(*d)))
			for _, v := range *d {
				b = protowire.AppendFixed64(b, math.Float64bits(v))
			}
		}
	case *payload.Bytes:
		if len(*d) > 0 {
			b = make([]byte, 0, protowire.SizeTag(pbValues)+protowire.SizeBytes(len(*d)))
			b = protowire.AppendTag(b, pbValues, protowire.BytesType)
			b = protowire.AppendBytes(b, *d)
		}
	case *payload.Records:
		// Calculate total size needed
		total := 0
		for _, r := range *d {
			total += protowire.SizeTag(pbValues) + protowire.SizeBytes(pbSizeRecord(r))
		}
		b = make([]byte, 0, total)
		for _, r := range *d {
			b = protowire.AppendTag(b, pbValues, protowire.BytesType)
			b = protowire.AppendVarint(b, uint64(pbSizeRecord(r)))
			b = pbAppendRecord(b, r)
		}
	case *payload.Children:
		total := 0
		for _, c := range *d {
			total += protowire.SizeTag(pbValues) + protowire.SizeBytes(pbSizeChild(c))
		}
		b = make([]byte, 0, total)
		for _, c := range *d {
			b = protowire.AppendTag(b, pbValues, protowire.BytesType)
			b = protowire.AppendVarint(b, uint64(pbSizeChild(c)))
			b = pbAppendChild(b, c)
		}
	default:
		return unsupported(p.Name(), data)
	}

	_, err := w.Write(b)
	return err
}

func (p protobufArchive) Load(r io.Reader, out payload.Payload) error {
	b, err := readAll(r)
	if err != nil {
		return fmt.Errorf("protobuf: %w", err)
	}

	switch o := out.(type) {
	case *payload.Doubles:
		values := payload.Doubles{}
		err = pbWalkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
			if num != pbValues {
				return -1, nil
			}
			switch typ {
			case protowire.BytesType:
				v, n := protowire.ConsumeBytes(b)
				if n < 0 {
					return 0, protowire.ParseError(n)
				}
				if len(v)%8 != 0 {
					return 0, fmt.Errorf("packed double field of %d bytes", len(v))
				}
				values = slices.Grow(values, len(v)/8)
				for len(v) > 0 {
					x, m := protowire.ConsumeFixed64(v)
					values = append(values, math.Float64frombits(x))
					v = v[m:]
				}
				return n, nil
			case protowire.Fixed64Type:
				x, n := protowire.ConsumeFixed64(b)
				if n < 0 {
					return 0, protowire.ParseError(n)
				}
				values = append(values, math.Float64frombits(x))
				return n, nil
			}
			return -1, nil
		})
		if err != nil {
			return fmt.Errorf("protobuf: %w", err)
		}
		*o = values
	case *payload.Bytes:
		values := payload.Bytes{}
		err = pbWalkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
			if num != pbValues || typ != protowire.BytesType {
				return -1, nil
			}
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			// last one wins for singular fields
			values = bytes.Clone(v)
			if values == nil {
				values = payload.Bytes{}
			}
			return n, nil
		})
		if err != nil {
			return fmt.Errorf("protobuf: %w", err)
		}
		*o = values
	case *payload.Records:
		values := payload.Records{}
		err = pbWalkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
			if num != pbValues || typ != protowire.BytesType {
				return -1, nil
			}
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			rec, err := pbDecodeRecord(v)
			if err != nil {
				return 0, err
			}
			values = append(values, rec)
			return n, nil
		})
		if err != nil {
			return fmt.Errorf("protobuf: %w", err)
		}
		*o = values
	case *payload.Children:
		values := payload.Children{}
		err = pbWalkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
			if num != pbValues || typ != protowire.BytesType {
				return -1, nil
			}
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			child, err := pbDecodeChild(v)
			if err != nil {
				return 0, err
			}
			values = append(values, child)
			return n, nil
		})
		if err != nil {
			return fmt.Errorf("protobuf: %w", err)
		}
		*o = values
	default:
		return unsupported(p.Name(), out)
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// pbWalkFields calls fn for every field of the message in b. fn returns the
// number of bytes of the field value it consumed, or a negative number to
// have the field skipped.
func pbWalkFields(b []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		n, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if n < 0 {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
		}
		b = b[n:]
	}
	return nil
}

// pbSizeRecord returns the encoded size of r, omitting zero fields
func pbSizeRecord(r payload.Record) int {
	n := 0
	if r.A != 0 {
		n += protowire.SizeTag(pbRecordA) + protowire.SizeVarint(protowire.EncodeZigZag(int64(r.A)))
	}
	if r.B != 0 {
		n += protowire.SizeTag(pbRecordB) + protowire.SizeVarint(protowire.EncodeZigZag(r.B))
	}
	if math.Float32bits(r.C) != 0 {
		n += protowire.SizeTag(pbRecordC) + protowire.SizeFixed32()
	}
	if math.Float64bits(r.D) != 0 {
		n += protowire.SizeTag(pbRecordD) + protowire.SizeFixed64()
	}
	return n
}

func pbAppendRecord(b []byte, r payload.Record) []byte {
	if r.A != 0 {
		b = protowire.AppendTag(b, pbRecordA, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(r.A)))
	}
	if r.B != 0 {
		b = protowire.AppendTag(b, pbRecordB, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(r.B))
	}
	if bits := math.Float32bits(r.C); bits != 0 {
		b = protowire.AppendTag(b, pbRecordC, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, bits)
	}
	if bits := math.Float64bits(r.D); bits != 0 {
		b = protowire.AppendTag(b, pbRecordD, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, bits)
	}
	return b
}

func pbDecodeRecord(b []byte) (payload.Record, error) {
	var r payload.Record
	err := pbWalkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == pbRecordA && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			r.A = int32(protowire.DecodeZigZag(v))
			return n, nil
		case num == pbRecordB && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			r.B = protowire.DecodeZigZag(v)
			return n, nil
		case num == pbRecordC && typ == protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			r.C = math.Float32frombits(v)
			return n, nil
		case num == pbRecordD && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			r.D = math.Float64frombits(v)
			return n, nil
		}
		return -1, nil
	})
	return r, err
}

// pbSizeChild returns the encoded size of c. The base record is always
// written, even when all of its fields are zero.
func pbSizeChild(c payload.Child) int {
	n := protowire.SizeTag(pbChildBase) + protowire.SizeBytes(pbSizeRecord(c.Base))
	if len(c.V) > 0 {
		n += protowire.SizeTag(pbChildV) + protowire.SizeBytes(4*len(c.V))
	}
	return n
}

func pbAppendChild(b []byte, c payload.Child) []byte {
	b = protowire.AppendTag(b, pbChildBase, protowire.BytesType)
	b = protowire.AppendVarint(b, uint64(pbSizeRecord(c.Base)))
	b = pbAppendRecord(b, c.Base)
	if len(c.V) > 0 {
		b = protowire.AppendTag(b, pbChildV, protowire.BytesType)
		b = protowire.AppendVarint(b, uint64(4*len(c.V)))
		for _, f := range c.V {
			b = protowire.AppendFixed32(b, math.Float32bits(f))
		}
	}
	return b
}

func pbDecodeChild(b []byte) (payload.Child, error) {
	c := payload.Child{V: []float32{}}
	err := pbWalkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == pbChildBase && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			base, err := pbDecodeRecord(v)
			if err != nil {
				return 0, err
			}
			c.Base = base
			return n, nil
		case num == pbChildV && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			if len(v)%4 != 0 {
				return 0, fmt.Errorf("packed float field of %d bytes", len(v))
			}
			if len(c.V) == 0 {
				c.V = make([]float32, 0, len(v)/4)
			}
			for len(v) > 0 {
				x, m := protowire.ConsumeFixed32(v)
				c.V = append(c.V, math.Float32frombits(x))
				v = v[m:]
			}
			return n, nil
		case num == pbChildV && typ == protowire.Fixed32Type:
			x, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			c.V = append(c.V, math.Float32frombits(x))
			return n, nil
		}
		return -1, nil
	})
	return c, err
}
