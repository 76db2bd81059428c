package archive

import (
	"encoding/binary"
	"fmt"
	"github.com/ValentinKolb/archbench/lib/payload"
	"io"
	"math"
)

// NewBinaryArchive creates an archive using a custom fixed width binary
// format. All values are big endian:
//
//	header:   kind (1 byte) | element count (8 bytes)
//	double:   8 bytes
//	uint8:    1 byte
//	Record:   a (4) | b (8) | c (4) | d (8)
//	Child:    Record | float count (4) | floats (4 each)
func NewBinaryArchive() IArchive {
	return &binaryArchive{}
}

// binaryArchive implements IArchive using a custom binary format
type binaryArchive struct {
}

const (
	binHeaderSize = 1 + 8
	binRecordSize = 4 + 8 + 4 + 8
)

// --------------------------------------------------------------------------
// Interface Methods (docu see archive.IArchive)
// --------------------------------------------------------------------------

func (b binaryArchive) Name() string {
	return "binary"
}

func (b binaryArchive) Save(w io.Writer, data payload.Payload) error {
	// Calculate total size needed
	size, err := b.sizeBytes(data)
	if err != nil {
		return err
	}
	result := make([]byte, size)

	// Write header
	result[0] = byte(data.Kind())
	binary.BigEndian.PutUint64(result[1:binHeaderSize], uint64(data.Len()))
	pos := binHeaderSize

	switch d := data.(type) {
	case *payload.Doubles:
		for _, v := range *d {
			binary.BigEndian.PutUint64(result[pos:pos+8], math.Float64bits(v))
			pos += 8
		}
	case *payload.Bytes:
		copy(result[pos:], *d)
	case *payload.Records:
		for _, r := range *d {
			pos = binPutRecord(result, pos, r)
		}
	case *payload.Children:
		for _, c := range *d {
			pos = binPutRecord(result, pos, c.Base)

			binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(c.V)))
			pos += 4
			for _, f := range c.V {
				binary.BigEndian.PutUint32(result[pos:pos+4], math.Float32bits(f))
				pos += 4
			}
		}
	}

	if _, err := w.Write(result); err != nil {
		return fmt.Errorf("binary: %w", err)
	}
	return nil
}

func (b binaryArchive) Load(r io.Reader, out payload.Payload) error {
	data, err := readAll(r)
	if err != nil {
		return fmt.Errorf("binary: %w", err)
	}

	// Check minimum size (kind + count)
	if len(data) < binHeaderSize {
		return fmt.Errorf("binary: data too short for header")
	}
	if kind := payload.Kind(data[0]); kind != out.Kind() {
		return kindMismatch(b.Name(), kind, out)
	}
	count := binary.BigEndian.Uint64(data[1:binHeaderSize])
	pos := binHeaderSize

	// every element needs at least elemSize bytes, reject counts the data cannot hold
	elemSize := map[payload.Kind]uint64{
		payload.KindDoubles:  8,
		payload.KindBytes:    1,
		payload.KindRecords:  binRecordSize,
		payload.KindChildren: binRecordSize + 4,
	}[out.Kind()]
	if elemSize == 0 {
		return unsupported(b.Name(), out)
	}
	if count > uint64(len(data)-pos)/elemSize {
		return fmt.Errorf("binary: data too short for %d elements", count)
	}
	n := int(count)

	switch o := out.(type) {
	case *payload.Doubles:
		result := make(payload.Doubles, n)
		for i := range result {
			result[i] = math.Float64frombits(binary.BigEndian.Uint64(data[pos : pos+8]))
			pos += 8
		}
		*o = result
	case *payload.Bytes:
		result := make(payload.Bytes, n)
		copy(result, data[pos:pos+n])
		*o = result
	case *payload.Records:
		result := make(payload.Records, n)
		for i := range result {
			result[i], pos = binRecord(data, pos)
		}
		*o = result
	case *payload.Children:
		result := make(payload.Children, n)
		for i := range result {
			if pos+binRecordSize+4 > len(data) {
				return fmt.Errorf("binary: data too short for child %d", i)
			}
			result[i].Base, pos = binRecord(data, pos)

			// Read float count
			vLen := int(binary.BigEndian.Uint32(data[pos : pos+4]))
			pos += 4
			if pos+4*vLen > len(data) {
				return fmt.Errorf("binary: data too short for floats of child %d", i)
			}

			result[i].V = make([]float32, vLen)
			for j := range result[i].V {
				result[i].V[j] = math.Float32frombits(binary.BigEndian.Uint32(data[pos : pos+4]))
				pos += 4
			}
		}
		*o = result
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the total size needed for serialization
func (b binaryArchive) sizeBytes(data payload.Payload) (int, error) {
	size := binHeaderSize
	switch d := data.(type) {
	case *payload.Doubles:
		size += 8 * len(*d)
	case *payload.Bytes:
		size += len(*d)
	case *payload.Records:
		size += binRecordSize * len(*d)
	case *payload.Children:
		for _, c := range *d {
			if uint64(len(c.V)) > math.MaxUint32 {
				return 0, fmt.Errorf("binary: nested sequence of %d floats is too long", len(c.V))
			}
			size += binRecordSize + 4 + 4*len(c.V)
		}
	default:
		return 0, unsupported(b.Name(), data)
	}
	return size, nil
}

func binPutRecord(buf []byte, pos int, r payload.Record) int {
	binary.BigEndian.PutUint32(buf[pos:pos+4], uint32(r.A))
	binary.BigEndian.PutUint64(buf[pos+4:pos+12], uint64(r.B))
	binary.BigEndian.PutUint32(buf[pos+12:pos+16], math.Float32bits(r.C))
	binary.BigEndian.PutUint64(buf[pos+16:pos+24], math.Float64bits(r.D))
	return pos + binRecordSize
}

func binRecord(buf []byte, pos int) (payload.Record, int) {
	return payload.Record{
		A: int32(binary.BigEndian.Uint32(buf[pos : pos+4])),
		B: int64(binary.BigEndian.Uint64(buf[pos+4 : pos+12])),
		C: math.Float32frombits(binary.BigEndian.Uint32(buf[pos+12 : pos+16])),
		D: math.Float64frombits(binary.BigEndian.Uint64(buf[pos+16 : pos+24])),
	}, pos + binRecordSize
}
