package testing

import (
	"bytes"
	"errors"
	"github.com/ValentinKolb/archbench/lib/archive"
	"github.com/ValentinKolb/archbench/lib/payload"
	"github.com/ValentinKolb/archbench/lib/random"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

// RunArchiveTests runs a comprehensive test suite for an archive implementation.
func RunArchiveTests(t *testing.T, name string, factory archive.Factory) {
	t.Run(name, func(t *testing.T) {
		t.Run("RoundTrip", func(t *testing.T) {
			testRoundTrip(t, factory())
		})

		t.Run("DeterministicSize", func(t *testing.T) {
			testDeterministicSize(t, factory())
		})

		t.Run("LoadReader", func(t *testing.T) {
			testLoadReader(t, factory())
		})

		t.Run("InvalidData", func(t *testing.T) {
			testInvalidData(t, factory())
		})

		t.Run("UnsupportedPayload", func(t *testing.T) {
			testUnsupportedPayload(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// unknownPayload is a payload kind no archive supports
type unknownPayload struct{}

func (u *unknownPayload) Kind() payload.Kind { return payload.KindUnknown }
func (u *unknownPayload) Len() int { return 0 }
func (u *unknownPayload) Empty() payload.Payload { return &unknownPayload{} }

func ptr[T any](v T) *T { return &v }

// TestPayloads creates a set of payloads covering every kind and the edge
// values of every field type
func TestPayloads(t testing.TB) map[string]payload.Payload {
	t.Helper()

	randomPayload := func(kind payload.Kind, n int) payload.Payload {
		p, err := payload.New(kind, n, random.New(42))
		require.NoError(t, err)
		return p
	}
	defaultPayload := func(kind payload.Kind, n int) payload.Payload {
		p, err := payload.New(kind, n, nil)
		require.NoError(t, err)
		return p
	}

	return map[string]payload.Payload{
		"DoublesEmpty":  &payload.Doubles{},
		"DoublesSingle": ptr(payload.Doubles{1.5}),
		"DoublesEdge": ptr(payload.Doubles{
			0, math.Copysign(0, -1), math.MaxFloat64, -math.MaxFloat64,
			math.SmallestNonzeroFloat64, math.Inf(1), math.Inf(-1), math.NaN(),
		}),
		"DoublesRandom":  randomPayload(payload.KindDoubles, 1024),
		"BytesEmpty":     &payload.Bytes{},
		"BytesSingle":    ptr(payload.Bytes{0xff}),
		"BytesRandom":    randomPayload(payload.KindBytes, 4096),
		"RecordsEmpty":   &payload.Records{},
		"RecordsDefault": defaultPayload(payload.KindRecords, 3),
		"RecordsEdge": ptr(payload.Records{
			{A: math.MinInt32, B: math.MinInt64, C: -math.MaxFloat32, D: -math.MaxFloat64},
			{A: math.MaxInt32, B: math.MaxInt64, C: math.MaxFloat32, D: math.MaxFloat64},
			{A: -1, B: -1, C: float32(math.NaN()), D: math.NaN()},
			{C: float32(math.Inf(1)), D: math.Copysign(0, -1)},
			{C: float32(math.Copysign(0, -1)), D: math.Copysign(0, -1)},
		}),
		"RecordsRandom":    randomPayload(payload.KindRecords, 64),
		"ChildrenEmpty":    &payload.Children{},
		"ChildrenDefault":  defaultPayload(payload.KindChildren, 2),
		"ChildrenNoFloats": ptr(payload.Children{{Base: payload.Record{A: 7}, V: []float32{}}}),
		"ChildrenNegativeZero": ptr(payload.Children{{
			Base: payload.Record{C: float32(math.Copysign(0, -1)), D: math.Copysign(0, -1)},
			V:    []float32{float32(math.Copysign(0, -1)), 0},
		}}),
		"ChildrenRandom":   randomPayload(payload.KindChildren, 8),
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

// testRoundTrip tests that every payload is loaded exactly as it was saved
func testRoundTrip(t *testing.T, a archive.IArchive) {
	for name, p := range TestPayloads(t) {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, a.Save(&buf, p))

			out := p.Empty()
			require.NoError(t, a.Load(&buf, out))
			assert.NoError(t, payload.Compare(p, out, payload.PolicyBitwise))
		})
	}
}

// testDeterministicSize tests that saving the same payload twice yields the same size
func testDeterministicSize(t *testing.T, a archive.IArchive) {
	p, err := payload.New(payload.KindRecords, 1, nil)
	require.NoError(t, err)

	var first, second bytes.Buffer
	require.NoError(t, a.Save(&first, p))
	require.NoError(t, a.Save(&second, p))
	assert.Equal(t, first.Len(), second.Len())
	assert.Positive(t, first.Len())
}

// testLoadReader tests loading from a reader that is not a bytes.Buffer
func testLoadReader(t *testing.T, a archive.IArchive) {
	p, err := payload.New(payload.KindChildren, 3, random.New(1))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, a.Save(&buf, p))

	out := p.Empty()
	require.NoError(t, a.Load(bytes.NewReader(buf.Bytes()), out))
	assert.True(t, payload.Equal(p, out, payload.PolicyBitwise))
}

// testInvalidData tests that malformed input is reported as an error and
// never as a partial payload
func testInvalidData(t *testing.T, a archive.IArchive) {
	p, err := payload.New(payload.KindRecords, 4, random.New(3))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, a.Save(&buf, p))

	t.Run("Truncated", func(t *testing.T) {
		truncated := bytes.Clone(buf.Bytes()[:buf.Len()-1])
		assert.Error(t, a.Load(bytes.NewBuffer(truncated), p.Empty()))
	})

	t.Run("Garbage", func(t *testing.T) {
		assert.Error(t, a.Load(bytes.NewBuffer([]byte{0xff, 0xff, 0xff}), p.Empty()))
	})

	t.Run("Empty", func(t *testing.T) {
		// formats without a header may decode no input as an empty payload
		out := p.Empty()
		if err := a.Load(bytes.NewBuffer(nil), out); err == nil {
			assert.Zero(t, out.Len())
		}
	})
}

// testUnsupportedPayload tests that unknown payload kinds are rejected
func testUnsupportedPayload(t *testing.T, a archive.IArchive) {
	var buf bytes.Buffer
	err := a.Save(&buf, &unknownPayload{})
	assert.True(t, errors.Is(err, archive.ErrUnsupportedPayload), "got %v", err)
}
