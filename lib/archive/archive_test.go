package archive_test

import (
	"bytes"
	"github.com/ValentinKolb/archbench/lib/archive"
	archivetesting "github.com/ValentinKolb/archbench/lib/archive/testing"
	"github.com/ValentinKolb/archbench/lib/payload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

// testArchives is a map of archive name to factory function
var testArchives = map[string]archive.Factory{
	"protobuf":    archive.NewProtobufArchive,
	"capnp":       archive.NewCapnpArchive,
	"flatbuffers": archive.NewFlatbuffersArchive,
	"gob":         archive.NewGOBArchive,
	"binary":      archive.NewBinaryArchive,
}

func Test(t *testing.T) {
	for name, factory := range testArchives {
		archivetesting.RunArchiveTests(t, name, factory)
	}
}

func Benchmark(b *testing.B) {
	for name, factory := range testArchives {
		archivetesting.RunArchiveBenchmarks(b, name, factory)
	}
}

func TestArchiveNames(t *testing.T) {
	for name, factory := range testArchives {
		assert.Equal(t, name, factory().Name())
	}
}

// TestKindMismatch tests the archives that record the payload kind
func TestKindMismatch(t *testing.T) {
	for _, name := range []string{"flatbuffers", "gob", "binary"} {
		t.Run(name, func(t *testing.T) {
			a := testArchives[name]()

			var buf bytes.Buffer
			require.NoError(t, a.Save(&buf, &payload.Doubles{1, 2, 3}))
			assert.Error(t, a.Load(&buf, &payload.Records{}))
		})
	}
}

// TestEmptyInput tests the archives whose encoding always has a header
func TestEmptyInput(t *testing.T) {
	for _, name := range []string{"capnp", "flatbuffers", "gob", "binary"} {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, testArchives[name]().Load(bytes.NewBuffer(nil), &payload.Doubles{}))
		})
	}
}

// TestNegativeZero tests that the sign of zero survives in every float field
func TestNegativeZero(t *testing.T) {
	negZero := math.Copysign(0, -1)

	for name, factory := range testArchives {
		t.Run(name, func(t *testing.T) {
			a := factory()
			in := &payload.Records{{C: float32(negZero), D: negZero}}

			var buf bytes.Buffer
			require.NoError(t, a.Save(&buf, in))

			out := &payload.Records{}
			require.NoError(t, a.Load(&buf, out))
			require.Len(t, *out, 1)
			assert.True(t, math.Signbit(float64((*out)[0].C)), "C lost its sign")
			assert.True(t, math.Signbit((*out)[0].D), "D lost its sign")
		})
	}
}
