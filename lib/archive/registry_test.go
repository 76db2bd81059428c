package archive

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"binary", "capnp", "flatbuffers", "gob", "protobuf"}, Names())

	for _, name := range Names() {
		a, err := Get(name)
		require.NoError(t, err)
		assert.Equal(t, name, a.Name())
	}

	_, err := Get("json")
	assert.ErrorIs(t, err, ErrUnknownArchive)

	pair, err := NewPair("gob", "binary")
	require.NoError(t, err)
	assert.Equal(t, "gob", pair.Baseline.Name())
	assert.Equal(t, "binary", pair.Candidate.Name())

	_, err = NewPair("protobuf", "thrift")
	assert.ErrorIs(t, err, ErrUnknownArchive)
}

func TestBinaryPair(t *testing.T) {
	pair := Binary()
	assert.Equal(t, "protobuf", pair.Baseline.Name())
	assert.Equal(t, "capnp", pair.Candidate.Name())
}

func TestReadAll(t *testing.T) {
	data, err := readAll(strings.NewReader("abc"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)

	buf := bytes.NewBufferString("def")
	data, err = readAll(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("def"), data)
	assert.Zero(t, buf.Len())
}
