package list

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestListCmd(t *testing.T) {
	var out bytes.Buffer
	ListCmd.SetOut(&out)
	ListCmd.SetArgs(nil)
	require.NoError(t, ListCmd.RunE(ListCmd, nil))

	text := out.String()
	assert.Contains(t, text, "  protobuf (default baseline)\n")
	assert.Contains(t, text, "  capnp (default candidate)\n")
	assert.Contains(t, text, "  flatbuffers\n")
	assert.Contains(t, text, "text, json, yaml, csv, prometheus")
	assert.Contains(t, text, "Vector(Child) size 65536")
	assert.Contains(t, text, "kind=children")
}
