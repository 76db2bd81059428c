package util

import (
	"github.com/ValentinKolb/archbench/lib/common"
	"github.com/ValentinKolb/archbench/lib/payload"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 30)
	for _, line := range strings.Split(WrapString(text), "\n") {
		assert.LessOrEqual(t, len(line), Wrap)
	}
	assert.Equal(t, "short text", WrapString("  short   text "))
	assert.Equal(t, "", WrapString(""))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"bytes", "children"}, SplitList(" bytes, ,children,"))
	assert.Nil(t, SplitList(""))
}

func TestGetSkipKinds(t *testing.T) {
	kinds, err := GetSkipKinds(&common.BenchConfig{Skip: []string{"bytes", "Children"}})
	require.NoError(t, err)
	assert.Equal(t, []payload.Kind{payload.KindBytes, payload.KindChildren}, kinds)

	_, err = GetSkipKinds(&common.BenchConfig{Skip: []string{"strings"}})
	assert.Error(t, err)
}

func TestGetBenchConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := &cobra.Command{Use: "test"}
	SetupBenchFlags(cmd.Flags())
	SetupLoggingFlags(cmd.Flags())
	require.NoError(t, cmd.Flags().Parse([]string{"--averages=3", "--skip=bytes,records", "--resolution=1ms"}))
	require.NoError(t, BindCommandFlags(cmd))

	t.Setenv("ARCHBENCH_CANDIDATE", "gob")
	require.NoError(t, InitConfig(""))

	conf := GetBenchConfig()
	assert.Equal(t, 3, conf.NumAverages)
	assert.Equal(t, []string{"bytes", "records"}, conf.Skip)
	assert.Equal(t, time.Millisecond, conf.Resolution)
	assert.Equal(t, "protobuf", conf.Baseline)
	assert.Equal(t, "gob", conf.Candidate)
	assert.Equal(t, "text", conf.Format)
	assert.Equal(t, "info", conf.LogLevel)

	pair, err := GetPair(conf)
	require.NoError(t, err)
	assert.Equal(t, "gob", pair.Candidate.Name())
}

func TestInitConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("averages: 25\nformat: csv\n"), 0o600))
	require.NoError(t, InitConfig(path))

	conf := GetBenchConfig()
	assert.Equal(t, 25, conf.NumAverages)
	assert.Equal(t, "csv", conf.Format)

	assert.Error(t, InitConfig(filepath.Join(t.TempDir(), "missing.yaml")))
}
