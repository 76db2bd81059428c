package run

import (
	"context"
	"fmt"
	"github.com/ValentinKolb/archbench/cmd/util"
	"github.com/ValentinKolb/archbench/lib/archive"
	"github.com/ValentinKolb/archbench/lib/common"
	"github.com/ValentinKolb/archbench/lib/harness"
	"github.com/ValentinKolb/archbench/lib/payload"
	"github.com/ValentinKolb/archbench/lib/random"
	"github.com/ValentinKolb/archbench/lib/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"io"
	"math/rand/v2"
	"os"
	"runtime/debug"
)

var (
	runConfig = &common.BenchConfig{}

	// RunCmd runs the benchmark matrix
	RunCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the save/load benchmark",
		Long: `Run every test of the benchmark matrix with the baseline and the candidate archive and report the average save and load times and the encoded size. The candidate's values are reported relative to the baseline.

The configuration can be set via command line flags, environment variables or a config file. The format of the environment variables is ARCHBENCH_<flag> (e.g. ARCHBENCH_AVERAGES=20)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	util.SetupBenchFlags(RunCmd.Flags())
}

// processConfig reads the configuration from the command line flags and environment variables
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	runConfig = util.GetBenchConfig()
	return common.InitLoggers(runConfig.LogLevel, runConfig.LogFormat)
}

func run(cmd *cobra.Command, _ []string) error {
	logger := common.CreateLogger("run")

	// Print configuration
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Configuration:\n%s\n", runConfig.String())

	skip, err := util.GetSkipKinds(runConfig)
	if err != nil {
		return err
	}
	entries := Filter(DefaultMatrix(), skip, runConfig.MaxElements)

	// reject invalid settings before the report file is truncated
	if _, err := prepare(runConfig); err != nil {
		return err
	}

	// Open the report destination
	out := cmd.OutOrStdout()
	if runConfig.Output != "" {
		file, err := os.Create(runConfig.Output)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer file.Close()
		out = file
	}

	if err := Bench(cmd.Context(), runConfig, entries, out, logger); err != nil {
		return err
	}

	if runConfig.Output != "" {
		logger.Info("report written", zap.String("path", runConfig.Output))
	}
	return nil
}

// Bench runs entries with the archives and settings of conf and writes the
// report to out. Invalid settings are rejected before the first test.
func Bench(ctx context.Context, conf *common.BenchConfig, entries []Entry, out io.Writer, logger *zap.Logger) error {
	settings, err := prepare(conf)
	if err != nil {
		return err
	}
	writer, err := report.NewWriter(conf.Format, out)
	if err != nil {
		return err
	}

	var rng *rand.Rand
	if conf.Randomize {
		seed := conf.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		logger.Info("randomizing payloads", zap.Uint64("seed", seed))
		rng = random.New(seed)
	}

	opts := harness.Options{
		NumAverages: conf.NumAverages,
		Validate:    conf.Validate,
		Policy:      settings.policy,
		Resolution:  conf.Resolution,
		Logger:      common.CreateLogger("harness"),
	}

	for _, e := range entries {
		if err := runEntry(ctx, e, settings.pair, opts, rng, writer); err != nil {
			return err
		}
		// release the payload and its encodings before the next test
		debug.FreeOSMemory()
	}
	return writer.Close()
}

// benchSettings are the parsed parts of a BenchConfig
type benchSettings struct {
	pair   archive.Pair
	policy payload.FloatPolicy
}

// prepare validates conf without timing anything or writing output
func prepare(conf *common.BenchConfig) (benchSettings, error) {
	pair, err := util.GetPair(conf)
	if err != nil {
		return benchSettings{}, err
	}
	policy, err := payload.ParseFloatPolicy(conf.FloatPolicy)
	if err != nil {
		return benchSettings{}, err
	}
	if conf.NumAverages < 1 {
		return benchSettings{}, fmt.Errorf("%w (got %d)", harness.ErrInvalidRepeatCount, conf.NumAverages)
	}
	if _, err := report.NewWriter(conf.Format, io.Discard); err != nil {
		return benchSettings{}, err
	}
	return benchSettings{pair: pair, policy: policy}, nil
}

// runEntry builds the payload of one entry, times it and reports the result
func runEntry(ctx context.Context, e Entry, pair archive.Pair, opts harness.Options, rng *rand.Rand, writer report.IWriter) error {
	var r *rand.Rand
	if e.Randomizable {
		r = rng
	}

	data, err := payload.New(e.Kind, e.Elements, r)
	if err != nil {
		return fmt.Errorf("failed to build payload for %s: %w", e.Name(), err)
	}

	if err := writer.Begin(e.Name()); err != nil {
		return err
	}
	res, err := harness.Run(ctx, e.Name(), data, pair, opts)
	if err != nil {
		return err
	}
	return writer.Write(res)
}
