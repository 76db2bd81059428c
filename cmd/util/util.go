package util

import (
	"fmt"
	"github.com/ValentinKolb/archbench/lib/archive"
	"github.com/ValentinKolb/archbench/lib/common"
	"github.com/ValentinKolb/archbench/lib/payload"
	"github.com/ValentinKolb/archbench/lib/report"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"strings"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50

	// EnvPrefix is the prefix of all environment variables (e.g. ARCHBENCH_AVERAGES)
	EnvPrefix = "archbench"
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupBenchFlags adds all benchmark flags to a flag set
func SetupBenchFlags(flags *pflag.FlagSet) {
	defaults := common.DefaultBenchConfig()

	key := "baseline"
	flags.String(key, defaults.Baseline, WrapString(fmt.Sprintf("The archive all ratios are relative to (%s)", strings.Join(archive.Names(), ", "))))

	key = "candidate"
	flags.String(key, defaults.Candidate, WrapString(fmt.Sprintf("The archive compared with the baseline (%s)", strings.Join(archive.Names(), ", "))))

	key = "averages"
	flags.Int(key, defaults.NumAverages, WrapString("How many times every save and load is repeated, the reported times are averages over all repetitions"))

	key = "resolution"
	flags.Duration(key, defaults.Resolution, WrapString("Truncate every timing sample to this resolution (e.g. 1ms), 0 keeps full precision"))

	key = "validate"
	flags.Bool(key, defaults.Validate, WrapString("Compare every loaded payload with the original and fail on any difference or on a changing encoded size"))

	key = "float-policy"
	flags.String(key, defaults.FloatPolicy, WrapString("How floats are compared during validation: bitwise (NaN equals NaN, -0 differs from +0) or ieee (==)"))

	key = "randomize"
	flags.Bool(key, defaults.Randomize, WrapString("Fill the double and byte payloads with random values instead of zeros"))

	key = "seed"
	flags.Uint64(key, defaults.Seed, WrapString("Seed of the random values, 0 picks a random seed"))

	key = "skip"
	flags.String(key, "", WrapString("Payload kinds to skip (comma separated - e.g. bytes,children)"))

	key = "max-elements"
	flags.Int(key, defaults.MaxElements, WrapString("Skip tests with more elements than this, 0 runs every test"))

	key = "format"
	flags.String(key, defaults.Format, WrapString(fmt.Sprintf("The report format (%s)", strings.Join(report.Formats, ", "))))

	key = "output"
	flags.String(key, defaults.Output, WrapString("Write the report to this file instead of stdout"))
}

// SetupLoggingFlags adds the logging flags to a flag set
func SetupLoggingFlags(flags *pflag.FlagSet) {
	key := "log-level"
	flags.String(key, "info", WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	key = "log-format"
	flags.String(key, "console", WrapString("LogFormat is the encoding of the logs written to stderr (console, json)"))
}

// InitConfig loads env files, environment variables and the optional config file
func InitConfig(cfgFile string) error {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}
	return nil
}

// GetBenchConfig reads the benchmark configuration from viper
func GetBenchConfig() *common.BenchConfig {
	return &common.BenchConfig{
		Baseline:    viper.GetString("baseline"),
		Candidate:   viper.GetString("candidate"),
		NumAverages: viper.GetInt("averages"),
		Resolution:  viper.GetDuration("resolution"),
		Validate:    viper.GetBool("validate"),
		FloatPolicy: viper.GetString("float-policy"),
		Randomize:   viper.GetBool("randomize"),
		Seed:        viper.GetUint64("seed"),
		Skip:        SplitList(viper.GetString("skip")),
		MaxElements: viper.GetInt("max-elements"),
		Format:      viper.GetString("format"),
		Output:      viper.GetString("output"),
		LogLevel:    viper.GetString("log-level"),
		LogFormat:   viper.GetString("log-format"),
	}
}

// GetPair creates the archives to compare based on configuration
func GetPair(conf *common.BenchConfig) (archive.Pair, error) {
	return archive.NewPair(conf.Baseline, conf.Candidate)
}

// GetSkipKinds parses the payload kinds to skip
func GetSkipKinds(conf *common.BenchConfig) ([]payload.Kind, error) {
	kinds := make([]payload.Kind, 0, len(conf.Skip))
	for _, s := range conf.Skip {
		kind, err := payload.ParseKind(s)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// SplitList splits a comma separated list and drops empty entries
func SplitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
