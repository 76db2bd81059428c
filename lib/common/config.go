package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Benchmark configuration struct
// --------------------------------------------------------------------------

// BenchConfig holds all configuration parameters of a benchmark run
type BenchConfig struct {
	// archives to compare, ratios are candidate / baseline
	Baseline  string
	Candidate string

	// timing loop
	NumAverages int
	Resolution  time.Duration
	Validate    bool
	FloatPolicy string

	// payload construction
	Randomize   bool
	Seed        uint64
	Skip        []string
	MaxElements int

	// report
	Format string
	Output string

	// Logging configuration
	LogLevel  string
	LogFormat string
}

// DefaultBenchConfig returns the configuration of a run without any flags
func DefaultBenchConfig() BenchConfig {
	return BenchConfig{
		Baseline:    "protobuf",
		Candidate:   "capnp",
		NumAverages: 10,
		FloatPolicy: "bitwise",
		Format:      "text",
		LogLevel:    "info",
		LogFormat:   "console",
	}
}

// String returns a formatted string representation of the configuration
func (c *BenchConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// Archives
	addSection("Archives")
	addField("Baseline", c.Baseline)
	addField("Candidate", c.Candidate)

	// Timing
	addSection("Timing")
	addField("Averages", strconv.Itoa(c.NumAverages))
	if c.Resolution > 0 {
		addField("Resolution", c.Resolution.String())
	} else {
		addField("Resolution", "full")
	}
	addField("Validate", strconv.FormatBool(c.Validate))
	if c.Validate {
		addField("Float Policy", c.FloatPolicy)
	}

	// Payloads
	addSection("Payloads")
	addField("Randomize", strconv.FormatBool(c.Randomize))
	if c.Randomize {
		if c.Seed == 0 {
			addField("Seed", "random")
		} else {
			addField("Seed", strconv.FormatUint(c.Seed, 10))
		}
	}
	if len(c.Skip) > 0 {
		addField("Skip", strings.Join(c.Skip, ", "))
	}
	if c.MaxElements > 0 {
		addField("Max Elements", strconv.Itoa(c.MaxElements))
	}

	// Report
	addSection("Report")
	addField("Format", c.Format)
	if c.Output != "" {
		addField("Output", c.Output)
	} else {
		addField("Output", "stdout")
	}

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)
	addField("Log Format", c.LogFormat)

	return sb.String()
}
