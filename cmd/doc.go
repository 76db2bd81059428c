// Package cmd implements the command-line interface of archbench. It
// provides the commands to run the benchmark and to inspect what it would
// run.
//
// The package is organized into several subpackages:
//
//   - run: The benchmark driver, runs the test matrix and writes the report
//   - list: Prints the registered archives, report formats and tests
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See archbench -help for a list of all commands.
package cmd
