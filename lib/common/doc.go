// Package common provides the configuration and logging shared by the
// command line and the benchmark packages.
//
// Key Components:
//
//   - BenchConfig: All settings of a benchmark run, collected from flags,
//     environment variables and config files by the command line. Renders
//     itself as a sectioned overview for the startup banner.
//
//   - Logger: zap based structured logging. InitLoggers configures level and
//     encoding once, CreateLogger hands out named child loggers per package.
//     All log output goes to stderr so reports written to stdout stay
//     machine readable.
package common
