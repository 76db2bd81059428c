// Package testing provides standardised tests and benchmarks for archive
// adapters that satisfy the archive.IArchive interface.
//
// The package contains:
//   - testing: A test suite validating the IArchive contract (lossless round
//     trips for every payload kind, stable sizes, errors on malformed input)
//   - benchmark: Save and load benchmarks reporting the encoded size
//
// Example usage:
//
//	// Running the standard test suite
//	archivetesting.RunArchiveTests(t, "MyArchive", NewMyArchive)
//
//	// Running performance benchmarks
//	archivetesting.RunArchiveBenchmarks(b, "MyArchive", NewMyArchive)
package testing
