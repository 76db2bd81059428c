package run

import (
	"fmt"
	"github.com/ValentinKolb/archbench/lib/payload"
	"slices"
)

// Entry is one test of the benchmark matrix
type Entry struct {
	Kind     payload.Kind
	Elements int
	// Randomizable entries are filled with random values when randomization is enabled
	Randomizable bool
}

// Name is the test name printed in the report
func (e Entry) Name() string {
	return fmt.Sprintf("Vector(%s) size %d", e.Kind.ElementName(), e.Elements)
}

// DefaultMatrix returns the tests of a run in the order they are executed
func DefaultMatrix() []Entry {
	return []Entry{
		{Kind: payload.KindDoubles, Elements: 1, Randomizable: true},
		{Kind: payload.KindDoubles, Elements: 16, Randomizable: true},
		{Kind: payload.KindDoubles, Elements: 1024, Randomizable: true},
		{Kind: payload.KindDoubles, Elements: 1024 * 1024, Randomizable: true},
		{Kind: payload.KindBytes, Elements: 1024 * 1024 * 1024, Randomizable: true},
		{Kind: payload.KindRecords, Elements: 1},
		{Kind: payload.KindRecords, Elements: 64},
		{Kind: payload.KindRecords, Elements: 1024},
		{Kind: payload.KindRecords, Elements: 1024 * 1024},
		{Kind: payload.KindRecords, Elements: 1024 * 1024 * 64},
		{Kind: payload.KindChildren, Elements: 1024 * 64},
	}
}

// Filter removes entries of skipped kinds and entries with more than
// maxElements elements. A maxElements of 0 keeps all sizes.
func Filter(entries []Entry, skip []payload.Kind, maxElements int) []Entry {
	filtered := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if slices.Contains(skip, e.Kind) {
			continue
		}
		if maxElements > 0 && e.Elements > maxElements {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}
