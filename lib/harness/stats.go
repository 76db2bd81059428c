package harness

import (
	"github.com/rcrowley/go-metrics"
	"time"
)

// Stats summarises the samples of one direction (save or load) of one
// archive. All values are milliseconds.
type Stats struct {
	Count        int64   `json:"count" yaml:"count"`
	Min          float64 `json:"min_ms" yaml:"min_ms"`
	Max          float64 `json:"max_ms" yaml:"max_ms"`
	Mean         float64 `json:"mean_ms" yaml:"mean_ms"`
	StdDeviation float64 `json:"std_deviation_ms" yaml:"std_deviation_ms"`
	P50          float64 `json:"p50_ms" yaml:"p50_ms"`
	P95          float64 `json:"p95_ms" yaml:"p95_ms"`
	MinMaxRatio  float64 `json:"min_max_ratio" yaml:"min_max_ratio"`
}

// sampler collects the timing samples of one direction. The reservoir is
// sized to the iteration count so every sample is kept.
type sampler struct {
	hist  metrics.Histogram
	total time.Duration
}

func newSampler(n int) *sampler {
	return &sampler{hist: metrics.NewHistogram(metrics.NewUniformSample(n))}
}

func (s *sampler) add(d time.Duration) {
	s.hist.Update(int64(d))
	s.total += d
}

// stats computes the summary of all samples added so far
func (s *sampler) stats() Stats {
	snapshot := s.hist.Snapshot()
	if snapshot.Count() == 0 {
		return Stats{}
	}

	ps := snapshot.Percentiles([]float64{0.5, 0.95})
	min, max := float64(snapshot.Min()), float64(snapshot.Max())

	// calculate min/max ratio
	minMaxRatio := 1.0
	if max > 0 {
		minMaxRatio = min / max
	}

	return Stats{
		Count:        snapshot.Count(),
		Min:          toMillis(min),
		Max:          toMillis(max),
		Mean:         toMillis(snapshot.Mean()),
		StdDeviation: toMillis(snapshot.StdDev()),
		P50:          toMillis(ps[0]),
		P95:          toMillis(ps[1]),
		MinMaxRatio:  minMaxRatio,
	}
}

// toMillis converts a nanosecond count to milliseconds
func toMillis(ns float64) float64 {
	return ns / float64(time.Millisecond)
}
