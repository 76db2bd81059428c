package harness

// Result holds the measurements of one archive in one test
type Result struct {
	Archive string `json:"archive" yaml:"archive"`

	// averages and totals in milliseconds
	SaveAvg   float64 `json:"save_avg_ms" yaml:"save_avg_ms"`
	SaveTotal float64 `json:"save_total_ms" yaml:"save_total_ms"`
	LoadAvg   float64 `json:"load_avg_ms" yaml:"load_avg_ms"`
	LoadTotal float64 `json:"load_total_ms" yaml:"load_total_ms"`

	// Size is the encoded size of the first iteration in bytes
	Size int `json:"size_bytes" yaml:"size_bytes"`

	// ratios relative to the baseline, nil when the baseline is zero
	SaveRatio *float64 `json:"save_ratio" yaml:"save_ratio"`
	LoadRatio *float64 `json:"load_ratio" yaml:"load_ratio"`
	SizeRatio *float64 `json:"size_ratio" yaml:"size_ratio"`

	SaveStats Stats `json:"save_stats" yaml:"save_stats"`
	LoadStats Stats `json:"load_stats" yaml:"load_stats"`
}

// SizeKB returns the encoded size in kilobytes
func (r Result) SizeKB() float64 {
	return float64(r.Size) / 1024.0
}

// Report is the outcome of one test
type Report struct {
	Name       string `json:"name" yaml:"name"`
	Kind       string `json:"kind" yaml:"kind"`
	Elements   int    `json:"elements" yaml:"elements"`
	Iterations int    `json:"iterations" yaml:"iterations"`
	Validated  bool   `json:"validated" yaml:"validated"`
	Baseline   Result `json:"baseline" yaml:"baseline"`
	Candidate  Result `json:"candidate" yaml:"candidate"`
}

// Results returns baseline and candidate in report order
func (r *Report) Results() []Result {
	return []Result{r.Baseline, r.Candidate}
}

// ratio divides v by base, the result is nil when base is zero
func ratio(v, base float64) *float64 {
	if base == 0 {
		return nil
	}
	r := v / base
	return &r
}
