package report

import (
	"fmt"
	"github.com/ValentinKolb/archbench/lib/harness"
	"github.com/VictoriaMetrics/metrics"
	"io"
)

// prometheusWriter exposes every measurement as a gauge. The seq label
// keeps series of tests with equal names apart.
type prometheusWriter struct {
	w   io.Writer
	set *metrics.Set
	seq int
}

func newPrometheusWriter(w io.Writer) *prometheusWriter {
	return &prometheusWriter{w: w, set: metrics.NewSet()}
}

func (p *prometheusWriter) Begin(string) error {
	return nil
}

func (p *prometheusWriter) Write(r *harness.Report) error {
	p.seq++
	for i, res := range r.Results() {
		labels := fmt.Sprintf(`{test=%q,kind=%q,archive=%q,role=%q,seq="%d"}`, r.Name, r.Kind, res.Archive, role(i), p.seq)

		p.gauge("archbench_save_avg_ms", labels, res.SaveAvg)
		p.gauge("archbench_save_total_ms", labels, res.SaveTotal)
		p.gauge("archbench_save_p95_ms", labels, res.SaveStats.P95)
		p.gauge("archbench_load_avg_ms", labels, res.LoadAvg)
		p.gauge("archbench_load_total_ms", labels, res.LoadTotal)
		p.gauge("archbench_load_p95_ms", labels, res.LoadStats.P95)
		p.gauge("archbench_size_bytes", labels, float64(res.Size))
		p.gauge("archbench_elements", labels, float64(r.Elements))

		// undefined ratios are left out
		if res.SaveRatio != nil {
			p.gauge("archbench_save_ratio", labels, *res.SaveRatio)
		}
		if res.LoadRatio != nil {
			p.gauge("archbench_load_ratio", labels, *res.LoadRatio)
		}
		if res.SizeRatio != nil {
			p.gauge("archbench_size_ratio", labels, *res.SizeRatio)
		}
	}
	return nil
}

func (p *prometheusWriter) Close() error {
	p.set.WritePrometheus(p.w)
	return nil
}

func (p *prometheusWriter) gauge(name, labels string, v float64) {
	p.set.NewGauge(name+labels, func() float64 { return v })
}
