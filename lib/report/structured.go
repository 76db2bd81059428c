package report

import (
	"encoding/json"
	"fmt"
	"github.com/ValentinKolb/archbench/lib/harness"
	"gopkg.in/yaml.v3"
	"io"
)

// jsonWriter collects all reports and writes them as one JSON array
type jsonWriter struct {
	w       io.Writer
	reports []*harness.Report
}

func (j *jsonWriter) Begin(string) error {
	return nil
}

func (j *jsonWriter) Write(r *harness.Report) error {
	j.reports = append(j.reports, r)
	return nil
}

func (j *jsonWriter) Close() error {
	reports := j.reports
	if reports == nil {
		reports = []*harness.Report{}
	}

	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}

// yamlWriter collects all reports and writes them as one YAML sequence
type yamlWriter struct {
	w       io.Writer
	reports []*harness.Report
}

func (y *yamlWriter) Begin(string) error {
	return nil
}

func (y *yamlWriter) Write(r *harness.Report) error {
	y.reports = append(y.reports, r)
	return nil
}

func (y *yamlWriter) Close() error {
	reports := y.reports
	if reports == nil {
		reports = []*harness.Report{}
	}

	enc := yaml.NewEncoder(y.w)
	enc.SetIndent(2)
	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("failed to encode YAML report: %w", err)
	}
	return enc.Close()
}
