// Package report renders harness reports as text, JSON, YAML, CSV or the
// Prometheus text exposition format.
package report

import (
	"fmt"
	"github.com/ValentinKolb/archbench/lib/harness"
	"io"
	"strconv"
	"strings"
)

// Formats lists all supported output formats
var Formats = []string{"text", "json", "yaml", "csv", "prometheus"}

// IWriter renders reports while the benchmark runs. Begin is called before
// a test starts timing, Write once it finished and Close after the last
// test. Formats that need all reports at once write them on Close.
type IWriter interface {
	Begin(name string) error
	Write(r *harness.Report) error
	Close() error
}

// NewWriter creates the writer for format writing to w
func NewWriter(format string, w io.Writer) (IWriter, error) {
	switch strings.ToLower(format) {
	case "text", "":
		return &textWriter{w: w}, nil
	case "json":
		return &jsonWriter{w: w}, nil
	case "yaml":
		return &yamlWriter{w: w}, nil
	case "csv":
		return newCSVWriter(w), nil
	case "prometheus":
		return newPrometheusWriter(w), nil
	default:
		return nil, fmt.Errorf("invalid report format %q (expected one of: %s)", format, strings.Join(Formats, ", "))
	}
}

// WriteAll renders reports in one go
func WriteAll(format string, w io.Writer, reports []*harness.Report) error {
	writer, err := NewWriter(format, w)
	if err != nil {
		return err
	}
	for _, r := range reports {
		if err := writer.Begin(r.Name); err != nil {
			return err
		}
		if err := writer.Write(r); err != nil {
			return err
		}
	}
	return writer.Close()
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// role names the position of a result in its report
func role(i int) string {
	if i == 0 {
		return "baseline"
	}
	return "candidate"
}

// formatRatio renders an undefined ratio as na
func formatRatio(r *float64, format, na string) string {
	if r == nil {
		return na
	}
	return fmt.Sprintf(format, *r)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
