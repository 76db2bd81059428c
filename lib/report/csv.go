package report

import (
	"encoding/csv"
	"fmt"
	"github.com/ValentinKolb/archbench/lib/harness"
	"io"
	"strconv"
)

var csvHeader = []string{
	"Test", "Kind", "Elements", "Iterations", "Validated",
	"Role", "Archive", "SizeBytes", "SizeRatio",
	"SaveAvgMs", "SaveTotalMs", "SaveRatio", "SaveP50Ms", "SaveP95Ms", "SaveStdDevMs",
	"LoadAvgMs", "LoadTotalMs", "LoadRatio", "LoadP50Ms", "LoadP95Ms", "LoadStdDevMs",
}

// csvWriter streams one row per archive and test
type csvWriter struct {
	writer *csv.Writer
	header bool
}

func newCSVWriter(w io.Writer) *csvWriter {
	return &csvWriter{writer: csv.NewWriter(w)}
}

func (c *csvWriter) Begin(string) error {
	return nil
}

func (c *csvWriter) Write(r *harness.Report) error {
	if err := c.writeHeader(); err != nil {
		return err
	}

	for i, res := range r.Results() {
		row := []string{
			r.Name,
			r.Kind,
			strconv.Itoa(r.Elements),
			strconv.Itoa(r.Iterations),
			strconv.FormatBool(r.Validated),
			role(i),
			res.Archive,
			strconv.Itoa(res.Size),
			formatRatio(res.SizeRatio, "%g", ""),
			formatFloat(res.SaveAvg),
			formatFloat(res.SaveTotal),
			formatRatio(res.SaveRatio, "%g", ""),
			formatFloat(res.SaveStats.P50),
			formatFloat(res.SaveStats.P95),
			formatFloat(res.SaveStats.StdDeviation),
			formatFloat(res.LoadAvg),
			formatFloat(res.LoadTotal),
			formatRatio(res.LoadRatio, "%g", ""),
			formatFloat(res.LoadStats.P50),
			formatFloat(res.LoadStats.P95),
			formatFloat(res.LoadStats.StdDeviation),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %w", r.Name, err)
		}
	}

	// rows are flushed per test so partial runs leave usable output
	c.writer.Flush()
	return c.writer.Error()
}

func (c *csvWriter) Close() error {
	if err := c.writeHeader(); err != nil {
		return err
	}
	c.writer.Flush()
	return c.writer.Error()
}

func (c *csvWriter) writeHeader() error {
	if c.header {
		return nil
	}
	c.header = true
	if err := c.writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	return nil
}
