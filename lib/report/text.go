package report

import (
	"fmt"
	"github.com/ValentinKolb/archbench/lib/harness"
	"io"
)

const textSeparator = "-----------------------------------"

// textWriter streams the human readable report
type textWriter struct {
	w io.Writer
}

func (t *textWriter) Begin(name string) error {
	_, err := fmt.Fprintf(t.w, "%s\nRunning test: %s\n", textSeparator, name)
	return err
}

func (t *textWriter) Write(r *harness.Report) error {
	for _, res := range r.Results() {
		if _, err := fmt.Fprintf(t.w, "  %s results:\n", res.Archive); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(t.w, "\tsave | time: %06.4fms (%s) size: %20.8fkb (%s) total: %6.1fms\n",
			res.SaveAvg, formatRatio(res.SaveRatio, "%1.2f", "n/a"),
			res.SizeKB(), formatRatio(res.SizeRatio, "%1.8f", "n/a"),
			res.SaveTotal); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(t.w, "\tload | time: %06.4fms (%s) total: %6.1fms\n",
			res.LoadAvg, formatRatio(res.LoadRatio, "%1.2f", "n/a"),
			res.LoadTotal); err != nil {
			return err
		}
	}
	return nil
}

func (t *textWriter) Close() error {
	return nil
}
