package bench

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Print writes a human-readable summary of s to w.
func Print(w io.Writer, s Summary) {
	title := color.New(color.Bold)
	good := color.New(color.FgGreen)
	warn := color.New(color.FgYellow)
	bad := color.New(color.FgRed)

	_, _ = title.Fprintf(w, "dispatch session (%s)\n", s.Policy)
	row(w, "edits", fmt.Sprint(s.Edits), nil)
	row(w, "done calls", fmt.Sprint(s.Delivered), good)

	errs := good
	if s.Failed > 0 {
		errs = bad
	}
	row(w, "errors", fmt.Sprint(s.Failed), errs)

	row(w, "batches submitted", fmt.Sprint(s.Submitted), nil)
	row(w, "batches cancelled", fmt.Sprint(s.Cancelled), warn)
	row(w, "batches discarded", fmt.Sprint(s.Discarded), warn)
	row(w, "jobs submitted", fmt.Sprint(s.Jobs), nil)
	row(w, "progress bar shown", fmt.Sprint(s.Shown), nil)
	row(w, "mean batch time", s.MeanBatch.String(), nil)
	row(w, "elapsed", s.Elapsed.String(), nil)
}

func row(w io.Writer, label, value string, c *color.Color) {
	_, _ = fmt.Fprintf(w, "  %-20s ", label)
	if c == nil {
		_, _ = fmt.Fprintln(w, value)
		return
	}
	_, _ = c.Fprintln(w, value)
}
