package output

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// CSVWriter writes report tables as CSV without headings or totals.
type CSVWriter struct{}

func renderCSVTable(out io.Writer, t table.Writer) error {
	_, err := fmt.Fprintln(out, t.RenderCSV())
	return err
}

// WriteHistogram outputs commit counts per identity.
func (w *CSVWriter) WriteHistogram(report *HistogramReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		return renderCSVTable(out, histogramTable(report, options.Top, cells{}))
	})
}

// WriteDiffStat outputs line and file counts per change kind.
func (w *CSVWriter) WriteDiffStat(report *DiffStatReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		return renderCSVTable(out, diffStatTable(report, cells{}))
	})
}

// WriteChanges outputs one row per changed path.
func (w *CSVWriter) WriteChanges(report *ChangesReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		return renderCSVTable(out, changesTable(report, options.Top, cells{}))
	})
}

// WritePaths outputs per-path activity.
func (w *CSVWriter) WritePaths(report *PathsReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		return renderCSVTable(out, pathsTable(report, options.Top, cells{}))
	})
}

// WriteBranches outputs local branches.
func (w *CSVWriter) WriteBranches(report *BranchesReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		return renderCSVTable(out, branchesTable(report))
	})
}

// WriteCoupling outputs one row per path pair.
func (w *CSVWriter) WriteCoupling(report *CouplingReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		return renderCSVTable(out, couplingTable(report, options.Top, cells{}))
	})
}
