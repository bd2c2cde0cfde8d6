package output

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// ConsoleWriter writes reports as colored tables for a terminal.
type ConsoleWriter struct{}

func (w *ConsoleWriter) header(out io.Writer, title string, meta ReportMeta) {
	fmt.Fprintln(out, color.GreenString(title))
	fmt.Fprintf(out, "Repository: %s\n", meta.RepoPath)
	if meta.Range != "" {
		fmt.Fprintf(out, "Revisions: %s\n", meta.Range)
	}
	if label, value := periodLabelAndValue(meta.Since, meta.Until); label != "" {
		fmt.Fprintf(out, "%s: %s\n", label, value)
	}
}

func renderConsoleTable(out io.Writer, t table.Writer) {
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	fmt.Fprintln(out, t.Render())
}

// WriteHistogram outputs commit counts per identity.
func (w *ConsoleWriter) WriteHistogram(report *HistogramReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		w.header(out, "Commit Histogram by "+report.By, report.ReportMeta)
		fmt.Fprintf(out, "Total commits: %s, identities: %d\n\n", humanize.Comma(int64(report.TotalCommits)), len(report.Items))

		if len(report.Items) == 0 {
			fmt.Fprintln(out, color.YellowString("No commits matched."))
			return nil
		}
		renderConsoleTable(out, histogramTable(report, options.Top, cells{human: true}))
		return nil
	})
}

// WriteDiffStat outputs line and file counts per change kind.
func (w *ConsoleWriter) WriteDiffStat(report *DiffStatReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		w.header(out, "Diff Statistics", report.ReportMeta)
		fmt.Fprintf(out, "Commits: %s\n\n", humanize.Comma(int64(report.Stats.Commits)))
		renderConsoleTable(out, diffStatTable(report, cells{human: true}))
		return nil
	})
}

// WriteChanges outputs the paths touched by each commit.
func (w *ConsoleWriter) WriteChanges(report *ChangesReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		w.header(out, "Changed Paths", report.ReportMeta)
		fmt.Fprintf(out, "Commits: %d\n\n", len(report.Entries))

		if len(report.Entries) == 0 {
			fmt.Fprintln(out, color.YellowString("No commits matched."))
			return nil
		}
		renderConsoleTable(out, changesTable(report, options.Top, cells{human: true}))
		return nil
	})
}

// WritePaths outputs per-path activity.
func (w *ConsoleWriter) WritePaths(report *PathsReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		w.header(out, "Path Activity", report.ReportMeta)
		fmt.Fprintf(out, "Total paths: %d\n\n", len(report.Items))

		if len(report.Items) == 0 {
			fmt.Fprintln(out, color.YellowString("No paths changed."))
			return nil
		}
		renderConsoleTable(out, pathsTable(report, options.Top, cells{human: true}))
		return nil
	})
}

// WriteBranches outputs local branches, marking the one HEAD points at.
func (w *ConsoleWriter) WriteBranches(report *BranchesReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		w.header(out, "Branches", report.ReportMeta)
		fmt.Fprintln(out)

		if len(report.Branches) == 0 {
			fmt.Fprintln(out, color.YellowString("No branches."))
			return nil
		}
		renderConsoleTable(out, branchesTable(report))
		return nil
	})
}

// WriteCoupling outputs path pairs that change together.
func (w *ConsoleWriter) WriteCoupling(report *CouplingReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		r := report.Result
		w.header(out, "Change Coupling", report.ReportMeta)
		fmt.Fprintf(out, "Commits: %s, paths: %s, pairs: %s\n\n",
			humanize.Comma(int64(r.TotalCommits)), humanize.Comma(int64(r.TotalPaths)), humanize.Comma(int64(r.TotalPairs)))

		if len(r.Couplings) == 0 {
			fmt.Fprintln(out, color.YellowString("No coupled paths."))
			return nil
		}
		renderConsoleTable(out, couplingTable(report, options.Top, cells{human: true}))
		return nil
	})
}
