package output

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// MarkdownWriter writes reports as Markdown documents.
type MarkdownWriter struct{}

func (w *MarkdownWriter) header(out io.Writer, title string, meta ReportMeta) {
	fmt.Fprintf(out, "# %s\n\n", title)
	fmt.Fprintf(out, "**Repository:** %s\n\n", meta.RepoPath)
	if meta.Range != "" {
		fmt.Fprintf(out, "**Revisions:** `%s`\n\n", meta.Range)
	}
	if label, value := periodLabelAndValue(meta.Since, meta.Until); label != "" {
		fmt.Fprintf(out, "**%s:** %s\n\n", label, value)
	}
}

func renderMarkdownTable(out io.Writer, t table.Writer) {
	fmt.Fprintln(out, t.RenderMarkdown())
}

// WriteHistogram outputs commit counts per identity.
func (w *MarkdownWriter) WriteHistogram(report *HistogramReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		w.header(out, "Commit Histogram by "+report.By, report.ReportMeta)
		fmt.Fprintf(out, "**Total Commits:** %d\n\n", report.TotalCommits)
		fmt.Fprintln(out, "## Identities")
		fmt.Fprintln(out)
		renderMarkdownTable(out, histogramTable(report, options.Top, cells{}))
		return nil
	})
}

// WriteDiffStat outputs line and file counts per change kind.
func (w *MarkdownWriter) WriteDiffStat(report *DiffStatReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		w.header(out, "Diff Statistics", report.ReportMeta)
		fmt.Fprintf(out, "**Commits:** %d\n\n", report.Stats.Commits)
		renderMarkdownTable(out, diffStatTable(report, cells{}))
		return nil
	})
}

// WriteChanges outputs the paths touched by each commit.
func (w *MarkdownWriter) WriteChanges(report *ChangesReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		w.header(out, "Changed Paths", report.ReportMeta)
		fmt.Fprintf(out, "**Commits:** %d\n\n", len(report.Entries))
		if len(report.Entries) == 0 {
			fmt.Fprintln(out, "No commits matched.")
			return nil
		}
		renderMarkdownTable(out, changesTable(report, options.Top, cells{}))
		return nil
	})
}

// WritePaths outputs per-path activity.
func (w *MarkdownWriter) WritePaths(report *PathsReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		w.header(out, "Path Activity", report.ReportMeta)
		fmt.Fprintf(out, "**Total Paths:** %d\n\n", len(report.Items))
		if len(report.Items) == 0 {
			fmt.Fprintln(out, "No paths changed.")
			return nil
		}
		renderMarkdownTable(out, pathsTable(report, options.Top, cells{}))
		return nil
	})
}

// WriteBranches outputs local branches.
func (w *MarkdownWriter) WriteBranches(report *BranchesReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		w.header(out, "Branches", report.ReportMeta)
		renderMarkdownTable(out, branchesTable(report))
		return nil
	})
}

// WriteCoupling outputs path pairs that change together.
func (w *MarkdownWriter) WriteCoupling(report *CouplingReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		r := report.Result
		w.header(out, "Change Coupling", report.ReportMeta)
		fmt.Fprintf(out, "**Commits:** %d | **Paths:** %d | **Pairs:** %d\n\n", r.TotalCommits, r.TotalPaths, r.TotalPairs)
		if len(r.Couplings) == 0 {
			fmt.Fprintln(out, "No coupled paths.")
			return nil
		}
		renderMarkdownTable(out, couplingTable(report, options.Top, cells{}))
		return nil
	})
}
