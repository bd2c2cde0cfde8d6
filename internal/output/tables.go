package output

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

// cells controls how table values are rendered: humanized for people,
// raw for CSV and Markdown.
type cells struct {
	human bool
}

func (c cells) count(n int) any {
	if c.human {
		return humanize.Comma(int64(n))
	}
	return n
}

func (c cells) date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if c.human {
		return humanize.Time(t)
	}
	return t.Format(reportDateTimeLayout)
}

func histogramTable(r *HistogramReport, top int, c cells) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Name", "Email", "Commits", "First", "Last"})
	for i, a := range limitTop(r.Items, top) {
		t.AppendRow(table.Row{i + 1, a.Name, a.Email, c.count(a.Count), c.date(a.First), c.date(a.Last)})
	}
	return t
}

func diffStatTable(r *DiffStatReport, c cells) table.Writer {
	s := r.Stats
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Kind", "Files", "Lines"})
	t.AppendRows([]table.Row{
		{"added", c.count(s.AddedFiles), c.count(s.Added)},
		{"edited", c.count(s.EditedFiles), c.count(s.Edited)},
		{"copied", c.count(s.CopiedFiles), c.count(s.Copied)},
		{"deleted", c.count(s.DeletedFiles), c.count(s.Deleted)},
		{"renamed", c.count(s.RenamedFiles), c.count(s.Renamed)},
		{"total", c.count(s.TotalFiles()), c.count(s.Total())},
	})
	return t
}

func changesTable(r *ChangesReport, top int, c cells) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Commit", "Author", "Subject", "Entropy", "Kind", "Path", "Added", "Deleted"})
	for _, e := range limitTop(r.Entries, top) {
		subject := e.Subject
		if c.human {
			subject = truncateMessage(subject, 40)
		}
		entropy := fmt.Sprintf("%.2f", e.Entropy())
		for _, d := range e.Changes {
			path := d.Path
			if d.OldPath != "" && d.OldPath != d.Path {
				path = d.OldPath + " -> " + d.Path
			}
			t.AppendRow(table.Row{
				shortHash(e.Hash),
				e.Author.Email,
				subject,
				entropy,
				d.Kind.String(),
				path,
				c.count(d.LinesAdded),
				c.count(d.LinesDeleted),
			})
		}
	}
	return t
}

func pathsTable(r *PathsReport, top int, c cells) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Path", "Commits", "Added", "Deleted", "Churn", "Contributors", "Ownership", "Burst", "Last Modified"})
	for i, p := range limitTop(r.Items, top) {
		t.AppendRow(table.Row{
			i + 1,
			p.Path,
			c.count(p.CommitCount),
			c.count(p.AddedLines),
			c.count(p.DeletedLines),
			c.count(p.ChurnTotal()),
			p.ContributorCount(),
			fmt.Sprintf("%.2f", p.OwnershipRatio()),
			fmt.Sprintf("%.2f", r.burst(p)),
			c.date(p.LastModifiedAt),
		})
	}
	return t
}

func couplingTable(r *CouplingReport, top int, c cells) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Path A", "Path B", "Co-Commits", "Jaccard", "Confidence", "Lift"})
	for i, p := range limitTop(r.Result.Couplings, top) {
		t.AppendRow(table.Row{
			i + 1,
			p.PathA,
			p.PathB,
			c.count(p.CoCommitCount),
			fmt.Sprintf("%.3f", p.Jaccard),
			fmt.Sprintf("%.3f", p.Confidence),
			fmt.Sprintf("%.2f", p.Lift),
		})
	}
	return t
}

func branchesTable(r *BranchesReport) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Head", "Branch", "Commit"})
	for _, b := range r.Branches {
		marker := ""
		if !r.Head.IsZero() && b.Hash == r.Head {
			marker = "*"
		}
		t.AppendRow(table.Row{marker, b.Name, shortHash(b.Hash)})
	}
	return t
}
