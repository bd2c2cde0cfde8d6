package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/masmgr/commitwalk/internal/git"
	"github.com/masmgr/commitwalk/internal/stat"
)

// Compile-time interface conformance checks.
var (
	_ ReportWriter = (*ConsoleWriter)(nil)
	_ ReportWriter = (*JSONWriter)(nil)
	_ ReportWriter = (*CSVWriter)(nil)
	_ ReportWriter = (*MarkdownWriter)(nil)
	_ ReportWriter = (*CIWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatCI       OutputFormat = "ci"
)

// ParseFormat validates a format name. The empty string means console.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatConsole, nil
	case FormatConsole, FormatJSON, FormatCSV, FormatMarkdown, FormatCI:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return FormatConsole, fmt.Errorf("unknown output format %q (expected console, json, csv, markdown or ci)", s)
	}
}

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	Top        int
	OutputPath string
}

// ReportMeta describes the walk a report came from.
type ReportMeta struct {
	RepoPath    string
	Range       string // walked revisions, e.g. "main..feature"
	Since       *time.Time
	Until       *time.Time
	GeneratedAt time.Time
}

// HistogramReport holds commit counts per identity.
type HistogramReport struct {
	ReportMeta
	By           string // "author" or "committer"
	TotalCommits int
	Items        []stat.UserCommitActivity
}

// DiffStatReport holds cumulative diff statistics.
type DiffStatReport struct {
	ReportMeta
	Stats stat.DiffStats
}

// ChangesReport lists the paths each commit touched.
type ChangesReport struct {
	ReportMeta
	Entries []stat.ChangeLogEntry
}

// PathsReport holds per-path activity.
type PathsReport struct {
	ReportMeta
	Items       []stat.PathActivity
	BurstWindow time.Duration // zero means stat.DefaultBurstWindow
}

func (r *PathsReport) burst(p stat.PathActivity) float64 {
	window := r.BurstWindow
	if window <= 0 {
		window = stat.DefaultBurstWindow
	}
	return p.BurstScore(window)
}

// CouplingReport holds path pairs that change together.
type CouplingReport struct {
	ReportMeta
	Result stat.CouplingResult
}

// BranchesReport lists local branches.
type BranchesReport struct {
	ReportMeta
	Head     git.Hash
	Branches []git.Branch
}

// ReportWriter renders every report kind in one format.
type ReportWriter interface {
	WriteHistogram(report *HistogramReport, options OutputOptions) error
	WriteDiffStat(report *DiffStatReport, options OutputOptions) error
	WriteChanges(report *ChangesReport, options OutputOptions) error
	WritePaths(report *PathsReport, options OutputOptions) error
	WriteBranches(report *BranchesReport, options OutputOptions) error
	WriteCoupling(report *CouplingReport, options OutputOptions) error
}

// NewReportWriter creates a report writer for the specified format.
func NewReportWriter(format OutputFormat) ReportWriter {
	switch format {
	case FormatJSON:
		return &JSONWriter{}
	case FormatCSV:
		return &CSVWriter{}
	case FormatMarkdown:
		return &MarkdownWriter{}
	case FormatCI:
		return &CIWriter{}
	default:
		return &ConsoleWriter{}
	}
}
