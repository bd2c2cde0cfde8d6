package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// CIWriter writes reports as NDJSON (one JSON object per line) for CI pipelines.
// The first line is always a summary.
type CIWriter struct{}

// CIHistogramSummary is the first line of a histogram in CI output.
type CIHistogramSummary struct {
	Type         string `json:"type"`
	By           string `json:"by"`
	TotalCommits int    `json:"totalCommits"`
	Identities   int    `json:"identities"`
}

// CIIdentityEntry represents one identity in CI output.
type CIIdentityEntry struct {
	Type  string `json:"type"`
	Key   string `json:"key"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CIDiffStatSummary carries all diff statistics on one line.
type CIDiffStatSummary struct {
	Type    string `json:"type"`
	Commits int    `json:"commits"`
	Added   int    `json:"added"`
	Edited  int    `json:"edited"`
	Copied  int    `json:"copied"`
	Deleted int    `json:"deleted"`
	Renamed int    `json:"renamed"`
	Total   int    `json:"total"`
}

// CIChangeEntry is one changed path of one commit.
type CIChangeEntry struct {
	Type         string  `json:"type"`
	SHA          string  `json:"sha"`
	Entropy      float64 `json:"entropy"`
	Kind         string  `json:"kind"`
	Path         string  `json:"path"`
	OldPath      string  `json:"oldPath,omitempty"`
	LinesAdded   int     `json:"linesAdded"`
	LinesDeleted int     `json:"linesDeleted"`
}

// CICountSummary is the summary line for list-shaped reports.
type CICountSummary struct {
	Type  string `json:"type"`
	Total int    `json:"total"`
}

// CIPathEntry represents one path in CI output.
type CIPathEntry struct {
	Type        string  `json:"type"`
	Path        string  `json:"path"`
	CommitCount int     `json:"commitCount"`
	ChurnTotal  int     `json:"churnTotal"`
	BurstScore  float64 `json:"burstScore"`
}

// CICouplingSummary is the first line of a coupling report in CI output.
type CICouplingSummary struct {
	Type         string `json:"type"`
	TotalCommits int    `json:"totalCommits"`
	TotalPaths   int    `json:"totalPaths"`
	TotalPairs   int    `json:"totalPairs"`
}

// CICouplingEntry represents one path pair in CI output.
type CICouplingEntry struct {
	Type          string  `json:"type"`
	PathA         string  `json:"pathA"`
	PathB         string  `json:"pathB"`
	CoCommitCount int     `json:"coCommitCount"`
	Jaccard       float64 `json:"jaccard"`
}

// CIBranchEntry represents one branch in CI output.
type CIBranchEntry struct {
	Type string `json:"type"`
	Name string `json:"name"`
	SHA  string `json:"sha"`
	Head bool   `json:"head,omitempty"`
}

// WriteHistogram outputs commit counts per identity as NDJSON.
func (w *CIWriter) WriteHistogram(report *HistogramReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		items := limitTop(report.Items, options.Top)
		if err := writeNDJSONLine(out, CIHistogramSummary{
			Type:         "summary",
			By:           report.By,
			TotalCommits: report.TotalCommits,
			Identities:   len(report.Items),
		}); err != nil {
			return err
		}
		for _, a := range items {
			if err := writeNDJSONLine(out, CIIdentityEntry{Type: "identity", Key: a.Key, Name: a.Name, Count: a.Count}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteDiffStat outputs the diff statistics as a single summary line.
func (w *CIWriter) WriteDiffStat(report *DiffStatReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		s := report.Stats
		return writeNDJSONLine(out, CIDiffStatSummary{
			Type:    "summary",
			Commits: s.Commits,
			Added:   s.Added,
			Edited:  s.Edited,
			Copied:  s.Copied,
			Deleted: s.Deleted,
			Renamed: s.Renamed,
			Total:   s.Total(),
		})
	})
}

// WriteChanges outputs one line per changed path.
func (w *CIWriter) WriteChanges(report *ChangesReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		entries := limitTop(report.Entries, options.Top)
		if err := writeNDJSONLine(out, CICountSummary{Type: "summary", Total: len(report.Entries)}); err != nil {
			return err
		}
		for _, e := range entries {
			entropy := e.Entropy()
			for _, d := range e.Changes {
				entry := CIChangeEntry{
					Type:         "change",
					SHA:          e.Hash.String(),
					Entropy:      entropy,
					Kind:         d.Kind.String(),
					Path:         d.Path,
					OldPath:      d.OldPath,
					LinesAdded:   d.LinesAdded,
					LinesDeleted: d.LinesDeleted,
				}
				if err := writeNDJSONLine(out, entry); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// WritePaths outputs one line per path.
func (w *CIWriter) WritePaths(report *PathsReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		items := limitTop(report.Items, options.Top)
		if err := writeNDJSONLine(out, CICountSummary{Type: "summary", Total: len(report.Items)}); err != nil {
			return err
		}
		for _, p := range items {
			entry := CIPathEntry{Type: "path", Path: p.Path, CommitCount: p.CommitCount, ChurnTotal: p.ChurnTotal(), BurstScore: report.burst(p)}
			if err := writeNDJSONLine(out, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteBranches outputs one line per branch.
func (w *CIWriter) WriteBranches(report *BranchesReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		if err := writeNDJSONLine(out, CICountSummary{Type: "summary", Total: len(report.Branches)}); err != nil {
			return err
		}
		for _, b := range report.Branches {
			entry := CIBranchEntry{
				Type: "branch",
				Name: b.Name,
				SHA:  b.Hash.String(),
				Head: !report.Head.IsZero() && b.Hash == report.Head,
			}
			if err := writeNDJSONLine(out, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteCoupling outputs one line per path pair.
func (w *CIWriter) WriteCoupling(report *CouplingReport, options OutputOptions) error {
	return withOutput(options.OutputPath, func(out io.Writer) error {
		r := report.Result
		if err := writeNDJSONLine(out, CICouplingSummary{
			Type:         "summary",
			TotalCommits: r.TotalCommits,
			TotalPaths:   r.TotalPaths,
			TotalPairs:   r.TotalPairs,
		}); err != nil {
			return err
		}
		for _, c := range limitTop(r.Couplings, options.Top) {
			entry := CICouplingEntry{Type: "coupling", PathA: c.PathA, PathB: c.PathB, CoCommitCount: c.CoCommitCount, Jaccard: c.Jaccard}
			if err := writeNDJSONLine(out, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeNDJSONLine(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal NDJSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
