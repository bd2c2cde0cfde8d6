package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// JSONWriter writes reports as indented JSON documents.
type JSONWriter struct{}

// JSONMeta is the common header of every JSON report.
type JSONMeta struct {
	RepoPath    string  `json:"repo"`
	Range       string  `json:"range,omitempty"`
	Since       *string `json:"since,omitempty"`
	Until       *string `json:"until,omitempty"`
	GeneratedAt string  `json:"generatedAt"`
}

// JSONHistogramReport is the JSON output structure for a commit histogram.
type JSONHistogramReport struct {
	JSONMeta
	By           string              `json:"by"`
	TotalCommits int                 `json:"totalCommits"`
	Identities   int                 `json:"identities"`
	Items        []JSONHistogramItem `json:"items"`
}

// JSONHistogramItem is the JSON output structure for one identity.
type JSONHistogramItem struct {
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Count   int      `json:"count"`
	First   string   `json:"first"`
	Last    string   `json:"last"`
	Commits []string `json:"commits,omitempty"`
}

// JSONDiffStatReport is the JSON output structure for diff statistics.
type JSONDiffStatReport struct {
	JSONMeta
	Commits int              `json:"commits"`
	Lines   JSONDiffStatKind `json:"lines"`
	Files   JSONDiffStatKind `json:"files"`
}

// JSONDiffStatKind holds one count per change kind.
type JSONDiffStatKind struct {
	Added   int `json:"added"`
	Edited  int `json:"edited"`
	Copied  int `json:"copied"`
	Deleted int `json:"deleted"`
	Renamed int `json:"renamed"`
	Total   int `json:"total"`
}

// JSONChangesReport is the JSON output structure for changed paths.
type JSONChangesReport struct {
	JSONMeta
	TotalCommits int               `json:"totalCommits"`
	Items        []JSONChangeEntry `json:"items"`
}

// JSONChangeEntry is one commit and the paths it touched.
type JSONChangeEntry struct {
	SHA     string           `json:"sha"`
	When    string           `json:"when"`
	Author  string           `json:"author"`
	Subject string           `json:"subject"`
	Entropy float64          `json:"entropy"`
	Changes []JSONPathChange `json:"changes"`
}

// JSONPathChange is one path-level change.
type JSONPathChange struct {
	Kind         string `json:"kind"`
	Path         string `json:"path"`
	OldPath      string `json:"oldPath,omitempty"`
	LinesAdded   int    `json:"linesAdded"`
	LinesDeleted int    `json:"linesDeleted"`
}

// JSONPathsReport is the JSON output structure for path activity.
type JSONPathsReport struct {
	JSONMeta
	TotalPaths int            `json:"totalPaths"`
	Items      []JSONPathItem `json:"items"`
}

// JSONPathItem is the JSON output structure for one path.
type JSONPathItem struct {
	Path           string  `json:"path"`
	CommitCount    int     `json:"commitCount"`
	ChurnAdded     int     `json:"churnAdded"`
	ChurnDeleted   int     `json:"churnDeleted"`
	ChurnTotal     int     `json:"churnTotal"`
	LastModified   string  `json:"lastModified"`
	Contributors   int     `json:"contributors"`
	OwnershipRatio float64 `json:"ownershipRatio"`
	BurstScore     float64 `json:"burstScore"`
}

// JSONCouplingReport is the JSON output structure for change coupling.
type JSONCouplingReport struct {
	JSONMeta
	TotalCommits int                `json:"totalCommits"`
	TotalPaths   int                `json:"totalPaths"`
	TotalPairs   int                `json:"totalPairs"`
	Items        []JSONCouplingItem `json:"items"`
}

// JSONCouplingItem is one pair of paths that change together.
type JSONCouplingItem struct {
	PathA         string  `json:"pathA"`
	PathB         string  `json:"pathB"`
	CoCommitCount int     `json:"coCommitCount"`
	PathACommits  int     `json:"pathACommits"`
	PathBCommits  int     `json:"pathBCommits"`
	Jaccard       float64 `json:"jaccard"`
	Confidence    float64 `json:"confidence"`
	Lift          float64 `json:"lift"`
}

// JSONBranchesReport is the JSON output structure for branches.
type JSONBranchesReport struct {
	JSONMeta
	Head     string           `json:"head,omitempty"`
	Branches []JSONBranchItem `json:"branches"`
}

// JSONBranchItem is one local branch.
type JSONBranchItem struct {
	Name string `json:"name"`
	SHA  string `json:"sha"`
	Head bool   `json:"head,omitempty"`
}

func jsonMeta(meta ReportMeta) JSONMeta {
	return JSONMeta{
		RepoPath:    meta.RepoPath,
		Range:       meta.Range,
		Since:       formatOptionalDate(meta.Since),
		Until:       formatOptionalDate(meta.Until),
		GeneratedAt: meta.GeneratedAt.Format(time.RFC3339),
	}
}

// WriteHistogram outputs commit counts per identity.
func (w *JSONWriter) WriteHistogram(report *HistogramReport, options OutputOptions) error {
	items := limitTop(report.Items, options.Top)
	jsonItems := make([]JSONHistogramItem, len(items))
	for i, a := range items {
		commits := make([]string, len(a.Commits))
		for j, h := range a.Commits {
			commits[j] = h.String()
		}
		jsonItems[i] = JSONHistogramItem{
			Key:     a.Key,
			Name:    a.Name,
			Email:   a.Email,
			Count:   a.Count,
			First:   a.First.Format(time.RFC3339),
			Last:    a.Last.Format(time.RFC3339),
			Commits: commits,
		}
	}

	return writeJSON(JSONHistogramReport{
		JSONMeta:     jsonMeta(report.ReportMeta),
		By:           report.By,
		TotalCommits: report.TotalCommits,
		Identities:   len(report.Items),
		Items:        jsonItems,
	}, options.OutputPath)
}

// WriteDiffStat outputs line and file counts per change kind.
func (w *JSONWriter) WriteDiffStat(report *DiffStatReport, options OutputOptions) error {
	s := report.Stats
	return writeJSON(JSONDiffStatReport{
		JSONMeta: jsonMeta(report.ReportMeta),
		Commits:  s.Commits,
		Lines: JSONDiffStatKind{
			Added:   s.Added,
			Edited:  s.Edited,
			Copied:  s.Copied,
			Deleted: s.Deleted,
			Renamed: s.Renamed,
			Total:   s.Total(),
		},
		Files: JSONDiffStatKind{
			Added:   s.AddedFiles,
			Edited:  s.EditedFiles,
			Copied:  s.CopiedFiles,
			Deleted: s.DeletedFiles,
			Renamed: s.RenamedFiles,
			Total:   s.TotalFiles(),
		},
	}, options.OutputPath)
}

// WriteChanges outputs the paths touched by each commit.
func (w *JSONWriter) WriteChanges(report *ChangesReport, options OutputOptions) error {
	entries := limitTop(report.Entries, options.Top)
	items := make([]JSONChangeEntry, len(entries))
	for i, e := range entries {
		changes := make([]JSONPathChange, len(e.Changes))
		for j, d := range e.Changes {
			changes[j] = JSONPathChange{
				Kind:         d.Kind.String(),
				Path:         d.Path,
				OldPath:      d.OldPath,
				LinesAdded:   d.LinesAdded,
				LinesDeleted: d.LinesDeleted,
			}
		}
		items[i] = JSONChangeEntry{
			SHA:     e.Hash.String(),
			When:    e.Author.When.Format(time.RFC3339),
			Author:  e.Author.Name,
			Subject: e.Subject,
			Entropy: e.Entropy(),
			Changes: changes,
		}
	}

	return writeJSON(JSONChangesReport{
		JSONMeta:     jsonMeta(report.ReportMeta),
		TotalCommits: len(report.Entries),
		Items:        items,
	}, options.OutputPath)
}

// WritePaths outputs per-path activity.
func (w *JSONWriter) WritePaths(report *PathsReport, options OutputOptions) error {
	paths := limitTop(report.Items, options.Top)
	items := make([]JSONPathItem, len(paths))
	for i, p := range paths {
		items[i] = JSONPathItem{
			Path:           p.Path,
			CommitCount:    p.CommitCount,
			ChurnAdded:     p.AddedLines,
			ChurnDeleted:   p.DeletedLines,
			ChurnTotal:     p.ChurnTotal(),
			LastModified:   formatTime(p.LastModifiedAt),
			Contributors:   p.ContributorCount(),
			OwnershipRatio: p.OwnershipRatio(),
			BurstScore:     report.burst(p),
		}
	}

	return writeJSON(JSONPathsReport{
		JSONMeta:   jsonMeta(report.ReportMeta),
		TotalPaths: len(report.Items),
		Items:      items,
	}, options.OutputPath)
}

// WriteBranches outputs local branches.
func (w *JSONWriter) WriteBranches(report *BranchesReport, options OutputOptions) error {
	items := make([]JSONBranchItem, len(report.Branches))
	for i, b := range report.Branches {
		items[i] = JSONBranchItem{
			Name: b.Name,
			SHA:  b.Hash.String(),
			Head: !report.Head.IsZero() && b.Hash == report.Head,
		}
	}

	var head string
	if !report.Head.IsZero() {
		head = report.Head.String()
	}
	return writeJSON(JSONBranchesReport{
		JSONMeta: jsonMeta(report.ReportMeta),
		Head:     head,
		Branches: items,
	}, options.OutputPath)
}

// WriteCoupling outputs path pairs that change together.
func (w *JSONWriter) WriteCoupling(report *CouplingReport, options OutputOptions) error {
	r := report.Result
	couplings := limitTop(r.Couplings, options.Top)
	items := make([]JSONCouplingItem, len(couplings))
	for i, c := range couplings {
		items[i] = JSONCouplingItem{
			PathA:         c.PathA,
			PathB:         c.PathB,
			CoCommitCount: c.CoCommitCount,
			PathACommits:  c.PathACommits,
			PathBCommits:  c.PathBCommits,
			Jaccard:       c.Jaccard,
			Confidence:    c.Confidence,
			Lift:          c.Lift,
		}
	}

	return writeJSON(JSONCouplingReport{
		JSONMeta:     jsonMeta(report.ReportMeta),
		TotalCommits: r.TotalCommits,
		TotalPaths:   r.TotalPaths,
		TotalPairs:   r.TotalPairs,
		Items:        items,
	}, options.OutputPath)
}

func writeJSON(data any, outputPath string) error {
	return withOutput(outputPath, func(out io.Writer) error {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	})
}
