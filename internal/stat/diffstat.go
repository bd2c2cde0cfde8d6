package stat

import (
	"github.com/masmgr/commitwalk/internal/filter"
	"github.com/masmgr/commitwalk/internal/git"
)

// DiffStats holds cumulative line and file counts per change kind.
//
// Every diff entry lands in exactly one bucket and contributes
// LinesAdded+LinesDeleted lines to it. A rename counts under Renamed even
// when the content changed too.
type DiffStats struct {
	Added   int
	Edited  int
	Copied  int
	Deleted int
	Renamed int

	AddedFiles   int
	EditedFiles  int
	CopiedFiles  int
	DeletedFiles int
	RenamedFiles int

	Commits int
}

// Total is the sum of the five line buckets.
func (s DiffStats) Total() int {
	return s.Added + s.Edited + s.Copied + s.Deleted + s.Renamed
}

// TotalFiles is the sum of the five file buckets.
func (s DiffStats) TotalFiles() int {
	return s.AddedFiles + s.EditedFiles + s.CopiedFiles + s.DeletedFiles + s.RenamedFiles
}

// Add records one diff entry.
func (s *DiffStats) Add(e git.DiffEntry) {
	lines := e.Churn()
	switch e.Kind {
	case git.ChangeAdded:
		s.Added += lines
		s.AddedFiles++
	case git.ChangeCopied:
		s.Copied += lines
		s.CopiedFiles++
	case git.ChangeDeleted:
		s.Deleted += lines
		s.DeletedFiles++
	case git.ChangeRenamed:
		s.Renamed += lines
		s.RenamedFiles++
	default:
		s.Edited += lines
		s.EditedFiles++
	}
}

// DiffStatFilter classifies the diff of every consumed commit.
type DiffStatFilter struct {
	stats DiffStats
}

// NewDiffStatFilter creates an empty diff stat aggregator.
func NewDiffStatFilter() *DiffStatFilter {
	return &DiffStatFilter{}
}

// Reset clears the accumulated state.
func (f *DiffStatFilter) Reset() {
	f.stats = DiffStats{}
}

// Include accepts every commit.
func (f *DiffStatFilter) Include(*filter.Commit) (filter.Verdict, error) {
	return filter.Continue, nil
}

// Consume adds every entry of the commit diff to its bucket.
func (f *DiffStatFilter) Consume(c *filter.Commit) error {
	entries, err := c.Diff()
	if err != nil {
		return err
	}
	for _, e := range entries {
		f.stats.Add(e)
	}
	f.stats.Commits++
	return nil
}

// Added returns the lines of added files.
func (f *DiffStatFilter) Added() int {
	return f.stats.Added
}

// Edited returns the lines changed in modified files.
func (f *DiffStatFilter) Edited() int {
	return f.stats.Edited
}

// Copied returns the lines of copied files.
func (f *DiffStatFilter) Copied() int {
	return f.stats.Copied
}

// Deleted returns the lines of deleted files.
func (f *DiffStatFilter) Deleted() int {
	return f.stats.Deleted
}

// Renamed returns the lines changed in renamed files.
func (f *DiffStatFilter) Renamed() int {
	return f.stats.Renamed
}

// Total returns the sum of the five line buckets.
func (f *DiffStatFilter) Total() int {
	return f.stats.Total()
}

// Stats returns a snapshot of all counters.
func (f *DiffStatFilter) Stats() DiffStats {
	return f.stats
}
