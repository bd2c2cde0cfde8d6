package stat

import (
	"sort"
	"strings"
	"time"

	"github.com/masmgr/commitwalk/internal/filter"
	"github.com/masmgr/commitwalk/internal/git"
)

var (
	_ filter.Filter = (*HistogramFilter)(nil)
	_ filter.Filter = (*DiffStatFilter)(nil)
	_ filter.Filter = (*ChangeLogFilter)(nil)
	_ filter.Filter = (*PathActivityFilter)(nil)
	_ filter.Filter = (*CouplingFilter)(nil)
)

// PathActivity holds aggregated activity for a single path.
type PathActivity struct {
	Path                    string
	CommitCount             int
	AddedLines              int
	DeletedLines            int
	LastModifiedAt          time.Time
	ContributorCommitCounts map[string]int
	CommitTimes             []time.Time // author times, in visit order
}

func newPathActivity(path string) *PathActivity {
	return &PathActivity{
		Path:                    path,
		ContributorCommitCounts: make(map[string]int),
	}
}

// ChurnTotal returns total lines changed (added + deleted).
func (p *PathActivity) ChurnTotal() int {
	return p.AddedLines + p.DeletedLines
}

// ContributorCount returns number of unique contributors.
func (p *PathActivity) ContributorCount() int {
	return len(p.ContributorCommitCounts)
}

// OwnershipRatio returns proportion of commits by top contributor.
// A high ratio means concentrated ownership (one person owns the path).
func (p *PathActivity) OwnershipRatio() float64 {
	if p.CommitCount == 0 || len(p.ContributorCommitCounts) == 0 {
		return 1.0
	}

	maxCommits := 0
	for _, count := range p.ContributorCommitCounts {
		if count > maxCommits {
			maxCommits = count
		}
	}
	return float64(maxCommits) / float64(p.CommitCount)
}

func (p *PathActivity) add(c *filter.Commit, e git.DiffEntry) {
	p.CommitCount++
	p.AddedLines += e.LinesAdded
	p.DeletedLines += e.LinesDeleted

	if when := c.Author.When; p.LastModifiedAt.IsZero() || when.After(p.LastModifiedAt) {
		p.LastModifiedAt = when
	}
	p.ContributorCommitCounts[c.Author.Key()]++
	p.CommitTimes = append(p.CommitTimes, c.Author.When)
}

// BurstScore returns the share of the path's commits inside its densest
// window of the given length.
func (p *PathActivity) BurstScore(window time.Duration) float64 {
	return BurstScore(p.CommitTimes, window)
}

func (p *PathActivity) clone() PathActivity {
	cp := *p
	cp.CommitTimes = append([]time.Time(nil), p.CommitTimes...)
	cp.ContributorCommitCounts = make(map[string]int, len(p.ContributorCommitCounts))
	for k, v := range p.ContributorCommitCounts {
		cp.ContributorCommitCounts[k] = v
	}
	return cp
}

// PathActivityFilter aggregates commits and churn per path.
//
// The walk visits newer commits first, so a rename is seen before the older
// history of its source path. Later changes to the old path are attributed
// to the new one. Paths deleted at the tip are not reported.
type PathActivityFilter struct {
	activity map[string]*PathActivity
	renamed  map[string]string // old path -> current path
	deleted  map[string]struct{}
}

// NewPathActivityFilter creates an empty path aggregator.
func NewPathActivityFilter() *PathActivityFilter {
	f := &PathActivityFilter{}
	f.Reset()
	return f
}

// Reset clears the accumulated state.
func (f *PathActivityFilter) Reset() {
	f.activity = make(map[string]*PathActivity)
	f.renamed = make(map[string]string)
	f.deleted = make(map[string]struct{})
}

// Include accepts every commit.
func (f *PathActivityFilter) Include(*filter.Commit) (filter.Verdict, error) {
	return filter.Continue, nil
}

// Consume attributes the commit diff to the current name of each path.
func (f *PathActivityFilter) Consume(c *filter.Commit) error {
	entries, err := c.Diff()
	if err != nil {
		return err
	}

	for _, e := range entries {
		path := f.current(e.Path)

		if e.Kind == git.ChangeDeleted {
			// History before a deletion belongs to an earlier incarnation.
			f.deleted[path] = struct{}{}
			continue
		}
		if e.Kind == git.ChangeRenamed && e.OldPath != "" && e.OldPath != e.Path {
			f.renamed[e.OldPath] = path
		}
		if _, gone := f.deleted[path]; gone {
			continue
		}

		a, ok := f.activity[path]
		if !ok {
			a = newPathActivity(path)
			f.activity[path] = a
		}
		a.add(c, e)
	}
	return nil
}

func (f *PathActivityFilter) current(path string) string {
	seen := 0
	for {
		next, ok := f.renamed[path]
		if !ok || seen > len(f.renamed) {
			return path
		}
		path = next
		seen++
	}
}

// Activity returns a snapshot sorted by commit count, then churn, then path.
func (f *PathActivityFilter) Activity() []PathActivity {
	out := make([]PathActivity, 0, len(f.activity))
	for _, a := range f.activity {
		out = append(out, a.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CommitCount != b.CommitCount {
			return a.CommitCount > b.CommitCount
		}
		if a.ChurnTotal() != b.ChurnTotal() {
			return a.ChurnTotal() > b.ChurnTotal()
		}
		return strings.Compare(a.Path, b.Path) < 0
	})
	return out
}

// Lookup returns the activity of one path.
func (f *PathActivityFilter) Lookup(path string) (PathActivity, bool) {
	a, ok := f.activity[path]
	if !ok {
		return PathActivity{}, false
	}
	return a.clone(), true
}
