package stat

import (
	"sort"

	"github.com/masmgr/commitwalk/internal/filter"
	"github.com/masmgr/commitwalk/internal/git"
)

// PathPair is an unordered pair of paths, stored with the smaller path first.
type PathPair struct {
	A string
	B string
}

// NewPathPair creates a pair with consistent ordering.
func NewPathPair(a, b string) PathPair {
	if a > b {
		a, b = b, a
	}
	return PathPair{A: a, B: b}
}

// ChangeCoupling holds co-change metrics for two paths.
type ChangeCoupling struct {
	PathA         string
	PathB         string
	CoCommitCount int     // commits touching both paths
	PathACommits  int     // commits touching PathA
	PathBCommits  int     // commits touching PathB
	Jaccard       float64 // |A ∩ B| / |A ∪ B|
	Confidence    float64 // P(B|A)
	Lift          float64 // P(A,B) / (P(A) × P(B))
}

// CouplingOptions bounds which pairs are reported.
type CouplingOptions struct {
	MinCoCommits      int
	MinJaccard        float64
	MaxFilesPerCommit int // larger commits are counted per path but not paired; 0 means no limit
	TopPairs          int // 0 means all
}

// DefaultCouplingOptions returns the thresholds used by the CLI.
func DefaultCouplingOptions() CouplingOptions {
	return CouplingOptions{
		MinCoCommits:      3,
		MinJaccard:        0.1,
		MaxFilesPerCommit: 50,
		TopPairs:          50,
	}
}

// CouplingResult is a snapshot of a CouplingFilter.
type CouplingResult struct {
	Couplings    []ChangeCoupling
	TotalCommits int
	TotalPaths   int
	TotalPairs   int
}

// CouplingFilter counts how often paths change together. Deleted paths are
// ignored and each path counts once per commit.
type CouplingFilter struct {
	opts        CouplingOptions
	commits     int
	pathCommits map[string]int
	pairCommits map[PathPair]int
}

// NewCouplingFilter creates a coupling aggregator with the given thresholds.
func NewCouplingFilter(opts CouplingOptions) *CouplingFilter {
	f := &CouplingFilter{opts: opts}
	f.Reset()
	return f
}

// Reset clears the accumulated state.
func (f *CouplingFilter) Reset() {
	f.commits = 0
	f.pathCommits = make(map[string]int)
	f.pairCommits = make(map[PathPair]int)
}

// Include accepts every commit.
func (f *CouplingFilter) Include(*filter.Commit) (filter.Verdict, error) {
	return filter.Continue, nil
}

// Consume counts the commit paths and path pairs.
func (f *CouplingFilter) Consume(c *filter.Commit) error {
	entries, err := c.Diff()
	if err != nil {
		return err
	}
	f.commits++

	seen := make(map[string]struct{}, len(entries))
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Kind == git.ChangeDeleted {
			continue
		}
		if _, dup := seen[e.Path]; dup {
			continue
		}
		seen[e.Path] = struct{}{}
		paths = append(paths, e.Path)
		f.pathCommits[e.Path]++
	}

	// Sweeping changes such as reformatting say little about coupling.
	if len(paths) < 2 || (f.opts.MaxFilesPerCommit > 0 && len(paths) > f.opts.MaxFilesPerCommit) {
		return nil
	}
	for i := 0; i < len(paths)-1; i++ {
		for j := i + 1; j < len(paths); j++ {
			f.pairCommits[NewPathPair(paths[i], paths[j])]++
		}
	}
	return nil
}

// Result computes coupling metrics for the pairs that pass the thresholds,
// sorted by Jaccard coefficient descending.
func (f *CouplingFilter) Result() CouplingResult {
	var couplings []ChangeCoupling
	for pair, co := range f.pairCommits {
		if co < f.opts.MinCoCommits {
			continue
		}
		commitsA := f.pathCommits[pair.A]
		commitsB := f.pathCommits[pair.B]

		union := commitsA + commitsB - co
		jaccard := float64(co) / float64(union)
		if jaccard < f.opts.MinJaccard {
			continue
		}

		total := float64(f.commits)
		supportA := float64(commitsA) / total
		supportB := float64(commitsB) / total
		supportAB := float64(co) / total

		couplings = append(couplings, ChangeCoupling{
			PathA:         pair.A,
			PathB:         pair.B,
			CoCommitCount: co,
			PathACommits:  commitsA,
			PathBCommits:  commitsB,
			Jaccard:       jaccard,
			Confidence:    float64(co) / float64(commitsA),
			Lift:          supportAB / (supportA * supportB),
		})
	}

	sort.Slice(couplings, func(i, j int) bool {
		a, b := couplings[i], couplings[j]
		if a.Jaccard != b.Jaccard {
			return a.Jaccard > b.Jaccard
		}
		if a.CoCommitCount != b.CoCommitCount {
			return a.CoCommitCount > b.CoCommitCount
		}
		if a.PathA != b.PathA {
			return a.PathA < b.PathA
		}
		return a.PathB < b.PathB
	})
	if f.opts.TopPairs > 0 && len(couplings) > f.opts.TopPairs {
		couplings = couplings[:f.opts.TopPairs]
	}

	return CouplingResult{
		Couplings:    couplings,
		TotalCommits: f.commits,
		TotalPaths:   len(f.pathCommits),
		TotalPairs:   len(f.pairCommits),
	}
}
