package stat

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/masmgr/commitwalk/internal/filter"
	"github.com/masmgr/commitwalk/internal/git"
)

func TestRapidCoupling_MetricsInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		diffs := rapid.SliceOfN(rapid.SliceOfN(genDiffEntry(), 0, 6), 0, 20).Draw(t, "diffs")

		f := NewCouplingFilter(CouplingOptions{MinCoCommits: 1})
		commits := make([]*filter.Commit, len(diffs))
		for i, d := range diffs {
			commits[i] = filter.NewCommitWithDiff(&git.Commit{}, d)
		}
		if err := feed(f, commits...); err != nil {
			t.Fatalf("feed: %v", err)
		}

		r := f.Result()
		if r.TotalCommits != len(diffs) {
			t.Fatalf("TotalCommits = %d, expected %d", r.TotalCommits, len(diffs))
		}
		if len(r.Couplings) != r.TotalPairs {
			t.Fatalf("len(Couplings) = %d, TotalPairs = %d", len(r.Couplings), r.TotalPairs)
		}
		for i, c := range r.Couplings {
			if c.PathA >= c.PathB {
				t.Fatalf("pair not ordered: %q, %q", c.PathA, c.PathB)
			}
			if c.Jaccard <= 0 || c.Jaccard > 1 {
				t.Fatalf("Jaccard = %f out of range", c.Jaccard)
			}
			if c.CoCommitCount > c.PathACommits || c.CoCommitCount > c.PathBCommits {
				t.Fatalf("co-commits %d exceed path commits %d/%d", c.CoCommitCount, c.PathACommits, c.PathBCommits)
			}
			if i > 0 && r.Couplings[i-1].Jaccard < c.Jaccard {
				t.Fatalf("not sorted by Jaccard at %d", i)
			}
		}
	})
}

func TestRapidBurstScore_Bounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		days := rapid.SliceOfN(rapid.IntRange(0, 365), 1, 50).Draw(t, "days")
		times := make([]time.Time, len(days))
		for i, d := range days {
			times[i] = base.AddDate(0, 0, d)
		}

		score := BurstScore(times, DefaultBurstWindow)
		if lower := 1.0 / float64(len(times)); score < lower || score > 1 {
			t.Fatalf("BurstScore = %f, expected within [%f, 1]", score, lower)
		}
	})
}
