package stat

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/masmgr/commitwalk/internal/filter"
	"github.com/masmgr/commitwalk/internal/git"
)

// --- Generators ---

func genDiffEntry() *rapid.Generator[git.DiffEntry] {
	return rapid.Custom(func(t *rapid.T) git.DiffEntry {
		return git.DiffEntry{
			Path:         rapid.StringMatching(`[a-z]{1,8}\.go`).Draw(t, "path"),
			Kind:         git.ChangeKind(rapid.IntRange(0, 4).Draw(t, "kind")),
			LinesAdded:   rapid.IntRange(0, 500).Draw(t, "added"),
			LinesDeleted: rapid.IntRange(0, 500).Draw(t, "deleted"),
		}
	})
}

// --- Property Tests ---

func TestRapidDiffStat_TotalIsSumOfBuckets(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		diffs := rapid.SliceOfN(rapid.SliceOfN(genDiffEntry(), 0, 10), 0, 10).Draw(t, "diffs")

		f := NewDiffStatFilter()
		commits := make([]*filter.Commit, len(diffs))
		churn := 0
		for i, d := range diffs {
			commits[i] = filter.NewCommitWithDiff(&git.Commit{}, d)
			for _, e := range d {
				churn += e.Churn()
			}
		}
		if err := feed(f, commits...); err != nil {
			t.Fatalf("feed: %v", err)
		}

		sum := f.Added() + f.Edited() + f.Copied() + f.Deleted() + f.Renamed()
		if f.Total() != sum {
			t.Fatalf("Total() = %d, sum of buckets = %d", f.Total(), sum)
		}
		if f.Total() != churn {
			t.Fatalf("Total() = %d, expected churn %d", f.Total(), churn)
		}
		if f.Stats().Commits != len(diffs) {
			t.Fatalf("Commits = %d, expected %d", f.Stats().Commits, len(diffs))
		}
	})
}

func TestRapidHistogram_CountsMatchCommits(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		emails := rapid.SliceOfN(rapid.SampledFrom([]string{"a@x", "B@x", "c@x", " a@X "}), 0, 30).Draw(t, "emails")

		h := NewCommitterHistogramFilter()
		commits := make([]*filter.Commit, len(emails))
		for i, e := range emails {
			s := git.Signature{Email: e}
			commits[i] = filter.NewCommitWithDiff(&git.Commit{Committer: s}, nil)
		}
		if err := feed(h, commits...); err != nil {
			t.Fatalf("feed: %v", err)
		}

		hist := h.Histogram()
		if hist.TotalCommits() != len(emails) {
			t.Fatalf("TotalCommits() = %d, expected %d", hist.TotalCommits(), len(emails))
		}
		for _, e := range emails {
			if hist.Activity(e).Empty() {
				t.Fatalf("Activity(%q) empty after consuming it", e)
			}
		}
	})
}
