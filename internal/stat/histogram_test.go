package stat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masmgr/commitwalk/internal/git"
)

func TestCommitterHistogram_GroupsByCommitter(t *testing.T) {
	alice := sig("Alice", "alice@example.com", 1)
	bob := sig("Bob", "bob@example.com", 2)
	other := sig("Other", "other@example.com", 3)

	h := NewCommitterHistogramFilter()
	require.NoError(t, feed(h,
		commitBy("a1", other, alice),
		commitBy("b1", other, bob),
		commitBy("a2", other, alice),
		commitBy("a3", other, alice),
		commitBy("b2", other, bob),
	))

	assert.Equal(t, 3, h.Activity("alice@example.com").Count)
	assert.Equal(t, 2, h.Activity("bob@example.com").Count)

	// Grouping is by committer, so the author never shows up.
	missing := h.Activity("other@example.com")
	assert.Equal(t, NoActivity, missing)
	assert.True(t, missing.Empty())
	_, ok := h.Lookup("nobody@example.com")
	assert.False(t, ok)
}

func TestAuthorHistogram(t *testing.T) {
	committer := sig("CI", "ci@example.com", 0)
	h := NewAuthorHistogramFilter()
	require.NoError(t, feed(h,
		commitBy("c2", sig("Alice", "Alice@Example.com", 5), committer),
		commitBy("c1", sig("Alice", "alice@example.com ", 2), committer),
	))

	assert.Equal(t, KeyAuthor, h.KeyKind())
	a := h.Activity("  ALICE@example.com")
	assert.Equal(t, 2, a.Count)
	assert.Equal(t, "alice@example.com", a.Key)
	assert.Equal(t, "Alice", a.Name)
	assert.Equal(t, base.AddDate(0, 0, 2), a.First)
	assert.Equal(t, base.AddDate(0, 0, 5), a.Last)
	assert.Equal(t, []git.Hash{git.MemoryHash(1, "c2"), git.MemoryHash(1, "c1")}, a.Commits)
	assert.Equal(t, 0, h.Activity("ci@example.com").Count)
}

func TestHistogram_Idempotent(t *testing.T) {
	h := NewAuthorHistogramFilter()
	require.NoError(t, feed(h,
		commitBy("1", sig("A", "a@x", 1), sig("A", "a@x", 1)),
		commitBy("2", sig("B", "b@x", 2), sig("B", "b@x", 2)),
	))

	first := h.Histogram()
	second := h.Histogram()
	assert.Equal(t, first, second)

	// Snapshots are detached from the accumulator and from each other.
	a := first.Activity("a@x")
	a.Commits[0] = git.ZeroHash
	assert.Equal(t, second, h.Histogram())
	assert.NotEqual(t, git.ZeroHash, first.Activity("a@x").Commits[0])
}

func TestHistogram_AccumulatesUntilReset(t *testing.T) {
	h := NewAuthorHistogramFilter()
	c := commitBy("1", sig("A", "a@x", 1), sig("A", "a@x", 1))

	require.NoError(t, feed(h, c))
	require.NoError(t, feed(h, c))
	assert.Equal(t, 2, h.Activity("a@x").Count)

	h.Reset()
	assert.Equal(t, 0, h.Histogram().Len())
}

func TestCommitHistogram_UserActivity(t *testing.T) {
	h := NewAuthorHistogramFilter()
	require.NoError(t, feed(h,
		commitBy("1", sig("Carol", "carol@x", 9), sig("", "", 0)),
		commitBy("2", sig("Alice", "alice@x", 5), sig("", "", 0)),
		commitBy("3", sig("Alice", "alice@x", 1), sig("", "", 0)),
		commitBy("4", sig("Bob", "bob@x", 3), sig("", "", 0)),
		commitBy("5", sig("Bob", "bob@x", 4), sig("", "", 0)),
	))
	hist := h.Histogram()

	keys := func(order SortOrder) []string {
		var out []string
		for _, a := range hist.UserActivity(order) {
			out = append(out, a.Key)
		}
		return out
	}

	assert.Equal(t, []string{"alice@x", "bob@x", "carol@x"}, keys(ByCount))
	assert.Equal(t, []string{"carol@x", "alice@x", "bob@x"}, keys(ByLastCommit))
	assert.Equal(t, []string{"alice@x", "bob@x", "carol@x"}, keys(ByFirstCommit))
	assert.Equal(t, []string{"alice@x", "bob@x", "carol@x"}, keys(ByKey))
	assert.Equal(t, []string{"alice@x", "bob@x", "carol@x"}, hist.Keys())
	assert.Equal(t, 3, hist.Len())
	assert.Equal(t, 5, hist.TotalCommits())
}

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected SortOrder
		wantErr  bool
	}{
		{input: "", expected: ByCount},
		{input: "count", expected: ByCount},
		{input: "LAST", expected: ByLastCommit},
		{input: "first", expected: ByFirstCommit},
		{input: "email", expected: ByKey},
		{input: "size", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSortOrder(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseKeyKind(t *testing.T) {
	k, err := ParseKeyKind("Committer")
	require.NoError(t, err)
	assert.Equal(t, KeyCommitter, k)
	assert.Equal(t, "committer", k.String())

	k, err = ParseKeyKind("")
	require.NoError(t, err)
	assert.Equal(t, KeyAuthor, k)

	_, err = ParseKeyKind("reviewer")
	assert.Error(t, err)
}
