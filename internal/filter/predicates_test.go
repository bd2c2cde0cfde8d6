package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masmgr/commitwalk/internal/git"
	"github.com/masmgr/commitwalk/internal/pathfilter"
)

func TestDiffFilter(t *testing.T) {
	matcher, err := pathfilter.Or("README.md", "README.txt")
	require.NoError(t, err)
	f := NewDiffFilter(matcher)

	readme := NewCommitWithDiff(&git.Commit{}, []git.DiffEntry{{Path: "README.md", Kind: git.ChangeModified}})
	changelog := NewCommitWithDiff(&git.Commit{}, []git.DiffEntry{{Path: "CHANGELOG.md", Kind: git.ChangeModified}})
	empty := NewCommitWithDiff(&git.Commit{}, nil)

	v, err := f.Include(readme)
	require.NoError(t, err)
	assert.Equal(t, Continue, v)

	v, _ = f.Include(changelog)
	assert.Equal(t, Skip, v)

	v, _ = f.Include(empty)
	assert.Equal(t, Skip, v)
}

func TestDiffFilter_PropagatesDiffError(t *testing.T) {
	matcher, err := pathfilter.Or("a")
	require.NoError(t, err)
	f := NewDiffFilter(matcher)

	c := NewCommit(&git.Commit{Hash: git.MemoryHash(1, "x")}, git.ZeroHash, &countingDiffer{err: errBoom})
	_, err = f.Include(c)
	assert.ErrorIs(t, err, git.ErrRepositoryRead)
}

func TestTimeRange(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 1, d, 12, 0, 0, 0, time.UTC) }
	at := func(d int) *Commit {
		return NewCommitWithDiff(&git.Commit{Committer: git.Signature{When: day(d)}}, nil)
	}

	tests := []struct {
		name     string
		since    time.Time
		until    time.Time
		commit   int
		expected Verdict
	}{
		{name: "Inside", since: day(2), until: day(4), commit: 3, expected: Continue},
		{name: "On since bound", since: day(2), until: day(4), commit: 2, expected: Continue},
		{name: "On until bound", since: day(2), until: day(4), commit: 4, expected: Continue},
		{name: "Before since", since: day(2), until: day(4), commit: 1, expected: Skip},
		{name: "After until", since: day(2), until: day(4), commit: 5, expected: Skip},
		{name: "Open since", until: day(4), commit: 1, expected: Continue},
		{name: "Open until", since: day(2), commit: 9, expected: Continue},
		{name: "Unbounded", commit: 1, expected: Continue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewTimeRange(tt.since, tt.until).Include(at(tt.commit))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestNewMessageFilter_InvalidPattern(t *testing.T) {
	_, err := NewMessageFilter(`[invalid`)
	assert.Error(t, err)
}

func TestNewMessageFilter_SkipsBlankPatterns(t *testing.T) {
	f, err := NewMessageFilter("fix", "", "  ", "bug")
	require.NoError(t, err)
	assert.Len(t, f.patterns, 2)
}

func TestMessageFilter_Match(t *testing.T) {
	f, err := NewMessageFilter(`\bfix(ed|es)?\b`, `\bbug\b`, `(?i)\bhotfix\b`)
	require.NoError(t, err)

	tests := []struct {
		message  string
		expected bool
	}{
		{"fix login redirect", true},
		{"Fixed typo", true},
		{"FIXES #12", true},
		{"squash a BUG in parser", true},
		{"Hotfix for release", true},
		{"prefix handling", false},
		{"add feature", false},
		{"debugging output", false},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.Match(tt.message))
		})
	}
}

func TestMessageFilter_NoPatternsIncludesAll(t *testing.T) {
	f, err := NewMessageFilter()
	require.NoError(t, err)

	v, err := f.Include(commit("anything"))
	require.NoError(t, err)
	assert.Equal(t, Continue, v)
}

func TestMessageFilter_Include(t *testing.T) {
	f, err := NewMessageFilter("^release")
	require.NoError(t, err)

	v, _ := f.Include(commit("Release 1.0"))
	assert.Equal(t, Continue, v)
	v, _ = f.Include(commit("prepare release"))
	assert.Equal(t, Skip, v)
}

func TestNoMerges(t *testing.T) {
	f := NoMerges()
	a, b := git.MemoryHash(1, "a"), git.MemoryHash(1, "b")

	v, _ := f.Include(NewCommitWithDiff(&git.Commit{Parents: []git.Hash{a}}, nil))
	assert.Equal(t, Continue, v)
	v, _ = f.Include(NewCommitWithDiff(&git.Commit{}, nil))
	assert.Equal(t, Continue, v)
	v, _ = f.Include(NewCommitWithDiff(&git.Commit{Parents: []git.Hash{a, b}}, nil))
	assert.Equal(t, Skip, v)
}

func TestLimit(t *testing.T) {
	agg := newRecorder("agg", nil)
	limit := NewLimit(2)
	chain := NewChain(All(agg, limit))

	var done bool
	for _, s := range []string{"one", "two", "three", "four"} {
		var err error
		done, err = chain.Dispatch(commit(s))
		require.NoError(t, err)
		if done {
			break
		}
	}

	assert.True(t, done)
	assert.Equal(t, []string{"one", "two"}, agg.consumed)
	assert.Equal(t, 2, limit.Count())

	// A new run starts counting again without clearing the aggregator.
	chain.Begin()
	assert.Equal(t, 0, limit.Count())
	assert.Equal(t, []string{"one", "two"}, agg.consumed)
}

func TestLimit_Zero(t *testing.T) {
	v, err := NewLimit(0).Include(commit("one"))
	require.NoError(t, err)
	assert.Equal(t, Stop, v)
}
