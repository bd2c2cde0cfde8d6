// Package stat provides aggregating filters: commit histograms per identity,
// diff line statistics, a change log and per-path activity.
package stat

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/masmgr/commitwalk/internal/filter"
	"github.com/masmgr/commitwalk/internal/git"
)

// KeyKind selects which identity of a commit a histogram groups by.
type KeyKind int

const (
	KeyAuthor    KeyKind = iota // group by author email
	KeyCommitter                // group by committer email
)

// String returns "author" or "committer".
func (k KeyKind) String() string {
	if k == KeyCommitter {
		return "committer"
	}
	return "author"
}

// ParseKeyKind parses "author" or "committer".
func ParseKeyKind(s string) (KeyKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "author":
		return KeyAuthor, nil
	case "committer":
		return KeyCommitter, nil
	default:
		return KeyAuthor, fmt.Errorf("unknown identity %q (expected author or committer)", s)
	}
}

// UserCommitActivity is the commit activity of one identity.
type UserCommitActivity struct {
	Key     string
	Name    string
	Email   string
	Count   int
	First   time.Time // earliest commit time seen
	Last    time.Time // latest commit time seen
	Commits []git.Hash
}

// NoActivity is returned for identities without recorded commits.
var NoActivity = UserCommitActivity{}

// Empty reports whether no commit was recorded.
func (a UserCommitActivity) Empty() bool {
	return a.Count == 0
}

func (a UserCommitActivity) clone() UserCommitActivity {
	a.Commits = append([]git.Hash(nil), a.Commits...)
	return a
}

// HistogramFilter counts commits per author or committer.
type HistogramFilter struct {
	key      KeyKind
	activity map[string]*UserCommitActivity
}

// NewHistogramFilter creates a histogram grouped by the given identity.
func NewHistogramFilter(key KeyKind) *HistogramFilter {
	return &HistogramFilter{
		key:      key,
		activity: make(map[string]*UserCommitActivity),
	}
}

// NewAuthorHistogramFilter groups commits by author.
func NewAuthorHistogramFilter() *HistogramFilter {
	return NewHistogramFilter(KeyAuthor)
}

// NewCommitterHistogramFilter groups commits by committer.
func NewCommitterHistogramFilter() *HistogramFilter {
	return NewHistogramFilter(KeyCommitter)
}

// KeyKind returns the identity the histogram groups by.
func (h *HistogramFilter) KeyKind() KeyKind {
	return h.key
}

// Reset clears the accumulated state.
func (h *HistogramFilter) Reset() {
	h.activity = make(map[string]*UserCommitActivity)
}

// Include accepts every commit.
func (h *HistogramFilter) Include(*filter.Commit) (filter.Verdict, error) {
	return filter.Continue, nil
}

// Consume counts the commit for its author or committer.
func (h *HistogramFilter) Consume(c *filter.Commit) error {
	sig := c.Author
	if h.key == KeyCommitter {
		sig = c.Committer
	}
	key := sig.Key()

	a, ok := h.activity[key]
	if !ok {
		a = &UserCommitActivity{Key: key, Name: sig.Name, Email: sig.Email}
		h.activity[key] = a
	}
	a.Count++
	if a.First.IsZero() || sig.When.Before(a.First) {
		a.First = sig.When
	}
	if a.Last.IsZero() || sig.When.After(a.Last) {
		a.Last = sig.When
	}
	a.Commits = append(a.Commits, c.Hash)
	return nil
}

// Histogram returns a snapshot of the accumulated counts.
func (h *HistogramFilter) Histogram() *CommitHistogram {
	entries := make(map[string]UserCommitActivity, len(h.activity))
	for k, a := range h.activity {
		entries[k] = a.clone()
	}
	return &CommitHistogram{entries: entries}
}

// Activity returns the activity of one identity, or NoActivity.
func (h *HistogramFilter) Activity(key string) UserCommitActivity {
	a, _ := h.Lookup(key)
	return a
}

// Lookup returns the activity of one identity and whether it exists.
func (h *HistogramFilter) Lookup(key string) (UserCommitActivity, bool) {
	a, ok := h.activity[normalizeKey(key)]
	if !ok {
		return NoActivity, false
	}
	return a.clone(), true
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// SortOrder orders CommitHistogram.UserActivity.
type SortOrder int

const (
	ByCount       SortOrder = iota // most commits first
	ByLastCommit                   // most recent last commit first
	ByFirstCommit                  // oldest first commit first
	ByKey                          // identity key ascending
)

// ParseSortOrder parses "count", "last", "first" or "key".
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "count":
		return ByCount, nil
	case "last":
		return ByLastCommit, nil
	case "first":
		return ByFirstCommit, nil
	case "key", "name", "email":
		return ByKey, nil
	default:
		return ByCount, fmt.Errorf("unknown sort order %q (expected count, last, first or key)", s)
	}
}

// CommitHistogram is a read-only snapshot of a HistogramFilter.
type CommitHistogram struct {
	entries map[string]UserCommitActivity
}

// Len returns the number of identities.
func (h *CommitHistogram) Len() int {
	return len(h.entries)
}

// Keys returns the identity keys in ascending order.
func (h *CommitHistogram) Keys() []string {
	keys := make([]string, 0, len(h.entries))
	for k := range h.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Activity returns the activity of one identity, or NoActivity.
func (h *CommitHistogram) Activity(key string) UserCommitActivity {
	a, _ := h.Lookup(key)
	return a
}

// Lookup returns the activity of one identity and whether it exists.
func (h *CommitHistogram) Lookup(key string) (UserCommitActivity, bool) {
	a, ok := h.entries[normalizeKey(key)]
	if !ok {
		return NoActivity, false
	}
	return a.clone(), true
}

// TotalCommits returns the sum of all counts.
func (h *CommitHistogram) TotalCommits() int {
	total := 0
	for _, a := range h.entries {
		total += a.Count
	}
	return total
}

// UserActivity returns every identity's activity in the given order.
// Ties are broken by key.
func (h *CommitHistogram) UserActivity(order SortOrder) []UserCommitActivity {
	out := make([]UserCommitActivity, 0, len(h.entries))
	for _, a := range h.entries {
		out = append(out, a.clone())
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch order {
		case ByLastCommit:
			if !a.Last.Equal(b.Last) {
				return a.Last.After(b.Last)
			}
		case ByFirstCommit:
			if !a.First.Equal(b.First) {
				return a.First.Before(b.First)
			}
		case ByKey:
		default:
			if a.Count != b.Count {
				return a.Count > b.Count
			}
		}
		return a.Key < b.Key
	})
	return out
}
