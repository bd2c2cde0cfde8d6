package filter

import (
	"regexp"
	"strings"
	"time"

	"github.com/masmgr/commitwalk/internal/git"
)

// DiffMatcher decides whether a commit's diff is of interest.
// *pathfilter.DiffFilter implements it.
type DiffMatcher interface {
	MatchDiff(entries []git.DiffEntry) bool
}

// DiffFilter includes commits whose diff against the primary parent
// satisfies a matcher. It forces the diff to be computed.
type DiffFilter struct {
	matcher DiffMatcher
}

// NewDiffFilter creates a filter around a path predicate.
func NewDiffFilter(matcher DiffMatcher) *DiffFilter {
	return &DiffFilter{matcher: matcher}
}

// Reset is a no-op; the filter keeps no state.
func (f *DiffFilter) Reset() {}

// Include skips commits whose diff does not satisfy the path predicate.
func (f *DiffFilter) Include(c *Commit) (Verdict, error) {
	entries, err := c.Diff()
	if err != nil {
		return Skip, err
	}
	if f.matcher.MatchDiff(entries) {
		return Continue, nil
	}
	return Skip, nil
}

// Consume is a no-op.
func (f *DiffFilter) Consume(*Commit) error { return nil }

// TimeRange includes commits whose committer time lies in [Since, Until].
// A zero bound is open.
type TimeRange struct {
	Since time.Time
	Until time.Time
}

// NewTimeRange creates a committer-time window.
func NewTimeRange(since, until time.Time) *TimeRange {
	return &TimeRange{Since: since, Until: until}
}

// Reset is a no-op; the filter keeps no state.
func (f *TimeRange) Reset() {}

// Include skips rather than stops on commits older than Since: a
// topological walk does not visit commits in strict time order.
func (f *TimeRange) Include(c *Commit) (Verdict, error) {
	when := c.Committer.When
	if !f.Since.IsZero() && when.Before(f.Since) {
		return Skip, nil
	}
	if !f.Until.IsZero() && when.After(f.Until) {
		return Skip, nil
	}
	return Continue, nil
}

// Consume is a no-op.
func (f *TimeRange) Consume(*Commit) error { return nil }

// MessageFilter includes commits whose message matches any of a set of
// regular expressions.
type MessageFilter struct {
	patterns []*regexp.Regexp
}

// NewMessageFilter compiles patterns case-insensitively. Blank patterns are
// ignored; a filter without patterns includes every commit.
func NewMessageFilter(patterns ...string) (*MessageFilter, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "(?i)") {
			p = "(?i)" + p
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, re)
	}
	return &MessageFilter{patterns: compiled}, nil
}

// Match reports whether message matches any pattern.
func (f *MessageFilter) Match(message string) bool {
	if len(f.patterns) == 0 {
		return true
	}
	for _, re := range f.patterns {
		if re.MatchString(message) {
			return true
		}
	}
	return false
}

// Reset is a no-op; the filter keeps no state.
func (f *MessageFilter) Reset() {}

// Include skips commits whose message matches no pattern.
func (f *MessageFilter) Include(c *Commit) (Verdict, error) {
	if f.Match(c.Message) {
		return Continue, nil
	}
	return Skip, nil
}

// Consume is a no-op.
func (f *MessageFilter) Consume(*Commit) error { return nil }

type noMerges struct{}

// NoMerges skips commits with more than one parent.
func NoMerges() Filter {
	return noMerges{}
}

// Reset is a no-op; the filter keeps no state.
func (noMerges) Reset() {}

// Include skips merge commits.
func (noMerges) Include(c *Commit) (Verdict, error) {
	if c.IsMerge() {
		return Skip, nil
	}
	return Continue, nil
}

// Consume is a no-op.
func (noMerges) Consume(*Commit) error { return nil }

// Limit stops after a fixed number of consumed commits. Put it last in an
// All pipeline so only commits accepted by the other members count.
type Limit struct {
	max   int
	count int
}

// NewLimit creates a limit of n commits per run.
func NewLimit(n int) *Limit {
	return &Limit{max: n}
}

// Count returns the number of commits consumed in the current run.
func (f *Limit) Count() int {
	return f.count
}

// Begin restarts the count for a new run.
func (f *Limit) Begin() {
	f.count = 0
}

// Reset restarts the count.
func (f *Limit) Reset() {
	f.count = 0
}

// Include stops once n commits were consumed in this run.
func (f *Limit) Include(*Commit) (Verdict, error) {
	if f.count >= f.max {
		return Stop, nil
	}
	return Continue, nil
}

// Consume counts c.
func (f *Limit) Consume(*Commit) error {
	f.count++
	return nil
}
