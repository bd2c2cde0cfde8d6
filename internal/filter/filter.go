// Package filter defines the contract between the commit walker and the
// filters attached to a walk, plus composites and common predicates.
//
// A filter is offered each commit through Include. When Include returns
// Continue the walker follows with Consume. Filters own their accumulators
// and are not safe for concurrent use.
package filter

import (
	"fmt"

	"github.com/masmgr/commitwalk/internal/git"
)

// Verdict is a filter's answer to Include.
type Verdict int

const (
	// Continue accepts the commit; Consume follows.
	Continue Verdict = iota
	// Skip rejects this commit only.
	Skip
	// Stop rejects this commit and retires the filter for the rest of the run.
	Stop
)

func (v Verdict) String() string {
	switch v {
	case Continue:
		return "continue"
	case Skip:
		return "skip"
	case Stop:
		return "stop"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// Filter is a stateful per-commit consumer attached to a walk.
type Filter interface {
	// Reset clears everything the filter accumulated.
	Reset()
	// Include decides whether the filter wants the commit.
	Include(c *Commit) (Verdict, error)
	// Consume records an included commit.
	Consume(c *Commit) error
}

// RunAware is implemented by filters that keep per-run traversal state
// (stop flags, limits). Begin is called before every walk.
type RunAware interface {
	Begin()
}

// Begin notifies f of a new run if it cares.
func Begin(f Filter) {
	if r, ok := f.(RunAware); ok {
		r.Begin()
	}
}

// Commit is the view of a commit handed to filters. The diff against the
// primary parent is computed on first use and memoized.
type Commit struct {
	*git.Commit

	parentTree git.Hash
	differ     git.TreeDiffer

	loaded  bool
	diff    []git.DiffEntry
	diffErr error
}

// NewCommit wraps c. parentTree is the primary parent's tree, or ZeroHash
// for a root commit.
func NewCommit(c *git.Commit, parentTree git.Hash, differ git.TreeDiffer) *Commit {
	return &Commit{Commit: c, parentTree: parentTree, differ: differ}
}

// NewCommitWithDiff wraps c with an already known diff.
func NewCommitWithDiff(c *git.Commit, diff []git.DiffEntry) *Commit {
	return &Commit{Commit: c, loaded: true, diff: diff}
}

// Diff returns the changes against the primary parent.
// Failures are *git.ReadError values naming the commit.
func (c *Commit) Diff() ([]git.DiffEntry, error) {
	if c.loaded {
		return c.diff, c.diffErr
	}
	c.loaded = true

	entries, err := c.differ.TreeDiff(c.parentTree, c.Tree)
	if err != nil {
		c.diffErr = fmt.Errorf("commit %s: %w", c.Hash, git.WrapReadError("diff tree", c.Tree, err))
		return nil, c.diffErr
	}
	c.diff = entries
	return c.diff, nil
}

// DiffLoaded reports whether Diff has already been computed.
func (c *Commit) DiffLoaded() bool {
	return c.loaded
}
