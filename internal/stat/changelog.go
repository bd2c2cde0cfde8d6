package stat

import (
	"github.com/masmgr/commitwalk/internal/filter"
	"github.com/masmgr/commitwalk/internal/git"
)

// ChangeLogEntry lists the paths one commit touched.
type ChangeLogEntry struct {
	Hash    git.Hash
	Subject string
	Author  git.Signature
	Changes []git.DiffEntry
}

// ChangeLogFilter records, in visit order, which paths changed in which commits.
type ChangeLogFilter struct {
	entries []ChangeLogEntry
}

// NewChangeLogFilter creates an empty change log.
func NewChangeLogFilter() *ChangeLogFilter {
	return &ChangeLogFilter{}
}

// Reset clears the accumulated state.
func (f *ChangeLogFilter) Reset() {
	f.entries = nil
}

// Include accepts every commit.
func (f *ChangeLogFilter) Include(*filter.Commit) (filter.Verdict, error) {
	return filter.Continue, nil
}

// Consume records the commit and its diff.
func (f *ChangeLogFilter) Consume(c *filter.Commit) error {
	entries, err := c.Diff()
	if err != nil {
		return err
	}
	f.entries = append(f.entries, ChangeLogEntry{
		Hash:    c.Hash,
		Subject: c.Subject(),
		Author:  c.Author,
		Changes: append([]git.DiffEntry(nil), entries...),
	})
	return nil
}

// Entries returns a copy of the recorded commits.
func (f *ChangeLogFilter) Entries() []ChangeLogEntry {
	out := make([]ChangeLogEntry, len(f.entries))
	for i, e := range f.entries {
		e.Changes = append([]git.DiffEntry(nil), e.Changes...)
		out[i] = e
	}
	return out
}
