package stat

import (
	"time"

	"github.com/masmgr/commitwalk/internal/filter"
	"github.com/masmgr/commitwalk/internal/git"
)

var base = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func sig(name, email string, day int) git.Signature {
	return git.Signature{Name: name, Email: email, When: base.AddDate(0, 0, day)}
}

func commitBy(id string, author, committer git.Signature, diff ...git.DiffEntry) *filter.Commit {
	return filter.NewCommitWithDiff(&git.Commit{
		Hash:      git.MemoryHash(1, id),
		Author:    author,
		Committer: committer,
		Message:   id,
	}, diff)
}

// feed runs commits through f the way a walk would.
func feed(f filter.Filter, commits ...*filter.Commit) error {
	chain := filter.NewChain(f)
	for _, c := range commits {
		if _, err := chain.Dispatch(c); err != nil {
			return err
		}
	}
	return nil
}
