package filter

import (
	"errors"
	"time"

	"github.com/masmgr/commitwalk/internal/git"
)

// recorder is a scripted filter that logs every call.
type recorder struct {
	name     string
	verdicts map[string]Verdict // by commit subject; default Continue
	fail     map[string]error
	calls    *[]string
	consumed []string
	resets   int
}

func newRecorder(name string, calls *[]string) *recorder {
	return &recorder{
		name:     name,
		verdicts: map[string]Verdict{},
		fail:     map[string]error{},
		calls:    calls,
	}
}

func (r *recorder) Reset() {
	r.resets++
	r.consumed = nil
}

func (r *recorder) Include(c *Commit) (Verdict, error) {
	subject := c.Subject()
	if r.calls != nil {
		*r.calls = append(*r.calls, r.name+".include:"+subject)
	}
	if err := r.fail[subject]; err != nil {
		return Skip, err
	}
	if v, ok := r.verdicts[subject]; ok {
		return v, nil
	}
	return Continue, nil
}

func (r *recorder) Consume(c *Commit) error {
	if r.calls != nil {
		*r.calls = append(*r.calls, r.name+".consume:"+c.Subject())
	}
	r.consumed = append(r.consumed, c.Subject())
	return nil
}

func commit(subject string) *Commit {
	return NewCommitWithDiff(&git.Commit{
		Hash:    git.MemoryHash(1, subject),
		Message: subject + "\n",
		Committer: git.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}, nil)
}

// countingDiffer counts TreeDiff calls and returns a fixed answer.
type countingDiffer struct {
	calls   int
	entries []git.DiffEntry
	err     error
}

func (d *countingDiffer) TreeDiff(from, to git.Hash) ([]git.DiffEntry, error) {
	d.calls++
	return d.entries, d.err
}

var errBoom = errors.New("boom")
