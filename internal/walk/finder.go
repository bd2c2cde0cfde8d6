// Package walk traverses commit history and dispatches every commit to a
// chain of filters.
package walk

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/masmgr/commitwalk/internal/filter"
	"github.com/masmgr/commitwalk/internal/git"
)

// Finder walks commits newest first in topological order: a child is always
// visited before any of its parents, and commits without an ancestry
// relation are ordered by committer time, newest first.
//
// Each commit's diff against its primary parent is computed only when a
// filter asks for it. The walk ends early once every filter returned
// filter.Stop. Any repository failure aborts the walk; filters keep whatever
// they accumulated until then.
//
// Filters are not reset between walks: calling Find twice accumulates into
// the same filters unless the caller resets them (filter.Filter.Reset or
// Chain().Reset()) in between. A Finder is not safe for concurrent use.
type Finder struct {
	repo   git.Repository
	chain  *filter.Chain
	logger *logrus.Logger
}

// Option configures a Finder.
type Option func(*Finder)

// WithLogger sets the logger used for walk diagnostics.
func WithLogger(logger *logrus.Logger) Option {
	return func(f *Finder) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFinder creates a Finder over repo with an empty filter chain.
func NewFinder(repo git.Repository, opts ...Option) *Finder {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	f := &Finder{
		repo:   repo,
		chain:  filter.NewChain(),
		logger: discard,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetFilter replaces the chain with a single filter.
func (f *Finder) SetFilter(flt filter.Filter) *Finder {
	f.chain.Set(flt)
	return f
}

// SetFilters replaces the chain contents. Filters are not reset.
func (f *Finder) SetFilters(filters ...filter.Filter) *Finder {
	f.chain.Set(filters...)
	return f
}

// Chain returns the filter chain the finder dispatches to.
func (f *Finder) Chain() *filter.Chain {
	return f.chain
}

// Find walks from HEAD and every local branch tip.
// An empty repository is walked successfully as zero commits.
func (f *Finder) Find() error {
	starts, err := f.defaultStarts()
	if err != nil {
		return err
	}
	return f.walk(starts, nil)
}

// FindFrom walks from the given revisions.
func (f *Finder) FindFrom(revs ...string) error {
	starts, err := f.resolve(revs)
	if err != nil {
		return err
	}
	return f.walk(starts, nil)
}

// FindBetween walks commits reachable from start but not from end.
func (f *Finder) FindBetween(start, end string) error {
	starts, err := f.resolve([]string{start})
	if err != nil {
		return err
	}
	excluded, err := f.resolve([]string{end})
	if err != nil {
		return err
	}
	return f.walk(starts, excluded)
}

// FindCommits walks from starts, leaving out every commit reachable from
// excluded.
func (f *Finder) FindCommits(starts, excluded []git.Hash) error {
	return f.walk(dedupe(starts), dedupe(excluded))
}

func (f *Finder) defaultStarts() ([]git.Hash, error) {
	var starts []git.Hash

	head, err := f.repo.Head()
	switch {
	case err == nil:
		starts = append(starts, head)
	case errors.Is(err, git.ErrNoHead):
		f.logger.Debug("HEAD does not point at a commit")
	default:
		return nil, err
	}

	branches, err := f.repo.Branches()
	if err != nil {
		return nil, err
	}
	for _, b := range branches {
		starts = append(starts, b.Hash)
	}
	return dedupe(starts), nil
}

func (f *Finder) resolve(revs []string) ([]git.Hash, error) {
	hashes := make([]git.Hash, 0, len(revs))
	for _, rev := range revs {
		h, err := f.repo.Resolve(rev)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", rev, err)
		}
		hashes = append(hashes, h)
	}
	return dedupe(hashes), nil
}

func (f *Finder) walk(starts, excluded []git.Hash) error {
	started := time.Now()
	f.chain.Begin()

	log := f.logger.WithFields(logrus.Fields{
		"starts":  len(starts),
		"filters": f.chain.Len(),
	})
	if f.chain.Len() == 0 {
		log.Debug("no filters registered, nothing to walk")
		return nil
	}
	log.Debug("walk started")

	loader := newCommitLoader(f.repo)

	hidden, err := loader.ancestors(excluded, nil)
	if err != nil {
		return err
	}
	g, err := loader.graph(starts, hidden)
	if err != nil {
		return err
	}

	order := newTopoOrder(g)
	visited := 0
	stopped := false
	for c := order.Next(); c != nil; c = order.Next() {
		parentTree, err := loader.primaryParentTree(c)
		if err != nil {
			return err
		}

		visited++
		done, err := f.chain.Dispatch(filter.NewCommit(c, parentTree, f.repo))
		if err != nil {
			log.WithError(err).WithField("commit", c.Hash.String()).Debug("walk aborted")
			return err
		}
		if done {
			stopped = true
			break
		}
	}

	log.WithFields(logrus.Fields{
		"commits":  len(g.commits),
		"visited":  visited,
		"stopped":  stopped,
		"duration": time.Since(started).String(),
	}).Debug("walk finished")
	return nil
}

func dedupe(hashes []git.Hash) []git.Hash {
	seen := make(map[git.Hash]struct{}, len(hashes))
	out := make([]git.Hash, 0, len(hashes))
	for _, h := range hashes {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}
