package walk

import (
	"github.com/masmgr/commitwalk/internal/git"
)

// commitLoader reads commit headers once per walk.
type commitLoader struct {
	repo  git.CommitGraph
	cache map[git.Hash]*git.Commit
}

func newCommitLoader(repo git.CommitGraph) *commitLoader {
	return &commitLoader{repo: repo, cache: make(map[git.Hash]*git.Commit)}
}

func (l *commitLoader) load(h git.Hash) (*git.Commit, error) {
	if c, ok := l.cache[h]; ok {
		return c, nil
	}
	c, err := l.repo.Commit(h)
	if err != nil {
		return nil, err
	}
	l.cache[h] = c
	return c, nil
}

// ancestors returns every commit reachable from starts, stopping at stop.
func (l *commitLoader) ancestors(starts []git.Hash, stop map[git.Hash]struct{}) (map[git.Hash]struct{}, error) {
	seen := make(map[git.Hash]struct{})
	queue := append([]git.Hash(nil), starts...)

	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if _, ok := seen[h]; ok {
			continue
		}
		if _, ok := stop[h]; ok {
			continue
		}
		c, err := l.load(h)
		if err != nil {
			return nil, err
		}
		seen[h] = struct{}{}
		queue = append(queue, c.Parents...)
	}
	return seen, nil
}

// graph loads the commits reachable from starts minus hidden, with the
// number of in-graph children of each.
func (l *commitLoader) graph(starts []git.Hash, hidden map[git.Hash]struct{}) (*graph, error) {
	reachable, err := l.ancestors(starts, hidden)
	if err != nil {
		return nil, err
	}

	g := &graph{
		commits:  make(map[git.Hash]*git.Commit, len(reachable)),
		children: make(map[git.Hash]int, len(reachable)),
	}
	for h := range reachable {
		g.commits[h] = l.cache[h]
	}
	for _, c := range g.commits {
		for _, p := range c.Parents {
			if _, ok := g.commits[p]; ok {
				g.children[p]++
			}
		}
	}
	return g, nil
}

// primaryParentTree returns the tree to diff c against: the primary
// parent's tree, or the empty tree for a root commit.
func (l *commitLoader) primaryParentTree(c *git.Commit) (git.Hash, error) {
	if c.IsRoot() {
		return git.ZeroHash, nil
	}
	parent, err := l.load(c.PrimaryParent())
	if err != nil {
		return git.ZeroHash, err
	}
	return parent.Tree, nil
}
