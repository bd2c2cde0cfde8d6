package walk

import (
	"bytes"
	"container/heap"

	"github.com/masmgr/commitwalk/internal/git"
)

// graph is the slice of history a walk visits, keyed by hash.
type graph struct {
	commits map[git.Hash]*git.Commit
	// children counts, per commit, the edges from commits in the graph.
	children map[git.Hash]int
}

// readyQueue orders commits whose children were all visited: newest
// committer time first, then hash.
type readyQueue []*git.Commit

func (q readyQueue) Len() int { return len(q) }

func (q readyQueue) Less(i, j int) bool {
	a, b := q[i].Committer.When, q[j].Committer.When
	if !a.Equal(b) {
		return a.After(b)
	}
	return bytes.Compare(q[i].Hash[:], q[j].Hash[:]) < 0
}

func (q readyQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *readyQueue) Push(x any) { *q = append(*q, x.(*git.Commit)) }

func (q *readyQueue) Pop() any {
	old := *q
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return c
}

// topoOrder yields commits so that every child precedes its parents.
type topoOrder struct {
	g     *graph
	ready readyQueue
}

func newTopoOrder(g *graph) *topoOrder {
	o := &topoOrder{g: g}
	for h, c := range g.commits {
		if g.children[h] == 0 {
			o.ready = append(o.ready, c)
		}
	}
	heap.Init(&o.ready)
	return o
}

// Next returns the next commit, or nil when the graph is exhausted.
func (o *topoOrder) Next() *git.Commit {
	if o.ready.Len() == 0 {
		return nil
	}
	c := heap.Pop(&o.ready).(*git.Commit)
	for _, p := range c.Parents {
		parent, ok := o.g.commits[p]
		if !ok {
			continue
		}
		o.g.children[p]--
		if o.g.children[p] == 0 {
			heap.Push(&o.ready, parent)
		}
	}
	return c
}
