package git

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// MemoryRepository is an in-memory Repository with scripted diffs.
// It lets tests describe a commit graph without a real Git repository.
type MemoryRepository struct {
	commits  map[Hash]*Commit
	diffs    map[[2]Hash][]DiffEntry
	branches map[string]Hash
	head     string
	failures map[Hash]error
	corrupt  map[Hash]error // keyed by tree
}

// MemoryCommit describes a commit added to a MemoryRepository.
type MemoryCommit struct {
	ID        string // seed for the commit hash; must be unique
	Parents   []Hash
	Author    Signature
	Committer Signature // defaults to Author
	Message   string
	Changes   []DiffEntry // diff against the primary parent
}

// NewMemoryRepository creates an empty repository whose HEAD points at "main".
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		commits:  make(map[Hash]*Commit),
		diffs:    make(map[[2]Hash][]DiffEntry),
		branches: make(map[string]Hash),
		head:     "main",
		failures: make(map[Hash]error),
		corrupt:  make(map[Hash]error),
	}
}

// MemoryHash derives the deterministic hash used for a commit or tree id.
func MemoryHash(kind plumbing.ObjectType, id string) Hash {
	return plumbing.ComputeHash(kind, []byte(id))
}

// AddCommit stores a commit and the diff against its primary parent.
func (m *MemoryRepository) AddCommit(mc MemoryCommit) Hash {
	hash := MemoryHash(plumbing.CommitObject, mc.ID)
	tree := MemoryHash(plumbing.TreeObject, mc.ID)

	committer := mc.Committer
	if committer == (Signature{}) {
		committer = mc.Author
	}

	parents := make([]Hash, len(mc.Parents))
	copy(parents, mc.Parents)

	c := &Commit{
		Hash:      hash,
		Parents:   parents,
		Tree:      tree,
		Author:    mc.Author,
		Committer: committer,
		Message:   mc.Message,
	}
	m.commits[hash] = c

	parentTree := ZeroHash
	if len(parents) > 0 {
		if p, ok := m.commits[parents[0]]; ok {
			parentTree = p.Tree
		}
	}
	changes := make([]DiffEntry, len(mc.Changes))
	copy(changes, mc.Changes)
	m.diffs[[2]Hash{parentTree, tree}] = changes

	return hash
}

// SetBranch points a local branch at a commit.
func (m *MemoryRepository) SetBranch(name string, hash Hash) {
	m.branches[name] = hash
}

// SetHead makes HEAD a symbolic ref to the named branch.
func (m *MemoryRepository) SetHead(branch string) {
	m.head = branch
}

// FailCommit makes loading the commit object fail with err.
func (m *MemoryRepository) FailCommit(hash Hash, err error) {
	m.failures[hash] = err
}

// FailDiff makes diffing the commit's tree fail with err.
func (m *MemoryRepository) FailDiff(hash Hash, err error) {
	if c, ok := m.commits[hash]; ok {
		m.corrupt[c.Tree] = err
	}
}

// Head returns the commit the HEAD branch points at.
func (m *MemoryRepository) Head() (Hash, error) {
	hash, ok := m.branches[m.head]
	if !ok {
		return ZeroHash, ErrNoHead
	}
	return hash, nil
}

// Resolve accepts branch names, "HEAD" and full hex hashes.
func (m *MemoryRepository) Resolve(rev string) (Hash, error) {
	if strings.EqualFold(rev, "HEAD") {
		hash, err := m.Head()
		if err != nil {
			return ZeroHash, WrapReadError("resolve \"HEAD\"", ZeroHash, err)
		}
		return hash, nil
	}
	if hash, ok := m.branches[rev]; ok {
		return hash, nil
	}
	if plumbing.IsHash(rev) {
		hash := plumbing.NewHash(rev)
		if _, ok := m.commits[hash]; ok {
			return hash, nil
		}
	}
	return ZeroHash, WrapReadError(fmt.Sprintf("resolve %q", rev), ZeroHash, plumbing.ErrReferenceNotFound)
}

// Branches lists branches sorted by name.
func (m *MemoryRepository) Branches() ([]Branch, error) {
	branches := make([]Branch, 0, len(m.branches))
	for name, hash := range m.branches {
		branches = append(branches, Branch{Name: name, Hash: hash})
	}
	sort.Slice(branches, func(i, j int) bool {
		return branches[i].Name < branches[j].Name
	})
	return branches, nil
}

// Commit returns a copy of a stored commit.
func (m *MemoryRepository) Commit(hash Hash) (*Commit, error) {
	if err := m.failures[hash]; err != nil {
		return nil, WrapReadError("load commit", hash, err)
	}
	c, ok := m.commits[hash]
	if !ok {
		return nil, WrapReadError("load commit", hash, plumbing.ErrObjectNotFound)
	}
	cp := *c
	cp.Parents = append([]Hash(nil), c.Parents...)
	return &cp, nil
}

// TreeDiff returns the scripted diff between two trees.
func (m *MemoryRepository) TreeDiff(from, to Hash) ([]DiffEntry, error) {
	if err := m.corrupt[to]; err != nil {
		return nil, WrapReadError("diff tree", to, err)
	}
	if from == to {
		return nil, nil
	}
	changes, ok := m.diffs[[2]Hash{from, to}]
	if !ok {
		return nil, WrapReadError("diff tree", to, plumbing.ErrObjectNotFound)
	}
	return append([]DiffEntry(nil), changes...), nil
}
