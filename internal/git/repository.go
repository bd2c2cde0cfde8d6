package git

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// GoGitRepository reads commits, refs and tree diffs through go-git.
type GoGitRepository struct {
	repo   *gogit.Repository
	opts   OpenOptions
	differ TreeDiffer
}

// Open opens the repository containing path.
func Open(path string, opts OpenOptions) (*GoGitRepository, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository %q: %w", path, err)
	}

	r := NewRepository(repo, opts)
	if opts.DiffBackend == DiffBackendGitCLI {
		root := path
		if wt, err := repo.Worktree(); err == nil {
			root = wt.Filesystem.Root()
		}
		r.differ = NewCLIDiffer(root, opts.RenameDetect)
	}
	return r, nil
}

// NewRepository wraps an already opened go-git repository. Tree diffs use go-git.
func NewRepository(repo *gogit.Repository, opts OpenOptions) *GoGitRepository {
	return &GoGitRepository{repo: repo, opts: opts}
}

// Head returns the commit HEAD points at.
func (r *GoGitRepository) Head() (Hash, error) {
	ref, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return ZeroHash, ErrNoHead
		}
		return ZeroHash, WrapReadError("resolve HEAD", ZeroHash, err)
	}
	return ref.Hash(), nil
}

// Resolve turns a revision expression into a commit hash.
func (r *GoGitRepository) Resolve(rev string) (Hash, error) {
	h, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return ZeroHash, WrapReadError("resolve "+strconv.Quote(rev), ZeroHash, err)
	}
	return *h, nil
}

// Branches lists local branches sorted by name.
func (r *GoGitRepository) Branches() ([]Branch, error) {
	iter, err := r.repo.Branches()
	if err != nil {
		return nil, WrapReadError("list branches", ZeroHash, err)
	}
	defer iter.Close()

	var branches []Branch
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		branches = append(branches, Branch{Name: ref.Name().Short(), Hash: ref.Hash()})
		return nil
	})
	if err != nil {
		return nil, WrapReadError("list branches", ZeroHash, err)
	}

	sort.Slice(branches, func(i, j int) bool {
		return branches[i].Name < branches[j].Name
	})
	return branches, nil
}

// Commit loads a commit object.
func (r *GoGitRepository) Commit(hash Hash) (*Commit, error) {
	c, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, WrapReadError("load commit", hash, err)
	}

	parents := make([]Hash, len(c.ParentHashes))
	copy(parents, c.ParentHashes)

	return &Commit{
		Hash:      c.Hash,
		Parents:   parents,
		Tree:      c.TreeHash,
		Author:    Signature{Name: c.Author.Name, Email: c.Author.Email, When: c.Author.When},
		Committer: Signature{Name: c.Committer.Name, Email: c.Committer.Email, When: c.Committer.When},
		Message:   c.Message,
	}, nil
}

// TreeDiff computes the file changes between two trees.
func (r *GoGitRepository) TreeDiff(from, to Hash) ([]DiffEntry, error) {
	if r.differ != nil {
		return r.differ.TreeDiff(from, to)
	}
	if from == to {
		return nil, nil
	}

	fromTree, err := r.tree(from)
	if err != nil {
		return nil, err
	}
	toTree, err := r.tree(to)
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTreeWithOptions(context.Background(), fromTree, toTree, r.diffTreeOptions())
	if err != nil {
		return nil, WrapReadError("diff tree", to, err)
	}

	entries := make([]DiffEntry, 0, len(changes))
	for _, change := range changes {
		if !change.From.TreeEntry.Mode.IsFile() && !change.To.TreeEntry.Mode.IsFile() {
			continue
		}

		entry, err := convertChange(change)
		if err != nil {
			return nil, WrapReadError("diff tree", to, err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// tree loads a tree object; ZeroHash yields the empty (nil) tree.
func (r *GoGitRepository) tree(hash Hash) (*object.Tree, error) {
	if hash.IsZero() {
		return nil, nil
	}
	t, err := r.repo.TreeObject(hash)
	if err != nil {
		return nil, WrapReadError("load tree", hash, err)
	}
	return t, nil
}

func (r *GoGitRepository) diffTreeOptions() *object.DiffTreeOptions {
	switch r.opts.RenameDetect {
	case RenameDetectOff:
		return &object.DiffTreeOptions{}
	case RenameDetectAggressive:
		// Match git's default similarity threshold.
		return &object.DiffTreeOptions{DetectRenames: true, RenameScore: 60}
	default:
		return &object.DiffTreeOptions{DetectRenames: true, RenameScore: 100, OnlyExactRenames: true}
	}
}

// convertChange classifies a go-git change and counts its lines.
func convertChange(change *object.Change) (DiffEntry, error) {
	action, err := change.Action()
	if err != nil {
		return DiffEntry{}, err
	}

	var entry DiffEntry
	switch {
	case action == merkletrie.Insert:
		entry = DiffEntry{Path: change.To.Name, Kind: ChangeAdded}
	case action == merkletrie.Delete:
		entry = DiffEntry{Path: change.From.Name, Kind: ChangeDeleted}
	case change.From.Name != change.To.Name:
		entry = DiffEntry{Path: change.To.Name, OldPath: change.From.Name, Kind: ChangeRenamed}
	default:
		entry = DiffEntry{Path: change.To.Name, Kind: ChangeModified}
	}

	patch, err := change.Patch()
	if err != nil {
		return DiffEntry{}, err
	}
	for _, stat := range patch.Stats() {
		entry.LinesAdded += stat.Addition
		entry.LinesDeleted += stat.Deletion
	}

	return entry, nil
}
