package git

// CommitGraph gives access to commits by hash.
type CommitGraph interface {
	// Commit loads a single commit. Missing or corrupt objects yield a *ReadError.
	Commit(hash Hash) (*Commit, error)
}

// TreeDiffer computes path-level changes between two trees.
type TreeDiffer interface {
	// TreeDiff returns the changes turning tree from into tree to.
	// ZeroHash as from stands for the empty tree. An empty result means no change.
	TreeDiff(from, to Hash) ([]DiffEntry, error)
}

// RefResolver resolves starting points for a walk.
type RefResolver interface {
	// Head returns the commit HEAD points at, or ErrNoHead for an empty repository.
	Head() (Hash, error)
	// Resolve turns a revision (branch, tag, hash, HEAD~2, ...) into a commit hash.
	Resolve(rev string) (Hash, error)
	// Branches lists local branches sorted by name.
	Branches() ([]Branch, error)
}

// Repository is everything a walk needs from version control.
type Repository interface {
	RefResolver
	CommitGraph
	TreeDiffer
}

// Compile-time interface conformance checks.
var (
	_ Repository = (*GoGitRepository)(nil)
	_ Repository = (*MemoryRepository)(nil)
	_ TreeDiffer = (*CLIDiffer)(nil)
)
