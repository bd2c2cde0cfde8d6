package git

import (
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
)

// Hash identifies a commit or tree object.
type Hash = plumbing.Hash

// ZeroHash is the hash of no object. As a tree it stands for the empty tree.
var ZeroHash = plumbing.ZeroHash

// Commit represents the information about a Git commit needed by a walk.
type Commit struct {
	Hash      Hash
	Parents   []Hash
	Tree      Hash
	Author    Signature
	Committer Signature
	Message   string
}

// IsRoot reports whether the commit has no parents.
func (c *Commit) IsRoot() bool {
	return len(c.Parents) == 0
}

// IsMerge reports whether the commit has more than one parent.
func (c *Commit) IsMerge() bool {
	return len(c.Parents) > 1
}

// PrimaryParent returns the first parent, or ZeroHash for a root commit.
func (c *Commit) PrimaryParent() Hash {
	if len(c.Parents) == 0 {
		return ZeroHash
	}
	return c.Parents[0]
}

// Subject returns the first line of the commit message.
func (c *Commit) Subject() string {
	message := c.Message
	if idx := strings.IndexAny(message, "\r\n"); idx != -1 {
		message = message[:idx]
	}
	return message
}

// Signature represents an author or committer identity with a timestamp.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// Key returns a normalized identifier for grouping identities.
func (s Signature) Key() string {
	if email := strings.ToLower(strings.TrimSpace(s.Email)); email != "" {
		return email
	}
	return strings.ToLower(strings.TrimSpace(s.Name))
}

// DiffEntry represents a single path-level change between two trees.
type DiffEntry struct {
	Path         string
	OldPath      string // For renames and copies
	Kind         ChangeKind
	LinesAdded   int
	LinesDeleted int
}

// Churn returns total lines changed (added + deleted).
func (e DiffEntry) Churn() int {
	return e.LinesAdded + e.LinesDeleted
}

// Paths returns every path the entry touches.
func (e DiffEntry) Paths() []string {
	if e.OldPath != "" && e.OldPath != e.Path {
		return []string{e.OldPath, e.Path}
	}
	return []string{e.Path}
}

// ChangeKind represents the type of change.
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota
	ChangeModified
	ChangeCopied
	ChangeDeleted
	ChangeRenamed
)

// String returns a string representation of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeModified:
		return "modified"
	case ChangeCopied:
		return "copied"
	case ChangeDeleted:
		return "deleted"
	case ChangeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// Branch is a local branch name and the commit it points at.
type Branch struct {
	Name string
	Hash Hash
}

// RenameDetectMode controls how file renames are detected.
type RenameDetectMode int

const (
	RenameDetectOff RenameDetectMode = iota
	RenameDetectSimple
	RenameDetectAggressive
)

// String returns the flag spelling of the mode.
func (m RenameDetectMode) String() string {
	switch m {
	case RenameDetectOff:
		return "off"
	case RenameDetectAggressive:
		return "aggressive"
	default:
		return "simple"
	}
}

// DiffBackend selects the tree diff implementation.
type DiffBackend string

const (
	DiffBackendGoGit  DiffBackend = "gogit"
	DiffBackendGitCLI DiffBackend = "gitcli"
)

// OpenOptions configures how a repository is opened.
type OpenOptions struct {
	RenameDetect RenameDetectMode
	DiffBackend  DiffBackend
}
