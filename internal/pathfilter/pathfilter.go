// Package pathfilter builds path predicates that decide whether a commit's
// diff touches a set of paths.
//
// Builders return a DiffFilter: the combined expression AND "the diff against
// the primary parent is not empty". The raw expression stays available through
// DiffFilter.Expr for matching a plain list of paths such as a tree listing.
package pathfilter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/masmgr/commitwalk/internal/git"
)

// ErrInvalidArgument is returned for nil, empty or malformed builder input.
var ErrInvalidArgument = errors.New("invalid argument")

// Expr is an immutable boolean expression over a set of paths.
type Expr interface {
	// Match reports whether the expression holds for the given paths.
	Match(paths []string) bool
	String() string
}

// LiteralKind distinguishes how a literal compares against a path.
type LiteralKind int

const (
	// PathLiteral matches the path itself or anything below it as a directory.
	PathLiteral LiteralKind = iota
	// SuffixLiteral matches paths ending with the literal.
	SuffixLiteral
	// GlobLiteral matches doublestar patterns such as "src/**/*.go".
	GlobLiteral
)

func (k LiteralKind) String() string {
	switch k {
	case SuffixLiteral:
		return "suffix"
	case GlobLiteral:
		return "glob"
	default:
		return "path"
	}
}

// Literal is a single path test.
type Literal struct {
	Kind  LiteralKind
	Value string
}

// Match reports whether any of the paths satisfies the literal.
func (l Literal) Match(paths []string) bool {
	for _, p := range paths {
		if l.matchPath(p) {
			return true
		}
	}
	return false
}

func (l Literal) matchPath(p string) bool {
	switch l.Kind {
	case SuffixLiteral:
		return strings.HasSuffix(p, l.Value)
	case GlobLiteral:
		// Patterns are validated when the literal is built.
		matched, _ := doublestar.Match(l.Value, p)
		return matched
	default:
		return p == l.Value || strings.HasPrefix(p, l.Value+"/")
	}
}

func (l Literal) String() string {
	return l.Kind.String() + ":" + l.Value
}

// AllOf holds when every child holds.
type AllOf []Expr

// Match evaluates children in order and stops at the first miss.
func (a AllOf) Match(paths []string) bool {
	for _, e := range a {
		if !e.Match(paths) {
			return false
		}
	}
	return true
}

func (a AllOf) String() string {
	return "and(" + join(a) + ")"
}

// AnyOf holds when any child holds.
type AnyOf []Expr

// Match evaluates children in order and stops at the first hit.
func (o AnyOf) Match(paths []string) bool {
	for _, e := range o {
		if e.Match(paths) {
			return true
		}
	}
	return false
}

func (o AnyOf) String() string {
	return "or(" + join(o) + ")"
}

func join(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// DiffFilter gates an expression on the diff being non-empty.
type DiffFilter struct {
	expr Expr
}

// NewDiffFilter wraps an arbitrary expression in the tree-changed gate.
func NewDiffFilter(expr Expr) *DiffFilter {
	return &DiffFilter{expr: expr}
}

// Expr returns the expression without the tree-changed gate.
func (f *DiffFilter) Expr() Expr {
	return f.expr
}

// MatchDiff reports whether entries is non-empty and the expression matches
// the paths it touches. Renames and copies contribute both paths.
func (f *DiffFilter) MatchDiff(entries []git.DiffEntry) bool {
	if len(entries) == 0 {
		return false
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.Paths()...)
	}
	return f.expr.Match(paths)
}

func (f *DiffFilter) String() string {
	return "and(" + f.expr.String() + ", tree-changed)"
}

// And matches diffs touching all of the given paths.
func And(paths ...string) (*DiffFilter, error) {
	lits, err := literals("paths", PathLiteral, paths)
	if err != nil {
		return nil, err
	}
	return NewDiffFilter(combineAnd(lits)), nil
}

// Or matches diffs touching any of the given paths.
func Or(paths ...string) (*DiffFilter, error) {
	lits, err := literals("paths", PathLiteral, paths)
	if err != nil {
		return nil, err
	}
	return NewDiffFilter(combineOr(lits)), nil
}

// AndSuffix matches diffs touching paths with all of the given suffixes.
func AndSuffix(suffixes ...string) (*DiffFilter, error) {
	lits, err := literals("suffixes", SuffixLiteral, suffixes)
	if err != nil {
		return nil, err
	}
	return NewDiffFilter(combineAnd(lits)), nil
}

// OrSuffix matches diffs touching a path with any of the given suffixes.
func OrSuffix(suffixes ...string) (*DiffFilter, error) {
	lits, err := literals("suffixes", SuffixLiteral, suffixes)
	if err != nil {
		return nil, err
	}
	return NewDiffFilter(combineOr(lits)), nil
}

// AndGlob matches diffs touching paths for all of the given patterns.
func AndGlob(patterns ...string) (*DiffFilter, error) {
	lits, err := literals("patterns", GlobLiteral, patterns)
	if err != nil {
		return nil, err
	}
	return NewDiffFilter(combineAnd(lits)), nil
}

// OrGlob matches diffs touching a path for any of the given patterns.
func OrGlob(patterns ...string) (*DiffFilter, error) {
	lits, err := literals("patterns", GlobLiteral, patterns)
	if err != nil {
		return nil, err
	}
	return NewDiffFilter(combineOr(lits)), nil
}

func literals(name string, kind LiteralKind, values []string) ([]Expr, error) {
	if values == nil {
		return nil, fmt.Errorf("%w: %s must not be nil", ErrInvalidArgument, name)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: %s must not be empty", ErrInvalidArgument, name)
	}

	lits := make([]Expr, 0, len(values))
	for i, v := range values {
		if v == "" {
			return nil, fmt.Errorf("%w: %s[%d] is empty", ErrInvalidArgument, name, i)
		}
		switch kind {
		case PathLiteral:
			v = strings.TrimSuffix(v, "/")
			if v == "" {
				return nil, fmt.Errorf("%w: %s[%d] names no path", ErrInvalidArgument, name, i)
			}
		case GlobLiteral:
			if !doublestar.ValidatePattern(v) {
				return nil, fmt.Errorf("%w: %s[%d] %q is not a valid pattern", ErrInvalidArgument, name, i, v)
			}
		}
		lits = append(lits, Literal{Kind: kind, Value: v})
	}
	return lits, nil
}

// A single literal is returned as is.
func combineAnd(lits []Expr) Expr {
	if len(lits) == 1 {
		return lits[0]
	}
	return AllOf(lits)
}

func combineOr(lits []Expr) Expr {
	if len(lits) == 1 {
		return lits[0]
	}
	return AnyOf(lits)
}
