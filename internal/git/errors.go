package git

import (
	"errors"
	"fmt"
)

var (
	// ErrRepositoryRead matches every *ReadError.
	ErrRepositoryRead = errors.New("repository read error")
	// ErrNoHead is returned by Head when HEAD does not resolve to a commit.
	ErrNoHead = errors.New("HEAD does not point at a commit")
)

// ReadError reports an object that could not be resolved or decoded.
type ReadError struct {
	Op   string // e.g. "load commit", "diff tree"
	Hash Hash
	Err  error
}

func (e *ReadError) Error() string {
	if e.Hash.IsZero() {
		return fmt.Sprintf("%s: %s: %v", ErrRepositoryRead, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s %s: %v", ErrRepositoryRead, e.Op, e.Hash, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrRepositoryRead) hold for any ReadError.
func (e *ReadError) Is(target error) bool {
	return target == ErrRepositoryRead
}

// WrapReadError wraps err in a *ReadError unless it already is one.
func WrapReadError(op string, hash Hash, err error) error {
	var re *ReadError
	if errors.As(err, &re) {
		return err
	}
	return &ReadError{Op: op, Hash: hash, Err: err}
}
