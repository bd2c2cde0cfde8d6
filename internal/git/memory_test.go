package git

import (
	"errors"
	"testing"
	"time"
)

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository()

	if _, err := repo.Head(); !errors.Is(err, ErrNoHead) {
		t.Fatalf("Head() on empty repository = %v, expected ErrNoHead", err)
	}

	alice := Signature{Name: "Alice", Email: "alice@example.com", When: time.Unix(100, 0)}
	root := repo.AddCommit(MemoryCommit{
		ID:      "root",
		Author:  alice,
		Message: "initial",
		Changes: []DiffEntry{{Path: "a.txt", Kind: ChangeAdded, LinesAdded: 3}},
	})
	child := repo.AddCommit(MemoryCommit{
		ID:      "child",
		Parents: []Hash{root},
		Author:  alice,
		Message: "edit",
		Changes: []DiffEntry{{Path: "a.txt", Kind: ChangeModified, LinesAdded: 1, LinesDeleted: 1}},
	})
	repo.SetBranch("main", child)
	repo.SetBranch("old", root)

	t.Run("refs", func(t *testing.T) {
		head, err := repo.Head()
		if err != nil || head != child {
			t.Fatalf("Head() = %s, %v; expected %s", head, err, child)
		}
		if h, err := repo.Resolve("old"); err != nil || h != root {
			t.Fatalf("Resolve(old) = %s, %v; expected %s", h, err, root)
		}
		if h, err := repo.Resolve(child.String()); err != nil || h != child {
			t.Fatalf("Resolve(hash) = %s, %v; expected %s", h, err, child)
		}
		if _, err := repo.Resolve("nope"); !errors.Is(err, ErrRepositoryRead) {
			t.Fatalf("Resolve(nope) = %v, expected ErrRepositoryRead", err)
		}

		branches, _ := repo.Branches()
		if len(branches) != 2 || branches[0].Name != "main" || branches[1].Name != "old" {
			t.Fatalf("Branches() = %+v", branches)
		}
	})

	t.Run("commits and diffs", func(t *testing.T) {
		c, err := repo.Commit(child)
		if err != nil {
			t.Fatalf("Commit: %v", err)
		}
		if c.Committer != alice {
			t.Errorf("Committer = %+v, expected author default", c.Committer)
		}
		parent, _ := repo.Commit(root)

		entries, err := repo.TreeDiff(parent.Tree, c.Tree)
		if err != nil || len(entries) != 1 || entries[0].Kind != ChangeModified {
			t.Fatalf("TreeDiff = %+v, %v", entries, err)
		}
		entries, err = repo.TreeDiff(ZeroHash, parent.Tree)
		if err != nil || len(entries) != 1 || entries[0].Kind != ChangeAdded {
			t.Fatalf("TreeDiff(root) = %+v, %v", entries, err)
		}
	})

	t.Run("injected failures", func(t *testing.T) {
		boom := errors.New("corrupt object")
		repo.FailDiff(child, boom)

		c, err := repo.Commit(child)
		if err != nil {
			t.Fatalf("Commit should still load: %v", err)
		}
		parent, _ := repo.Commit(root)
		_, err = repo.TreeDiff(parent.Tree, c.Tree)
		if !errors.Is(err, ErrRepositoryRead) || !errors.Is(err, boom) {
			t.Fatalf("TreeDiff error = %v, expected read error wrapping boom", err)
		}

		repo.FailCommit(root, boom)
		_, err = repo.Commit(root)
		var re *ReadError
		if !errors.As(err, &re) || re.Hash != root {
			t.Fatalf("Commit error = %v, expected *ReadError for root", err)
		}
	})
}

func TestWrapReadError(t *testing.T) {
	err := WrapReadError("load commit", MemoryHash(1, "x"), errors.New("boom"))
	if !errors.Is(err, ErrRepositoryRead) {
		t.Fatalf("expected ErrRepositoryRead")
	}
	// Re-wrapping keeps the innermost read error.
	again := WrapReadError("diff tree", ZeroHash, err)
	if again != err {
		t.Fatalf("readError re-wrapped an existing ReadError: %v", again)
	}
	if got := (&ReadError{Op: "list branches", Err: errors.New("boom")}).Error(); got != "repository read error: list branches: boom" {
		t.Fatalf("Error() = %q", got)
	}
}
