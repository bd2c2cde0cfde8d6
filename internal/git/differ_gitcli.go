package git

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/filemode"
)

// emptyTreeHash is the well-known id of the empty tree.
const emptyTreeHash = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

// CLIDiffer computes tree diffs by running `git diff-tree`.
// Unlike the go-git backend it reports copies.
type CLIDiffer struct {
	repoPath     string
	renameDetect RenameDetectMode
}

// NewCLIDiffer creates a differ for the repository at repoPath.
func NewCLIDiffer(repoPath string, renameDetect RenameDetectMode) *CLIDiffer {
	return &CLIDiffer{repoPath: repoPath, renameDetect: renameDetect}
}

type gitRawEntry struct {
	srcMode filemode.FileMode
	dstMode filemode.FileMode
	status  string // e.g. "M", "A", "D", "R100", "C075"
	path    string // destination path (or path for non-renames)
	oldPath string // source path for renames and copies
}

type gitNumstat struct {
	added   int
	deleted int
}

// TreeDiff runs git diff-tree between two trees and parses the combined raw/numstat output.
func (d *CLIDiffer) TreeDiff(from, to Hash) ([]DiffEntry, error) {
	if from == to {
		return nil, nil
	}

	fromRev := from.String()
	if from.IsZero() {
		fromRev = emptyTreeHash
	}

	args := []string{
		"-C", d.repoPath,
		"diff-tree",
		"-r",
		"--no-color",
		"--raw",
		"--numstat",
		"-z",
	}

	switch d.renameDetect {
	case RenameDetectOff:
		args = append(args, "--no-renames")
	case RenameDetectAggressive:
		args = append(args, "-M60%", "-C60%")
	default:
		args = append(args, "-M100%", "-C100%")
	}

	args = append(args, fromRev, to.String())

	out, err := exec.Command("git", args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			err = fmt.Errorf("git diff-tree failed: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, WrapReadError("diff tree", to, err)
	}

	entries, err := parseDiffTree(out)
	if err != nil {
		return nil, WrapReadError("diff tree", to, err)
	}
	return entries, nil
}

// parseDiffTree parses `git diff-tree -r -z --raw --numstat` output.
func parseDiffTree(out []byte) ([]DiffEntry, error) {
	rawEntries, pos, err := parseGitRawEntries(out)
	if err != nil {
		return nil, err
	}

	stats, err := parseGitNumstat(out[pos:], rawEntries)
	if err != nil {
		return nil, err
	}

	entries := make([]DiffEntry, 0, len(rawEntries))
	for i, e := range rawEntries {
		if !e.srcMode.IsFile() && !e.dstMode.IsFile() {
			continue
		}
		if e.path == "" {
			continue
		}

		kind, oldPath := kindFromGitStatus(e.status, e.oldPath)
		entries = append(entries, DiffEntry{
			Path:         e.path,
			OldPath:      oldPath,
			Kind:         kind,
			LinesAdded:   stats[i].added,
			LinesDeleted: stats[i].deleted,
		})
	}

	return entries, nil
}

func parseGitRawEntries(body []byte) ([]gitRawEntry, int, error) {
	i := 0
	for i < len(body) && (body[i] == '\n' || body[i] == '\r') {
		i++
	}

	entries := make([]gitRawEntry, 0, 16)

	for i < len(body) && body[i] == ':' {
		meta, ok := readUntilNUL(body, &i)
		if !ok {
			return nil, 0, fmt.Errorf("unexpected git --raw format (missing NUL)")
		}

		fields := strings.Fields(string(meta))
		if len(fields) < 5 {
			return nil, 0, fmt.Errorf("unexpected git --raw meta: %q", string(meta))
		}

		srcMode, err := parseGitFileMode(strings.TrimPrefix(fields[0], ":"))
		if err != nil {
			return nil, 0, err
		}
		dstMode, err := parseGitFileMode(fields[1])
		if err != nil {
			return nil, 0, err
		}

		status := fields[len(fields)-1]

		path1, ok := readStringUntilNUL(body, &i)
		if !ok {
			return nil, 0, fmt.Errorf("unexpected git --raw format (missing path)")
		}

		path := path1
		oldPath := ""
		if hasTwoPaths(status) {
			path2, ok := readStringUntilNUL(body, &i)
			if !ok {
				return nil, 0, fmt.Errorf("unexpected git --raw format (missing rename path)")
			}
			oldPath = path1
			path = path2
		}

		entries = append(entries, gitRawEntry{
			srcMode: srcMode,
			dstMode: dstMode,
			status:  status,
			path:    path,
			oldPath: oldPath,
		})
	}

	return entries, i, nil
}

func parseGitNumstat(body []byte, rawEntries []gitRawEntry) ([]gitNumstat, error) {
	stats := make([]gitNumstat, 0, len(rawEntries))
	i := 0
	for i < len(body) && (body[i] == '\n' || body[i] == '\r') {
		i++
	}

	for range rawEntries {
		added, ok, err := readNumstatInt(body, &i, '\t')
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("unexpected git --numstat format (added)")
		}

		deleted, ok, err := readNumstatInt(body, &i, '\t')
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("unexpected git --numstat format (deleted)")
		}

		// Paths come from --raw. An empty path here means old\0new\0 follow.
		path, ok := readStringUntilNUL(body, &i)
		if !ok {
			return nil, fmt.Errorf("unexpected git --numstat format (path)")
		}
		if path == "" {
			for n := 0; n < 2; n++ {
				if _, ok := readStringUntilNUL(body, &i); !ok {
					return nil, fmt.Errorf("unexpected git --numstat format (rename path)")
				}
			}
		}

		stats = append(stats, gitNumstat{added: added, deleted: deleted})
	}

	return stats, nil
}

func hasTwoPaths(status string) bool {
	return len(status) > 0 && (status[0] == 'R' || status[0] == 'C')
}

func parseGitFileMode(s string) (filemode.FileMode, error) {
	if s == "" {
		return filemode.Empty, nil
	}
	// Modes are printed as octal (e.g. 100644, 120000, 160000, 000000).
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return filemode.Empty, fmt.Errorf("parse file mode %q: %w", s, err)
	}
	return filemode.FileMode(v), nil
}

func kindFromGitStatus(status, oldPath string) (ChangeKind, string) {
	if status == "" {
		return ChangeModified, ""
	}
	switch status[0] {
	case 'A':
		return ChangeAdded, ""
	case 'D':
		return ChangeDeleted, ""
	case 'R':
		return ChangeRenamed, oldPath
	case 'C':
		return ChangeCopied, oldPath
	default:
		return ChangeModified, ""
	}
}

func readUntilNUL(b []byte, i *int) ([]byte, bool) {
	if *i >= len(b) {
		return nil, false
	}
	j := bytes.IndexByte(b[*i:], 0)
	if j == -1 {
		return nil, false
	}
	start := *i
	end := *i + j
	*i = end + 1
	return b[start:end], true
}

func readStringUntilNUL(b []byte, i *int) (string, bool) {
	raw, ok := readUntilNUL(b, i)
	if !ok {
		return "", false
	}
	return string(raw), true
}

func readNumstatInt(b []byte, i *int, delim byte) (int, bool, error) {
	if *i >= len(b) {
		return 0, false, nil
	}
	j := bytes.IndexByte(b[*i:], delim)
	if j == -1 {
		return 0, false, nil
	}
	field := b[*i : *i+j]
	*i = *i + j + 1

	// Binary files report "-".
	if len(field) == 1 && field[0] == '-' {
		return 0, true, nil
	}
	n, err := strconv.Atoi(string(field))
	if err != nil {
		return 0, true, fmt.Errorf("parse numstat int %q: %w", string(field), err)
	}
	return n, true, nil
}
