package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/masmgr/commitwalk/config"
	"github.com/masmgr/commitwalk/internal/git"
	"github.com/masmgr/commitwalk/internal/git/gittest"
	"github.com/masmgr/commitwalk/internal/output"
)

// sampleRepo has four commits: initial and docs/rename on the base branch,
// plus one commit on a feature branch.
func sampleRepo(t *testing.T) (*gittest.Repo, string) {
	t.Helper()

	r := gittest.New(t)
	now := time.Now().Truncate(time.Second)

	r.Write("README.md", "hello\n")
	r.Write("src/app.go", strings.Repeat("package app\n", 10))
	r.Commit("initial", "Alice", "alice@example.com", now.Add(-4*time.Hour))
	base := r.HeadBranch()

	r.Branch("feature")
	r.Write("src/feature.go", "package app\n\nfunc Feature() {}\n")
	r.Commit("feature", "Carol", "carol@example.com", now.Add(-3*time.Hour))

	r.Checkout(base)
	r.Write("README.md", "hello\nworld\n")
	r.Commit("fix docs", "Bob", "bob@example.com", now.Add(-2*time.Hour))

	r.Move("src/app.go", "src/main.go")
	r.Commit("rename", "Alice", "alice@example.com", now.Add(-1*time.Hour))
	return r, base
}

// runApp runs the CLI with an isolated home directory and returns the
// contents of the --output file.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	out := filepath.Join(t.TempDir(), "out")
	argv := append([]string{"commitwalk"}, args...)
	argv = append(argv, "--output", out)
	if err := App().Run(argv); err != nil {
		return "", err
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	return string(data), nil
}

func decode[T any](t *testing.T, data string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		t.Fatalf("Failed to parse JSON: %v\n%s", err, data)
	}
	return v
}

func TestHistogramCommand(t *testing.T) {
	r, _ := sampleRepo(t)

	data, err := runApp(t, "histogram", "--repo", r.Dir, "--format", "json")
	if err != nil {
		t.Fatalf("histogram: %v", err)
	}
	report := decode[output.JSONHistogramReport](t, data)

	if report.TotalCommits != 4 {
		t.Errorf("totalCommits = %d, want 4", report.TotalCommits)
	}
	if report.Identities != 3 {
		t.Errorf("identities = %d, want 3", report.Identities)
	}
	if len(report.Items) == 0 || report.Items[0].Key != "alice@example.com" || report.Items[0].Count != 2 {
		t.Errorf("items[0] = %+v, want alice with 2 commits", report.Items)
	}
}

func TestHistogramCommand_MaxCommits(t *testing.T) {
	r, _ := sampleRepo(t)

	data, err := runApp(t, "histogram", "--repo", r.Dir, "--format", "json", "--max-commits", "1")
	if err != nil {
		t.Fatalf("histogram: %v", err)
	}
	report := decode[output.JSONHistogramReport](t, data)
	if report.TotalCommits != 1 {
		t.Errorf("totalCommits = %d, want 1", report.TotalCommits)
	}
}

func TestHistogramCommand_MessageFilter(t *testing.T) {
	r, _ := sampleRepo(t)

	data, err := runApp(t, "histogram", "--repo", r.Dir, "--format", "json", "--message", `\bfix\b`)
	if err != nil {
		t.Fatalf("histogram: %v", err)
	}
	report := decode[output.JSONHistogramReport](t, data)
	if report.TotalCommits != 1 || report.Items[0].Key != "bob@example.com" {
		t.Errorf("report = %+v, want only bob's fix", report)
	}
}

func TestDiffStatCommand_PathFilter(t *testing.T) {
	r, _ := sampleRepo(t)

	data, err := runApp(t, "diffstat", "--repo", r.Dir, "--format", "json", "--path", "src")
	if err != nil {
		t.Fatalf("diffstat: %v", err)
	}
	report := decode[output.JSONDiffStatReport](t, data)
	if report.Commits != 3 {
		t.Errorf("commits = %d, want 3 (initial, feature, rename)", report.Commits)
	}
	if report.Files.Renamed != 1 {
		t.Errorf("renamed files = %d, want 1", report.Files.Renamed)
	}
}

func TestChangesCommand_Range(t *testing.T) {
	r, base := sampleRepo(t)

	data, err := runApp(t, "changes", "--repo", r.Dir, "--format", "json", "--range", "feature.."+base)
	if err != nil {
		t.Fatalf("changes: %v", err)
	}
	report := decode[output.JSONChangesReport](t, data)
	if report.TotalCommits != 2 {
		t.Fatalf("totalCommits = %d, want 2", report.TotalCommits)
	}
	if report.Items[0].Subject != "rename" || report.Items[1].Subject != "fix docs" {
		t.Errorf("subjects = %q, %q; want rename then fix docs", report.Items[0].Subject, report.Items[1].Subject)
	}
}

func TestPathsCommand(t *testing.T) {
	r, _ := sampleRepo(t)

	data, err := runApp(t, "paths", "--repo", r.Dir, "--format", "ci")
	if err != nil {
		t.Fatalf("paths: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(data), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected summary plus paths, got %q", data)
	}
	if !strings.Contains(lines[0], `"type":"summary"`) {
		t.Errorf("first line = %q, want summary", lines[0])
	}
	if !strings.Contains(data, `"path":"src/main.go"`) {
		t.Errorf("output missing src/main.go:\n%s", data)
	}
	// Every commit lands within the same few hours.
	if !strings.Contains(data, `"burstScore":1`) {
		t.Errorf("output missing burst score of 1:\n%s", data)
	}
}

func TestCouplingCommand(t *testing.T) {
	r, _ := sampleRepo(t)

	data, err := runApp(t, "coupling", "--repo", r.Dir, "--format", "json", "--min-co-commits", "1")
	if err != nil {
		t.Fatalf("coupling: %v", err)
	}
	report := decode[output.JSONCouplingReport](t, data)
	if report.TotalCommits != 4 {
		t.Errorf("totalCommits = %d, want 4", report.TotalCommits)
	}
	if len(report.Items) != 1 {
		t.Fatalf("items = %+v, want one pair", report.Items)
	}
	pair := report.Items[0]
	if pair.PathA != "README.md" || pair.PathB != "src/app.go" || pair.CoCommitCount != 1 || pair.Jaccard != 0.5 {
		t.Errorf("pair = %+v, want README.md/src/app.go with Jaccard 0.5", pair)
	}

	data, err = runApp(t, "coupling", "--repo", r.Dir, "--format", "json")
	if err != nil {
		t.Fatalf("coupling: %v", err)
	}
	if report := decode[output.JSONCouplingReport](t, data); len(report.Items) != 0 {
		t.Errorf("default thresholds kept %+v, want none", report.Items)
	}
}

func TestBranchesCommand(t *testing.T) {
	r, base := sampleRepo(t)

	data, err := runApp(t, "branches", "--repo", r.Dir, "--format", "json")
	if err != nil {
		t.Fatalf("branches: %v", err)
	}
	report := decode[output.JSONBranchesReport](t, data)
	if len(report.Branches) != 2 {
		t.Fatalf("branches = %+v, want 2", report.Branches)
	}
	for _, b := range report.Branches {
		if b.Head != (b.Name == base) {
			t.Errorf("branch %s head = %v", b.Name, b.Head)
		}
	}
}

func TestSummaryCommand(t *testing.T) {
	r, _ := sampleRepo(t)
	t.Setenv("HOME", t.TempDir())

	if err := App().Run([]string{"commitwalk", "--log-format", "json", "summary", "--repo", r.Dir}); err != nil {
		t.Fatalf("summary: %v", err)
	}
}

func TestRunSummary_LogsBranchesAndCommitters(t *testing.T) {
	r, base := sampleRepo(t)
	repo, err := git.Open(r.Dir, git.OpenOptions{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	cfg := config.DefaultConfig()
	cfg.Histogram.By = "committer"
	ctx := &CommandContext{Config: cfg, Logger: logger, RepoPath: r.Dir, Repo: repo}

	if err := runSummary(ctx); err != nil {
		t.Fatalf("runSummary: %v", err)
	}

	branches := map[string]bool{}
	committers := map[string]int{}
	for _, e := range hook.AllEntries() {
		switch e.Message {
		case "branch":
			if e.Level != logrus.DebugLevel {
				t.Errorf("branch logged at %s, want debug", e.Level)
			}
			branches[e.Data["branch"].(string)] = e.Data["head"].(bool)
		case "committer activity":
			committers[e.Data["committer"].(string)] = e.Data["commits"].(int)
		}
	}

	if len(branches) != 2 || !branches[base] || branches["feature"] {
		t.Errorf("branches = %v, want %s as head and feature", branches, base)
	}
	if committers["alice@example.com"] != 2 || committers["bob@example.com"] != 1 || committers["carol@example.com"] != 1 {
		t.Errorf("committers = %v", committers)
	}
	if last := hook.LastEntry(); last == nil || last.Message != "diff statistics" || last.Data["commits"] != 4 {
		t.Errorf("last entry = %+v, want diff statistics over 4 commits", last)
	}
}

func TestCommand_InvalidInput(t *testing.T) {
	r, _ := sampleRepo(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "Format", args: []string{"diffstat", "--repo", r.Dir, "--format", "xml"}},
		{name: "Match", args: []string{"diffstat", "--repo", r.Dir, "--path", "src", "--match", "sometimes"}},
		{name: "By", args: []string{"histogram", "--repo", r.Dir, "--by", "reviewer"}},
		{name: "SummaryBy", args: []string{"summary", "--repo", r.Dir, "--by", "reviewer"}},
		{name: "Range", args: []string{"changes", "--repo", r.Dir, "--range", "main"}},
		{name: "SymmetricRange", args: []string{"changes", "--repo", r.Dir, "--range", "feature...HEAD"}},
		{name: "UnknownRef", args: []string{"changes", "--repo", r.Dir, "--ref", "no-such-branch"}},
		{name: "Jaccard", args: []string{"coupling", "--repo", r.Dir, "--min-jaccard", "2"}},
		{name: "BurstWindow", args: []string{"paths", "--repo", r.Dir, "--burst-window", "0"}},
		{name: "NotARepository", args: []string{"diffstat", "--repo", t.TempDir()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runApp(t, tt.args...); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
