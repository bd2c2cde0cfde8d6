package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/commitwalk/internal/git"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "commitwalk",
		Usage:   "Walk Git history and aggregate commit statistics",
		Version: "1.0.0",
		Commands: []*cli.Command{
			HistogramCmd(),
			DiffStatCmd(),
			ChangesCmd(),
			PathsCmd(),
			CouplingCmd(),
			BranchesCmd(),
			SummaryCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file (.json, .yaml or .yml)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log walk diagnostics to stderr",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format (text, json)",
			},
		},
	}
}

// repoFlags selects the repository and the commits to walk.
func repoFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path to Git repository",
			Value:   ".",
		},
		&cli.StringSliceFlag{
			Name:  "ref",
			Usage: "Revision to start from (can be specified multiple times; default: HEAD and all local branches)",
		},
		&cli.StringFlag{
			Name:  "range",
			Usage: "Walk commits in head but not in base (base..head; the three-dot form is not supported)",
		},
	}
}

// commonFlags are shared by every command that walks history.
func commonFlags() []cli.Flag {
	return append(repoFlags(),
		&cli.StringFlag{
			Name:  "since",
			Usage: "Only commits committed on or after this date (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:  "until",
			Usage: "Only commits committed on or before this date (YYYY-MM-DD)",
		},
		&cli.StringSliceFlag{
			Name:  "path",
			Usage: "Path or directory the commit must touch (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "suffix",
			Usage: "Path suffix the commit must touch, e.g. .go (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "glob",
			Usage: "Glob pattern the commit must touch (can be specified multiple times)",
		},
		&cli.StringFlag{
			Name:  "match",
			Usage: "Combine path predicates with any or all",
		},
		&cli.StringSliceFlag{
			Name:    "message",
			Aliases: []string{"m"},
			Usage:   "Regex the commit message must match (can be specified multiple times)",
		},
		&cli.BoolFlag{
			Name:  "no-merges",
			Usage: "Skip merge commits",
		},
		&cli.IntFlag{
			Name:  "max-commits",
			Usage: "Stop after this many matching commits (0 = unlimited)",
		},
		&cli.StringFlag{
			Name:  "diff-backend",
			Usage: "Tree diff implementation (gogit, gitcli)",
		},
		&cli.StringFlag{
			Name:  "rename-detect",
			Usage: "Rename detection mode (off, simple, aggressive)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv, markdown, ci)",
		},
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"n"},
			Usage:   "Number of top results to show (0 = all)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
	)
}

// parseDateFlag parses a date string flag.
func parseDateFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return &t, nil
}

// parseRenameDetectFlag accepts the mode names plus a few git-style aliases.
func parseRenameDetectFlag(s string) (git.RenameDetectMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "simple", "exact", "true", "on":
		return git.RenameDetectSimple, nil
	case "off", "false", "none":
		return git.RenameDetectOff, nil
	case "aggressive", "similarity", "copies":
		return git.RenameDetectAggressive, nil
	default:
		return git.RenameDetectSimple, fmt.Errorf("invalid rename detection mode %q (expected off, simple or aggressive)", s)
	}
}

func parseDiffBackendFlag(s string) (git.DiffBackend, error) {
	switch b := git.DiffBackend(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return git.DiffBackendGoGit, nil
	case git.DiffBackendGoGit, git.DiffBackendGitCLI:
		return b, nil
	case "git", "cli":
		return git.DiffBackendGitCLI, nil
	default:
		return git.DiffBackendGoGit, fmt.Errorf("invalid diff backend %q (expected gogit or gitcli)", s)
	}
}

// newLogger builds the diagnostics logger. Verbose forces debug level.
func newLogger(level, format string, verbose bool) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		logger.SetLevel(lvl)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}

	switch strings.ToLower(format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid log format %q (expected text or json)", format)
	}
	return logger, nil
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
