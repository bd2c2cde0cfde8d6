package cmd

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/commitwalk/internal/git"
	"github.com/masmgr/commitwalk/internal/stat"
)

// SummaryCmd returns the summary command.
func SummaryCmd() *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "Log branches, a commit histogram and diff statistics",
		Flags: append(commonFlags(),
			&cli.StringFlag{
				Name:  "by",
				Usage: "Group commits by author or committer",
				Value: "committer",
			},
		),
		Action: summaryAction,
	}
}

// summaryAction logs the results at info level, raising the logger to info
// if needed.
func summaryAction(c *cli.Context) error {
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		if !ctx.Logger.IsLevelEnabled(logrus.InfoLevel) {
			ctx.Logger.SetLevel(logrus.InfoLevel)
		}
		return runSummary(ctx)
	})
}

// runSummary lists branches at debug level, then runs a histogram walk and
// a diff-stat walk.
func runSummary(ctx *CommandContext) error {
	kind, err := stat.ParseKeyKind(ctx.Config.Histogram.By)
	if err != nil {
		return err
	}

	branches, err := ctx.Repo.Branches()
	if err != nil {
		return err
	}
	head, err := ctx.Repo.Head()
	if err != nil && !errors.Is(err, git.ErrNoHead) {
		return err
	}
	for _, b := range branches {
		ctx.Logger.WithFields(logrus.Fields{
			"branch": b.Name,
			"commit": b.Hash.String(),
			"head":   !head.IsZero() && b.Hash == head,
		}).Debug("branch")
	}

	histogram := stat.NewHistogramFilter(kind)
	if err := ctx.Walk(histogram); err != nil {
		return err
	}
	snapshot := histogram.Histogram()
	for _, a := range snapshot.UserActivity(stat.ByCount) {
		ctx.Logger.WithFields(logrus.Fields{
			kind.String(): a.Key,
			"name":        a.Name,
			"commits":     a.Count,
		}).Info(kind.String() + " activity")
	}

	stats := stat.NewDiffStatFilter()
	if err := ctx.Walk(stats); err != nil {
		return err
	}
	s := stats.Stats()
	ctx.Logger.WithFields(logrus.Fields{
		"commits":    s.Commits,
		"identities": snapshot.Len(),
		"added":      s.Added,
		"edited":     s.Edited,
		"copied":     s.Copied,
		"deleted":    s.Deleted,
		"renamed":    s.Renamed,
		"total":      s.Total(),
		"repo":       ctx.RepoPath,
		"revision":   ctx.RangeLabel(),
	}).Info("diff statistics")
	return nil
}
