package cmd

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/commitwalk/internal/git"
	"github.com/masmgr/commitwalk/internal/output"
)

// BranchesCmd returns the branches command.
func BranchesCmd() *cli.Command {
	flags := append(repoFlags(),
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv, markdown, ci)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
	)

	return &cli.Command{
		Name:   "branches",
		Usage:  "List the local branches a default walk starts from",
		Flags:  flags,
		Action: branchesAction,
	}
}

func branchesAction(c *cli.Context) error {
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		writer, opts, err := ctx.Writer(c)
		if err != nil {
			return err
		}

		head, err := ctx.Repo.Head()
		if err != nil && !errors.Is(err, git.ErrNoHead) {
			return err
		}
		branches, err := ctx.Repo.Branches()
		if err != nil {
			return err
		}

		report := &output.BranchesReport{
			ReportMeta: ctx.Meta(),
			Head:       head,
			Branches:   branches,
		}
		return writer.WriteBranches(report, opts)
	})
}
