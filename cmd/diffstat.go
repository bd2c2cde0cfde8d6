package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/commitwalk/internal/output"
	"github.com/masmgr/commitwalk/internal/stat"
)

// DiffStatCmd returns the diffstat command.
func DiffStatCmd() *cli.Command {
	return &cli.Command{
		Name:    "diffstat",
		Aliases: []string{"ds"},
		Usage:   "Sum added, edited, copied, deleted and renamed lines",
		Flags:   commonFlags(),
		Action:  diffStatAction,
	}
}

func diffStatAction(c *cli.Context) error {
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		writer, opts, err := ctx.Writer(c)
		if err != nil {
			return err
		}

		stats := stat.NewDiffStatFilter()
		if err := ctx.Walk(stats); err != nil {
			return err
		}

		report := &output.DiffStatReport{
			ReportMeta: ctx.Meta(),
			Stats:      stats.Stats(),
		}
		return writer.WriteDiffStat(report, opts)
	})
}
