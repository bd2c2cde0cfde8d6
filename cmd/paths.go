package cmd

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/commitwalk/internal/output"
	"github.com/masmgr/commitwalk/internal/stat"
)

// PathsCmd returns the paths command.
func PathsCmd() *cli.Command {
	return &cli.Command{
		Name:  "paths",
		Usage: "Rank paths by commit count and churn",
		Flags: append(commonFlags(),
			&cli.IntFlag{
				Name:  "burst-window",
				Usage: "Sliding window in days for the burst score",
			},
		),
		Action: pathsAction,
	}
}

func pathsAction(c *cli.Context) error {
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		writer, opts, err := ctx.Writer(c)
		if err != nil {
			return err
		}

		paths := stat.NewPathActivityFilter()
		if err := ctx.Walk(paths); err != nil {
			return err
		}

		report := &output.PathsReport{
			ReportMeta:  ctx.Meta(),
			Items:       paths.Activity(),
			BurstWindow: time.Duration(ctx.Config.Paths.BurstWindowDays) * 24 * time.Hour,
		}
		return writer.WritePaths(report, opts)
	})
}
