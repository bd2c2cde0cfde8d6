package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/commitwalk/internal/output"
	"github.com/masmgr/commitwalk/internal/stat"
)

// HistogramCmd returns the histogram command.
func HistogramCmd() *cli.Command {
	flags := append(commonFlags(),
		&cli.StringFlag{
			Name:  "by",
			Usage: "Group commits by author or committer",
		},
		&cli.StringFlag{
			Name:  "sort",
			Usage: "Sort identities by count, last, first or key",
		},
	)

	return &cli.Command{
		Name:    "histogram",
		Aliases: []string{"hist"},
		Usage:   "Count commits per author or committer",
		Flags:   flags,
		Action:  histogramAction,
	}
}

func histogramAction(c *cli.Context) error {
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		kind, err := stat.ParseKeyKind(ctx.Config.Histogram.By)
		if err != nil {
			return err
		}
		order, err := stat.ParseSortOrder(ctx.Config.Histogram.Sort)
		if err != nil {
			return err
		}
		writer, opts, err := ctx.Writer(c)
		if err != nil {
			return err
		}

		histogram := stat.NewHistogramFilter(kind)
		if err := ctx.Walk(histogram); err != nil {
			return err
		}

		snapshot := histogram.Histogram()
		report := &output.HistogramReport{
			ReportMeta:   ctx.Meta(),
			By:           kind.String(),
			TotalCommits: snapshot.TotalCommits(),
			Items:        snapshot.UserActivity(order),
		}
		return writer.WriteHistogram(report, opts)
	})
}
