package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/commitwalk/internal/output"
	"github.com/masmgr/commitwalk/internal/stat"
)

// CouplingCmd returns the coupling command.
func CouplingCmd() *cli.Command {
	return &cli.Command{
		Name:  "coupling",
		Usage: "Find paths that tend to change in the same commits",
		Flags: append(commonFlags(),
			&cli.IntFlag{
				Name:  "min-co-commits",
				Usage: "Minimum number of shared commits for a pair",
			},
			&cli.Float64Flag{
				Name:  "min-jaccard",
				Usage: "Minimum Jaccard coefficient for a pair (0-1)",
			},
			&cli.IntFlag{
				Name:  "max-files",
				Usage: "Ignore commits touching more paths than this when pairing (0 = no limit)",
			},
			&cli.IntFlag{
				Name:  "top-pairs",
				Usage: "Number of pairs to keep (0 = all)",
			},
		),
		Action: couplingAction,
	}
}

func couplingAction(c *cli.Context) error {
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		writer, opts, err := ctx.Writer(c)
		if err != nil {
			return err
		}

		cc := ctx.Config.Coupling
		coupling := stat.NewCouplingFilter(stat.CouplingOptions{
			MinCoCommits:      cc.MinCoCommits,
			MinJaccard:        cc.MinJaccard,
			MaxFilesPerCommit: cc.MaxFilesPerCommit,
			TopPairs:          cc.TopPairs,
		})
		if err := ctx.Walk(coupling); err != nil {
			return err
		}

		result := coupling.Result()
		ctx.Logger.WithFields(logrus.Fields{
			"commits": result.TotalCommits,
			"paths":   result.TotalPaths,
			"pairs":   result.TotalPairs,
			"kept":    len(result.Couplings),
		}).Debug("coupling computed")

		return writer.WriteCoupling(&output.CouplingReport{
			ReportMeta: ctx.Meta(),
			Result:     result,
		}, opts)
	})
}
