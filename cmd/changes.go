package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/commitwalk/internal/output"
	"github.com/masmgr/commitwalk/internal/stat"
)

// ChangesCmd returns the changes command.
func ChangesCmd() *cli.Command {
	return &cli.Command{
		Name:   "changes",
		Usage:  "List the paths each commit changed, newest first",
		Flags:  commonFlags(),
		Action: changesAction,
	}
}

func changesAction(c *cli.Context) error {
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		writer, opts, err := ctx.Writer(c)
		if err != nil {
			return err
		}

		changes := stat.NewChangeLogFilter()
		if err := ctx.Walk(changes); err != nil {
			return err
		}

		report := &output.ChangesReport{
			ReportMeta: ctx.Meta(),
			Entries:    changes.Entries(),
		}
		return writer.WriteChanges(report, opts)
	})
}
