package cli

import (
	"github.com/alexanderramin/costwise/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newEstimateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Show PERT estimates, confidence ranges and risk exposure",
	}

	cmd.AddCommand(
		newEstimateProjectCmd(app),
		newEstimateNodeCmd(app),
	)

	return cmd
}

func newEstimateProjectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "project PROJECT",
		Short: "Estimate a whole project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			summary, err := app.Estimation.GetProjectEstimation(ctx, p.ID)
			if err != nil {
				return err
			}
			return render(cmd, summary, func() string {
				return formatter.FormatProjectEstimation(summary)
			})
		},
	}
}

func newEstimateNodeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "node PROJECT NODE",
		Short: "Estimate one WBS node (outline code or #id)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, n, err := resolveProjectNode(ctx, app, args)
			if err != nil {
				return err
			}
			summary, err := app.Estimation.GetWBSEstimation(ctx, p.ID, n.ID)
			if err != nil {
				return err
			}
			return render(cmd, summary, func() string {
				return formatter.FormatNodeEstimation(summary, p.Currency)
			})
		},
	}
}
