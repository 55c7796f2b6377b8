package cli

import (
	"fmt"

	"github.com/alexanderramin/costwise/internal/cli/formatter"
	"github.com/alexanderramin/costwise/internal/domain"
	"github.com/spf13/cobra"
)

func newRiskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Manage risks and their exposure",
	}

	cmd.AddCommand(
		newRiskListCmd(app),
		newRiskAddCmd(app),
		newRiskUpdateCmd(app),
		newRiskRemoveCmd(app),
	)

	return cmd
}

func newRiskListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT NODE",
		Short: "List the risks registered on a node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, n, err := resolveProjectNode(ctx, app, args)
			if err != nil {
				return err
			}
			items, err := app.Risks.ListByNode(ctx, n.ID)
			if err != nil {
				return err
			}
			return render(cmd, items, func() string {
				return formatter.FormatRiskList(items)
			})
		},
	}
}

func newRiskAddCmd(app *App) *cobra.Command {
	var f riskFlags

	cmd := &cobra.Command{
		Use:   "add PROJECT NODE",
		Short: "Register a risk on a node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, n, err := resolveProjectNode(ctx, app, args)
			if err != nil {
				return err
			}
			r := &domain.Risk{WBSNodeID: n.ID}
			f.apply(cmd.Flags(), r)
			if err := app.Risks.Create(ctx, r); err != nil {
				return err
			}
			return render(cmd, r, func() string {
				return fmt.Sprintf("Added risk %d to %s %s: exposure %s", r.ID, n.Code, n.Title, exposureText(r))
			})
		},
	}

	f.bind(cmd.Flags())
	_ = cmd.MarkFlagRequired("cost")

	return cmd
}

func newRiskUpdateCmd(app *App) *cobra.Command {
	var f riskFlags

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a risk; only the flags given are applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID("risk", args[0])
			if err != nil {
				return err
			}
			r, err := app.Risks.GetByID(ctx, id)
			if err != nil {
				return err
			}
			f.apply(cmd.Flags(), r)
			if err := app.Risks.Update(ctx, r); err != nil {
				return err
			}
			return render(cmd, r, func() string {
				return fmt.Sprintf("Updated risk %d: exposure %s", r.ID, exposureText(r))
			})
		},
	}

	f.bind(cmd.Flags())

	return cmd
}

func newRiskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a risk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("risk", args[0])
			if err != nil {
				return err
			}
			if err := app.Risks.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed risk %d\n", id)
			return nil
		},
	}
}

func exposureText(r *domain.Risk) string {
	if r.RiskExposure == nil {
		return "unresolved (probability or severity weight missing)"
	}
	return formatter.Amount(*r.RiskExposure)
}
