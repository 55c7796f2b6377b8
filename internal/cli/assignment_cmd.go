package cli

import (
	"fmt"

	"github.com/alexanderramin/costwise/internal/cli/formatter"
	"github.com/alexanderramin/costwise/internal/domain"
	"github.com/spf13/cobra"
)

func newAssignmentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "assignment",
		Aliases: []string{"asg"},
		Short:   "Manage three-point cost assignments on leaf nodes",
	}

	cmd.AddCommand(
		newAssignmentListCmd(app),
		newAssignmentAddCmd(app),
		newAssignmentUpdateCmd(app),
		newAssignmentRemoveCmd(app),
	)

	return cmd
}

func newAssignmentListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT NODE",
		Short: "List a node's assignments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, n, err := resolveProjectNode(ctx, app, args)
			if err != nil {
				return err
			}
			items, err := app.Assignments.ListByNode(ctx, n.ID)
			if err != nil {
				return err
			}
			return render(cmd, items, func() string {
				return formatter.FormatAssignmentList(items)
			})
		},
	}
}

func newAssignmentAddCmd(app *App) *cobra.Command {
	var f assignmentFlags

	cmd := &cobra.Command{
		Use:   "add PROJECT NODE",
		Short: "Add an assignment to a leaf node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, n, err := resolveProjectNode(ctx, app, args)
			if err != nil {
				return err
			}
			a := &domain.Assignment{WBSNodeID: n.ID}
			f.apply(cmd.Flags(), a)
			if err := app.Assignments.Create(ctx, a); err != nil {
				return err
			}
			return render(cmd, a, func() string {
				return fmt.Sprintf("Added assignment %d to %s %s: PERT %s (sd %s)",
					a.ID, n.Code, n.Title, formatter.Amount(a.PertEstimate), formatter.Amount(a.StdDeviation))
			})
		},
	}

	f.bind(cmd.Flags())
	_ = cmd.MarkFlagRequired("best")
	_ = cmd.MarkFlagRequired("likely")
	_ = cmd.MarkFlagRequired("worst")

	return cmd
}

func newAssignmentUpdateCmd(app *App) *cobra.Command {
	var f assignmentFlags
	var move string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change an assignment; only the flags given are applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID("assignment", args[0])
			if err != nil {
				return err
			}
			a, err := app.Assignments.GetByID(ctx, id)
			if err != nil {
				return err
			}
			f.apply(cmd.Flags(), a)
			if move != "" {
				current, err := app.Projects.Node(ctx, a.WBSNodeID)
				if err != nil {
					return err
				}
				n, err := resolveNode(ctx, app, current.ProjectID, move)
				if err != nil {
					return err
				}
				a.WBSNodeID = n.ID
			}
			if err := app.Assignments.Update(ctx, a); err != nil {
				return err
			}
			return render(cmd, a, func() string {
				return fmt.Sprintf("Updated assignment %d: PERT %s (sd %s)",
					a.ID, formatter.Amount(a.PertEstimate), formatter.Amount(a.StdDeviation))
			})
		},
	}

	f.bind(cmd.Flags())
	cmd.Flags().StringVar(&move, "node", "", "Move to another leaf node in the same project (outline code or #id)")

	return cmd
}

func newAssignmentRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove an assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("assignment", args[0])
			if err != nil {
				return err
			}
			if err := app.Assignments.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed assignment %d\n", id)
			return nil
		},
	}
}

