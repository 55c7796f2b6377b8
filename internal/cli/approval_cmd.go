package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	usecase "github.com/alexanderramin/costwise/internal/app"
	"github.com/alexanderramin/costwise/internal/cli/formatter"
	"github.com/alexanderramin/costwise/internal/domain"
	"github.com/alexanderramin/costwise/internal/events"
	"github.com/spf13/cobra"
)

func newApprovalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approval",
		Short: "Submit, approve, reject and reset node estimates",
	}

	cmd.AddCommand(
		newApprovalActionCmd(app, domain.ActionSubmit, "Submit a node's estimate for approval"),
		newApprovalActionCmd(app, domain.ActionApprove, "Approve a submitted estimate"),
		newApprovalActionCmd(app, domain.ActionReject, "Reject a submitted estimate (comment required)"),
		newApprovalActionCmd(app, domain.ActionReset, "Return a node's estimate to draft"),
		newApprovalHistoryCmd(app),
		newApprovalWatchCmd(app),
	)

	return cmd
}

func newApprovalActionCmd(app *App, action domain.ApprovalAction, short string) *cobra.Command {
	var actor, comment string

	cmd := &cobra.Command{
		Use:   string(action) + " PROJECT NODE",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, n, err := resolveProjectNode(ctx, app, args)
			if err != nil {
				return err
			}

			if action == domain.ActionReject && strings.TrimSpace(comment) == "" && app.interactive() {
				prompt := app.PromptComment
				if prompt == nil {
					prompt = promptRejectComment
				}
				comment, err = prompt(fmt.Sprintf("Reject %s %s", n.Code, n.Title))
				if err != nil {
					return err
				}
			}

			req := usecase.NewApprovalRequest(p.ID, n.ID, action)
			req.Actor = actor
			req.Comment = comment
			resp, err := app.Approvals.ProcessApproval(ctx, req)
			if err != nil {
				var conflict *domain.ConflictError
				if errors.As(err, &conflict) {
					return fmt.Errorf("%w (run the command again to retry)", err)
				}
				return err
			}
			return render(cmd, resp, func() string {
				return formatter.FormatApprovalResponse(resp)
			})
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "Person performing the action (required to approve or reject)")
	cmd.Flags().StringVar(&comment, "comment", "", "Comment stored with the transition")

	return cmd
}

func newApprovalHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history PROJECT NODE",
		Short: "List a node's approval transitions, oldest first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, n, err := resolveProjectNode(ctx, app, args)
			if err != nil {
				return err
			}
			history, err := app.Approvals.History(ctx, n.ID)
			if err != nil {
				return err
			}
			return render(cmd, history, func() string {
				return formatter.FormatApprovalHistory(history, time.Now())
			})
		},
	}
}

func newApprovalWatchCmd(app *App) *cobra.Command {
	var topic string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream approval events from the event bus until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Watcher == nil {
				return fmt.Errorf("approval events are disabled; set events.nats_url or COSTWISE_NATS_URL")
			}
			w, err := app.Watcher()
			if err != nil {
				return err
			}
			defer w.Close() //nolint:errcheck

			out := cmd.OutOrStdout()
			asJSON := jsonOutput(cmd)
			return w.WatchApprovals(cmd.Context(), topic, func(e events.ApprovalTransitioned) {
				if asJSON {
					_ = writeJSON(out, e)
					return
				}
				fmt.Fprintln(out, formatter.FormatApprovalEvent(e))
			})
		},
	}

	cmd.Flags().StringVar(&topic, "topic", events.TopicApprovalAll, "Subject to subscribe to (wildcards allowed)")

	return cmd
}
