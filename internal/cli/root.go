package cli

import (
	"context"

	"github.com/alexanderramin/costwise/internal/events"
	"github.com/alexanderramin/costwise/internal/service"
	"github.com/spf13/cobra"
)

// ApprovalWatcher streams published approval events.
type ApprovalWatcher interface {
	WatchApprovals(ctx context.Context, topic string, fn func(events.ApprovalTransitioned)) error
	Close() error
}

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects    service.ProjectService
	Estimation  service.EstimationService
	Approvals   service.ApprovalService
	Assignments service.AssignmentService
	Risks       service.RiskService
	References  service.ReferenceService
	Import      service.ImportService

	// Watcher connects to the event bus; nil when events are disabled.
	Watcher func() (ApprovalWatcher, error)

	// IsInteractive reports whether stdin is a terminal and prompts may run.
	IsInteractive func() bool

	// PromptComment asks for a reject comment. Defaults to a huh form.
	PromptComment func(title string) (string, error)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "costwise" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var opts GlobalOptions

	root := &cobra.Command{
		Use:           "costwise",
		Short:         "WBS cost estimation, risk exposure and approvals",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	BindGlobalFlags(root.PersistentFlags(), &opts)

	root.AddCommand(
		newProjectCmd(app),
		newEstimateCmd(app),
		newApprovalCmd(app),
		newAssignmentCmd(app),
		newRiskCmd(app),
		newReferenceCmd(app),
	)

	return root
}
