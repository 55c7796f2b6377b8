package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/costwise/internal/cli/formatter"
	"github.com/alexanderramin/costwise/internal/domain"
	"github.com/spf13/cobra"
)

func newReferenceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reference",
		Aliases: []string{"ref"},
		Short:   "Manage reference tables (" + strings.Join(referenceTableNames(), ", ") + ")",
	}

	cmd.AddCommand(
		newReferenceSetCmd(app),
		newReferenceListCmd(app),
	)

	return cmd
}

func newReferenceSetCmd(app *App) *cobra.Command {
	var description string
	var weight float64
	var inactive bool

	cmd := &cobra.Command{
		Use:   "set TABLE CODE",
		Short: "Create or replace a reference table entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			item := &domain.ReferenceItem{
				Table:       domain.ReferenceTable(strings.ToLower(args[0])),
				Code:        args[1],
				Description: description,
				Active:      !inactive,
			}
			if cmd.Flags().Changed("weight") {
				item.Weight = &weight
			}
			if err := app.References.Set(cmd.Context(), item); err != nil {
				return err
			}
			return render(cmd, item, func() string {
				return fmt.Sprintf("Set %s %s (weight %s)", item.Table, item.Code, formatter.Weight(item.Weight))
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Entry description")
	cmd.Flags().Float64Var(&weight, "weight", 0, "Weight in [0, 1]; probability and severity tables only")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "Mark the entry inactive; inactive weights do not resolve")

	return cmd
}

func newReferenceListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list TABLE",
		Short: "List the entries of a reference table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := domain.ReferenceTable(strings.ToLower(args[0]))
			items, err := app.References.List(cmd.Context(), table)
			if err != nil {
				return err
			}
			return render(cmd, items, func() string {
				return formatter.FormatReferenceList(table, items)
			})
		},
	}
}

func referenceTableNames() []string {
	names := make([]string, 0, len(domain.ValidReferenceTables))
	for t := range domain.ValidReferenceTables {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return names
}
