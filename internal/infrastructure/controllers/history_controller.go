package controllers

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/releaseflow/internal/domain/commands"
	"github.com/rios0rios0/releaseflow/internal/domain/entities"
)

// HistoryController handles the "history" subcommand.
type HistoryController struct {
	command commands.History
}

// NewHistoryController creates a new HistoryController.
func NewHistoryController(command commands.History) *HistoryController {
	return &HistoryController{command: command}
}

// GetBind returns the Cobra command metadata for the history controller.
func (it *HistoryController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "history",
		Short: "List recent release runs",
		Long:  `List the most recent release runs recorded in the run journal, newest first.`,
	}
}

func (it *HistoryController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("limit", "n", 0, "Number of runs to show (default 10)")
}

// Execute prints the journaled runs as a table.
func (it *HistoryController) Execute(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	records, err := it.command.Execute(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No release runs recorded yet.")
		return nil
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd // column padding
	fmt.Fprintln(writer, "STARTED\tPROJECT\tVERSION\tBRANCH\tPHASE\tBUILD\tERROR")
	for _, record := range records {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			record.StartedAt.Local().Format(time.DateTime),
			record.Project, record.Version, record.Branch,
			record.Phase, record.Build, record.Error,
		)
	}
	return writer.Flush()
}
