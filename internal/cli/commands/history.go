package commands

import (
	"github.com/spf13/cobra"

	"jbcram/internal/config"
	"jbcram/internal/storage"
	"jbcram/internal/ui"
)

// HistoryCommand handles the history command
type HistoryCommand struct {
	config    *config.Config
	formatter *ui.Formatter
}

// NewHistoryCommand creates a new HistoryCommand
func NewHistoryCommand(cfg *config.Config, formatter *ui.Formatter) *HistoryCommand {
	return &HistoryCommand{config: cfg, formatter: formatter}
}

// Execute runs the command
func (hc *HistoryCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	history, err := storage.OpenHistory(ctx, hc.config.History.Driver, hc.config.GetHistoryDSN())
	if err != nil {
		return err
	}
	defer history.Close()

	if len(args) == 1 {
		results, err := history.ListResults(ctx, args[0])
		if err != nil {
			return err
		}
		hc.formatter.PrintResults(results)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := history.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	hc.formatter.PrintHistory(runs)
	return nil
}
