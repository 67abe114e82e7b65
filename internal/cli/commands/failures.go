package commands

import (
	"github.com/spf13/cobra"

	"jbcram/internal/storage"
	"jbcram/internal/ui"
)

// FailuresCommand handles the failures command
type FailuresCommand struct {
	storage   storage.Storage
	viewer    ui.Viewer
	formatter *ui.Formatter
}

// NewFailuresCommand creates a new FailuresCommand
func NewFailuresCommand(st storage.Storage, viewer ui.Viewer, formatter *ui.Formatter) *FailuresCommand {
	return &FailuresCommand{
		storage:   st,
		viewer:    viewer,
		formatter: formatter,
	}
}

// Execute runs the command
func (fc *FailuresCommand) Execute(cmd *cobra.Command, args []string) error {
	report, err := fc.storage.Load()
	if err != nil {
		return err
	}

	if stats, _ := cmd.Flags().GetBool("stats"); stats {
		fc.formatter.PrintMetaStats(report)
		return nil
	}
	return fc.viewer.View(report)
}
