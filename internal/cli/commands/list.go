package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jbcram/internal/config"
	"jbcram/internal/discovery"
	"jbcram/internal/storage"
	"jbcram/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config     *config.Config
	discoverer *discovery.Discoverer
	formatter  *ui.Formatter
	storage    storage.Storage
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	discoverer *discovery.Discoverer,
	formatter *ui.Formatter,
	st storage.Storage,
) *ListCommand {
	return &ListCommand{
		config:     cfg,
		discoverer: discoverer,
		formatter:  formatter,
		storage:    st,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	var filter string
	if len(args) > 0 {
		filter = args[0]
	}

	cases, err := lc.discoverer.Discover(filter)
	if err != nil {
		return err
	}

	if len(cases) == 0 {
		color.Yellow("No tests found in %s", lc.config.GetExamplesPath())
		return nil
	}

	// Mark tests that failed last time; no report yet is fine
	report, _ := lc.storage.Load()
	lc.formatter.PrintTestList(cases, ui.FailedNames(report))
	return nil
}
