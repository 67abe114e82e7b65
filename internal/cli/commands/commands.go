package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jbcram/internal/artifact"
	"jbcram/internal/baseline"
	"jbcram/internal/bundle"
	"jbcram/internal/cli"
	"jbcram/internal/config"
	"jbcram/internal/discovery"
	"jbcram/internal/execution"
	"jbcram/internal/logger"
	"jbcram/internal/parser"
	"jbcram/internal/storage"
	"jbcram/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	Run      *RunCommand
	List     *ListCommand
	Failures *FailuresCommand
	History  *HistoryCommand
	Bundle   *BundleCommand
	Unbundle *UnbundleCommand

	config *config.Config
	out    io.Writer
}

// NewCommands creates the command set. Dependencies are wired once the config
// has been loaded for the selected project (see Register).
func NewCommands(cfg *config.Config, out io.Writer) *Commands {
	return &Commands{config: cfg, out: out}
}

// wire creates all commands with dependencies
func (c *Commands) wire(log logger.Logger) error {
	cfg := c.config

	manifest, err := config.LoadManifest(cfg.GetManifestPath())
	if err != nil {
		return err
	}

	scanner := discovery.NewScanner(cfg.SourceExt)
	filter := discovery.NewFilter()
	resolver := discovery.NewResolver(cfg.DefaultAllocator, cfg.RefCountMarker, manifest)
	discoverer := discovery.NewDiscoverer(cfg, scanner, filter, resolver)

	store := artifact.NewOsStore()
	baselines := baseline.NewManager(store)
	runner := execution.NewRunner(cfg, execution.NewBuilder(cfg, log), execution.NewProgram(cfg, log), store, baselines, log)
	diagnostics := parser.NewDiagnosticsParser()
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(c.out)
	failureViewer := ui.NewFailureViewer(jsonStorage)
	bundler := bundle.NewBundler(cfg, store)

	c.Run = NewRunCommand(cfg, discoverer, runner, diagnostics, jsonStorage, c.out, log)
	c.List = NewListCommand(cfg, discoverer, formatter, jsonStorage)
	c.Failures = NewFailuresCommand(jsonStorage, failureViewer, formatter)
	c.History = NewHistoryCommand(cfg, formatter)
	c.Bundle = NewBundleCommand(discoverer, bundler, c.out)
	c.Unbundle = NewUnbundleCommand(cfg, manifest, bundler, c.out)
	return nil
}

// Register registers all commands with cobra. The root command itself runs the suite.
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags) {
	rootCmd.Args = cobra.MaximumNArgs(1)
	if rootCmd.Example == "" {
		rootCmd.Example = `  jbcram                 run every test
  jbcram ref_count -u    re-record the baselines of tests starting with ref_count
  jbcram -- list         run tests starting with list instead of the list subcommand`
	}
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var filter string
		if cmd == rootCmd && len(args) > 0 {
			filter = args[0]
		}

		loaded, err := config.Load(flags.Project, flags.ToConfigFlags(filter))
		if err != nil {
			return err
		}
		*c.config = *loaded

		if flags.NoColor {
			color.NoColor = true
		}

		log := logger.NewLogger(&logger.Config{
			Level:      logger.LogLevel(c.config.Flags.LogLevel),
			Output:     os.Stderr,
			TimeFormat: "15:04:05",
		})
		log.Debug("config loaded", "project", c.config.ProjectPath, "build", c.config.BuildCommand)

		if err := c.wire(log); err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		return nil
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.Project, "project", "C", "", "Project directory containing build.sh and tests/ (default: current directory)")
	pf.StringVar(&flags.ConfigFile, "config", "", "Config file (default: <project>/jbcram.yaml if present)")
	pf.StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error (default: warn)")
	pf.BoolVar(&flags.NoColor, "no-color", false, "Disable colored output")

	// Run (root)
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return c.Run.Execute(cmd, args)
	}
	f := rootCmd.Flags()
	f.BoolVarP(&flags.Update, "update", "u", false, "Overwrite baselines with the freshly generated outputs instead of comparing")
	f.BoolVar(&flags.Strict, "strict", false, "Exit with status 1 when any test did not pass")
	f.StringVar(&flags.Allocator, "allocator", "", "Default allocator for tests without an explicit one (simple, mark_sweep, reference_count)")
	f.BoolVar(&flags.Progress, "progress", false, "Show a progress bar instead of per-test output while running (terminals only)")
	f.BoolVar(&flags.History, "history", false, "Record the run in the history database")
	f.StringVarP(&flags.Output, "output", "o", "", "Write the run report to this file instead of .jbcram/last-run.json")

	// List command
	listCmd := &cobra.Command{
		Use:   "list [filter]",
		Short: "List discovered tests",
		Long:  "Scan tests/examples and list every test with the allocator it would be built with",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.List.Execute(cmd, args)
		},
	}
	rootCmd.AddCommand(listCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:   "failures",
		Short: "View failures of the last run interactively",
		Long:  "Display failures from the last run in an interactive viewer; r marks a failure resolved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Failures.Execute(cmd, args)
		},
	}
	failuresCmd.Flags().Bool("stats", false, "Print run statistics instead of opening the viewer")
	rootCmd.AddCommand(failuresCmd)

	// History command
	historyCmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded runs",
		Long:  "List runs recorded with --history, or the per-test results of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.History.Execute(cmd, args)
		},
	}
	historyCmd.Flags().IntVarP(&flags.Limit, "limit", "n", 20, "Number of runs to show")
	rootCmd.AddCommand(historyCmd)

	// Bundle command
	bundleCmd := &cobra.Command{
		Use:   "bundle <test>",
		Short: "Pack a test and its baselines into a txtar archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Bundle.Execute(cmd, args)
		},
	}
	bundleCmd.Flags().StringP("file", "f", "", "Write the archive to this file instead of stdout")
	rootCmd.AddCommand(bundleCmd)

	// Unbundle command
	unbundleCmd := &cobra.Command{
		Use:   "unbundle <archive>",
		Short: "Unpack a txtar archive into the tests directory",
		Long:  "Unpack a test archive created by bundle; use - to read it from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Unbundle.Execute(cmd, args)
		},
	}
	rootCmd.AddCommand(unbundleCmd)
}
