package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"jbcram/internal/config"
	"jbcram/internal/discovery"
	"jbcram/internal/domain"
	"jbcram/internal/execution"
	"jbcram/internal/logger"
	"jbcram/internal/parser"
	"jbcram/internal/storage"
	"jbcram/internal/ui"
)

// RunCommand handles the root command: discover, run, report, save
type RunCommand struct {
	config     *config.Config
	discoverer *discovery.Discoverer
	runner     execution.TestRunner
	parser     *parser.DiagnosticsParser
	storage    storage.Storage
	out        io.Writer
	log        logger.Logger
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	discoverer *discovery.Discoverer,
	runner execution.TestRunner,
	parser *parser.DiagnosticsParser,
	st storage.Storage,
	out io.Writer,
	log logger.Logger,
) *RunCommand {
	return &RunCommand{
		config:     cfg,
		discoverer: discoverer,
		runner:     runner,
		parser:     parser,
		storage:    st,
		out:        out,
		log:        log,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	cases, err := rc.discoverer.Discover(rc.config.Flags.Filter)
	if err != nil {
		return err
	}

	// output.c and ./output are shared by every build in the project
	lock, err := execution.LockWorkdir(rc.config.GetLockPath())
	if err != nil {
		if errors.Is(err, execution.ErrWorkdirBusy) {
			return fmt.Errorf("%w (lock file %s)", err, rc.config.GetLockPath())
		}
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			rc.log.Debug("failed to release workdir lock", "path", rc.config.GetLockPath(), "error", err)
		}
	}()

	showProgress := rc.config.Flags.Progress && term.IsTerminal(int(os.Stderr.Fd()))
	if rc.config.Flags.Progress && !showProgress {
		rc.log.Info("stderr is not a terminal, progress bar disabled")
	}

	suite := execution.NewSuite(rc.runner, ui.NewConsoleReporter(rc.out, showProgress), rc.log)
	if showProgress {
		suite.SetProgress(ui.NewProgressBar(os.Stderr, len(cases)))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	summary := suite.Run(ctx, cases, execution.RunOptions{Update: rc.config.Flags.Update})

	failures := rc.parser.ParseFailures(summary.Results)
	if err := rc.storage.Save(summary, failures); err != nil {
		return fmt.Errorf("failed to save run report: %w", err)
	}

	if rc.config.History.Enabled {
		if err := rc.recordHistory(ctx, summary); err != nil {
			return err
		}
	}

	if rc.config.Flags.Strict && summary.Failed() > 0 {
		return ErrTestsFailed
	}
	return nil
}

func (rc *RunCommand) recordHistory(ctx context.Context, summary domain.RunSummary) error {
	history, err := storage.OpenHistory(ctx, rc.config.History.Driver, rc.config.GetHistoryDSN())
	if err != nil {
		return err
	}
	defer history.Close()

	if err := history.RecordRun(ctx, summary); err != nil {
		return fmt.Errorf("failed to record run history: %w", err)
	}
	rc.log.Debug("run recorded", "run_id", summary.RunID, "driver", rc.config.History.Driver)
	return nil
}
