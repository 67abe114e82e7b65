package main

import (
	"errors"
	"fmt"
	"os"

	"jbcram/internal/cli"
	"jbcram/internal/cli/commands"
	"jbcram/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

const rootLong = `Builds every tests/examples/*.jb program with the jblang build tool, runs it, and compares the transpiled C and the program's stdout against the recorded baselines. Use --update to re-record the baselines.

The optional filter selects tests whose names start with it. A filter that is also a subcommand name (list, failures, history, bundle, unbundle, help, completion) must follow --, as in: jbcram -- list`

func main() {
	// Create root command; it runs the golden tests itself
	rootCmd := &cobra.Command{
		Use:     "jbcram [filter]",
		Short:   "Golden-file regression tests for the jblang compiler",
		Long:    rootLong,
		Version: version,
	}

	// Create initial config with defaults; replaced once the project is known
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg, os.Stdout)

	// Register all commands
	cmds.Register(rootCmd, &flags)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, commands.ErrTestsFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
