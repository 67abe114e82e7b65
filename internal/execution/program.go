package execution

import (
	"context"

	"jbcram/internal/artifact"
	"jbcram/internal/config"
	"jbcram/internal/logger"
)

// Program runs the most recently built executable
type Program struct {
	config *config.Config
	log    logger.Logger
}

// NewProgram creates a new Program
func NewProgram(cfg *config.Config, log logger.Logger) *Program {
	return &Program{config: cfg, log: log}
}

// Run executes the program with no arguments and returns its stdout as lines.
// Any failure is a *RuntimeError.
func (p *Program) Run(ctx context.Context) ([]string, error) {
	path := p.config.GetExecutablePath()

	p.log.Debug("running program", "path", path)
	out, err := runProcess(ctx, p.config.ProjectPath, p.config.ProcessTimeout, []string{path})
	if err != nil {
		return nil, &RuntimeError{
			Program:  path,
			ExitCode: out.ExitCode,
			Stderr:   out.Stderr,
			Err:      err,
		}
	}
	return artifact.SplitLines(out.Stdout), nil
}
