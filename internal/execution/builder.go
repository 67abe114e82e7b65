package execution

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/shlex"

	"jbcram/internal/config"
	"jbcram/internal/domain"
	"jbcram/internal/logger"
)

// Flags appended to every build invocation after the source and allocator
var buildFlags = []string{"--build-only", "--debug"}

// Builder invokes the external build tool for a single test case
type Builder struct {
	config *config.Config
	log    logger.Logger
}

// NewBuilder creates a new Builder
func NewBuilder(cfg *config.Config, log logger.Logger) *Builder {
	return &Builder{config: cfg, log: log}
}

// Command returns the argv for building tc:
// <build-command...> <source> <allocator> --build-only --debug
func (b *Builder) Command(tc domain.TestCase) ([]string, error) {
	parts, err := shlex.Split(b.config.BuildCommand)
	if err != nil {
		return nil, fmt.Errorf("parse build command %q: %w", b.config.BuildCommand, err)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("build command is empty")
	}
	parts[0] = resolveExecutable(b.config.ProjectPath, parts[0])

	source := tc.SourcePath
	if rel, err := filepath.Rel(b.config.ProjectPath, tc.SourcePath); err == nil && filepath.IsLocal(rel) {
		source = rel
	}

	argv := append(parts, source, string(tc.Allocator))
	return append(argv, buildFlags...), nil
}

// Build runs the build tool in the project directory. On success the generated C and
// the executable are left at the configured fixed paths. Any failure is a *BuildError.
func (b *Builder) Build(ctx context.Context, tc domain.TestCase) error {
	argv, err := b.Command(tc)
	if err != nil {
		return &BuildError{Source: tc.SourcePath, ExitCode: -1, Err: err}
	}

	b.log.Debug("invoking build", "test", tc.Name, "argv", argv)
	out, err := runProcess(ctx, b.config.ProjectPath, b.config.ProcessTimeout, argv)
	if err != nil {
		b.log.Debug("build failed", "test", tc.Name, "exit", out.ExitCode)
		return &BuildError{
			Source:   tc.SourcePath,
			ExitCode: out.ExitCode,
			Stderr:   out.Stderr,
			Err:      err,
		}
	}
	return nil
}
