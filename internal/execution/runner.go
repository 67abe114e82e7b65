package execution

import (
	"context"
	"errors"
	"time"

	"jbcram/internal/artifact"
	"jbcram/internal/baseline"
	"jbcram/internal/compare"
	"jbcram/internal/config"
	"jbcram/internal/domain"
	"jbcram/internal/logger"
)

// RunOptions are whole-run switches passed explicitly to every test
type RunOptions struct {
	// Update overwrites baselines with fresh artifacts instead of comparing
	Update bool
}

// Runner executes the per-test protocol: build, run, then compare or update
type Runner struct {
	config    *config.Config
	builder   *Builder
	program   *Program
	store     *artifact.Store
	baselines *baseline.Manager
	log       logger.Logger
}

var _ TestRunner = (*Runner)(nil)

// NewRunner creates a new Runner
func NewRunner(
	cfg *config.Config,
	builder *Builder,
	program *Program,
	store *artifact.Store,
	baselines *baseline.Manager,
	log logger.Logger,
) *Runner {
	return &Runner{
		config:    cfg,
		builder:   builder,
		program:   program,
		store:     store,
		baselines: baselines,
		log:       log,
	}
}

// Run executes a single test case. Build and runtime failures short-circuit the test
// and are reported in the result, never returned.
func (r *Runner) Run(ctx context.Context, tc domain.TestCase, opts RunOptions) domain.TestResult {
	start := time.Now()
	result := r.run(ctx, tc, opts)
	result.Name = tc.Name
	result.SourcePath = tc.SourcePath
	result.Allocator = tc.Allocator
	result.Duration = time.Since(start)

	r.log.Debug("test finished", "test", tc.Name, "status", result.Status, "duration", result.Duration)
	return result
}

func (r *Runner) run(ctx context.Context, tc domain.TestCase, opts RunOptions) domain.TestResult {
	if err := r.builder.Build(ctx, tc); err != nil {
		result := domain.TestResult{Status: domain.StatusBuildFailed, Error: err}
		var buildErr *BuildError
		if errors.As(err, &buildErr) {
			result.Diagnostics = buildErr.Stderr
		}
		return result
	}

	code, err := r.store.Read(r.config.GetGeneratedPath())
	if err != nil {
		return domain.TestResult{Status: domain.StatusError, Error: err, Diagnostics: err.Error()}
	}

	stdout, err := r.program.Run(ctx)
	if err != nil {
		result := domain.TestResult{Status: domain.StatusRuntimeFailed, Error: err}
		var runtimeErr *RuntimeError
		if errors.As(err, &runtimeErr) {
			result.Diagnostics = runtimeErr.Stderr
		}
		return result
	}

	if opts.Update {
		if err := r.baselines.Update(tc, code, stdout); err != nil {
			return domain.TestResult{Status: domain.StatusError, Error: err, Diagnostics: err.Error()}
		}
		return domain.TestResult{Status: domain.StatusUpdated}
	}

	recorded, err := r.baselines.Load(tc)
	if err != nil {
		return domain.TestResult{Status: domain.StatusError, Error: err, Diagnostics: err.Error()}
	}

	codeCmp, stdoutCmp := compare.Pair(recorded.Code.Lines, code, recorded.Stdout.Lines, stdout)

	result := domain.TestResult{Status: domain.StatusPassed}
	for _, c := range []compare.Comparison{codeCmp, stdoutCmp} {
		if !c.Match {
			result.Status = domain.StatusMismatch
			result.Mismatches = append(result.Mismatches, domain.Mismatch{Kind: c.Kind, Diff: c.Diff})
		}
	}
	return result
}
