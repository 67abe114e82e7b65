package execution

import (
	"context"
	"time"

	"jbcram/internal/domain"
	"jbcram/internal/id"
	"jbcram/internal/logger"
)

// Suite runs test cases one at a time in discovery order.
// The build tool writes to fixed paths, so tests must never overlap.
type Suite struct {
	runner   TestRunner
	reporter Reporter
	progress Progress
	log      logger.Logger
}

var _ Executor = (*Suite)(nil)

// NewSuite creates a new Suite. reporter may be nil.
func NewSuite(runner TestRunner, reporter Reporter, log logger.Logger) *Suite {
	return &Suite{
		runner:   runner,
		reporter: reporter,
		log:      log,
	}
}

// SetProgress sets the progress tracker for the suite
func (s *Suite) SetProgress(progress Progress) {
	s.progress = progress
}

// Run executes every test case (no fail-fast) and returns the summary
func (s *Suite) Run(ctx context.Context, cases []domain.TestCase, opts RunOptions) domain.RunSummary {
	summary := domain.RunSummary{
		RunID:     id.New(),
		Update:    opts.Update,
		Total:     len(cases),
		StartedAt: time.Now(),
		Results:   make([]domain.TestResult, 0, len(cases)),
	}

	s.log.Info("starting run", "run_id", summary.RunID, "tests", len(cases), "update", opts.Update)

	var failed int
	for i, tc := range cases {
		if s.reporter != nil {
			s.reporter.TestStarted(tc)
		}

		result := s.runner.Run(ctx, tc, opts)
		summary.Results = append(summary.Results, result)
		if result.Passed() {
			summary.Passed++
		} else {
			failed++
		}

		if s.reporter != nil {
			s.reporter.TestFinished(result)
		}
		if s.progress != nil {
			s.progress.Update(i+1, summary.Passed, failed)
		}
	}

	if s.progress != nil {
		s.progress.Finish()
	}

	summary.Duration = time.Since(summary.StartedAt)
	if s.reporter != nil {
		s.reporter.RunFinished(summary)
	}
	return summary
}
