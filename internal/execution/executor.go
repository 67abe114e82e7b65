package execution

import (
	"context"

	"jbcram/internal/domain"
)

// TestRunner runs one test case end to end
type TestRunner interface {
	Run(ctx context.Context, tc domain.TestCase, opts RunOptions) domain.TestResult
}

// Reporter receives progress of a run as it happens
type Reporter interface {
	TestStarted(tc domain.TestCase)
	TestFinished(result domain.TestResult)
	RunFinished(summary domain.RunSummary)
}

// Progress tracks how many tests have completed
type Progress interface {
	Update(completed, passed, failed int)
	Finish()
}

// Executor runs a list of test cases and summarises them
type Executor interface {
	Run(ctx context.Context, cases []domain.TestCase, opts RunOptions) domain.RunSummary
}
