package domain

import (
	"fmt"
	"time"
)

// Status is the outcome of a single test case
type Status string

const (
	StatusPassed        Status = "passed"
	StatusUpdated       Status = "updated"
	StatusBuildFailed   Status = "build_failed"
	StatusRuntimeFailed Status = "runtime_failed"
	StatusMismatch      Status = "mismatch"
	StatusError         Status = "error"
)

// Mismatch is a diverging artifact together with its rendered unified diff
type Mismatch struct {
	Kind ArtifactKind `json:"kind"`
	Diff []string     `json:"diff"`
}

// TestResult represents the result of running one test case
type TestResult struct {
	Name        string        // Test case name
	SourcePath  string        // Path to the .jb source
	Allocator   Allocator     // Allocator the build ran with
	Status      Status        // Outcome
	Diagnostics string        // Captured stderr of a failed build or run
	Mismatches  []Mismatch    // Artifacts that differ from their baselines
	Error       error         // Harness-side fault, if any
	Duration    time.Duration // Time taken to build, run and compare
}

// Passed reports whether the test counts towards the summary's pass count
func (r TestResult) Passed() bool {
	return r.Status == StatusPassed || r.Status == StatusUpdated
}

// RunSummary aggregates a whole run
type RunSummary struct {
	RunID     string
	Update    bool
	Passed    int
	Total     int
	StartedAt time.Time
	Duration  time.Duration
	Results   []TestResult
}

// Failed returns the number of test cases that did not pass
func (s RunSummary) Failed() int {
	return s.Total - s.Passed
}

// Mode returns "updated" for baseline regeneration runs and "passed" otherwise
func (s RunSummary) Mode() string {
	if s.Update {
		return "updated"
	}
	return "passed"
}

// Line renders the one-line run summary
func (s RunSummary) Line() string {
	return fmt.Sprintf("Summary: %d/%d tests %s.", s.Passed, s.Total, s.Mode())
}

// RunReportMeta contains metadata about a stored run
type RunReportMeta struct {
	RunID           string  `json:"run_id"`
	Mode            string  `json:"mode"`
	TotalTests      int     `json:"total_tests"`
	PassedTests     int     `json:"passed_tests"`
	FailedTests     int     `json:"failed_tests"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// RunReport is the complete stored structure of the last run
type RunReport struct {
	Meta    RunReportMeta `json:"meta"`
	Details []TestFailure `json:"details"`
}

// RunRecord is a row of the run history
type RunRecord struct {
	RunID     string
	StartedAt time.Time
	Mode      string
	Passed    int
	Total     int
	Duration  time.Duration
}

// ResultRecord is a per-test row of the run history
type ResultRecord struct {
	RunID     string
	TestName  string
	Allocator Allocator
	Status    Status
	Duration  time.Duration
}
