package domain

// FailureKind classifies why a test case did not pass
type FailureKind string

const (
	FailureBuild    FailureKind = "build"
	FailureRuntime  FailureKind = "runtime"
	FailureMismatch FailureKind = "mismatch"
	FailureHarness  FailureKind = "harness"
)

// Diagnostic is a single message recovered from compiler or runtime stderr
type Diagnostic struct {
	Severity string `json:"severity"`
	Category string `json:"category"`
	Message  string `json:"message"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

// TestFailure represents a failed test case in the stored report
type TestFailure struct {
	TestName    string       `json:"test_name"`
	SourcePath  string       `json:"source_path"`
	Allocator   Allocator    `json:"allocator"`
	Kind        FailureKind  `json:"kind"`
	Message     string       `json:"message"`
	Details     []string     `json:"details"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	Resolved    bool         `json:"resolved,omitempty"` // Track if test case is marked as resolved
}
