package domain

import "fmt"

// Allocator selects the memory-management runtime the compiler links into a test program
type Allocator string

const (
	AllocatorSimple         Allocator = "simple"
	AllocatorMarkSweep      Allocator = "mark_sweep"
	AllocatorReferenceCount Allocator = "reference_count"
)

// Allocators lists every allocator the build tool accepts
var Allocators = []Allocator{AllocatorSimple, AllocatorMarkSweep, AllocatorReferenceCount}

// ParseAllocator validates an allocator name
func ParseAllocator(s string) (Allocator, error) {
	for _, a := range Allocators {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown allocator %q (expected one of simple, mark_sweep, reference_count)", s)
}

// TestCase represents a single golden test: one source program and its two baselines
type TestCase struct {
	Name               string    // Base filename without extension
	SourcePath         string    // Path to the .jb source
	ExpectedCodePath   string    // Baseline for the transpiled C output
	ExpectedStdoutPath string    // Baseline for the program's stdout
	Allocator          Allocator // Allocator passed to the build tool
}
