package ui

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"jbcram/internal/domain"
)

var (
	headerColor = color.New(color.FgCyan)
	passColor   = color.New(color.FgGreen)
	failColor   = color.New(color.FgRed)
	addColor    = color.New(color.FgGreen)
	delColor    = color.New(color.FgRed)
	hunkColor   = color.New(color.FgCyan)
	fileColor   = color.New(color.Bold)
)

// ConsoleReporter prints the per-test report and the final summary line.
// When deferred, test output is held back until the run finishes so that a
// progress bar can own the terminal in the meantime.
type ConsoleReporter struct {
	out      io.Writer
	deferred bool
	buf      bytes.Buffer
}

// NewConsoleReporter creates a reporter writing to out
func NewConsoleReporter(out io.Writer, deferred bool) *ConsoleReporter {
	return &ConsoleReporter{out: out, deferred: deferred}
}

func (r *ConsoleReporter) w() io.Writer {
	if r.deferred {
		return &r.buf
	}
	return r.out
}

// TestStarted prints the test header
func (r *ConsoleReporter) TestStarted(tc domain.TestCase) {
	if r.deferred {
		return
	}
	fmt.Fprintln(r.out)
	headerColor.Fprintf(r.out, "=== Running test: %s ===\n", tc.SourcePath)
}

// TestFinished prints the outcome of one test. Deferred reporters only keep failures.
func (r *ConsoleReporter) TestFinished(result domain.TestResult) {
	w := r.w()
	if r.deferred && result.Passed() {
		return
	}
	if r.deferred {
		fmt.Fprintln(w)
		headerColor.Fprintf(w, "=== Running test: %s ===\n", result.SourcePath)
	}

	switch result.Status {
	case domain.StatusPassed:
		passColor.Fprintf(w, "[PASS] Test %s passed!\n", result.Name)
	case domain.StatusUpdated:
		passColor.Fprintf(w, "[PASS] Updated expected outputs for %s\n", result.Name)
	case domain.StatusBuildFailed:
		failColor.Fprintf(w, "[FAIL] Build failed for %s\n", result.SourcePath)
		fmt.Fprintln(w, strings.TrimRight(result.Diagnostics, "\n"))
	case domain.StatusRuntimeFailed:
		failColor.Fprintf(w, "[FAIL] Runtime error in %s\n", result.Name)
		fmt.Fprintln(w, strings.TrimRight(result.Diagnostics, "\n"))
	case domain.StatusMismatch:
		for _, m := range result.Mismatches {
			r.printMismatch(w, result.Name, m)
		}
	default:
		failColor.Fprintf(w, "[FAIL] Harness error in %s\n", result.Name)
		if result.Error != nil {
			fmt.Fprintln(w, result.Error)
		}
	}
}

func (r *ConsoleReporter) printMismatch(w io.Writer, name string, m domain.Mismatch) {
	if m.Kind == domain.KindCode {
		failColor.Fprintf(w, "[FAIL] Transpiled C code does not match for %s\n", name)
	} else {
		failColor.Fprintf(w, "[FAIL] Stdout does not match for %s\n", name)
	}
	fmt.Fprintf(w, "--- Diff (%s) ---\n", m.Kind.Label())
	for _, line := range m.Diff {
		DiffLineColor(line).Fprintln(w, line)
	}
}

// DiffLineColor picks the color for one line of a unified diff
func DiffLineColor(line string) *color.Color {
	switch {
	case strings.HasPrefix(line, "--- "), strings.HasPrefix(line, "+++ "):
		return fileColor
	case strings.HasPrefix(line, "@@"):
		return hunkColor
	case strings.HasPrefix(line, "+"):
		return addColor
	case strings.HasPrefix(line, "-"):
		return delColor
	default:
		return color.New(color.Reset)
	}
}

// RunFinished flushes any deferred output and prints the summary line
func (r *ConsoleReporter) RunFinished(summary domain.RunSummary) {
	if r.deferred {
		r.out.Write(r.buf.Bytes())
		r.buf.Reset()
	}
	fmt.Fprintln(r.out)
	line := summary.Line()
	if summary.Failed() == 0 {
		passColor.Fprintln(r.out, line)
	} else {
		failColor.Fprintln(r.out, line)
	}
}
