package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"jbcram/internal/domain"
)

// Compiler error categories as printed by the jblang transpiler
const (
	CategoryType      = "TypeError"
	CategoryName      = "NameError"
	CategorySyntax    = "SyntaxError"
	CategoryReference = "ReferenceError"
	CategoryOther     = "Other"
	CategoryC         = "C"
	CategoryRuntime   = "Runtime"
)

var (
	// Error: <message>
	compilerErrorRe = regexp.MustCompile(`^Error:\s*(.*)$`)
	// <Category> at line L, column C: <message>
	locatedErrorRe = regexp.MustCompile(`^(TypeError|NameError|SyntaxError|ReferenceError) at line (\d+), column (\d+):\s*(.*)$`)
	// <Category>: <message>
	categoryPrefixRe = regexp.MustCompile(`^(TypeError|NameError|SyntaxError|ReferenceError):?\s+(.*)$`)
	// output.c:12:5: error: <message>
	cCompilerRe = regexp.MustCompile(`^(.+?):(\d+):(\d+):\s*(fatal error|error|warning|note):\s*(.*)$`)
	// line 3:14 mismatched input ... (parser listener)
	syntaxListenerRe = regexp.MustCompile(`^line (\d+):(\d+)\s+(.*)$`)
)

// DiagnosticsParser extracts diagnostics from build and runtime stderr
type DiagnosticsParser struct{}

// NewDiagnosticsParser creates a new DiagnosticsParser
func NewDiagnosticsParser() *DiagnosticsParser {
	return &DiagnosticsParser{}
}

// ParseDiagnostics returns one Diagnostic per recognised stderr line.
// Unrecognised lines are ignored.
func (p *DiagnosticsParser) ParseDiagnostics(stderr string) []domain.Diagnostic {
	var diagnostics []domain.Diagnostic
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if d, ok := parseLine(line); ok {
			diagnostics = append(diagnostics, d)
		}
	}
	return diagnostics
}

func parseLine(line string) (domain.Diagnostic, bool) {
	if m := compilerErrorRe.FindStringSubmatch(line); m != nil {
		return parseCompilerMessage(m[1]), true
	}

	if d, ok := parseLocated(line); ok {
		return d, true
	}

	if m := cCompilerRe.FindStringSubmatch(line); m != nil {
		severity := m[4]
		if severity == "fatal error" {
			severity = "error"
		}
		return domain.Diagnostic{
			Severity: severity,
			Category: CategoryC,
			Message:  m[5],
			File:     m[1],
			Line:     atoi(m[2]),
			Column:   atoi(m[3]),
		}, true
	}

	if m := syntaxListenerRe.FindStringSubmatch(line); m != nil {
		return domain.Diagnostic{
			Severity: "error",
			Category: CategorySyntax,
			Message:  m[3],
			Line:     atoi(m[1]),
			Column:   atoi(m[2]),
		}, true
	}

	return domain.Diagnostic{}, false
}

// parseCompilerMessage handles the text after "Error: ". The category is only known
// when the message itself leads with it.
func parseCompilerMessage(msg string) domain.Diagnostic {
	if d, ok := parseLocated(msg); ok {
		return d
	}
	if m := categoryPrefixRe.FindStringSubmatch(msg); m != nil {
		return domain.Diagnostic{Severity: "error", Category: m[1], Message: m[2]}
	}
	return domain.Diagnostic{Severity: "error", Category: CategoryOther, Message: msg}
}

func parseLocated(line string) (domain.Diagnostic, bool) {
	m := locatedErrorRe.FindStringSubmatch(line)
	if m == nil {
		return domain.Diagnostic{}, false
	}
	return domain.Diagnostic{
		Severity: "error",
		Category: m[1],
		Message:  m[4],
		Line:     atoi(m[2]),
		Column:   atoi(m[3]),
	}, true
}

// ParseFailure converts a result that did not pass into failure records.
// A mismatch yields one record per diverging artifact.
func (p *DiagnosticsParser) ParseFailure(result domain.TestResult) []domain.TestFailure {
	base := domain.TestFailure{
		TestName:   result.Name,
		SourcePath: result.SourcePath,
		Allocator:  result.Allocator,
	}

	switch result.Status {
	case domain.StatusPassed, domain.StatusUpdated:
		return nil

	case domain.StatusBuildFailed:
		f := base
		f.Kind = domain.FailureBuild
		f.Message = fmt.Sprintf("Build failed for %s", result.SourcePath)
		f.Details = failureDetails(result)
		f.Diagnostics = p.ParseDiagnostics(result.Diagnostics)
		return []domain.TestFailure{f}

	case domain.StatusRuntimeFailed:
		f := base
		f.Kind = domain.FailureRuntime
		f.Message = fmt.Sprintf("Runtime error in %s", result.Name)
		f.Details = failureDetails(result)
		if d := p.ParseDiagnostics(result.Diagnostics); len(d) > 0 {
			f.Diagnostics = d
		} else if lines := stderrLines(result.Diagnostics); len(lines) > 0 {
			f.Diagnostics = []domain.Diagnostic{{
				Severity: "error",
				Category: CategoryRuntime,
				Message:  lines[len(lines)-1],
			}}
		}
		return []domain.TestFailure{f}

	case domain.StatusMismatch:
		failures := make([]domain.TestFailure, 0, len(result.Mismatches))
		for _, m := range result.Mismatches {
			f := base
			f.Kind = domain.FailureMismatch
			f.Message = mismatchMessage(m.Kind, result.Name)
			f.Details = m.Diff
			failures = append(failures, f)
		}
		return failures

	default:
		f := base
		f.Kind = domain.FailureHarness
		f.Message = fmt.Sprintf("Harness error in %s", result.Name)
		if result.Error != nil {
			f.Details = []string{result.Error.Error()}
		} else {
			f.Details = stderrLines(result.Diagnostics)
		}
		return []domain.TestFailure{f}
	}
}

// ParseFailures collects the failure records of a whole run in result order
func (p *DiagnosticsParser) ParseFailures(results []domain.TestResult) []domain.TestFailure {
	var failures []domain.TestFailure
	for _, r := range results {
		failures = append(failures, p.ParseFailure(r)...)
	}
	return failures
}

func mismatchMessage(kind domain.ArtifactKind, name string) string {
	if kind == domain.KindCode {
		return fmt.Sprintf("Transpiled C code does not match for %s", name)
	}
	return fmt.Sprintf("Stdout does not match for %s", name)
}

// failureDetails is the captured stderr, or the error itself when the process wrote none
func failureDetails(result domain.TestResult) []string {
	if lines := stderrLines(result.Diagnostics); len(lines) > 0 {
		return lines
	}
	if result.Error != nil {
		return []string{result.Error.Error()}
	}
	return nil
}

func stderrLines(s string) []string {
	s = strings.TrimRight(s, "\r\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
