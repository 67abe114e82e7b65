package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"jbcram/internal/domain"
)

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	white  = color.New(color.FgWhite)
)

// Formatter renders listings and stored reports
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter writing to out
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{out: out}
}

// PrintTestList prints discovered test cases with their allocator.
// failed is optional; names in it are marked with [F] in red (from last run).
func (f *Formatter) PrintTestList(cases []domain.TestCase, failed map[string]struct{}) {
	green.Fprintf(f.out, "Found %d test(s):\n", len(cases))

	width := 0
	for _, tc := range cases {
		width = max(width, len(tc.Name))
	}

	for i, tc := range cases {
		branch := "├── "
		if i == len(cases)-1 {
			branch = "└── "
		}

		failMarker := ""
		if _, ok := failed[tc.Name]; ok {
			failMarker = " " + red.Sprint("[F]")
		}

		cyan.Fprintf(f.out, "%s%-*s", branch, width, tc.Name)
		fmt.Fprintf(f.out, "  %s%s\n", yellow.Sprint(tc.Allocator), failMarker)
	}
}

// FailedNames returns the set of test names with an unresolved failure in report
func FailedNames(report *domain.RunReport) map[string]struct{} {
	names := make(map[string]struct{})
	if report == nil {
		return names
	}
	for _, d := range report.Details {
		if !d.Resolved {
			names[d.TestName] = struct{}{}
		}
	}
	return names
}

func (f *Formatter) row(label string, c *color.Color, value any) {
	fmt.Fprintf(f.out, "│ %-31s │ ", label)
	c.Fprintf(f.out, "%-27v", value)
	fmt.Fprintln(f.out, " │")
}

func (f *Formatter) separator() {
	fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
}

// PrintMetaStats displays the meta statistics of a stored report followed by a
// per-test breakdown of its failures.
func (f *Formatter) PrintMetaStats(report *domain.RunReport) {
	meta := report.Meta

	fmt.Fprintln(f.out)
	cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.out, "║                     Test Run Statistics                       ║")
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(f.out)

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	f.row("Run", white, meta.RunID)
	f.separator()
	f.row("Mode", white, meta.Mode)
	f.separator()
	f.row("Total Tests", white, meta.TotalTests)
	f.separator()
	f.row("Passed Tests", green, meta.PassedTests)
	f.separator()
	f.row("Failed Tests", red, meta.FailedTests)
	f.separator()
	f.row("Duration", white, fmt.Sprintf("%.2fs", meta.DurationSeconds))
	f.separator()
	f.row("Timestamp", white, meta.Timestamp)
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Fprintln(f.out)
	if meta.FailedTests == 0 {
		green.Fprintln(f.out, "✓ All tests passed!")
		return
	}
	red.Fprintf(f.out, "✗ %d test(s) failed\n", meta.FailedTests)
	fmt.Fprintln(f.out)
	f.printFailureTree(report.Details)
}

// printFailureTree groups failures by test and prints one branch per failure kind
func (f *Formatter) printFailureTree(failures []domain.TestFailure) {
	byTest := make(map[string][]domain.TestFailure)
	for _, failure := range failures {
		byTest[failure.TestName] = append(byTest[failure.TestName], failure)
	}

	names := make([]string, 0, len(byTest))
	for name := range byTest {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		lastTest := i == len(names)-1
		branch, indent := "├── ", "│   "
		if lastTest {
			branch, indent = "└── ", "    "
		}
		yellow.Fprintf(f.out, "%s%s\n", branch, name)

		entries := byTest[name]
		for j, failure := range entries {
			leaf := "├── "
			if j == len(entries)-1 {
				leaf = "└── "
			}
			msg := failure.Message
			if failure.Resolved {
				msg += " (resolved)"
			}
			red.Fprintf(f.out, "%s%s%s\n", indent, leaf, msg)
		}
	}
}

// PrintHistory prints recorded runs, newest first
func (f *Formatter) PrintHistory(runs []domain.RunRecord) {
	if len(runs) == 0 {
		yellow.Fprintln(f.out, "No runs recorded.")
		return
	}

	fmt.Fprintf(f.out, "%-26s  %-19s  %-7s  %-9s  %s\n", "RUN", "STARTED", "MODE", "RESULT", "DURATION")
	for _, run := range runs {
		result := fmt.Sprintf("%d/%d", run.Passed, run.Total)
		c := green
		if run.Passed < run.Total {
			c = red
		}
		fmt.Fprintf(f.out, "%-26s  %-19s  %-7s  ", run.RunID, run.StartedAt.Local().Format("2006-01-02 15:04:05"), run.Mode)
		c.Fprintf(f.out, "%-9s", result)
		fmt.Fprintf(f.out, "  %s\n", run.Duration.Round(time.Millisecond))
	}
}

// PrintResults prints the per-test rows of one recorded run
func (f *Formatter) PrintResults(results []domain.ResultRecord) {
	if len(results) == 0 {
		yellow.Fprintln(f.out, "No results recorded for this run.")
		return
	}

	width := len("TEST")
	for _, r := range results {
		width = max(width, len(r.TestName))
	}

	fmt.Fprintf(f.out, "%-*s  %-15s  %-14s  %s\n", width, "TEST", "ALLOCATOR", "STATUS", "DURATION")
	for _, r := range results {
		c := green
		if r.Status != domain.StatusPassed && r.Status != domain.StatusUpdated {
			c = red
		}
		fmt.Fprintf(f.out, "%-*s  %-15s  ", width, r.TestName, r.Allocator)
		c.Fprintf(f.out, "%-14s", strings.ToUpper(string(r.Status)))
		fmt.Fprintf(f.out, "  %s\n", r.Duration.Round(time.Millisecond))
	}
}
