package compare

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"jbcram/internal/domain"
)

const (
	// FromLabel names the baseline side of a diff
	FromLabel = "expected"
	// ToLabel names the freshly produced side of a diff
	ToLabel = "actual"
	// ContextLines is the number of unchanged lines shown around each change
	ContextLines = 3
)

// Comparison is the outcome of checking one artifact kind against its baseline
type Comparison struct {
	Kind  domain.ArtifactKind
	Match bool
	Diff  []string // Unified diff, empty when Match is true
}

// Lines compares an actual artifact with its baseline, rendering a unified diff on mismatch
func Lines(kind domain.ArtifactKind, baseline, actual []string) Comparison {
	expected := domain.Artifact{Kind: kind, Lines: baseline}
	c := Comparison{Kind: kind, Match: expected.Equal(domain.Artifact{Kind: kind, Lines: actual})}
	if !c.Match {
		c.Diff = UnifiedDiff(baseline, actual)
	}
	return c
}

// Pair compares both artifact kinds of a test case independently
func Pair(baselineCode, actualCode, baselineStdout, actualStdout []string) (code, stdout Comparison) {
	return Lines(domain.KindCode, baselineCode, actualCode),
		Lines(domain.KindStdout, baselineStdout, actualStdout)
}

// UnifiedDiff renders the changes from baseline to actual, one diff line per element
func UnifiedDiff(baseline, actual []string) []string {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        terminate(baseline),
		B:        terminate(actual),
		FromFile: FromLabel,
		ToFile:   ToLabel,
		Context:  ContextLines,
	})
	if err != nil || text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// terminate appends the newline difflib expects on every input line
func terminate(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line + "\n"
	}
	return out
}
