package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jbcram/internal/domain"
)

func TestFormatFailureDetails_Mismatch(t *testing.T) {
	got := formatFailureDetails(domain.TestFailure{
		TestName: "list",
		Kind:     domain.FailureMismatch,
		Message:  "Transpiled C code does not match for list",
		Details:  []string{"@@ -1 +1 @@", "-int a[2];", "+int a[3];"},
	})

	assert.Equal(t,
		"[red]✗ Transpiled C code does not match for list[white]\n\n"+
			"[yellow]Diff:[white]\n"+
			"[cyan]@@ -1 +1 @@[-:-:-]\n"+
			"[red]-int a[2[];[-:-:-]\n"+
			"[green]+int a[3[];[-:-:-]\n",
		got)
}

func TestFormatFailureDetails_Build(t *testing.T) {
	got := formatFailureDetails(domain.TestFailure{
		Kind:    domain.FailureBuild,
		Message: "Build failed for tests/examples/b.jb",
		Details: []string{"Error: TypeError at line 3, column 9: bad"},
		Diagnostics: []domain.Diagnostic{
			{Severity: "error", Category: "TypeError", Message: "bad", Line: 3, Column: 9},
		},
	})

	assert.Contains(t, got, "[yellow]Diagnostics:[white]\n  [red]error[white] TypeError line 3:9: bad\n")
	assert.Contains(t, got, "[yellow]Output:[white]\nError: TypeError at line 3, column 9: bad[-:-:-]\n")
}

func TestListItemText(t *testing.T) {
	f := domain.TestFailure{TestName: "a", Kind: domain.FailureRuntime}
	assert.Equal(t, "[yellow]1.[white] a (runtime)", listItemText(f, 0))

	f.Resolved = true
	assert.Equal(t, "[gray]✓ 2. a (runtime)[white]", listItemText(f, 1))
}

func TestCountUnresolved(t *testing.T) {
	assert.Equal(t, 1, countUnresolved([]domain.TestFailure{{Resolved: true}, {}}))
}
