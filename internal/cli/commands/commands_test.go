package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jbcram/internal/cli"
	"jbcram/internal/config"
	"jbcram/internal/domain"
)

const fakeBuildScript = `#!/bin/sh
src="$1"
alloc="$2"
if grep -q BUILD_ERROR "$src"; then
  echo "Error: SyntaxError: unexpected token" >&2
  exit 1
fi
printf '/* allocator: %s */\n' "$alloc" > output.c
cat "$src" >> output.c
printf '#!/bin/sh\necho "allocator=%s"\n' "$alloc" > output
chmod +x output
`

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func newProject(t *testing.T, sources map[string]string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake build tool needs /bin/sh")
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "build.sh"), []byte(fakeBuildScript), 0755))
	examples := filepath.Join(dir, "tests", "examples")
	require.NoError(t, os.MkdirAll(examples, 0755))
	for name, src := range sources {
		require.NoError(t, os.WriteFile(filepath.Join(examples, name), []byte(src), 0644))
	}
	return dir
}

// execute runs the CLI once against project and returns what it wrote to its output
func execute(t *testing.T, project string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd := &cobra.Command{Use: "jbcram"}
	var flags cli.Flags
	NewCommands(config.New(), &out).Register(rootCmd, &flags)

	rootCmd.SetArgs(append([]string{"-C", project}, args...))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRun_UpdateThenCompare(t *testing.T) {
	project := newProject(t, map[string]string{
		"add.jb":            "print(1 + 2);\n",
		"ref_count_list.jb": "print(list);\n",
	})

	out, err := execute(t, project, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "[PASS] Updated expected outputs for add\n")
	assert.Contains(t, out, "[PASS] Updated expected outputs for ref_count_list\n")
	assert.True(t, strings.HasSuffix(out, "\nSummary: 2/2 tests updated.\n"), out)

	stdout, err := os.ReadFile(filepath.Join(project, "tests", "expected", "stdout", "ref_count_list.out"))
	require.NoError(t, err)
	assert.Equal(t, "allocator=reference_count\n", string(stdout))

	out, err = execute(t, project)
	require.NoError(t, err)
	assert.Contains(t, out, "[PASS] Test add passed!\n")
	assert.True(t, strings.HasSuffix(out, "\nSummary: 2/2 tests passed.\n"), out)
}

func TestRun_FilterSelectsByPrefix(t *testing.T) {
	project := newProject(t, map[string]string{
		"add.jb":      "a\n",
		"add_more.jb": "b\n",
		"sub.jb":      "c\n",
	})

	out, err := execute(t, project, "add", "-u")
	require.NoError(t, err)

	var ran []string
	for _, line := range strings.Split(out, "\n") {
		if name, ok := strings.CutPrefix(line, "[PASS] Updated expected outputs for "); ok {
			ran = append(ran, name)
		}
	}
	assert.Equal(t, []string{"add", "add_more"}, ran)
	assert.Contains(t, out, "Summary: 2/2 tests updated.")
}

func TestRun_FilterNamedLikeSubcommand(t *testing.T) {
	project := newProject(t, map[string]string{
		"add.jb":         "a\n",
		"list_append.jb": "b\n",
	})

	out, err := execute(t, project, "-u", "--", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "[PASS] Updated expected outputs for list_append\n")
	assert.NotContains(t, out, "for add\n")
	assert.Contains(t, out, "Summary: 1/1 tests updated.")

	// Without -- the word still names the subcommand
	out, err = execute(t, project, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 test(s):")
	assert.NotContains(t, out, "Summary:")
}

func TestRun_FailuresAreReportedAndSaved(t *testing.T) {
	project := newProject(t, map[string]string{
		"add.jb":    "print(1);\n",
		"broken.jb": "BUILD_ERROR\n",
	})

	out, err := execute(t, project)
	require.NoError(t, err, "failures do not change the exit status without --strict")
	assert.Contains(t, out, "[FAIL] Build failed for ")
	assert.Contains(t, out, "Error: SyntaxError: unexpected token\n")
	assert.Contains(t, out, "[FAIL] Transpiled C code does not match for add\n")
	assert.Contains(t, out, "--- Diff (stdout) ---\n")
	assert.Contains(t, out, "+allocator=mark_sweep\n")
	assert.True(t, strings.HasSuffix(out, "\nSummary: 0/2 tests passed.\n"), out)

	data, err := os.ReadFile(filepath.Join(project, ".jbcram", "last-run.json"))
	require.NoError(t, err)
	var report domain.RunReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 2, report.Meta.TotalTests)
	assert.Equal(t, 2, report.Meta.FailedTests)
	require.Len(t, report.Details, 3)
	assert.Equal(t, domain.FailureMismatch, report.Details[0].Kind)
	assert.Equal(t, domain.FailureBuild, report.Details[2].Kind)
	assert.Equal(t, "SyntaxError", report.Details[2].Diagnostics[0].Category)
}

func TestRun_Strict(t *testing.T) {
	project := newProject(t, map[string]string{"broken.jb": "BUILD_ERROR\n"})

	_, err := execute(t, project, "--strict")
	assert.ErrorIs(t, err, ErrTestsFailed)
}

func TestRun_EmptyProject(t *testing.T) {
	project := t.TempDir()

	out, err := execute(t, project)
	require.NoError(t, err)
	assert.Equal(t, "\nSummary: 0/0 tests passed.\n", out)
}

func TestRun_RejectsUnknownAllocator(t *testing.T) {
	_, err := execute(t, t.TempDir(), "--allocator", "arena")
	assert.Error(t, err)
}

func TestRun_History(t *testing.T) {
	project := newProject(t, map[string]string{"add.jb": "print(1);\n"})

	_, err := execute(t, project, "-u", "--history")
	require.NoError(t, err)
	_, err = execute(t, project, "--history")
	require.NoError(t, err)

	out, err := execute(t, project, "history")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "passed")
	assert.Contains(t, lines[2], "updated")

	runID := strings.Fields(lines[1])[0]
	out, err = execute(t, project, "history", runID)
	require.NoError(t, err)
	assert.Contains(t, out, "add")
	assert.Contains(t, out, "PASSED")
}

func TestList(t *testing.T) {
	project := newProject(t, map[string]string{
		"add.jb":            "BUILD_ERROR\n",
		"ref_count_list.jb": "x\n",
	})
	_, err := execute(t, project)
	require.NoError(t, err)

	out, err := execute(t, project, "list")
	require.NoError(t, err)
	assert.Equal(t,
		"Found 2 test(s):\n"+
			"├── add             mark_sweep [F]\n"+
			"└── ref_count_list  reference_count [F]\n",
		out)
}

func TestFailuresStats(t *testing.T) {
	project := newProject(t, map[string]string{"broken.jb": "BUILD_ERROR\n"})
	_, err := execute(t, project)
	require.NoError(t, err)

	out, err := execute(t, project, "failures", "--stats")
	require.NoError(t, err)
	assert.Contains(t, out, "✗ 1 test(s) failed\n")
	assert.Contains(t, out, "└── broken\n")
}

func TestFailures_NoReport(t *testing.T) {
	_, err := execute(t, t.TempDir(), "failures", "--stats")
	assert.Error(t, err)
}

func TestBundleUnbundle(t *testing.T) {
	src := newProject(t, map[string]string{"linked_list.jb": "print(list);\n"})
	require.NoError(t, os.WriteFile(filepath.Join(src, "tests", "manifest.yaml"),
		[]byte("tests:\n  linked_list:\n    allocator: reference_count\n"), 0644))

	_, err := execute(t, src, "-u")
	require.NoError(t, err)

	archive := filepath.Join(t.TempDir(), "linked_list.txtar")
	out, err := execute(t, src, "bundle", "linked_list", "-f", archive)
	require.NoError(t, err)
	assert.Equal(t, "Bundled linked_list into "+archive+"\n", out)

	dst := newProject(t, nil)
	out, err = execute(t, dst, "unbundle", archive)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported linked_list\n")

	for _, rel := range []string{
		"tests/examples/linked_list.jb",
		"tests/expected/c_output/linked_list.c",
		"tests/expected/stdout/linked_list.out",
	} {
		want, err := os.ReadFile(filepath.Join(src, rel))
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(dst, rel))
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got), rel)
	}

	manifest, err := config.LoadManifest(filepath.Join(dst, "tests", "manifest.yaml"))
	require.NoError(t, err)
	a, ok := manifest.Allocator("linked_list")
	assert.True(t, ok)
	assert.Equal(t, domain.AllocatorReferenceCount, a)

	out, err = execute(t, dst)
	require.NoError(t, err)
	assert.Contains(t, out, "Summary: 1/1 tests passed.")
}

func TestBundle_UnknownTest(t *testing.T) {
	project := newProject(t, nil)
	_, err := execute(t, project, "bundle", "nope")
	assert.Error(t, err)
}
