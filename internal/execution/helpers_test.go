package execution

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"jbcram/internal/artifact"
	"jbcram/internal/baseline"
	"jbcram/internal/config"
	"jbcram/internal/domain"
	"jbcram/internal/logger"
)

// fakeBuildScript stands in for the jblang build.sh. It copies the source into output.c
// behind an allocator banner and writes an ./output program that echoes the allocator.
// Sources containing BUILD_ERROR or RUNTIME_ERROR fail at the matching stage.
const fakeBuildScript = `#!/bin/sh
src="$1"
alloc="$2"
echo "$@" > build.args
if grep -q BUILD_ERROR "$src"; then
  echo "Error: SyntaxError: unexpected token" >&2
  exit 1
fi
printf '/* allocator: %s */\n' "$alloc" > output.c
cat "$src" >> output.c
if grep -q RUNTIME_ERROR "$src"; then
  printf '#!/bin/sh\necho "partial"\necho "Segmentation fault" >&2\nexit 139\n' > output
else
  printf '#!/bin/sh\necho "allocator=%s"\necho "done"\n' "$alloc" > output
fi
chmod +x output
`

type fixture struct {
	project   string
	config    *config.Config
	runner    *Runner
	baselines *baseline.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake build tool needs /bin/sh")
	}

	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, "build.sh"), []byte(fakeBuildScript), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(project, "tests", "examples"), 0755))

	cfg := config.New()
	cfg.ProjectPath = project

	log := logger.Nop()
	store := artifact.NewOsStore()
	baselines := baseline.NewManager(store)
	runner := NewRunner(cfg, NewBuilder(cfg, log), NewProgram(cfg, log), store, baselines, log)

	return &fixture{project: project, config: cfg, runner: runner, baselines: baselines}
}

func (f *fixture) addTest(t *testing.T, name, source string, allocator domain.Allocator) domain.TestCase {
	t.Helper()
	path := filepath.Join(f.project, "tests", "examples", name+".jb")
	require.NoError(t, os.WriteFile(path, []byte(source), 0644))
	return domain.TestCase{
		Name:               name,
		SourcePath:         path,
		ExpectedCodePath:   f.config.GetExpectedCodePath(name),
		ExpectedStdoutPath: f.config.GetExpectedStdoutPath(name),
		Allocator:          allocator,
	}
}

func (f *fixture) writeBaselines(t *testing.T, tc domain.TestCase, code, stdout []string) {
	t.Helper()
	require.NoError(t, f.baselines.Update(tc, code, stdout))
}
