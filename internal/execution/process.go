package execution

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// processOutput is what a finished external process left behind
type processOutput struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// runProcess runs argv in dir and blocks until it exits. A non-nil error means the
// process could not start, was killed by the timeout, or exited non-zero.
func runProcess(ctx context.Context, dir string, timeout time.Duration, argv []string) (processOutput, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := processOutput{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		out.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
		}
		if ctx.Err() != nil {
			err = ctx.Err()
		}
	}
	return out, err
}

// resolveExecutable anchors a relative path like ./build.sh to dir.
// Bare names such as make are left for PATH lookup.
func resolveExecutable(dir, name string) string {
	if filepath.IsAbs(name) || !strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	abs, err := filepath.Abs(filepath.Join(dir, name))
	if err != nil {
		return name
	}
	return abs
}
