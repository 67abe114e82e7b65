package execution

import (
	"errors"
	"fmt"
)

// ErrWorkdirBusy is returned when another harness process holds the project lock
var ErrWorkdirBusy = errors.New("another jbcram run is using this project directory")

// BuildError reports a build tool invocation that failed to start or exited non-zero
type BuildError struct {
	Source   string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build failed for %s (exit %d): %v", e.Source, e.ExitCode, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// RuntimeError reports a built program that failed to start or exited non-zero
type RuntimeError struct {
	Program  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("program %s failed (exit %d): %v", e.Program, e.ExitCode, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}
