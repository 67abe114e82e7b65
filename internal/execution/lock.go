package execution

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// WorkdirLock is an exclusive inter-process lock on a project directory
type WorkdirLock struct {
	fl *flock.Flock
}

// LockWorkdir takes the lock at path without waiting. It fails with ErrWorkdirBusy
// if another process already holds it.
func LockWorkdir(path string) (*WorkdirLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return nil, ErrWorkdirBusy
	}
	return &WorkdirLock{fl: fl}, nil
}

// Unlock releases the lock
func (l *WorkdirLock) Unlock() error {
	return l.fl.Unlock()
}
