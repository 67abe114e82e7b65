package baseline

import (
	"fmt"

	"jbcram/internal/artifact"
	"jbcram/internal/domain"
)

// Baselines holds the recorded expectations of one test case
type Baselines struct {
	Code   domain.Artifact
	Stdout domain.Artifact
}

// Manager loads recorded baselines and, in update mode, overwrites them
type Manager struct {
	store *artifact.Store
}

// NewManager creates a new Manager
func NewManager(store *artifact.Store) *Manager {
	return &Manager{store: store}
}

// Load reads both baselines of a test case. Missing files load as empty artifacts.
func (m *Manager) Load(tc domain.TestCase) (Baselines, error) {
	code, err := m.store.Read(tc.ExpectedCodePath)
	if err != nil {
		return Baselines{}, fmt.Errorf("load code baseline: %w", err)
	}
	stdout, err := m.store.Read(tc.ExpectedStdoutPath)
	if err != nil {
		return Baselines{}, fmt.Errorf("load stdout baseline: %w", err)
	}
	return Baselines{
		Code:   domain.Artifact{Kind: domain.KindCode, Path: tc.ExpectedCodePath, Lines: code},
		Stdout: domain.Artifact{Kind: domain.KindStdout, Path: tc.ExpectedStdoutPath, Lines: stdout},
	}, nil
}

// Update replaces both baselines of a test case with freshly captured artifacts
func (m *Manager) Update(tc domain.TestCase, code, stdout []string) error {
	if err := m.store.Write(tc.ExpectedCodePath, code); err != nil {
		return fmt.Errorf("update code baseline: %w", err)
	}
	if err := m.store.Write(tc.ExpectedStdoutPath, stdout); err != nil {
		return fmt.Errorf("update stdout baseline: %w", err)
	}
	return nil
}
