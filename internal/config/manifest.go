package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"jbcram/internal/domain"
)

// Manifest declares per-test settings explicitly instead of encoding them in file names
type Manifest struct {
	Tests map[string]ManifestEntry `yaml:"tests"`
}

// ManifestEntry holds the settings for one test case
type ManifestEntry struct {
	Allocator domain.Allocator `yaml:"allocator"`
}

// LoadManifest reads a manifest file. A missing file yields an empty manifest.
func LoadManifest(path string) (*Manifest, error) {
	m := &Manifest{Tests: map[string]ManifestEntry{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.Tests == nil {
		m.Tests = map[string]ManifestEntry{}
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return m, nil
}

// Validate checks every entry names a known allocator
func (m *Manifest) Validate() error {
	names := make([]string, 0, len(m.Tests))
	for name := range m.Tests {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		entry := m.Tests[name]
		if entry.Allocator == "" {
			continue
		}
		if _, err := domain.ParseAllocator(string(entry.Allocator)); err != nil {
			return fmt.Errorf("tests.%s.allocator: %w", name, err)
		}
	}
	return nil
}

// Allocator returns the explicitly configured allocator for a test, if any
func (m *Manifest) Allocator(name string) (domain.Allocator, bool) {
	if m == nil {
		return "", false
	}
	entry, ok := m.Tests[name]
	if !ok || entry.Allocator == "" {
		return "", false
	}
	return entry.Allocator, true
}

// SetAllocator records an explicit allocator for a test
func (m *Manifest) SetAllocator(name string, a domain.Allocator) {
	if m.Tests == nil {
		m.Tests = map[string]ManifestEntry{}
	}
	m.Tests[name] = ManifestEntry{Allocator: a}
}

// Save writes the manifest as YAML, creating the parent directory
func (m *Manifest) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
