package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scanner scans a directory for test sources
type Scanner struct {
	ext string
}

// NewScanner creates a new Scanner matching files with the given extension
func NewScanner(ext string) *Scanner {
	return &Scanner{ext: ext}
}

// Scan returns the sorted source files directly inside root.
// A missing root yields no files rather than an error.
func (s *Scanner) Scan(root string) ([]string, error) {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat test path %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("test path is not a directory: %s", root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read test path %s: %w", root, err)
	}

	var sources []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), s.ext) {
			sources = append(sources, filepath.Join(root, entry.Name()))
		}
	}

	sort.Strings(sources)
	return sources, nil
}

// TestName returns a test's identity: its base filename without extension
func TestName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
