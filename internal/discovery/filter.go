package discovery

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter filters test sources by filename
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName keeps sources whose filename starts with pattern.
// Patterns containing *, ? or [ are matched as globs against the filename instead,
// e.g. "*list*" or "ref_count_?.jb".
func (f *Filter) FilterByName(sources []string, pattern string) []string {
	if pattern == "" {
		return sources
	}

	isGlob := strings.ContainsAny(pattern, "*?[")

	var filtered []string
	for _, source := range sources {
		name := filepath.Base(source)

		if isGlob {
			matched, err := doublestar.Match(pattern, name)
			if err == nil && matched {
				filtered = append(filtered, source)
			}
			continue
		}

		if strings.HasPrefix(name, pattern) {
			filtered = append(filtered, source)
		}
	}

	return filtered
}
