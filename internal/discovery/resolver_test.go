package discovery

import (
	"testing"

	"jbcram/internal/config"
	"jbcram/internal/domain"
)

func TestResolver_Resolve(t *testing.T) {
	manifest := &config.Manifest{Tests: map[string]config.ManifestEntry{
		"linked_list":     {Allocator: domain.AllocatorReferenceCount},
		"ref_count_cycle": {Allocator: domain.AllocatorMarkSweep},
		"blank_entry":     {},
	}}

	tests := []struct {
		name     string
		test     string
		defaultA domain.Allocator
		manifest *config.Manifest
		expected domain.Allocator
	}{
		{"default for plain names", "add", domain.AllocatorMarkSweep, nil, domain.AllocatorMarkSweep},
		{"marker selects reference counting", "ref_count_list", domain.AllocatorMarkSweep, nil, domain.AllocatorReferenceCount},
		{"marker anywhere in the name", "test_ref_count_basic", domain.AllocatorSimple, nil, domain.AllocatorReferenceCount},
		{"marker wins over any default", "ref_count_list", domain.AllocatorReferenceCount, nil, domain.AllocatorReferenceCount},
		{"configured default is honoured", "add", domain.AllocatorSimple, nil, domain.AllocatorSimple},
		{"manifest entry selects allocator", "linked_list", domain.AllocatorMarkSweep, manifest, domain.AllocatorReferenceCount},
		{"manifest entry overrides marker", "ref_count_cycle", domain.AllocatorSimple, manifest, domain.AllocatorMarkSweep},
		{"blank manifest entry falls through", "blank_entry", domain.AllocatorSimple, manifest, domain.AllocatorSimple},
		{"unlisted name falls through to marker", "ref_count_tree", domain.AllocatorSimple, manifest, domain.AllocatorReferenceCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.defaultA, config.DefaultRefCountMarker, tt.manifest)
			if got := r.Resolve(tt.test); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
			// Pure: a second call gives the same answer
			if again := r.Resolve(tt.test); again != tt.expected {
				t.Errorf("second call: expected %s, got %s", tt.expected, again)
			}
		})
	}
}
