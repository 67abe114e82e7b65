package discovery

import (
	"strings"

	"jbcram/internal/config"
	"jbcram/internal/domain"
)

// Resolver picks the allocator a test is built with
type Resolver struct {
	defaultAllocator domain.Allocator
	marker           string
	manifest         *config.Manifest
}

// NewResolver creates a new Resolver. manifest may be nil.
func NewResolver(defaultAllocator domain.Allocator, marker string, manifest *config.Manifest) *Resolver {
	return &Resolver{
		defaultAllocator: defaultAllocator,
		marker:           marker,
		manifest:         manifest,
	}
}

// Resolve returns, in order of precedence: the manifest entry for name, reference
// counting when name contains the marker, or the configured default.
func (r *Resolver) Resolve(name string) domain.Allocator {
	if a, ok := r.manifest.Allocator(name); ok {
		return a
	}
	if r.marker != "" && strings.Contains(name, r.marker) {
		return domain.AllocatorReferenceCount
	}
	return r.defaultAllocator
}
