package discovery

import (
	"jbcram/internal/config"
	"jbcram/internal/domain"
)

// Discoverer turns source files on disk into fully resolved test cases
type Discoverer struct {
	config   *config.Config
	scanner  *Scanner
	filter   *Filter
	resolver *Resolver
}

// NewDiscoverer creates a new Discoverer
func NewDiscoverer(cfg *config.Config, scanner *Scanner, filter *Filter, resolver *Resolver) *Discoverer {
	return &Discoverer{
		config:   cfg,
		scanner:  scanner,
		filter:   filter,
		resolver: resolver,
	}
}

// Discover returns the test cases whose filename matches pattern, sorted by source path
func (d *Discoverer) Discover(pattern string) ([]domain.TestCase, error) {
	sources, err := d.scanner.Scan(d.config.GetExamplesPath())
	if err != nil {
		return nil, err
	}

	sources = d.filter.FilterByName(sources, pattern)

	cases := make([]domain.TestCase, 0, len(sources))
	for _, source := range sources {
		name := TestName(source)
		cases = append(cases, domain.TestCase{
			Name:               name,
			SourcePath:         source,
			ExpectedCodePath:   d.config.GetExpectedCodePath(name),
			ExpectedStdoutPath: d.config.GetExpectedStdoutPath(name),
			Allocator:          d.resolver.Resolve(name),
		})
	}
	return cases, nil
}

// Find returns the single test case with exactly the given name
func (d *Discoverer) Find(name string) (domain.TestCase, bool, error) {
	cases, err := d.Discover(name)
	if err != nil {
		return domain.TestCase{}, false, err
	}
	for _, tc := range cases {
		if tc.Name == name {
			return tc, true, nil
		}
	}
	return domain.TestCase{}, false, nil
}
