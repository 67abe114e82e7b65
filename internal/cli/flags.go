package cli

import "jbcram/internal/config"

// Flags holds command-line flags
type Flags struct {
	// Persistent
	Project    string
	ConfigFile string
	LogLevel   string
	NoColor    bool

	// Run
	Update    bool
	Strict    bool
	Allocator string
	Progress  bool
	History   bool
	Output    string

	// History
	Limit int
}

// ToConfigFlags converts CLI flags to config flags. filter is the positional
// test-name filter, if any.
func (f *Flags) ToConfigFlags(filter string) config.Flags {
	return config.Flags{
		Update:     f.Update,
		Filter:     filter,
		Strict:     f.Strict,
		Progress:   f.Progress,
		History:    f.History,
		Allocator:  f.Allocator,
		ConfigFile: f.ConfigFile,
		LogLevel:   f.LogLevel,
		NoColor:    f.NoColor,
		Output:     f.Output,
	}
}
