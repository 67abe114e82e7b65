package domain

import "slices"

// ArtifactKind distinguishes the two artifacts checked per test case
type ArtifactKind string

const (
	// KindCode is the transpiled C output left by the build tool
	KindCode ArtifactKind = "code"
	// KindStdout is the captured stdout of the built program
	KindStdout ArtifactKind = "stdout"
)

// Label returns the human-readable name used in reports
func (k ArtifactKind) Label() string {
	switch k {
	case KindCode:
		return "C code"
	case KindStdout:
		return "stdout"
	default:
		return string(k)
	}
}

// Artifact is an ordered sequence of text lines identified by a path
type Artifact struct {
	Kind  ArtifactKind
	Path  string
	Lines []string
}

// Equal reports exact, order-sensitive line equality. Nil and empty are equal.
func (a Artifact) Equal(other Artifact) bool {
	return slices.Equal(a.Lines, other.Lines)
}
