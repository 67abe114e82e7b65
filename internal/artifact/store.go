package artifact

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// Store reads and writes line-oriented text artifacts
type Store struct {
	fs afero.Fs
}

// NewStore creates a Store over the given filesystem
func NewStore(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

// NewOsStore creates a Store over the real filesystem
func NewOsStore() *Store {
	return NewStore(afero.NewOsFs())
}

// Read loads an artifact as lines. A missing file reads as an empty artifact.
func (s *Store) Read(path string) ([]string, error) {
	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !exists {
		return nil, nil
	}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return SplitLines(string(data)), nil
}

// Write persists lines newline-terminated, creating parent directories.
// An empty artifact is written as an empty file so it reads back as empty.
func (s *Store) Write(path string, lines []string) error {
	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	if err := afero.WriteFile(s.fs, path, []byte(JoinLines(lines)), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Exists reports whether an artifact file is present
func (s *Store) Exists(path string) (bool, error) {
	return afero.Exists(s.fs, path)
}

// ReadRaw returns a file's bytes unchanged
func (s *Store) ReadRaw(path string) ([]byte, error) {
	return afero.ReadFile(s.fs, path)
}

// WriteRaw writes bytes unchanged, creating parent directories
func (s *Store) WriteRaw(path string, data []byte) error {
	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	return afero.WriteFile(s.fs, path, data, 0644)
}

// SplitLines splits text into lines without keeping terminators. Line
// boundaries are the str.splitlines set: \n, \r\n, \r, \v, \f, \x1c-\x1e,
// U+0085, U+2028 and U+2029.
// A trailing terminator does not produce an empty last line.
func SplitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isLineBreak(r) {
			i += size
			continue
		}
		lines = append(lines, s[start:i])
		i += size
		if r == '\r' && i < len(s) && s[i] == '\n' {
			i++
		}
		start = i
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// JoinLines is the inverse of SplitLines for newline-terminated text
func JoinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
