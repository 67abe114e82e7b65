package discovery

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, file := range files {
		fullPath := filepath.Join(root, file)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", file, err)
		}
		if err := os.WriteFile(fullPath, []byte("fn main() {}"), 0644); err != nil {
			t.Fatalf("failed to create file %s: %v", file, err)
		}
	}
}

func TestScanner_Scan(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir,
		"zeta.jb",
		"add.jb",
		"ref_count_list.jb",
		"notes.txt",
		"add.jb.bak",
		".hidden.jb",
		"nested/deep.jb",
	)

	scanner := NewScanner(".jb")

	t.Run("finds sources sorted and non-recursively", func(t *testing.T) {
		results, err := scanner.Scan(tmpDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := []string{
			filepath.Join(tmpDir, ".hidden.jb"),
			filepath.Join(tmpDir, "add.jb"),
			filepath.Join(tmpDir, "ref_count_list.jb"),
			filepath.Join(tmpDir, "zeta.jb"),
		}
		if !reflect.DeepEqual(results, expected) {
			t.Errorf("expected %v, got %v", expected, results)
		}
	})

	t.Run("missing directory yields no tests", func(t *testing.T) {
		results, err := scanner.Scan(filepath.Join(tmpDir, "does-not-exist"))
		if err != nil {
			t.Fatalf("expected no error for missing directory, got %v", err)
		}
		if len(results) != 0 {
			t.Errorf("expected 0 tests, got %d", len(results))
		}
	})

	t.Run("returns error for file instead of directory", func(t *testing.T) {
		_, err := scanner.Scan(filepath.Join(tmpDir, "add.jb"))
		if err == nil {
			t.Error("expected error for file path")
		}
	})
}

func TestTestName(t *testing.T) {
	tests := map[string]string{
		"tests/examples/add.jb":             "add",
		"ref_count_list.jb":                 "ref_count_list",
		"/abs/path/test_inheritance.jb":     "test_inheritance",
		"tests/examples/with.dots.in.it.jb": "with.dots.in.it",
		"tests/examples/.wip.jb":            ".wip",
	}
	for path, expected := range tests {
		if got := TestName(path); got != expected {
			t.Errorf("TestName(%q): expected %s, got %s", path, expected, got)
		}
	}
}
