// Package bundle moves a single golden test between projects as one txtar archive:
// the source plus both baselines, with the allocator in the archive comment.
package bundle

import (
	"bufio"
	"bytes"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/tools/txtar"

	"jbcram/internal/artifact"
	"jbcram/internal/config"
	"jbcram/internal/domain"
)

const allocatorKey = "allocator:"

// Bundle describes what an archive contained once imported
type Bundle struct {
	Name      string
	Allocator domain.Allocator
	Files     []string // written paths
}

// Bundler exports and imports test archives relative to the tests directory
type Bundler struct {
	config *config.Config
	store  *artifact.Store
}

// NewBundler creates a new Bundler
func NewBundler(cfg *config.Config, store *artifact.Store) *Bundler {
	return &Bundler{config: cfg, store: store}
}

// archiveName returns the slash-separated archive path of a file under the tests dir
func (b *Bundler) archiveName(p string) (string, error) {
	rel, err := filepath.Rel(b.config.GetTestsPath(), p)
	if err != nil || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%s is outside the tests directory", p)
	}
	return filepath.ToSlash(rel), nil
}

// Export packs tc into a txtar archive. Baselines that do not exist yet are left out.
func (b *Bundler) Export(tc domain.TestCase) ([]byte, error) {
	archive := &txtar.Archive{
		Comment: []byte(fmt.Sprintf("%s %s\n", allocatorKey, tc.Allocator)),
	}

	for i, p := range []string{tc.SourcePath, tc.ExpectedCodePath, tc.ExpectedStdoutPath} {
		exists, err := b.store.Exists(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !exists {
			if i == 0 {
				return nil, fmt.Errorf("source %s does not exist", p)
			}
			continue
		}

		data, err := b.store.ReadRaw(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		name, err := b.archiveName(p)
		if err != nil {
			return nil, err
		}
		archive.Files = append(archive.Files, txtar.File{Name: name, Data: data})
	}

	return txtar.Format(archive), nil
}

// Import writes the files of an archive under the tests directory.
// Archives naming paths outside it are rejected before anything is written.
func (b *Bundler) Import(data []byte) (*Bundle, error) {
	archive := txtar.Parse(data)
	if len(archive.Files) == 0 {
		return nil, fmt.Errorf("archive contains no files")
	}

	bundle := &Bundle{}
	if a, ok := parseAllocator(archive.Comment); ok {
		parsed, err := domain.ParseAllocator(a)
		if err != nil {
			return nil, fmt.Errorf("archive comment: %w", err)
		}
		bundle.Allocator = parsed
	}

	examplesDir := path.Clean(filepath.ToSlash(b.config.ExamplesDir))
	targets := make([]string, len(archive.Files))
	for i, f := range archive.Files {
		name := path.Clean(f.Name)
		if !filepath.IsLocal(filepath.FromSlash(name)) {
			return nil, fmt.Errorf("archive path %q escapes the tests directory", f.Name)
		}
		targets[i] = filepath.Join(b.config.GetTestsPath(), filepath.FromSlash(name))

		if path.Dir(name) == examplesDir && strings.HasSuffix(name, b.config.SourceExt) {
			bundle.Name = strings.TrimSuffix(path.Base(name), b.config.SourceExt)
		}
	}
	if bundle.Name == "" {
		return nil, fmt.Errorf("archive has no %s source under %s/", b.config.SourceExt, examplesDir)
	}

	for i, f := range archive.Files {
		if err := b.store.WriteRaw(targets[i], f.Data); err != nil {
			return nil, fmt.Errorf("write %s: %w", targets[i], err)
		}
		bundle.Files = append(bundle.Files, targets[i])
	}
	return bundle, nil
}

func parseAllocator(comment []byte) (string, bool) {
	sc := bufio.NewScanner(bytes.NewReader(comment))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if v, ok := strings.CutPrefix(line, allocatorKey); ok {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}
