package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jbcram/internal/bundle"
	"jbcram/internal/config"
	"jbcram/internal/discovery"
)

// BundleCommand handles the bundle command
type BundleCommand struct {
	discoverer *discovery.Discoverer
	bundler    *bundle.Bundler
	out        io.Writer
}

// NewBundleCommand creates a new BundleCommand
func NewBundleCommand(discoverer *discovery.Discoverer, bundler *bundle.Bundler, out io.Writer) *BundleCommand {
	return &BundleCommand{discoverer: discoverer, bundler: bundler, out: out}
}

// Execute runs the command
func (bc *BundleCommand) Execute(cmd *cobra.Command, args []string) error {
	tc, ok, err := bc.discoverer.Find(args[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no test named %q", args[0])
	}

	data, err := bc.bundler.Export(tc)
	if err != nil {
		return err
	}

	file, _ := cmd.Flags().GetString("file")
	if file == "" {
		_, err = bc.out.Write(data)
		return err
	}
	if err := os.WriteFile(file, data, 0644); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	color.New(color.FgGreen).Fprintf(bc.out, "Bundled %s into %s\n", tc.Name, file)
	return nil
}

// UnbundleCommand handles the unbundle command
type UnbundleCommand struct {
	config   *config.Config
	manifest *config.Manifest
	bundler  *bundle.Bundler
	out      io.Writer
}

// NewUnbundleCommand creates a new UnbundleCommand
func NewUnbundleCommand(cfg *config.Config, manifest *config.Manifest, bundler *bundle.Bundler, out io.Writer) *UnbundleCommand {
	return &UnbundleCommand{config: cfg, manifest: manifest, bundler: bundler, out: out}
}

// Execute runs the command
func (uc *UnbundleCommand) Execute(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}

	b, err := uc.bundler.Import(data)
	if err != nil {
		return err
	}

	// Record the allocator when the name alone would not select it here
	if b.Allocator != "" {
		implied := discovery.NewResolver(uc.config.DefaultAllocator, uc.config.RefCountMarker, nil).Resolve(b.Name)
		current, pinned := uc.manifest.Allocator(b.Name)
		if (pinned && current != b.Allocator) || (!pinned && implied != b.Allocator) {
			uc.manifest.SetAllocator(b.Name, b.Allocator)
			if err := uc.manifest.Save(uc.config.GetManifestPath()); err != nil {
				return err
			}
			b.Files = append(b.Files, uc.config.GetManifestPath())
		}
	}

	color.New(color.FgGreen).Fprintf(uc.out, "Imported %s\n", b.Name)
	for _, f := range b.Files {
		fmt.Fprintf(uc.out, "  %s\n", strings.TrimPrefix(f, uc.config.ProjectPath+string(os.PathSeparator)))
	}
	return nil
}
