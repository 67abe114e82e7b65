package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"jbcram/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string `yaml:"-"`
	TestsDir    string `yaml:"tests_dir"`

	// Layout of the tests dir
	ExamplesDir       string `yaml:"examples_dir"`
	ExpectedCodeDir   string `yaml:"expected_code_dir"`
	ExpectedStdoutDir string `yaml:"expected_stdout_dir"`
	ManifestFile      string `yaml:"manifest_file"`
	SourceExt         string `yaml:"source_ext"`
	CodeExt           string `yaml:"code_ext"`
	StdoutExt         string `yaml:"stdout_ext"`

	// Build tool contract
	BuildCommand   string        `yaml:"build_command"`
	GeneratedFile  string        `yaml:"generated_file"`
	Executable     string        `yaml:"executable"`
	ProcessTimeout time.Duration `yaml:"process_timeout"`

	// Parameter resolution
	DefaultAllocator domain.Allocator `yaml:"default_allocator"`
	RefCountMarker   string           `yaml:"ref_count_marker"`

	// Output settings
	StateDir       string `yaml:"state_dir"`
	OutputJSONFile string `yaml:"output_json_file"`
	LockFile       string `yaml:"lock_file"`

	History HistoryConfig `yaml:"history"`

	// Command flags
	Flags Flags `yaml:"-"`
}

// HistoryConfig selects the run history database
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Driver  string `yaml:"driver"`
	DSN     string `yaml:"dsn"`
}

// Flags holds command-line flags
type Flags struct {
	Update     bool
	Filter     string
	Strict     bool
	Progress   bool
	History    bool
	Allocator  string
	ConfigFile string
	LogLevel   string
	NoColor    bool
	Output     string
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		ProjectPath:       DefaultProjectPath,
		TestsDir:          DefaultTestsDir,
		ExamplesDir:       DefaultExamplesDir,
		ExpectedCodeDir:   DefaultExpectedCodeDir,
		ExpectedStdoutDir: DefaultExpectedStdoutDir,
		ManifestFile:      DefaultManifestFile,
		SourceExt:         DefaultSourceExt,
		CodeExt:           DefaultCodeExt,
		StdoutExt:         DefaultStdoutExt,
		BuildCommand:      DefaultBuildCommand,
		GeneratedFile:     DefaultGeneratedFile,
		Executable:        DefaultExecutable,
		DefaultAllocator:  DefaultAllocator,
		RefCountMarker:    DefaultRefCountMarker,
		StateDir:          DefaultStateDir,
		OutputJSONFile:    DefaultOutputJSONFile,
		LockFile:          DefaultLockFile,
		History: HistoryConfig{
			Driver: DefaultHistoryDriver,
		},
		Flags: Flags{LogLevel: DefaultLogLevel},
	}
}

// Load builds the effective config for a project: defaults, then the YAML config file,
// then .env and environment overrides, then flags.
func Load(projectPath string, flags Flags) (*Config, error) {
	cfg := New()
	if projectPath != "" {
		cfg.ProjectPath = projectPath
	}

	configFile := flags.ConfigFile
	explicit := configFile != ""
	if !explicit {
		configFile = filepath.Join(cfg.ProjectPath, DefaultConfigFile)
	} else if !filepath.IsAbs(configFile) {
		configFile = filepath.Join(cfg.ProjectPath, configFile)
	}
	if err := cfg.loadFile(configFile, explicit); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.ApplyFlags(flags); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyFlags copies flag overrides onto the config
func (c *Config) ApplyFlags(flags Flags) error {
	if flags.LogLevel == "" {
		flags.LogLevel = c.Flags.LogLevel
	}
	c.Flags = flags

	if flags.Allocator != "" {
		a, err := domain.ParseAllocator(flags.Allocator)
		if err != nil {
			return err
		}
		c.DefaultAllocator = a
	}
	if flags.History {
		c.History.Enabled = true
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := domain.ParseAllocator(string(c.DefaultAllocator)); err != nil {
		return fmt.Errorf("default_allocator: %w", err)
	}
	if c.BuildCommand == "" {
		return fmt.Errorf("build_command is required")
	}
	if c.SourceExt == "" {
		return fmt.Errorf("source_ext is required")
	}
	if c.ProcessTimeout < 0 {
		return fmt.Errorf("process_timeout must not be negative")
	}
	switch c.History.Driver {
	case "sqlite3", "mysql":
	default:
		return fmt.Errorf("history.driver must be 'sqlite3' or 'mysql'")
	}
	switch c.Flags.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of debug, info, warn, error")
	}
	return nil
}

func (c *Config) projectJoin(parts ...string) string {
	if len(parts) > 0 && filepath.IsAbs(parts[0]) {
		return filepath.Join(parts...)
	}
	return filepath.Join(append([]string{c.ProjectPath}, parts...)...)
}

// GetTestsPath returns the tests directory
func (c *Config) GetTestsPath() string {
	return c.projectJoin(c.TestsDir)
}

// GetExamplesPath returns the directory scanned for test sources
func (c *Config) GetExamplesPath() string {
	return c.projectJoin(c.TestsDir, c.ExamplesDir)
}

// GetExpectedCodePath returns the C output baseline for a test
func (c *Config) GetExpectedCodePath(name string) string {
	return c.projectJoin(c.TestsDir, c.ExpectedCodeDir, name+c.CodeExt)
}

// GetExpectedStdoutPath returns the stdout baseline for a test
func (c *Config) GetExpectedStdoutPath(name string) string {
	return c.projectJoin(c.TestsDir, c.ExpectedStdoutDir, name+c.StdoutExt)
}

// GetManifestPath returns the per-test manifest path
func (c *Config) GetManifestPath() string {
	return c.projectJoin(c.TestsDir, c.ManifestFile)
}

// GetGeneratedPath returns where the build tool leaves the transpiled C
func (c *Config) GetGeneratedPath() string {
	return c.projectJoin(c.GeneratedFile)
}

// GetExecutablePath returns where the build tool leaves the program
func (c *Config) GetExecutablePath() string {
	if filepath.IsAbs(c.Executable) {
		return c.Executable
	}
	abs, err := filepath.Abs(c.projectJoin(c.Executable))
	if err != nil {
		return c.projectJoin(c.Executable)
	}
	return abs
}

// GetOutputPath returns the full path to the last-run report.
// Resolves to an absolute path so run and failures always use the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := c.projectJoin(c.StateDir, c.OutputJSONFile)
	if c.Flags.Output != "" {
		p = c.Flags.Output
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetLockPath returns the lock file guarding the project's shared build outputs
func (c *Config) GetLockPath() string {
	return c.projectJoin(c.StateDir, c.LockFile)
}

// GetHistoryDSN returns the DSN for the history database
func (c *Config) GetHistoryDSN() string {
	if c.History.DSN != "" {
		return c.History.DSN
	}
	if c.History.Driver == "mysql" {
		return mysqlDSNFromEnv()
	}
	return c.projectJoin(c.StateDir, DefaultHistoryFile)
}
