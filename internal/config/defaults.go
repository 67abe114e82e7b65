package config

import "jbcram/internal/domain"

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestsDir holds examples, baselines and the manifest
	DefaultTestsDir = "tests"
	// DefaultExamplesDir is where test sources live, relative to the tests dir
	DefaultExamplesDir = "examples"
	// DefaultExpectedCodeDir is where C output baselines live, relative to the tests dir
	DefaultExpectedCodeDir = "expected/c_output"
	// DefaultExpectedStdoutDir is where stdout baselines live, relative to the tests dir
	DefaultExpectedStdoutDir = "expected/stdout"
	// DefaultManifestFile maps test names to explicit settings, relative to the tests dir
	DefaultManifestFile = "manifest.yaml"

	// DefaultSourceExt is the extension of test sources
	DefaultSourceExt = ".jb"
	// DefaultCodeExt is the extension of C output baselines
	DefaultCodeExt = ".c"
	// DefaultStdoutExt is the extension of stdout baselines
	DefaultStdoutExt = ".out"

	// DefaultBuildCommand is the build tool invoked for every test
	DefaultBuildCommand = "./build.sh"
	// DefaultGeneratedFile is where the build tool leaves the transpiled C
	DefaultGeneratedFile = "output.c"
	// DefaultExecutable is where the build tool leaves the program
	DefaultExecutable = "./output"

	// DefaultAllocator is used for tests without an explicit or name-derived allocator
	DefaultAllocator = domain.AllocatorMarkSweep
	// DefaultRefCountMarker selects reference counting when it appears in a test name
	DefaultRefCountMarker = "ref_count"

	// DefaultConfigFile is the optional YAML config file name
	DefaultConfigFile = "jbcram.yaml"
	// DefaultStateDir holds run reports and the history database
	DefaultStateDir = ".jbcram"
	// DefaultOutputJSONFile is the default last-run report file name
	DefaultOutputJSONFile = "last-run.json"
	// DefaultLockFile guards the shared output.c/output paths between processes
	DefaultLockFile = "run.lock"

	// DefaultHistoryDriver is the database/sql driver for run history
	DefaultHistoryDriver = "sqlite3"
	// DefaultHistoryFile is the sqlite database name inside the state dir
	DefaultHistoryFile = "history.db"

	// DefaultLogLevel keeps the report stream clean unless asked otherwise
	DefaultLogLevel = "warn"
)
