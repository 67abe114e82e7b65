package storage

import (
	"jbcram/internal/config"
	"jbcram/internal/domain"
)

// Storage persists and loads the report of the last run (e.g. for the failures viewer).
type Storage interface {
	Save(summary domain.RunSummary, failures []domain.TestFailure) error
	Load() (*domain.RunReport, error)
	// SaveOutput writes a full report back (e.g. after marking failures resolved).
	SaveOutput(report *domain.RunReport) error
}

// JSONStorage stores the report in a JSON file under the configured state directory.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
