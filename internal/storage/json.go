package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"jbcram/internal/domain"
)

// NewReport builds the stored report for a finished run.
func NewReport(summary domain.RunSummary, failures []domain.TestFailure) *domain.RunReport {
	if failures == nil {
		failures = []domain.TestFailure{}
	}
	return &domain.RunReport{
		Meta: domain.RunReportMeta{
			RunID:           summary.RunID,
			Mode:            summary.Mode(),
			TotalTests:      summary.Total,
			PassedTests:     summary.Passed,
			FailedTests:     summary.Failed(),
			Duration:        summary.Duration.String(),
			DurationSeconds: summary.Duration.Seconds(),
			Timestamp:       summary.StartedAt.Format(time.RFC3339),
		},
		Details: failures,
	}
}

// Save writes the run summary and its failures to the configured JSON output file.
func (s *JSONStorage) Save(summary domain.RunSummary, failures []domain.TestFailure) error {
	return s.SaveOutput(NewReport(summary, failures))
}

// Load reads the last run report from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.RunReport, error) {
	path := s.cfg.GetOutputPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report file: %w", err)
	}
	var report domain.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &report, nil
}

// SaveOutput writes the full report to the configured JSON file.
func (s *JSONStorage) SaveOutput(report *domain.RunReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	path := s.cfg.GetOutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
