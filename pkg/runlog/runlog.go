// Package runlog persists per-question run records: what was planned,
// what each stage produced and how long it took. Records are plain JSON
// on disk so a run can be replayed or audited without the service.
package runlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/frontdesk-lu/frontdesk/pkg/schema"
)

// RunRecord captures run-level metadata for one question.
type RunRecord struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	Question  string           `json:"question"`
	Language  schema.Language  `json:"language"`
	Plan      *schema.Plan     `json:"plan,omitempty"`
	Response  *schema.Response `json:"response,omitempty"`
}

// StageRecord captures one pipeline stage's execution.
type StageRecord struct {
	Name           string       `json:"name"`
	Adapter        string       `json:"adapter,omitempty"`
	Model          string       `json:"model,omitempty"`
	Output         string       `json:"output,omitempty"`
	EvidenceCount  int          `json:"evidence_count,omitempty"`
	GateResults    []GateRecord `json:"gate_results,omitempty"`
	Error          string       `json:"error,omitempty"`
	DurationMillis int64        `json:"duration_ms"`
}

// GateRecord captures one gate evaluation.
type GateRecord struct {
	Name       string   `json:"name"`
	Passed     bool     `json:"passed"`
	Violations []string `json:"violations,omitempty"`
}

// Writer writes run records to disk, one directory per run.
type Writer struct {
	baseDir string
	runDir  string
}

// NewWriter creates a writer rooted at baseDir/runID.
func NewWriter(baseDir, runID string) (*Writer, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if runID == "" {
		return nil, fmt.Errorf("run ID is required")
	}

	runDir := filepath.Join(baseDir, runID)
	if err := os.MkdirAll(filepath.Join(runDir, "stages"), 0755); err != nil {
		return nil, err
	}

	return &Writer{baseDir: baseDir, runDir: runDir}, nil
}

// RunDir returns the run directory path.
func (w *Writer) RunDir() string {
	return w.runDir
}

// WriteRun writes run metadata to run.json.
func (w *Writer) WriteRun(record RunRecord) error {
	return writeJSON(filepath.Join(w.runDir, "run.json"), record)
}

// WriteStage writes a stage record to stages/<stage>.json.
func (w *Writer) WriteStage(record StageRecord) error {
	if record.Name == "" {
		return fmt.Errorf("stage name is required")
	}
	path := filepath.Join(w.runDir, "stages", fmt.Sprintf("%s.json", record.Name))
	return writeJSON(path, record)
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
