// Package json writes a report run to disk as a JSON artifact.
package json

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bkyoung/lintgate/internal/domain"
)

// Writer implements the report.ArtifactWriter interface.
type Writer struct {
	now func() string
}

// NewWriter creates a new JSON artifact writer. The now function
// supplies the timestamp used in the file name.
func NewWriter(now func() string) *Writer {
	return &Writer{now: now}
}

// Write persists a report artifact to disk and returns its path.
func (w *Writer) Write(ctx context.Context, artifact domain.ReportArtifact) (string, error) {
	if err := os.MkdirAll(artifact.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	filePath := filepath.Join(artifact.OutputDir, fmt.Sprintf("lint-report-%s-%s.json", artifact.Platform, w.now()))

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("create json file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(artifact); err != nil {
		return "", fmt.Errorf("encode report to json: %w", err)
	}

	return filePath, nil
}
