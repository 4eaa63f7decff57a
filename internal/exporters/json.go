package exporters

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrlokans/atlas-export/internal/database"
)

// JSONExporter writes one array entry per issue, preferring the stored raw
// API payload when present and falling back to the flattened row.
type JSONExporter struct {
	db        *database.Database
	outputDir string
}

func NewJSONExporter(db *database.Database, outputDir string) *JSONExporter {
	return &JSONExporter{db: db, outputDir: outputDir}
}

func (e *JSONExporter) Export(projectKey string) ([]string, error) {
	issues, err := e.db.Issues(projectKey)
	if err != nil {
		return nil, err
	}
	if len(issues) == 0 {
		return nil, nil
	}
	if err := ensureDir(e.outputDir); err != nil {
		return nil, err
	}

	entries := make([]any, 0, len(issues))
	for _, issue := range issues {
		if issue.RawJSON != "" {
			var raw any
			if err := json.Unmarshal([]byte(issue.RawJSON), &raw); err == nil {
				entries = append(entries, raw)
				continue
			}
		}
		entries = append(entries, issue)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode issues: %w", err)
	}

	path := filepath.Join(e.outputDir, fmt.Sprintf("issues%s.json", fileSuffix(projectKey)))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return []string{path}, nil
}
