package exporters

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/atlas-export/internal/database"
)

func setupTestDatabase(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func storeIssue(t *testing.T, db *database.Database, key string, fields map[string]any, fieldMap map[string]string) {
	t.Helper()
	payload := map[string]any{"id": key, "key": key, "fields": fields}
	require.NoError(t, db.UpsertIssue(payload, fieldMap, ""))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVExporterEmptyStore(t *testing.T) {
	db := setupTestDatabase(t)
	outputDir := filepath.Join(t.TempDir(), "out")

	files, err := NewCSVExporter(db, outputDir).Export("")
	require.NoError(t, err)
	assert.Empty(t, files)

	_, statErr := os.Stat(outputDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCSVExporterColumns(t *testing.T) {
	db := setupTestDatabase(t)
	fieldMap := map[string]string{
		"customfield_1": "Story Points",
		"customfield_2": "Team",
	}

	storeIssue(t, db, "DEMO-1", map[string]any{
		"summary":       "First",
		"labels":        []any{"a", "b"},
		"customfield_2": "Platform",
	}, fieldMap)
	storeIssue(t, db, "DEMO-2", map[string]any{
		"summary":       "Second",
		"customfield_1": float64(3),
	}, fieldMap)

	outputDir := t.TempDir()
	files, err := NewCSVExporter(db, outputDir).Export("")
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(outputDir, "issues.csv")}, files)

	records := readCSV(t, files[0])
	require.Len(t, records, 3)

	header := records[0]
	require.Len(t, header, len(coreFields)+2)
	assert.Equal(t, "key", header[0])
	// Custom columns are the sorted union across all issues.
	assert.Equal(t, "custom:Story Points", header[len(coreFields)])
	assert.Equal(t, "custom:Team", header[len(coreFields)+1])

	first := records[1]
	assert.Equal(t, "DEMO-1", first[0])
	assert.Equal(t, "a, b", first[12])
	assert.Equal(t, "", first[len(coreFields)])
	assert.Equal(t, "Platform", first[len(coreFields)+1])

	second := records[2]
	assert.Equal(t, "3", second[len(coreFields)])
	assert.Equal(t, "", second[len(coreFields)+1])
}

func TestCSVExporterWritesComments(t *testing.T) {
	db := setupTestDatabase(t)
	storeIssue(t, db, "DEMO-1", map[string]any{"summary": "First"}, nil)
	storeIssue(t, db, "OTHER-1", map[string]any{"summary": "Elsewhere"}, nil)
	require.NoError(t, db.UpsertComment("DEMO-1", map[string]any{
		"id": "c1", "body": "fine by me",
		"author":  map[string]any{"displayName": "Alice"},
		"created": "2024-01-01T00:00:00.000+0000",
	}))
	require.NoError(t, db.UpsertComment("OTHER-1", map[string]any{
		"id": "c2", "body": "out of scope",
		"created": "2024-01-02T00:00:00.000+0000",
	}))

	outputDir := t.TempDir()
	files, err := NewCSVExporter(db, outputDir).Export("DEMO")
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(outputDir, "issues_DEMO.csv"),
		filepath.Join(outputDir, "comments_DEMO.csv"),
	}, files)

	records := readCSV(t, files[1])
	require.Len(t, records, 2)
	assert.Equal(t, []string{"issue_key", "author_name", "author_email", "body", "created", "updated"}, records[0])
	assert.Equal(t, "DEMO-1", records[1][0])
	assert.Equal(t, "fine by me", records[1][3])
}

func TestJiraCSVExporterRepeatsMultiValueHeaders(t *testing.T) {
	db := setupTestDatabase(t)
	storeIssue(t, db, "DEMO-1", map[string]any{
		"summary": "First",
		"labels":  []any{"x", "y", "z"},
		"components": []any{
			map[string]any{"name": "api"},
			map[string]any{"name": "db"},
		},
	}, nil)
	storeIssue(t, db, "DEMO-2", map[string]any{"summary": "Second"}, nil)
	require.NoError(t, db.UpsertComment("DEMO-1", map[string]any{
		"id": "c1", "body": "ship it",
		"author":  map[string]any{"displayName": "Alice"},
		"created": "2024-01-01T00:00:00.000+0000",
	}))

	outputDir := t.TempDir()
	files, err := NewJiraCSVExporter(db, outputDir).Export("")
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(outputDir, "jira_import.csv")}, files)

	records := readCSV(t, files[0])
	require.Len(t, records, 3)

	counts := map[string]int{}
	for _, h := range records[0] {
		counts[h]++
	}
	assert.Equal(t, 3, counts["Labels"])
	assert.Equal(t, 2, counts["Component"])
	assert.Equal(t, 1, counts["Fix Version"])
	assert.Equal(t, 1, counts["Comment"])

	assert.Equal(t, "Issue Key", records[0][0])
	assert.Equal(t, "DEMO-1", records[1][0])
	assert.Equal(t, "2024-01-01T00:00:00.000+0000;Alice;ship it", records[1][len(records[0])-1])
	// Issues with fewer values get blank padding cells.
	assert.Equal(t, "", records[2][len(records[0])-1])
}

func TestJiraCSVExporterEmptyStore(t *testing.T) {
	db := setupTestDatabase(t)
	files, err := NewJiraCSVExporter(db, t.TempDir()).Export("")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestJSONExporterPrefersRawPayload(t *testing.T) {
	db := setupTestDatabase(t)
	storeIssue(t, db, "DEMO-1", map[string]any{
		"summary":  "First",
		"assignee": map[string]any{"displayName": "Bob"},
	}, nil)

	outputDir := t.TempDir()
	files, err := NewJSONExporter(db, outputDir).Export("DEMO")
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(outputDir, "issues_DEMO.json")}, files)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 1)
	// The original nested API shape survives, not the flattened row.
	assert.Equal(t, "DEMO-1", entries[0]["key"])
	fields, ok := entries[0]["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "First", fields["summary"])
}

func TestJSONExporterEmptyStore(t *testing.T) {
	db := setupTestDatabase(t)
	files, err := NewJSONExporter(db, t.TempDir()).Export("")
	require.NoError(t, err)
	assert.Empty(t, files)
}
