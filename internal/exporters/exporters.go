// Package exporters renders the relational store's contents into flat
// export files. Each exporter reads the store fresh and writes into an
// output directory, created if absent. An empty issue set produces no files
// and no error.
package exporters

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/mrlokans/atlas-export/internal/database"
	"github.com/mrlokans/atlas-export/internal/entities"
	"github.com/mrlokans/atlas-export/internal/utils"
)

// IssueExporter renders the store's issues, optionally scoped to one
// project, into one or more files. It returns the created file paths; an
// empty slice means there was nothing to export.
type IssueExporter interface {
	Export(projectKey string) ([]string, error)
}

// coreFields is the fixed column set of the standard CSV export, in order.
var coreFields = []string{
	"key", "project_key", "summary", "description", "issue_type", "status",
	"status_category", "priority", "assignee_name", "assignee_email",
	"reporter_name", "reporter_email", "labels", "components",
	"fix_versions", "affects_versions", "resolution", "resolution_date",
	"created", "updated", "due_date", "parent_key",
	"time_original_estimate", "time_spent", "time_remaining", "story_points",
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// fileSuffix builds the optional "_{projectKey}" filename suffix.
func fileSuffix(projectKey string) string {
	if projectKey == "" {
		return ""
	}
	return "_" + utils.SanitizeFilename(projectKey)
}

// parseJSONList decodes a JSON array column into strings, returning an
// empty slice on empty or malformed input.
func parseJSONList(value string) []string {
	if value == "" {
		return nil
	}
	var raw []any
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, fmt.Sprintf("%v", v))
	}
	return out
}

// customFieldValues decodes the custom_fields JSON column, returning nil on
// empty or malformed input.
func customFieldValues(issue entities.Issue) map[string]any {
	if issue.CustomFields == "" {
		return nil
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(issue.CustomFields), &fields); err != nil {
		return nil
	}
	return fields
}

func formatInt(v int64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatInt(v, 10)
}

func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// commentsByIssue loads every comment of the given issues keyed by issue.
func commentsByIssue(db *database.Database, issues []entities.Issue) (map[string][]entities.Comment, error) {
	grouped := make(map[string][]entities.Comment, len(issues))
	for _, issue := range issues {
		comments, err := db.Comments(issue.Key)
		if err != nil {
			return nil, err
		}
		grouped[issue.Key] = comments
	}
	return grouped, nil
}
