package exporters

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mrlokans/atlas-export/internal/database"
	"github.com/mrlokans/atlas-export/internal/entities"
)

// CSVExporter writes the standard flat CSV export: one issues file with the
// fixed core columns plus one column per distinct custom-field name, and one
// comments file.
type CSVExporter struct {
	db        *database.Database
	outputDir string
}

func NewCSVExporter(db *database.Database, outputDir string) *CSVExporter {
	return &CSVExporter{db: db, outputDir: outputDir}
}

func (e *CSVExporter) Export(projectKey string) ([]string, error) {
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

	var created []string
	suffix := fileSuffix(projectKey)

	issuesPath := filepath.Join(e.outputDir, fmt.Sprintf("issues%s.csv", suffix))
	if err := e.writeIssues(issuesPath, issues); err != nil {
		return nil, err
	}
	created = append(created, issuesPath)

	comments, err := e.scopedComments(projectKey, issues)
	if err != nil {
		return nil, err
	}
	if len(comments) > 0 {
		commentsPath := filepath.Join(e.outputDir, fmt.Sprintf("comments%s.csv", suffix))
		if err := writeComments(commentsPath, comments); err != nil {
			return nil, err
		}
		created = append(created, commentsPath)
	}

	return created, nil
}

func (e *CSVExporter) writeIssues(path string, issues []entities.Issue) error {
	// Custom-field columns are the union of names observed across all
	// exported issues, sorted alphabetically.
	customNames := map[string]bool{}
	for _, issue := range issues {
		for name := range customFieldValues(issue) {
			customNames[name] = true
		}
	}
	sortedCustom := make([]string, 0, len(customNames))
	for name := range customNames {
		sortedCustom = append(sortedCustom, name)
	}
	sort.Strings(sortedCustom)

	headers := append([]string{}, coreFields...)
	for _, name := range sortedCustom {
		headers = append(headers, "custom:"+name)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, issue := range issues {
		row := coreRow(issue)
		custom := customFieldValues(issue)
		for _, name := range sortedCustom {
			row = append(row, customCell(custom[name]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// coreRow renders the fixed columns of one issue, in coreFields order.
// Multi-value JSON columns are flattened to comma-joined strings.
func coreRow(issue entities.Issue) []string {
	return []string{
		issue.Key,
		issue.ProjectKey,
		issue.Summary,
		issue.Description,
		issue.IssueType,
		issue.Status,
		issue.StatusCategory,
		issue.Priority,
		issue.AssigneeName,
		issue.AssigneeEmail,
		issue.ReporterName,
		issue.ReporterEmail,
		strings.Join(parseJSONList(issue.Labels), ", "),
		strings.Join(parseJSONList(issue.Components), ", "),
		strings.Join(parseJSONList(issue.FixVersions), ", "),
		strings.Join(parseJSONList(issue.AffectsVersions), ", "),
		issue.Resolution,
		issue.ResolutionDate,
		issue.Created,
		issue.Updated,
		issue.DueDate,
		issue.ParentKey,
		formatInt(issue.TimeOriginalEstimate),
		formatInt(issue.TimeSpent),
		formatInt(issue.TimeRemaining),
		formatFloat(issue.StoryPoints),
	}
}

func customCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any, []any:
		raw, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(raw)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// scopedComments returns all comments, restricted to the given issues when
// a project scope is set.
func (e *CSVExporter) scopedComments(projectKey string, issues []entities.Issue) ([]entities.Comment, error) {
	comments, err := e.db.Comments("")
	if err != nil {
		return nil, err
	}
	if projectKey == "" {
		return comments, nil
	}
	keys := make(map[string]bool, len(issues))
	for _, issue := range issues {
		keys[issue.Key] = true
	}
	scoped := comments[:0:0]
	for _, comment := range comments {
		if keys[comment.IssueKey] {
			scoped = append(scoped, comment)
		}
	}
	return scoped, nil
}

func writeComments(path string, comments []entities.Comment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	headers := []string{"issue_key", "author_name", "author_email", "body", "created", "updated"}
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, c := range comments {
		row := []string{c.IssueKey, c.AuthorName, c.AuthorEmail, c.Body, c.Created, c.Updated}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
