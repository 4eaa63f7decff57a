package exporters

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrlokans/atlas-export/internal/database"
	"github.com/mrlokans/atlas-export/internal/entities"
)

// jiraColumns maps store columns to the column names JIRA's CSV importer
// recognizes, in output order.
var jiraColumns = []struct {
	header string
	value  func(entities.Issue) string
}{
	{"Issue Key", func(i entities.Issue) string { return i.Key }},
	{"Summary", func(i entities.Issue) string { return i.Summary }},
	{"Issue Type", func(i entities.Issue) string { return i.IssueType }},
	{"Status", func(i entities.Issue) string { return i.Status }},
	{"Priority", func(i entities.Issue) string { return i.Priority }},
	{"Assignee", func(i entities.Issue) string { return i.AssigneeName }},
	{"Reporter", func(i entities.Issue) string { return i.ReporterName }},
	{"Resolution", func(i entities.Issue) string { return i.Resolution }},
	{"Created", func(i entities.Issue) string { return i.Created }},
	{"Updated", func(i entities.Issue) string { return i.Updated }},
	{"Due Date", func(i entities.Issue) string { return i.DueDate }},
	{"Description", func(i entities.Issue) string { return i.Description }},
	{"Parent", func(i entities.Issue) string { return i.ParentKey }},
	{"Original Estimate", func(i entities.Issue) string { return formatInt(i.TimeOriginalEstimate) }},
	{"Time Spent", func(i entities.Issue) string { return formatInt(i.TimeSpent) }},
}

// JiraCSVExporter writes issues in JIRA's CSV import format: multi-valued
// columns are expanded into repeated headers, with column count equal to the
// maximum multiplicity observed across the export set, and comments are
// serialized per-cell as "created;author;body".
type JiraCSVExporter struct {
	db        *database.Database
	outputDir string
}

func NewJiraCSVExporter(db *database.Database, outputDir string) *JiraCSVExporter {
	return &JiraCSVExporter{db: db, outputDir: outputDir}
}

func (e *JiraCSVExporter) Export(projectKey string) ([]string, error) {
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

	comments, err := commentsByIssue(e.db, issues)
	if err != nil {
		return nil, err
	}

	maxLabels, maxComponents, maxFixVersions, maxComments := 1, 1, 1, 1
	for _, issue := range issues {
		maxLabels = maxOf(maxLabels, len(parseJSONList(issue.Labels)))
		maxComponents = maxOf(maxComponents, len(parseJSONList(issue.Components)))
		maxFixVersions = maxOf(maxFixVersions, len(parseJSONList(issue.FixVersions)))
		maxComments = maxOf(maxComments, len(comments[issue.Key]))
	}

	headers := make([]string, 0, len(jiraColumns)+maxLabels+maxComponents+maxFixVersions+maxComments)
	for _, col := range jiraColumns {
		headers = append(headers, col.header)
	}
	headers = appendRepeated(headers, "Labels", maxLabels)
	headers = appendRepeated(headers, "Component", maxComponents)
	headers = appendRepeated(headers, "Fix Version", maxFixVersions)
	headers = appendRepeated(headers, "Comment", maxComments)

	path := filepath.Join(e.outputDir, fmt.Sprintf("jira_import%s.csv", fileSuffix(projectKey)))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return nil, err
	}

	for _, issue := range issues {
		row := make([]string, 0, len(headers))
		for _, col := range jiraColumns {
			row = append(row, col.value(issue))
		}
		row = appendPadded(row, parseJSONList(issue.Labels), maxLabels)
		row = appendPadded(row, parseJSONList(issue.Components), maxComponents)
		row = appendPadded(row, parseJSONList(issue.FixVersions), maxFixVersions)
		row = appendPadded(row, commentCells(comments[issue.Key]), maxComments)
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return []string{path}, nil
}

func commentCells(comments []entities.Comment) []string {
	cells := make([]string, 0, len(comments))
	for _, c := range comments {
		cells = append(cells, fmt.Sprintf("%s;%s;%s", c.Created, c.AuthorName, c.Body))
	}
	return cells
}

// appendRepeated appends n copies of header.
func appendRepeated(headers []string, header string, n int) []string {
	for i := 0; i < n; i++ {
		headers = append(headers, header)
	}
	return headers
}

// appendPadded appends values padded with blanks up to width n.
func appendPadded(row, values []string, n int) []string {
	for i := 0; i < n; i++ {
		if i < len(values) {
			row = append(row, values[i])
		} else {
			row = append(row, "")
		}
	}
	return row
}

func maxOf(a, b int) int {
	if a > b {
		return a
	}
	return b
}
