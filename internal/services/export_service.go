// Package services orchestrates export runs: fetch from the Atlassian APIs,
// normalize, store, and later render the store into export files. It is the
// surface a front-end talks to; every operation reports either a success
// payload or an error, never an uncaught fault.
package services

import (
	"context"
	"fmt"
	"log"

	"github.com/mrlokans/atlas-export/internal/config"
	"github.com/mrlokans/atlas-export/internal/confluence"
	"github.com/mrlokans/atlas-export/internal/database"
	"github.com/mrlokans/atlas-export/internal/exporters"
	"github.com/mrlokans/atlas-export/internal/jira"
	"github.com/mrlokans/atlas-export/internal/utils"
)

// Format identifies one of the supported export renderers.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJiraCSV Format = "jira_csv"
	FormatJSON    Format = "json"
)

// ProgressFunc receives human-readable progress messages during an export
// run. It may be nil.
type ProgressFunc func(message string)

// ExportCounts summarizes what an export run stored. Skipped items are not
// counted.
type ExportCounts struct {
	Projects int `json:"projects"`
	Issues   int `json:"issues"`
	Comments int `json:"comments"`
	Spaces   int `json:"spaces"`
	Pages    int `json:"pages"`
}

// ProjectInfo is a front-end view of a fetched JIRA project.
type ProjectInfo struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
	Type string `json:"type"`
	Lead string `json:"lead"`
}

// SpaceInfo is a front-end view of a fetched Confluence space.
type SpaceInfo struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// ExportService drives export runs against a single store. Runs are
// strictly sequential; cancellation is cooperative, checked between
// projects, issues and pages, and leaves already-written rows intact.
type ExportService struct {
	cfg        *config.Config
	db         *database.Database
	jira       JiraAPI
	confluence ConfluenceAPI
}

// NewExportService builds a service with clients derived from the
// configured credentials.
func NewExportService(cfg *config.Config, db *database.Database) *ExportService {
	return &ExportService{
		cfg:        cfg,
		db:         db,
		jira:       jira.NewClient(cfg.Atlassian.Domain, cfg.Atlassian.Email, cfg.Atlassian.APIToken),
		confluence: confluence.NewClient(cfg.Atlassian.Domain, cfg.Atlassian.Email, cfg.Atlassian.APIToken),
	}
}

// newExportServiceWithClients is used by tests to substitute API fakes.
func newExportServiceWithClients(cfg *config.Config, db *database.Database, jiraAPI JiraAPI, confluenceAPI ConfluenceAPI) *ExportService {
	return &ExportService{cfg: cfg, db: db, jira: jiraAPI, confluence: confluenceAPI}
}

// ValidateJiraCredentials checks the configured credentials against the
// JIRA identity endpoint.
func (s *ExportService) ValidateJiraCredentials(ctx context.Context) (*jira.UserInfo, error) {
	return s.jira.Myself(ctx)
}

// ValidateConfluenceCredentials checks the configured credentials against
// the legacy Confluence identity endpoint.
func (s *ExportService) ValidateConfluenceCredentials(ctx context.Context) (*confluence.UserInfo, error) {
	return s.confluence.CurrentUser(ctx)
}

// ListProjects fetches all accessible JIRA projects.
func (s *ExportService) ListProjects(ctx context.Context) ([]ProjectInfo, error) {
	projects, err := s.jira.Projects(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]ProjectInfo, 0, len(projects))
	for _, p := range projects {
		infos = append(infos, ProjectInfo{
			ID:   utils.GetString(p, "id"),
			Key:  utils.GetString(p, "key"),
			Name: utils.GetString(p, "name"),
			Type: utils.GetString(p, "projectTypeKey"),
			Lead: utils.DigString(p, "lead", "displayName"),
		})
	}
	return infos, nil
}

// ListSpaces fetches all accessible Confluence spaces.
func (s *ExportService) ListSpaces(ctx context.Context) ([]SpaceInfo, error) {
	spaces, err := s.confluence.Spaces(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]SpaceInfo, 0, len(spaces))
	for _, sp := range spaces {
		infos = append(infos, SpaceInfo{
			ID:     utils.GetString(sp, "id"),
			Key:    utils.GetString(sp, "key"),
			Name:   utils.GetString(sp, "name"),
			Type:   utils.GetString(sp, "type"),
			Status: utils.GetString(sp, "status"),
		})
	}
	return infos, nil
}

// ExportProjects fetches and stores the selected projects with their
// issues, links and comments. An empty selection exports every accessible
// project. Individual item failures are logged and skipped; the run
// continues with the next item.
func (s *ExportService) ExportProjects(ctx context.Context, keys []string, progress ProgressFunc) (*ExportCounts, error) {
	report := reporter(progress)
	counts := &ExportCounts{}

	// The field catalog is best-effort: without it issues still store,
	// just with unresolved custom-field names.
	report("Fetching field definitions...")
	fields, err := s.jira.Fields(ctx)
	if err != nil {
		log.Printf("services: could not fetch field definitions: %v", err)
	} else if err := s.db.UpsertFieldDefinitions(fields); err != nil {
		return nil, fmt.Errorf("failed to store field definitions: %w", err)
	}
	fieldMap, err := s.db.CustomFieldMap()
	if err != nil {
		log.Printf("services: could not load custom field map: %v", err)
		fieldMap = nil
	}

	projects, err := s.jira.Projects(ctx)
	if err != nil {
		return nil, err
	}
	projects = filterByKey(projects, keys)

	for _, project := range projects {
		if err := ctx.Err(); err != nil {
			return counts, err
		}
		projectKey := utils.GetString(project, "key")

		if err := s.db.UpsertProject(project); err != nil {
			return counts, fmt.Errorf("failed to store project %s: %w", projectKey, err)
		}
		report(fmt.Sprintf("Exporting %s: %s", projectKey, utils.GetString(project, "name")))

		total, issues, err := s.jira.SearchIssues(ctx, projectKey)
		if err != nil {
			log.Printf("services: failed to fetch issues for %s: %v", projectKey, err)
			continue
		}
		report(fmt.Sprintf("  Found %d issues, fetched %d", total, len(issues)))

		for _, issue := range issues {
			if err := ctx.Err(); err != nil {
				return counts, err
			}
			if s.storeIssue(ctx, issue, fieldMap, counts) {
				counts.Issues++
			}
		}
		counts.Projects++
	}

	return counts, nil
}

// storeIssue upserts one issue with its links and comments, reporting
// whether the issue itself stored successfully.
func (s *ExportService) storeIssue(ctx context.Context, issue map[string]any, fieldMap map[string]string, counts *ExportCounts) bool {
	issueKey := utils.GetString(issue, "key")

	if err := s.db.UpsertIssue(issue, fieldMap, s.cfg.Jira.StoryPointsField); err != nil {
		log.Printf("services: failed to process issue %s: %v", issueKey, err)
		return false
	}

	fields := utils.GetMap(issue, "fields")
	links := mapItems(utils.GetSlice(fields, "issuelinks"))
	if len(links) > 0 {
		if err := s.db.ReplaceIssueLinks(issueKey, links); err != nil {
			log.Printf("services: failed to store links for %s: %v", issueKey, err)
		}
	}

	comments := mapItems(utils.GetSlice(utils.GetMap(fields, "comment"), "comments"))
	if len(comments) == 0 {
		fetched, err := s.jira.IssueComments(ctx, issueKey)
		if err != nil {
			log.Printf("services: failed to fetch comments for %s: %v", issueKey, err)
		} else {
			comments = fetched
		}
	}
	for _, comment := range comments {
		if err := s.db.UpsertComment(issueKey, comment); err != nil {
			log.Printf("services: failed to store comment on %s: %v", issueKey, err)
			continue
		}
		counts.Comments++
	}

	return true
}

// ExportSpaces fetches and stores the selected Confluence spaces with
// their pages, labels and footer comments. An empty selection exports
// every accessible space.
func (s *ExportService) ExportSpaces(ctx context.Context, keys []string, progress ProgressFunc) (*ExportCounts, error) {
	report := reporter(progress)
	counts := &ExportCounts{}

	spaces, err := s.confluence.Spaces(ctx)
	if err != nil {
		return nil, err
	}
	spaces = filterByKey(spaces, keys)

	for _, space := range spaces {
		if err := ctx.Err(); err != nil {
			return counts, err
		}
		spaceKey := utils.GetString(space, "key")
		spaceID := utils.GetString(space, "id")

		if err := s.db.UpsertSpace(space); err != nil {
			return counts, fmt.Errorf("failed to store space %s: %w", spaceKey, err)
		}
		report(fmt.Sprintf("Exporting space %s: %s", spaceKey, utils.GetString(space, "name")))

		pages, err := s.confluence.Pages(ctx, spaceID)
		if err != nil {
			log.Printf("services: failed to fetch pages for %s: %v", spaceKey, err)
			continue
		}
		report(fmt.Sprintf("  Found %d pages", len(pages)))

		for _, page := range pages {
			if err := ctx.Err(); err != nil {
				return counts, err
			}
			if s.storePage(ctx, page, counts) {
				counts.Pages++
			}
		}
		counts.Spaces++
	}

	return counts, nil
}

func (s *ExportService) storePage(ctx context.Context, page map[string]any, counts *ExportCounts) bool {
	pageID := utils.GetString(page, "id")

	labels, err := s.confluence.Labels(ctx, pageID)
	if err != nil {
		log.Printf("services: failed to fetch labels for page %s: %v", pageID, err)
		labels = nil
	}
	if err := s.db.UpsertPage(page, labels); err != nil {
		log.Printf("services: failed to process page %s: %v", pageID, err)
		return false
	}

	comments, err := s.confluence.FooterComments(ctx, pageID)
	if err != nil {
		log.Printf("services: failed to fetch comments for page %s: %v", pageID, err)
		return true
	}
	for _, comment := range comments {
		if err := s.db.UpsertPageComment(pageID, comment); err != nil {
			log.Printf("services: failed to store comment on page %s: %v", pageID, err)
			continue
		}
		counts.Comments++
	}
	return true
}

// ListExportFormats enumerates the supported render formats.
func (s *ExportService) ListExportFormats() []Format {
	return []Format{FormatCSV, FormatJiraCSV, FormatJSON}
}

// RenderExport reads the store fresh and renders it into the given format,
// optionally scoped to one project. An empty file list (with nil error)
// means there were no issues to export.
func (s *ExportService) RenderExport(format Format, projectKey string) ([]string, error) {
	var exporter exporters.IssueExporter
	switch format {
	case FormatCSV:
		exporter = exporters.NewCSVExporter(s.db, s.cfg.Export.Dir)
	case FormatJiraCSV:
		exporter = exporters.NewJiraCSVExporter(s.db, s.cfg.Export.Dir)
	case FormatJSON:
		exporter = exporters.NewJSONExporter(s.db, s.cfg.Export.Dir)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
	return exporter.Export(projectKey)
}

// Stats returns row counts for both subsystems.
func (s *ExportService) Stats() (*database.Stats, *database.ConfluenceStats, error) {
	jiraStats, err := s.db.Stats()
	if err != nil {
		return nil, nil, err
	}
	confluenceStats, err := s.db.ConfluenceStats()
	if err != nil {
		return nil, nil, err
	}
	return jiraStats, confluenceStats, nil
}

func reporter(progress ProgressFunc) ProgressFunc {
	if progress == nil {
		return func(string) {}
	}
	return progress
}

// filterByKey keeps the payloads whose "key" is in keys; an empty selection
// keeps everything.
func filterByKey(items []map[string]any, keys []string) []map[string]any {
	if len(keys) == 0 {
		return items
	}
	wanted := make(map[string]bool, len(keys))
	for _, key := range keys {
		wanted[key] = true
	}
	selected := make([]map[string]any, 0, len(keys))
	for _, item := range items {
		if wanted[utils.GetString(item, "key")] {
			selected = append(selected, item)
		}
	}
	return selected
}

// mapItems filters a decoded JSON array down to its object elements.
func mapItems(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
