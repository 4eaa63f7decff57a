package services

import (
	"context"

	"github.com/mrlokans/atlas-export/internal/confluence"
	"github.com/mrlokans/atlas-export/internal/jira"
)

// JiraAPI is the subset of the JIRA client the export service depends on.
type JiraAPI interface {
	Myself(ctx context.Context) (*jira.UserInfo, error)
	Projects(ctx context.Context) ([]map[string]any, error)
	SearchIssues(ctx context.Context, projectKey string) (int, []map[string]any, error)
	IssueComments(ctx context.Context, issueKey string) ([]map[string]any, error)
	Fields(ctx context.Context) ([]map[string]any, error)
}

// ConfluenceAPI is the subset of the Confluence client the export service
// depends on.
type ConfluenceAPI interface {
	CurrentUser(ctx context.Context) (*confluence.UserInfo, error)
	Spaces(ctx context.Context) ([]map[string]any, error)
	Pages(ctx context.Context, spaceID string) ([]map[string]any, error)
	FooterComments(ctx context.Context, pageID string) ([]map[string]any, error)
	Labels(ctx context.Context, pageID string) ([]map[string]any, error)
}

// Compile-time interface checks
var (
	_ JiraAPI       = (*jira.Client)(nil)
	_ ConfluenceAPI = (*confluence.Client)(nil)
)
