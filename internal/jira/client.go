// Package jira implements a JIRA REST API v3 client. All list operations
// drain pagination to exhaustion before returning; callers never observe
// partial pages.
package jira

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/mrlokans/atlas-export/internal/atlassian"
)

const (
	basePath = "/rest/api/3"
	pageSize = 100

	searchFields = "*all"
	searchExpand = "renderedFields,names"
)

// Client interfaces with the JIRA REST API v3.
type Client struct {
	api *atlassian.Client
}

// NewClient creates a client for the given Atlassian tenant subdomain.
func NewClient(domain, email, apiToken string) *Client {
	baseURL := fmt.Sprintf("https://%s.atlassian.net%s", domain, basePath)
	return newClient(baseURL, email, apiToken)
}

func newClient(baseURL, email, apiToken string) *Client {
	return &Client{api: atlassian.NewClient(baseURL, email, apiToken)}
}

// UserInfo identifies the authenticated user.
type UserInfo struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
	AccountType  string `json:"accountType"`
}

// Myself validates the credentials and returns the current user.
func (c *Client) Myself(ctx context.Context) (*UserInfo, error) {
	var user UserInfo
	if err := c.api.GetJSON(ctx, "/myself", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type projectSearchResponse struct {
	Values []map[string]any `json:"values"`
	IsLast bool             `json:"isLast"`
	Total  int              `json:"total"`
}

// Projects fetches all accessible projects, paginating by offset until the
// server reports the last page.
func (c *Client) Projects(ctx context.Context) ([]map[string]any, error) {
	var projects []map[string]any
	startAt := 0
	for {
		query := url.Values{
			"startAt":    {strconv.Itoa(startAt)},
			"maxResults": {strconv.Itoa(pageSize)},
		}
		var page projectSearchResponse
		if err := c.api.GetJSON(ctx, "/project/search", query, &page); err != nil {
			return nil, err
		}
		projects = append(projects, page.Values...)
		if page.IsLast || len(page.Values) == 0 {
			break
		}
		startAt += pageSize
	}
	return projects, nil
}

type tokenSearchResponse struct {
	Total         int              `json:"total"`
	Issues        []map[string]any `json:"issues"`
	NextPageToken string           `json:"nextPageToken"`
}

type classicSearchResponse struct {
	Total  int              `json:"total"`
	Issues []map[string]any `json:"issues"`
}

// SearchIssues fetches all issues of a project ordered by key, returning
// the server-reported total alongside the issues.
//
// It first tries the newer token-paginated /search/jql endpoint. If that
// endpoint responds 404 the client permanently falls back to the classic
// offset-paginated /search endpoint for the remainder of the call; any
// other error propagates.
func (c *Client) SearchIssues(ctx context.Context, projectKey string) (int, []map[string]any, error) {
	jql := fmt.Sprintf("project = %s ORDER BY key ASC", projectKey)

	total, issues, err := c.searchByToken(ctx, jql)
	if err == nil {
		return total, issues, nil
	}
	if !atlassian.IsNotFound(err) {
		return 0, nil, err
	}
	log.Printf("jira: /search/jql unavailable, falling back to classic /search")
	return c.searchByOffset(ctx, jql)
}

func (c *Client) searchByToken(ctx context.Context, jql string) (int, []map[string]any, error) {
	var issues []map[string]any
	total := 0
	token := ""
	for first := true; first || token != ""; first = false {
		query := url.Values{
			"jql":        {jql},
			"fields":     {searchFields},
			"maxResults": {strconv.Itoa(pageSize)},
		}
		if token != "" {
			query.Set("nextPageToken", token)
		}
		var page tokenSearchResponse
		if err := c.api.GetJSON(ctx, "/search/jql", query, &page); err != nil {
			return 0, nil, err
		}
		if total == 0 {
			total = page.Total
		}
		issues = append(issues, page.Issues...)
		token = page.NextPageToken
	}
	return total, issues, nil
}

func (c *Client) searchByOffset(ctx context.Context, jql string) (int, []map[string]any, error) {
	var issues []map[string]any
	total := 0
	startAt := 0
	for {
		query := url.Values{
			"jql":        {jql},
			"fields":     {searchFields},
			"expand":     {searchExpand},
			"startAt":    {strconv.Itoa(startAt)},
			"maxResults": {strconv.Itoa(pageSize)},
		}
		var page classicSearchResponse
		if err := c.api.GetJSON(ctx, "/search", query, &page); err != nil {
			return 0, nil, err
		}
		if total == 0 {
			total = page.Total
		}
		if len(page.Issues) == 0 {
			break
		}
		issues = append(issues, page.Issues...)
		startAt += len(page.Issues)
		if startAt >= total {
			break
		}
	}
	return total, issues, nil
}

type commentsResponse struct {
	Comments []map[string]any `json:"comments"`
	Total    int              `json:"total"`
}

// IssueComments fetches all comments of an issue.
func (c *Client) IssueComments(ctx context.Context, issueKey string) ([]map[string]any, error) {
	var comments []map[string]any
	startAt := 0
	for {
		query := url.Values{
			"startAt":    {strconv.Itoa(startAt)},
			"maxResults": {strconv.Itoa(pageSize)},
		}
		var page commentsResponse
		path := fmt.Sprintf("/issue/%s/comment", url.PathEscape(issueKey))
		if err := c.api.GetJSON(ctx, path, query, &page); err != nil {
			return nil, err
		}
		comments = append(comments, page.Comments...)
		if startAt+pageSize >= page.Total {
			break
		}
		startAt += pageSize
	}
	return comments, nil
}

// Fields fetches the field-definition catalog used to resolve custom-field
// names on issues.
func (c *Client) Fields(ctx context.Context) ([]map[string]any, error) {
	var fields []map[string]any
	if err := c.api.GetJSON(ctx, "/field", nil, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
