// Package confluence implements a Confluence REST API v2 client with
// cursor-based pagination. The v2 API hands back the next cursor inside the
// _links.next URL rather than as a response field.
package confluence

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mrlokans/atlas-export/internal/atlassian"
)

const (
	v2Path   = "/wiki/api/v2"
	v1Path   = "/wiki/rest/api"
	pageSize = 250
)

// Client interfaces with the Confluence REST API v2, plus the legacy v1
// identity endpoint.
type Client struct {
	api *atlassian.Client
}

// NewClient creates a client for the given Atlassian tenant subdomain.
func NewClient(domain, email, apiToken string) *Client {
	baseURL := fmt.Sprintf("https://%s.atlassian.net", domain)
	return newClient(baseURL, email, apiToken)
}

func newClient(baseURL, email, apiToken string) *Client {
	return &Client{api: atlassian.NewClient(baseURL, email, apiToken)}
}

// UserInfo identifies the authenticated user.
type UserInfo struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// CurrentUser validates the credentials via the legacy v1 endpoint and
// returns the current user.
func (c *Client) CurrentUser(ctx context.Context) (*UserInfo, error) {
	var user UserInfo
	if err := c.api.GetJSON(ctx, v1Path+"/user/current", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type paginatedResponse struct {
	Results []map[string]any `json:"results"`
	Links   struct {
		Next string `json:"next"`
	} `json:"_links"`
}

// paginate drains a cursor-paginated v2 endpoint. Absence of a next link or
// of a cursor parameter in it terminates pagination.
func (c *Client) paginate(ctx context.Context, path string, params url.Values) ([]map[string]any, error) {
	query := url.Values{"limit": {strconv.Itoa(pageSize)}}
	for key, values := range params {
		query[key] = values
	}

	var results []map[string]any
	for {
		var page paginatedResponse
		if err := c.api.GetJSON(ctx, path, query, &page); err != nil {
			return nil, err
		}
		results = append(results, page.Results...)

		cursor := nextCursor(page.Links.Next)
		if cursor == "" {
			break
		}
		query.Set("cursor", cursor)
	}
	return results, nil
}

// nextCursor extracts the cursor parameter from a _links.next URL.
func nextCursor(next string) string {
	if next == "" {
		return ""
	}
	parsed, err := url.Parse(next)
	if err != nil {
		return ""
	}
	return parsed.Query().Get("cursor")
}

// Spaces fetches all accessible spaces.
func (c *Client) Spaces(ctx context.Context) ([]map[string]any, error) {
	return c.paginate(ctx, v2Path+"/spaces", nil)
}

// Pages fetches all pages of a space with storage-format bodies.
func (c *Client) Pages(ctx context.Context, spaceID string) ([]map[string]any, error) {
	path := fmt.Sprintf("%s/spaces/%s/pages", v2Path, url.PathEscape(spaceID))
	return c.paginate(ctx, path, url.Values{"body-format": {"storage"}})
}

// Page fetches a single page with its storage-format body.
func (c *Client) Page(ctx context.Context, pageID string) (map[string]any, error) {
	var page map[string]any
	path := fmt.Sprintf("%s/pages/%s", v2Path, url.PathEscape(pageID))
	if err := c.api.GetJSON(ctx, path, url.Values{"body-format": {"storage"}}, &page); err != nil {
		return nil, err
	}
	return page, nil
}

// FooterComments fetches all footer comments of a page.
func (c *Client) FooterComments(ctx context.Context, pageID string) ([]map[string]any, error) {
	path := fmt.Sprintf("%s/pages/%s/footer-comments", v2Path, url.PathEscape(pageID))
	return c.paginate(ctx, path, url.Values{"body-format": {"storage"}})
}

// Labels fetches all labels of a page.
func (c *Client) Labels(ctx context.Context, pageID string) ([]map[string]any, error) {
	path := fmt.Sprintf("%s/pages/%s/labels", v2Path, url.PathEscape(pageID))
	return c.paginate(ctx, path, nil)
}
