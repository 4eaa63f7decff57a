package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/atlas-export/internal/atlassian"
)

func issuePage(keys ...string) []map[string]any {
	issues := make([]map[string]any, 0, len(keys))
	for _, key := range keys {
		issues = append(issues, map[string]any{"key": key, "fields": map[string]any{}})
	}
	return issues
}

func issueKeys(issues []map[string]any) []string {
	keys := make([]string, 0, len(issues))
	for _, issue := range issues {
		keys = append(keys, issue["key"].(string))
	}
	return keys
}

func TestMyself(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/myself", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"accountId":    "abc123",
			"displayName":  "Alice",
			"emailAddress": "alice@example.com",
			"accountType":  "atlassian",
		})
	}))
	defer server.Close()

	client := newClient(server.URL, "user@example.com", "token")
	user, err := client.Myself(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.DisplayName)
	assert.Equal(t, "abc123", user.AccountID)
}

func TestProjectsPaginatesByOffset(t *testing.T) {
	var offsets []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/project/search", r.URL.Path)
		offsets = append(offsets, r.URL.Query().Get("startAt"))

		page := map[string]any{"isLast": false, "total": 3, "values": []map[string]any{
			{"key": "AAA"}, {"key": "BBB"},
		}}
		if r.URL.Query().Get("startAt") != "0" {
			page = map[string]any{"isLast": true, "total": 3, "values": []map[string]any{
				{"key": "CCC"},
			}}
		}
		json.NewEncoder(w).Encode(page)
	}))
	defer server.Close()

	client := newClient(server.URL, "user@example.com", "token")
	projects, err := client.Projects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, []string{"0", "100"}, offsets)
	assert.Equal(t, "CCC", projects[2]["key"])
}

func TestSearchIssuesDrainsTokenPagination(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/jql", r.URL.Path)
		assert.Equal(t, "project = DEMO ORDER BY key ASC", r.URL.Query().Get("jql"))
		requests++

		switch r.URL.Query().Get("nextPageToken") {
		case "":
			json.NewEncoder(w).Encode(map[string]any{
				"total": 6, "issues": issuePage("DEMO-1", "DEMO-2"), "nextPageToken": "t2",
			})
		case "t2":
			json.NewEncoder(w).Encode(map[string]any{
				"total": 6, "issues": issuePage("DEMO-3", "DEMO-4"), "nextPageToken": "t3",
			})
		case "t3":
			json.NewEncoder(w).Encode(map[string]any{
				"total": 6, "issues": issuePage("DEMO-5", "DEMO-6"),
			})
		default:
			t.Errorf("unexpected token %q", r.URL.Query().Get("nextPageToken"))
		}
	}))
	defer server.Close()

	client := newClient(server.URL, "user@example.com", "token")
	total, issues, err := client.SearchIssues(context.Background(), "DEMO")
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	assert.Equal(t, 3, requests)
	assert.Equal(t, []string{"DEMO-1", "DEMO-2", "DEMO-3", "DEMO-4", "DEMO-5", "DEMO-6"}, issueKeys(issues))
}

func TestSearchIssuesFallsBackToClassicSearch(t *testing.T) {
	var classicOffsets []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/jql":
			w.WriteHeader(http.StatusNotFound)
		case "/search":
			classicOffsets = append(classicOffsets, r.URL.Query().Get("startAt"))
			assert.Equal(t, "renderedFields,names", r.URL.Query().Get("expand"))
			if r.URL.Query().Get("startAt") == "0" {
				json.NewEncoder(w).Encode(map[string]any{"total": 3, "issues": issuePage("OLD-1", "OLD-2")})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"total": 3, "issues": issuePage("OLD-3")})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newClient(server.URL, "user@example.com", "token")
	total, issues, err := client.SearchIssues(context.Background(), "OLD")
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"0", "2"}, classicOffsets)
	assert.Equal(t, []string{"OLD-1", "OLD-2", "OLD-3"}, issueKeys(issues))
}

func TestSearchIssuesPropagatesNonNotFoundErrors(t *testing.T) {
	classicCalled := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search" {
			classicCalled = true
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newClient(server.URL, "user@example.com", "token")
	_, _, err := client.SearchIssues(context.Background(), "DEMO")

	var reqErr *atlassian.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
	assert.False(t, classicCalled)
}

func TestIssueComments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/issue/DEMO-7/comment", r.URL.Path)
		assert.Equal(t, "0", r.URL.Query().Get("startAt"))
		json.NewEncoder(w).Encode(map[string]any{
			"total": 2,
			"comments": []map[string]any{
				{"id": "10"}, {"id": "11"},
			},
		})
	}))
	defer server.Close()

	client := newClient(server.URL, "user@example.com", "token")
	comments, err := client.IssueComments(context.Background(), "DEMO-7")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "10", comments[0]["id"])
}

func TestFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/field", r.URL.Path)
		fmt.Fprint(w, `[{"id":"customfield_10016","name":"Story Points","custom":true}]`)
	}))
	defer server.Close()

	client := newClient(server.URL, "user@example.com", "token")
	fields, err := client.Fields(context.Background())
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "Story Points", fields[0]["name"])
}
