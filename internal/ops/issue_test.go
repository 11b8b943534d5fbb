package ops

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jiractl/internal/jira"
	"github.com/nhle/jiractl/tests/testutil"
)

const issueBody = `{
  "key": "PRJ-7",
  "fields": {
    "summary": "crash on save",
    "issuetype": {"name": "Bug"},
    "status": {"name": "Open"},
    "priority": {"name": "Major"},
    "created": "2024-01-02T10:00:00.000+0000",
    "updated": "2024-01-03T11:00:00.000+0000",
    "statuscategorychangedate": "2024-01-02T10:05:00.000+0000",
    "labels": ["a", "b"],
    "components": [{"name": "core"}, {"name": "ui"}]
  }
}`

func TestGetIssue_Request(t *testing.T) {
	req := GetIssueParams{Credentials: cred, Key: "PRJ-7"}.Request()

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/rest/api/2/issue/PRJ-7", req.Path)
	assert.Equal(t, []jira.QueryParam{{
		Key:   "fields",
		Value: "issuetype,created,priority,status,summary,updated,statuscategorychangedate,labels,components",
	}}, req.Query)
	assert.Equal(t, &jira.BasicAuth{Username: "u", Password: "p"}, req.Auth)
}

func TestGetIssue_Record(t *testing.T) {
	ft := &testutil.FakeTransport{Responses: []*jira.Response{testutil.Respond(http.StatusOK, issueBody)}}

	res, err := NewClient(ft).GetIssue(interactive(), GetIssueParams{Credentials: cred, Key: "PRJ-7"})
	require.NoError(t, err)
	require.True(t, res.Success)

	assert.Equal(t, StateGetIssue, res.StateKey)
	assert.Equal(t, Record{
		{Key: "type", Value: "Bug"},
		{Key: "status", Value: "Open"},
		{Key: "priority", Value: "Major"},
		{Key: "summary", Value: "crash on save"},
		{Key: "created", Value: "2024-01-02T10:00:00.000+0000"},
		{Key: "updated", Value: "2024-01-03T11:00:00.000+0000"},
		{Key: "statuscategorychangedate", Value: "2024-01-02T10:05:00.000+0000"},
		{Key: "labels", Value: "a,b"},
		{Key: "components", Value: "core,ui"},
	}, res.Record)

	assert.Contains(t, res.Output, "PRJ-7 : crash on save\n")
	assert.Contains(t, res.Output, "priority")
	assert.Contains(t, res.Output, ": Major\n")
}

func TestGetIssue_FieldEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
		want  string
	}{
		{
			name:  "null priority",
			body:  `{"key":"PRJ-1","fields":{"summary":"s","priority":null}}`,
			field: "priority",
			want:  "none",
		},
		{
			name:  "absent priority",
			body:  `{"key":"PRJ-1","fields":{"summary":"s"}}`,
			field: "priority",
			want:  "none",
		},
		{
			name:  "no labels",
			body:  `{"key":"PRJ-1","fields":{"summary":"s","labels":[]}}`,
			field: "labels",
			want:  "",
		},
		{
			name:  "single component",
			body:  `{"key":"PRJ-1","fields":{"summary":"s","components":[{"name":"api","id":"10"}]}}`,
			field: "components",
			want:  "api",
		},
		{
			name:  "null status",
			body:  `{"key":"PRJ-1","fields":{"summary":"s","status":null}}`,
			field: "status",
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &testutil.FakeTransport{Responses: []*jira.Response{testutil.Respond(http.StatusOK, tt.body)}}

			res, err := NewClient(ft).GetIssue(context.Background(), GetIssueParams{Credentials: cred, Key: "PRJ-1"})
			require.NoError(t, err)
			require.True(t, res.Success)

			got, ok := res.Record.Get(tt.field)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetIssue_RequiresStatus200(t *testing.T) {
	for _, status := range []int{http.StatusNoContent, http.StatusNotFound, http.StatusInternalServerError} {
		ft := &testutil.FakeTransport{Responses: []*jira.Response{testutil.Respond(status, issueBody)}}

		res, err := NewClient(ft).GetIssue(interactive(), GetIssueParams{Credentials: cred, Key: "PRJ-7"})
		require.NoError(t, err)
		assert.False(t, res.Success, "status %d", status)
		assert.Empty(t, res.Output)
		assert.Equal(t, []string{"Unable to get issue PRJ-7"}, res.Response.Errors)
		assert.EqualError(t, res.Err(), "Unable to get issue PRJ-7")
	}
}
