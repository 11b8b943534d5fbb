package ops

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jiractl/internal/jira"
	"github.com/nhle/jiractl/tests/testutil"
)

const bugTemplate = `{"fields":{"project":{"key":"PRJ"},"summary":"from template","issuetype":{"name":"Bug"}}}`

func writeTemplate(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(bugTemplate), 0o644))
	return path
}

func TestCreateIssue_SendsTemplateVerbatim(t *testing.T) {
	path := writeTemplate(t, t.TempDir(), "bug.json")
	ft := &testutil.FakeTransport{Responses: []*jira.Response{
		testutil.Respond(http.StatusCreated, `{"id":"10001","key":"PRJ-42","self":"https://jira.example.com/rest/api/2/issue/10001"}`),
	}}

	res, err := NewClient(ft).CreateIssue(interactive(), CreateIssueParams{Credentials: cred, Template: path})
	require.NoError(t, err)
	require.True(t, res.Success)

	require.Len(t, ft.Requests, 1)
	req := ft.Requests[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/rest/api/2/issue", req.Path)
	assert.Equal(t, bugTemplate, req.Body)
	assert.Equal(t, "application/json", req.Headers["Content-type"])

	key, _ := res.Record.Get("key")
	assert.Equal(t, "PRJ-42", key)
	assert.Equal(t, "Created PRJ-42", res.Output)
}

func TestCreateIssue_TemplateDirLookup(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "bug.json")

	c := NewClient(&testutil.FakeTransport{}, WithTemplateDir(dir))
	for _, name := range []string{"bug", "bug.json"} {
		req, err := c.CreateIssueRequest(CreateIssueParams{Credentials: cred, Template: name})
		require.NoError(t, err, name)
		assert.Equal(t, bugTemplate, req.Body)
	}
}

func TestCreateIssue_MissingTemplateSendsNothing(t *testing.T) {
	ft := &testutil.FakeTransport{}

	res, err := NewClient(ft, WithTemplateDir(t.TempDir())).
		CreateIssue(context.Background(), CreateIssueParams{Credentials: cred, Template: "nope"})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	assert.Empty(t, ft.Requests)
}

func TestCreateIssue_TemplateUnderAFile(t *testing.T) {
	file := writeTemplate(t, t.TempDir(), "bug.json")
	ft := &testutil.FakeTransport{}

	res, err := NewClient(ft).CreateIssue(context.Background(),
		CreateIssueParams{Credentials: cred, Template: filepath.Join(file, "x")})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	assert.Empty(t, ft.Requests)
}

func TestCreateIssue_Rejected(t *testing.T) {
	path := writeTemplate(t, t.TempDir(), "bug.json")
	ft := &testutil.FakeTransport{Responses: []*jira.Response{
		testutil.Respond(http.StatusBadRequest, `{"errors":{"summary":"required"}}`),
	}}

	res, err := NewClient(ft).CreateIssue(interactive(), CreateIssueParams{Credentials: cred, Template: path})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, []string{"Unable to create issue from template " + path}, res.Response.Errors)
}

func TestCreateMeta(t *testing.T) {
	ft := &testutil.FakeTransport{Responses: []*jira.Response{
		testutil.Respond(http.StatusOK, `{"projects":[
			{"key":"PRJ","name":"Project","issuetypes":[{"name":"Bug"},{"name":"Task"}]},
			{"key":"OPS","name":"Operations","issuetypes":[{"name":"Incident"}]}]}`),
	}}

	res, err := NewClient(ft).CreateMeta(interactive(), CreateMetaParams{Credentials: cred})
	require.NoError(t, err)
	require.True(t, res.Success)

	assert.Equal(t, Record{
		{Key: "PRJ", Value: "Bug,Task"},
		{Key: "OPS", Value: "Incident"},
	}, res.Record)
	assert.Equal(t, "PRJ : Bug, Task\nOPS : Incident\n", res.Output)

	req := ft.Requests[0]
	assert.Equal(t, "/rest/api/2/issue/createmeta", req.Path)
	assert.Equal(t, []jira.QueryParam{{Key: "expand", Value: "projects.issuetypes"}}, req.Query)
}

func TestCreateMeta_ProjectFilter(t *testing.T) {
	req := CreateMetaParams{Credentials: cred, Project: "PRJ"}.Request()
	assert.Equal(t, "projectKeys=PRJ&expand=projects.issuetypes", req.EncodeQuery())
}

func TestServerInfo(t *testing.T) {
	ft := &testutil.FakeTransport{Responses: []*jira.Response{
		testutil.Respond(http.StatusOK, `{"baseUrl":"https://jira.example.com","version":"9.12.0","buildNumber":9120000,"serverTitle":"Example Jira","deploymentType":"Server"}`),
	}}

	res, err := NewClient(ft).ServerInfo(interactive())
	require.NoError(t, err)
	require.True(t, res.Success)

	assert.Nil(t, ft.Requests[0].Auth)
	assert.Equal(t, "/rest/api/2/serverInfo", ft.Requests[0].Path)
	assert.Equal(t, "Example Jira 9.12.0 (https://jira.example.com)", res.Output)
	build, _ := res.Record.Get("buildNumber")
	assert.Equal(t, "9120000", build)
}

func TestServerInfo_Failure(t *testing.T) {
	ft := &testutil.FakeTransport{Responses: []*jira.Response{testutil.Respond(http.StatusServiceUnavailable, "")}}

	res, err := NewClient(ft).ServerInfo(interactive())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.EqualError(t, res.Err(), "Unable to get server info")
}
