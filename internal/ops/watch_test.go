package ops

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jiractl/internal/jira"
	"github.com/nhle/jiractl/tests/testutil"
)

func TestAddMyWatch_Request(t *testing.T) {
	req := AddMyWatchParams{Credentials: cred, Key: "PRJ-1"}.Request()

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/rest/api/2/issue/PRJ-1/watchers", req.Path)
	assert.Equal(t, `"u"`, req.Body)
	assert.Equal(t, map[string]string{"Content-type": "application/json"}, req.Headers)
	assert.Empty(t, req.Query)
}

func TestAddMyWatch_Success(t *testing.T) {
	ft := &testutil.FakeTransport{Responses: []*jira.Response{testutil.Respond(http.StatusNoContent, "")}}

	res, err := NewClient(ft).AddMyWatch(interactive(), AddMyWatchParams{Credentials: cred, Key: "PRJ-1"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Added u as a watcher to PRJ-1", res.Output)
	assert.Empty(t, res.Response.Errors)
}

func TestAddMyWatch_OnlyNoContentSucceeds(t *testing.T) {
	// 200 is still a failure: the watchers endpoint answers 204.
	for _, status := range []int{http.StatusOK, http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound} {
		ft := &testutil.FakeTransport{Responses: []*jira.Response{testutil.Respond(status, "")}}

		res, err := NewClient(ft).AddMyWatch(interactive(), AddMyWatchParams{Credentials: cred, Key: "PRJ-1"})
		require.NoError(t, err)
		assert.False(t, res.Success, "status %d", status)
		assert.Empty(t, res.Output)
		require.Len(t, res.Response.Errors, 1)
		assert.Contains(t, res.Response.Errors[0], "u")
		assert.Contains(t, res.Response.Errors[0], "PRJ-1")
	}
}

const threeUnwatched = `{"issues":[
  {"key":"PRJ-1","fields":{"summary":"one"}},
  {"key":"PRJ-2","fields":{"summary":"two"}},
  {"key":"PRJ-3","fields":{"summary":"three"}}]}`

func TestWatchCategory_WatchesEveryIssue(t *testing.T) {
	ft := &testutil.FakeTransport{Responses: []*jira.Response{
		testutil.Respond(http.StatusOK, threeUnwatched),
		testutil.Respond(http.StatusNoContent, ""),
		testutil.Respond(http.StatusNoContent, ""),
		testutil.Respond(http.StatusNoContent, ""),
	}}

	res, err := NewClient(ft).WatchCategory(interactive(), WatchCategoryParams{Credentials: cred, Project: "PRJ"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Added 3 issues to watch in PRJ", res.Output)
	assert.Equal(t, []string{"PRJ-1", "PRJ-2", "PRJ-3"}, res.Record.Keys())

	require.Len(t, ft.Requests, 4)
	assert.Equal(t, "/rest/api/2/search", ft.Requests[0].Path)
	for i, key := range []string{"PRJ-1", "PRJ-2", "PRJ-3"} {
		assert.Equal(t, "/rest/api/2/issue/"+key+"/watchers", ft.Requests[i+1].Path)
	}
}

func TestWatchCategory_StopsAtFirstFailure(t *testing.T) {
	ft := &testutil.FakeTransport{Responses: []*jira.Response{
		testutil.Respond(http.StatusOK, threeUnwatched),
		testutil.Respond(http.StatusNoContent, ""),
		testutil.Respond(http.StatusForbidden, ""),
		testutil.Respond(http.StatusNoContent, ""),
	}}

	ctx := interactive()
	res, err := NewClient(ft).WatchCategory(ctx, WatchCategoryParams{Credentials: cred, Project: "PRJ"})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Empty(t, res.Output)
	require.Len(t, ft.Requests, 3, "the third issue must not be attempted")
	assert.Equal(t, []string{"PRJ-1"}, res.Record.Keys())

	require.Error(t, res.Err())
	assert.Contains(t, res.Err().Error(), "Unable to add watcher to PRJ-2")
	assert.NotContains(t, res.Err().Error(), "PRJ-3")

	assert.True(t, Interactive(ctx))
}

func TestWatchCategory_ListFailure(t *testing.T) {
	ft := &testutil.FakeTransport{Responses: []*jira.Response{testutil.Respond(http.StatusInternalServerError, "")}}

	res, err := NewClient(ft).WatchCategory(interactive(), WatchCategoryParams{Credentials: cred, Project: "PRJ"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Len(t, ft.Requests, 1)
	assert.Equal(t, []string{
		"Unable to list unwatched issues in PRJ",
		"Unable to get list of unwatched issues",
	}, res.Response.Errors)
}

func TestWatchCategory_NothingToWatch(t *testing.T) {
	ft := &testutil.FakeTransport{Responses: []*jira.Response{testutil.Respond(http.StatusOK, `{"issues":[]}`)}}

	res, err := NewClient(ft).WatchCategory(interactive(), WatchCategoryParams{Credentials: cred, Project: "PRJ"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Added 0 issues to watch in PRJ", res.Output)
}

func TestWatchCategory_SubOperationsAreQuiet(t *testing.T) {
	ft := &testutil.FakeTransport{}
	ft.Handler = func(req *jira.Request) (*jira.Response, error) {
		if strings.HasSuffix(req.Path, "/search") {
			return testutil.Respond(http.StatusOK, `{"issues":[{"key":"PRJ-1","fields":{"summary":"one"}}]}`), nil
		}
		return testutil.Respond(http.StatusNoContent, ""), nil
	}

	c := NewClient(ft)
	ctx := WithInteractive(context.Background(), true)
	res, err := c.WatchCategory(ctx, WatchCategoryParams{Credentials: cred, Project: "PRJ"})
	require.NoError(t, err)

	// Only the composite's own summary is produced.
	assert.Equal(t, "Added 1 issues to watch in PRJ", res.Output)
	assert.True(t, Interactive(ctx))
}
