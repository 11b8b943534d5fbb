package ops

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jiractl/internal/jira"
	"github.com/nhle/jiractl/tests/testutil"
)

func names(specs []ParamSpec) []string {
	out := make([]string, 0, len(specs))
	for _, s := range specs {
		out = append(out, s.Name)
	}
	return out
}

func TestRegistry(t *testing.T) {
	tests := []struct {
		op       Name
		required []string
		optional []string
	}{
		{ServerInfo, []string{}, []string{}},
		{NotWatching, []string{"username", "password", "project"}, []string{"limit"}},
		{Mine, []string{"username", "password"}, []string{"limit", "project"}},
		{Recent, []string{"username", "password", "project"}, []string{"limit", "days"}},
		{GetIssue, []string{"username", "password", "key"}, []string{}},
		{AddMyWatch, []string{"username", "password", "key"}, []string{"project"}},
		{WatchCategory, []string{"username", "password", "project"}, []string{"limit"}},
		{CreateMeta, []string{"username", "password"}, []string{"project"}},
		{CreateIssue, []string{"username", "password", "template"}, []string{}},
	}

	contracts := Contracts()
	require.Len(t, contracts, len(tests))

	for i, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			c, err := Lookup(string(tt.op))
			require.NoError(t, err)
			assert.Equal(t, tt.op, contracts[i].Name)
			assert.Equal(t, tt.required, names(c.Required))
			assert.Equal(t, tt.optional, names(c.Optional))
			assert.NoError(t, c.Check())
			for _, p := range c.Required {
				assert.True(t, p.Required)
			}
			for _, p := range c.Optional {
				assert.False(t, p.Required)
			}
		})
	}
}

func TestContractsIsACopy(t *testing.T) {
	c := Contracts()
	c[0].Name = "changed"

	got, err := Lookup(string(ServerInfo))
	require.NoError(t, err)
	assert.Equal(t, ServerInfo, got.Name)
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("delete_everything")
	require.ErrorIs(t, err, ErrUnknownOperation)
	assert.Contains(t, err.Error(), "watch_category")
}

func TestCheck_Duplicate(t *testing.T) {
	c := Contract{
		Name:     "broken",
		Required: required(paramUsername, paramProject),
		Optional: []ParamSpec{paramProject},
	}
	assert.Error(t, c.Check())
}

func TestValidate_ListsEveryMissingParam(t *testing.T) {
	c, err := Lookup(string(NotWatching))
	require.NoError(t, err)

	err = c.Validate(map[string]string{"username": "u"})
	require.ErrorIs(t, err, ErrMissingParam)
	assert.Contains(t, err.Error(), "password, project")

	assert.NoError(t, c.Validate(map[string]string{"username": "u", "password": "p", "project": "PRJ"}))
}

func TestMissingParamSendsNoRequest(t *testing.T) {
	for _, c := range Contracts() {
		if len(c.Required) == 0 {
			continue
		}
		t.Run(string(c.Name), func(t *testing.T) {
			ft := &testutil.FakeTransport{Handler: func(*jira.Request) (*jira.Response, error) {
				return testutil.Respond(http.StatusOK, "{}"), nil
			}}
			res, err := NewClient(ft).Run(interactive(), string(c.Name), map[string]string{})
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrMissingParam)
			assert.Empty(t, ft.Requests)
		})
	}
}
