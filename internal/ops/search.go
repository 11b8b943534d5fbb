package ops

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/nhle/jiractl/internal/jira"
)

// NotWatchingParams are the parameters of not_watching.
type NotWatchingParams struct {
	Credentials
	Project string
	Limit   int // 0 means DefaultLimit
}

// Request builds the search request.
func (p NotWatchingParams) Request() *jira.Request {
	jql := jira.NewJQL("and").
		Where(jira.ProjectClause(p.Project)).
		Where(jira.NotWatchedByMe)
	return searchRequest(p.Credentials, p.Limit, jql)
}

// MineParams are the parameters of mine.
type MineParams struct {
	Credentials
	Project string // optional
	Limit   int
}

// Request builds the search request.
func (p MineParams) Request() *jira.Request {
	jql := jira.NewJQL("AND").
		Where(jira.ProjectClause(p.Project)).
		Where(jira.AssignedToMe).
		Where(jira.OpenOrInProgress)
	return searchRequest(p.Credentials, p.Limit, jql)
}

// RecentParams are the parameters of recent.
type RecentParams struct {
	Credentials
	Project string
	Limit   int
	Days    int // 0 means DefaultDays
}

// Request builds the search request.
func (p RecentParams) Request() *jira.Request {
	days := p.Days
	if days <= 0 {
		days = DefaultDays
	}
	jql := jira.NewJQL("AND").
		Where(jira.ProjectClause(p.Project)).
		Where(jira.CreatedWithinDays(days))
	return searchRequest(p.Credentials, p.Limit, jql)
}

func searchRequest(cred Credentials, limit int, jql *jira.JQL) *jira.Request {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return jira.NewRequest(http.MethodGet, "/search").
		WithBasicAuth(cred.Username, cred.Password).
		AddQuery("maxResults", strconv.Itoa(limit)).
		AddQuery("fields", "summary").
		AddQuery("jql", jql.String())
}

// NotWatching lists the issues of a project the user is not watching.
// The result is saved under StateNotWatching.
func (c *Client) NotWatching(ctx context.Context, p NotWatchingParams) (*Result, error) {
	return c.search(ctx, NotWatching, StateNotWatching, p.Request(),
		"Unable to list unwatched issues in %s", p.Project)
}

// Mine lists the open or in-progress issues assigned to the user.
// The result is saved under StateMine.
func (c *Client) Mine(ctx context.Context, p MineParams) (*Result, error) {
	return c.search(ctx, Mine, StateMine, p.Request(),
		"Unable to list issues assigned to %s", p.Username)
}

// Recent lists issues created in a project in the last p.Days days.
// The result is saved under StateRecent.
func (c *Client) Recent(ctx context.Context, p RecentParams) (*Result, error) {
	return c.search(ctx, Recent, StateRecent, p.Request(),
		"Unable to list recent issues in %s", p.Project)
}

// search runs a search request and collects key -> summary in server order.
// A missing or null issues array is an empty result.
func (c *Client) search(
	ctx context.Context,
	op Name,
	stateKey string,
	req *jira.Request,
	failFormat string,
	failArg string,
) (*Result, error) {
	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res := &Result{Operation: op, StateKey: stateKey, Response: resp}
	if !resp.OK {
		resp.AddError(failFormat, failArg)
		return res, nil
	}

	var body jira.SearchResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		resp.AddError("Unable to parse %s response: %v", op, err)
		return res, nil
	}

	var out strings.Builder
	out.WriteString("\n")
	for _, issue := range body.Issues {
		res.Record.Set(issue.Key, issue.Fields.Summary)
		fmt.Fprintf(&out, "%s : %s\n", issue.Key, issue.Fields.Summary)
	}
	res.Success = true

	c.logger.Debug("search complete", "operation", op, "issues", res.Record.Len(), "total", body.Total)

	if Interactive(ctx) {
		res.Output = out.String()
	}
	return res, nil
}
