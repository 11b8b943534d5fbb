package ops

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nhle/jiractl/internal/jira"
)

// AddMyWatchParams are the parameters of add_my_watch.
type AddMyWatchParams struct {
	Credentials
	Key     string
	Project string // optional, informational only
}

// Request builds the watcher-add request. The body is the username as a
// JSON string.
func (p AddMyWatchParams) Request() *jira.Request {
	body, _ := json.Marshal(p.Username)
	return jira.NewRequest(http.MethodPost, "/issue/"+p.Key+"/watchers").
		WithBasicAuth(p.Username, p.Password).
		WithJSONBody(string(body))
}

// AddMyWatch adds the authenticating user as a watcher of one issue.
// Jira answers 204 on success; any other status is a failure.
func (c *Client) AddMyWatch(ctx context.Context, p AddMyWatchParams) (*Result, error) {
	resp, err := c.transport.Do(ctx, p.Request())
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", AddMyWatch, p.Key, err)
	}

	res := &Result{Operation: AddMyWatch, Response: resp}
	if resp.Status != http.StatusNoContent {
		resp.AddError("Unable to add %s to %s", p.Username, p.Key)
		return res, nil
	}

	res.Success = true
	res.Record.Set(p.Key, p.Username)
	if Interactive(ctx) {
		res.Output = fmt.Sprintf("Added %s as a watcher to %s", p.Username, p.Key)
	}
	return res, nil
}

// WatchCategoryParams are the parameters of watch_category.
type WatchCategoryParams struct {
	Credentials
	Project string
	Limit   int
}

// WatchCategory adds the user as a watcher of every issue in a project it is
// not yet watching. It runs not_watching and then add_my_watch once per
// issue, in order, and stops at the first failure: issues after the failing
// one are not attempted.
//
// The wrapped operations run non-interactively; only the final summary is
// produced here. The returned record lists the issues that were watched.
func (c *Client) WatchCategory(ctx context.Context, p WatchCategoryParams) (*Result, error) {
	quiet := WithInteractive(ctx, false)

	listed, err := c.NotWatching(quiet, NotWatchingParams{
		Credentials: p.Credentials,
		Project:     p.Project,
		Limit:       p.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", WatchCategory, err)
	}

	res := &Result{Operation: WatchCategory, Response: listed.Response}
	if !listed.Success {
		res.Response.AddError("Unable to get list of unwatched issues")
		return res, nil
	}

	for _, issue := range listed.Record {
		c.logger.Info("watching issue", "key", issue.Key, "summary", issue.Value)

		added, err := c.AddMyWatch(quiet, AddMyWatchParams{
			Credentials: p.Credentials,
			Key:         issue.Key,
			Project:     p.Project,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", WatchCategory, err)
		}

		res.Response = added.Response
		if !added.Success {
			res.Response.AddError("Unable to add watcher to %s", issue.Key)
			return res, nil
		}
		res.Record.Set(issue.Key, issue.Value)
	}

	res.Success = true
	if Interactive(ctx) {
		res.Output = fmt.Sprintf("Added %d issues to watch in %s", res.Record.Len(), p.Project)
	}
	return res, nil
}
