package ops

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/nhle/jiractl/internal/jira"
)

// issueFields are the fields get_issue requests.
const issueFields = "issuetype,created,priority,status,summary,updated,statuscategorychangedate,labels,components"

// NoPriority is reported when an issue has no priority.
const NoPriority = "none"

// GetIssueParams are the parameters of get_issue.
type GetIssueParams struct {
	Credentials
	Key string
}

// Request builds the single-issue request. The key is interpolated as is.
func (p GetIssueParams) Request() *jira.Request {
	return jira.NewRequest(http.MethodGet, "/issue/"+p.Key).
		WithBasicAuth(p.Username, p.Password).
		AddQuery("fields", issueFields)
}

// GetIssue fetches one issue and flattens its fields. Success requires a
// 200 status. The result is saved under StateGetIssue.
func (c *Client) GetIssue(ctx context.Context, p GetIssueParams) (*Result, error) {
	resp, err := c.transport.Do(ctx, p.Request())
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", GetIssue, p.Key, err)
	}

	res := &Result{Operation: GetIssue, StateKey: StateGetIssue, Response: resp}
	if resp.Status != http.StatusOK {
		resp.AddError("Unable to get issue %s", p.Key)
		return res, nil
	}

	var issue jira.Issue
	if err := json.Unmarshal(resp.Body, &issue); err != nil {
		resp.AddError("Unable to parse issue %s: %v", p.Key, err)
		return res, nil
	}

	res.Record = issueRecord(issue.Fields)
	res.Success = true

	if Interactive(ctx) {
		key := issue.Key
		if key == "" {
			key = p.Key
		}
		res.Output = formatIssue(key, res.Record)
	}
	return res, nil
}

// issueRecord flattens issue fields into the get_issue record.
func issueRecord(f jira.IssueFields) Record {
	var issueType, status string
	if f.IssueType != nil {
		issueType = f.IssueType.Name
	}
	if f.Status != nil {
		status = f.Status.Name
	}

	var r Record
	r.Set("type", issueType)
	r.Set("status", status)
	r.Set("priority", priorityName(f.Priority))
	r.Set("summary", f.Summary)
	r.Set("created", f.Created)
	r.Set("updated", f.Updated)
	r.Set("statuscategorychangedate", f.StatusCategoryChangeDate)
	r.Set("labels", strings.Join(f.Labels, ","))
	r.Set("components", joinComponents(f.Components))
	return r
}

func priorityName(p *jira.Priority) string {
	if p == nil {
		return NoPriority
	}
	return p.Name
}

func joinComponents(components []jira.Component) string {
	names := make([]string, 0, len(components))
	for _, c := range components {
		names = append(names, c.Name)
	}
	return strings.Join(names, ",")
}

func formatIssue(key string, r Record) string {
	summary, _ := r.Get("summary")

	width := 0
	for _, e := range r {
		if len(e.Key) > width {
			width = len(e.Key)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s : %s\n", key, summary)
	for _, e := range r {
		if e.Key == "summary" {
			continue
		}
		fmt.Fprintf(&b, "  %-*s : %s\n", width, e.Key, e.Value)
	}
	return b.String()
}
