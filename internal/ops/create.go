package ops

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/nhle/jiractl/internal/jira"
)

// CreateMetaParams are the parameters of create_meta.
type CreateMetaParams struct {
	Credentials
	Project string // optional; all projects when empty
}

// Request builds the create-metadata request.
func (p CreateMetaParams) Request() *jira.Request {
	req := jira.NewRequest(http.MethodGet, "/issue/createmeta").
		WithBasicAuth(p.Username, p.Password)
	if p.Project != "" {
		req.AddQuery("projectKeys", p.Project)
	}
	return req.AddQuery("expand", "projects.issuetypes")
}

// CreateMeta lists the issue types each visible project accepts, which is
// what a create_issue template has to name.
func (c *Client) CreateMeta(ctx context.Context, p CreateMetaParams) (*Result, error) {
	resp, err := c.transport.Do(ctx, p.Request())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", CreateMeta, err)
	}

	res := &Result{Operation: CreateMeta, Response: resp}
	if !resp.OK {
		resp.AddError("Unable to get create metadata")
		return res, nil
	}

	var meta jira.CreateMeta
	if err := json.Unmarshal(resp.Body, &meta); err != nil {
		resp.AddError("Unable to parse create metadata: %v", err)
		return res, nil
	}

	var out strings.Builder
	for _, project := range meta.Projects {
		names := make([]string, 0, len(project.IssueTypes))
		for _, it := range project.IssueTypes {
			names = append(names, it.Name)
		}
		res.Record.Set(project.Key, strings.Join(names, ","))
		fmt.Fprintf(&out, "%s : %s\n", project.Key, strings.Join(names, ", "))
	}
	res.Success = true

	if Interactive(ctx) {
		res.Output = out.String()
	}
	return res, nil
}

// CreateIssueParams are the parameters of create_issue.
type CreateIssueParams struct {
	Credentials
	Template string // path or name of a JSON file
}

// findTemplate resolves name against the working directory, then against
// each template directory with and without a ".json" suffix.
func (c *Client) findTemplate(name string) (string, error) {
	candidates := []string{name}
	if !filepath.IsAbs(name) {
		for _, dir := range c.templateDirs {
			candidates = append(candidates,
				filepath.Join(dir, name),
				filepath.Join(dir, name+".json"),
			)
		}
	}

	for _, path := range candidates {
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, path, err)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
}

// CreateIssueRequest locates the template and builds the create request
// with the file contents as body.
func (c *Client) CreateIssueRequest(p CreateIssueParams) (*jira.Request, error) {
	path, err := c.findTemplate(p.Template)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}

	return jira.NewRequest(http.MethodPost, "/issue").
		WithBasicAuth(p.Username, p.Password).
		WithJSONBody(string(data)), nil
}

// CreateIssue creates an issue from a template file. A template that cannot
// be found is a caller error and no request is sent.
func (c *Client) CreateIssue(ctx context.Context, p CreateIssueParams) (*Result, error) {
	req, err := c.CreateIssueRequest(p)
	if err != nil {
		return nil, err
	}

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", CreateIssue, err)
	}

	res := &Result{Operation: CreateIssue, Response: resp}
	if !resp.OK {
		resp.AddError("Unable to create issue from template %s", p.Template)
		return res, nil
	}

	var created jira.CreatedIssue
	if err := json.Unmarshal(resp.Body, &created); err != nil {
		resp.AddError("Unable to parse create response: %v", err)
		return res, nil
	}

	res.Success = true
	res.Record.Set("id", created.ID)
	res.Record.Set("key", created.Key)
	res.Record.Set("self", created.Self)
	if Interactive(ctx) {
		res.Output = "Created " + created.Key
	}
	return res, nil
}
