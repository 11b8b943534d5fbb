package ops

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/nhle/jiractl/internal/jira"
)

// ServerInfoRequest builds the server-info probe. It carries no credentials.
func ServerInfoRequest() *jira.Request {
	return jira.NewRequest(http.MethodGet, "/serverInfo")
}

// ServerInfo retrieves server information. It needs no authentication and
// is mostly useful to test connectivity.
func (c *Client) ServerInfo(ctx context.Context) (*Result, error) {
	resp, err := c.transport.Do(ctx, ServerInfoRequest())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ServerInfo, err)
	}

	res := &Result{Operation: ServerInfo, Response: resp}
	if !resp.OK {
		resp.AddError("Unable to get server info")
		return res, nil
	}

	var info jira.ServerInfo
	if err := json.Unmarshal(resp.Body, &info); err != nil {
		resp.AddError("Unable to parse server info: %v", err)
		return res, nil
	}

	res.Success = true
	res.Record.Set("serverTitle", info.ServerTitle)
	res.Record.Set("version", info.Version)
	res.Record.Set("buildNumber", strconv.Itoa(info.BuildNumber))
	res.Record.Set("baseUrl", info.BaseURL)
	res.Record.Set("deploymentType", info.DeploymentType)

	if Interactive(ctx) {
		res.Output = fmt.Sprintf("%s %s (%s)", info.ServerTitle, info.Version, info.BaseURL)
	}
	return res, nil
}
