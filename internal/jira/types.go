package jira

// SearchResponse is the response from GET /rest/api/2/search.
type SearchResponse struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// Issue represents a single Jira issue from the REST API.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Self   string      `json:"self"`
	Fields IssueFields `json:"fields"`
}

// IssueFields contains the issue fields this tool requests. Objects the
// server may send as null are pointers.
type IssueFields struct {
	Summary                  string      `json:"summary"`
	IssueType                *IssueType  `json:"issuetype"`
	Status                   *Status     `json:"status"`
	Priority                 *Priority   `json:"priority"`
	Created                  string      `json:"created"`
	Updated                  string      `json:"updated"`
	StatusCategoryChangeDate string      `json:"statuscategorychangedate"`
	Labels                   []string    `json:"labels"`
	Components               []Component `json:"components"`
}

// Status represents the status of a Jira issue.
type Status struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Priority represents the priority level of a Jira issue.
type Priority struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// IssueType represents the type of a Jira issue (Bug, Story, etc.).
type IssueType struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Component is a project component attached to an issue.
type Component struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// ServerInfo is the response from GET /rest/api/2/serverInfo.
type ServerInfo struct {
	BaseURL        string `json:"baseUrl"`
	Version        string `json:"version"`
	BuildNumber    int    `json:"buildNumber"`
	ServerTitle    string `json:"serverTitle"`
	DeploymentType string `json:"deploymentType"`
}

// CreateMeta is the response from GET /rest/api/2/issue/createmeta.
type CreateMeta struct {
	Projects []MetaProject `json:"projects"`
}

// MetaProject lists the issue types a project accepts.
type MetaProject struct {
	Key        string      `json:"key"`
	Name       string      `json:"name"`
	IssueTypes []IssueType `json:"issuetypes"`
}

// CreatedIssue is the response from POST /rest/api/2/issue.
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// ErrorResponse is the standard Jira error response format.
type ErrorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}
