// Package ops implements the named Jira operations. Each operation builds
// a request descriptor from typed parameters, hands it to a jira.Transport
// and normalizes the response into a Result.
//
// Remote failures are not Go errors: they are recorded as annotations on
// the returned Result's Response, and Result.Success is false. A non-nil
// error means a caller error (see ErrMissingParam and friends) or a
// transport that could not perform the request.
package ops

import (
	"log/slog"

	"github.com/nhle/jiractl/internal/jira"
)

// Name identifies an operation.
type Name string

// Operations.
const (
	ServerInfo    Name = "server_info"
	NotWatching   Name = "not_watching"
	Mine          Name = "mine"
	Recent        Name = "recent"
	GetIssue      Name = "get_issue"
	AddMyWatch    Name = "add_my_watch"
	WatchCategory Name = "watch_category"
	CreateMeta    Name = "create_meta"
	CreateIssue   Name = "create_issue"
)

// Keys results are saved under.
const (
	StateNotWatching = "not_watching_result"
	StateMine        = "my_bugs"
	StateGetIssue    = "get_issue_result"
	StateRecent      = "get_recent_result"
)

// Defaults for optional parameters.
const (
	DefaultLimit = 100
	DefaultDays  = 7
)

// Result is the normalized outcome of one operation.
type Result struct {
	Operation Name

	// StateKey names the result for callers that collect results by key.
	// Empty for operations that save nothing.
	StateKey string

	// Response is the last response received. For watch_category it is the
	// response of the last sub-operation that ran.
	Response *jira.Response

	// Record holds the extracted fields.
	Record Record

	// Output is the text summary; only set for interactive contexts.
	Output string

	// Success reports whether the operation's own success criterion held.
	Success bool
}

// Err returns the response annotations as an error, or nil.
func (r *Result) Err() error {
	if r == nil {
		return nil
	}
	return r.Response.Err()
}

// Credentials authenticate every operation except server_info.
type Credentials struct {
	Username string
	Password string
}

// Client runs operations against one transport.
type Client struct {
	transport    jira.Transport
	logger       *slog.Logger
	templateDirs []string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTemplateDir adds a directory searched for create_issue templates
// that are not found at the given path.
func WithTemplateDir(dir string) Option {
	return func(c *Client) {
		if dir != "" {
			c.templateDirs = append(c.templateDirs, dir)
		}
	}
}

// NewClient creates a Client.
func NewClient(t jira.Transport, opts ...Option) *Client {
	c := &Client{
		transport: t,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
