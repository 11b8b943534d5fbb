package testutil

import (
	"context"
	"errors"

	"github.com/nhle/jiractl/internal/jira"
)

// FakeTransport records every request and answers from Handler when set,
// otherwise from Responses in order.
type FakeTransport struct {
	Requests  []*jira.Request
	Responses []*jira.Response
	Handler   func(req *jira.Request) (*jira.Response, error)
}

// Do implements jira.Transport.
func (f *FakeTransport) Do(_ context.Context, req *jira.Request) (*jira.Response, error) {
	f.Requests = append(f.Requests, req)
	if f.Handler != nil {
		return f.Handler(req)
	}
	if len(f.Responses) == 0 {
		return nil, errors.New("fake transport: no scripted response")
	}
	resp := f.Responses[0]
	f.Responses = f.Responses[1:]
	return resp, nil
}

// Respond builds a response the way the HTTP transport would, with OK set
// for 2xx statuses.
func Respond(status int, body string) *jira.Response {
	return &jira.Response{
		OK:     status >= 200 && status < 300,
		Status: status,
		Body:   []byte(body),
	}
}
