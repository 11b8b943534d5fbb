// Package jira holds the wire-level pieces of the Jira REST API v2: request
// and response descriptors, typed response schemas, JQL composition and the
// HTTP transport that executes requests.
package jira

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// BasePath is the versioned prefix of every REST resource.
const BasePath = "/rest/api/2"

// ProtocolHTTPS is the only protocol requests are built with.
const ProtocolHTTPS = "https"

// QueryParam is a single query string parameter. Requests keep them in a
// slice so the wire order matches insertion order.
type QueryParam struct {
	Key   string
	Value string
}

// BasicAuth carries the credentials for HTTP basic authentication.
type BasicAuth struct {
	Username string
	Password string
}

// Request describes one REST call. Builders construct a fresh Request per
// invocation; the transport must not modify it.
type Request struct {
	Protocol string
	Method   string
	Path     string
	Query    []QueryParam
	Headers  map[string]string
	Auth     *BasicAuth
	Body     string
}

// NewRequest returns a request for method and a path relative to BasePath.
func NewRequest(method, resource string) *Request {
	return &Request{
		Protocol: ProtocolHTTPS,
		Method:   method,
		Path:     BasePath + resource,
	}
}

// AddQuery appends a query parameter and returns the request for chaining.
func (r *Request) AddQuery(key, value string) *Request {
	r.Query = append(r.Query, QueryParam{Key: key, Value: value})
	return r
}

// WithBasicAuth attaches basic-auth credentials.
func (r *Request) WithBasicAuth(username, password string) *Request {
	r.Auth = &BasicAuth{Username: username, Password: password}
	return r
}

// WithJSONBody attaches a raw body and the JSON content-type header.
func (r *Request) WithJSONBody(body string) *Request {
	r.Body = body
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers["Content-type"] = "application/json"
	return r
}

// EncodeQuery renders the query string in insertion order, without the
// leading '?'.
func (r *Request) EncodeQuery() string {
	if len(r.Query) == 0 {
		return ""
	}
	parts := make([]string, 0, len(r.Query))
	for _, q := range r.Query {
		parts = append(parts, url.QueryEscape(q.Key)+"="+url.QueryEscape(q.Value))
	}
	return strings.Join(parts, "&")
}

// URL renders the absolute URL of the request against host (for example
// "jira.example.com" or "jira.example.com:8443").
func (r *Request) URL(host string) (string, error) {
	if host == "" {
		return "", errors.New("jira server host not configured")
	}
	if r.Protocol != ProtocolHTTPS {
		return "", fmt.Errorf("unsupported protocol %q", r.Protocol)
	}

	u := url.URL{
		Scheme:   r.Protocol,
		Host:     host,
		Path:     r.Path,
		RawQuery: r.EncodeQuery(),
	}
	return u.String(), nil
}

// String returns "METHOD path?query" for logs and errors.
func (r *Request) String() string {
	if q := r.EncodeQuery(); q != "" {
		return r.Method + " " + r.Path + "?" + q
	}
	return r.Method + " " + r.Path
}
