package jira

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Response is the outcome of a request the transport managed to perform.
// OK reports a 2xx status. Errors collects human-readable annotations added
// by the transport or by the operation that interpreted the response.
type Response struct {
	OK     bool
	Status int
	Body   []byte
	Errors []string
}

// AddError appends a formatted annotation.
func (r *Response) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Err joins the annotations into a single error, or returns nil when there
// are none.
func (r *Response) Err() error {
	if r == nil || len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Errors))
	for _, msg := range r.Errors {
		errs = append(errs, errors.New(msg))
	}
	return errors.Join(errs...)
}

// ServerMessage extracts the messages of a standard Jira error body, or
// returns "" when the body is not one.
func (r *Response) ServerMessage() string {
	if r == nil || len(r.Body) == 0 {
		return ""
	}
	var jiraErr ErrorResponse
	if json.Unmarshal(r.Body, &jiraErr) != nil {
		return ""
	}

	msgs := append([]string(nil), jiraErr.ErrorMessages...)
	fields := make([]string, 0, len(jiraErr.Errors))
	for field := range jiraErr.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		msgs = append(msgs, field+": "+jiraErr.Errors[field])
	}
	return strings.Join(msgs, "; ")
}
