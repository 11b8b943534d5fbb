package jira

import (
	"fmt"
	"strings"
)

// JQL accumulates filter clauses left to right. Empty clauses are skipped,
// which lets callers add optional predicates unconditionally.
type JQL struct {
	sep     string
	clauses []string
}

// NewJQL returns a builder that joins clauses with the given conjunction
// keyword ("AND" or "and"; Jira accepts either).
func NewJQL(conjunction string) *JQL {
	return &JQL{sep: " " + conjunction + " "}
}

// Where appends a clause.
func (q *JQL) Where(clause string) *JQL {
	if clause != "" {
		q.clauses = append(q.clauses, clause)
	}
	return q
}

// String renders the filter.
func (q *JQL) String() string {
	return strings.Join(q.clauses, q.sep)
}

// ProjectClause returns "project=<key>", or "" when key is empty.
func ProjectClause(key string) string {
	if key == "" {
		return ""
	}
	return "project=" + key
}

// CreatedWithinDays returns a clause matching issues created in the last
// days days.
func CreatedWithinDays(days int) string {
	if days <= 0 {
		return ""
	}
	return fmt.Sprintf("created >= -%dd", days)
}

// Predicates shared by the search operations.
const (
	NotWatchedByMe   = "watcher != currentUser()"
	AssignedToMe     = "assignee = currentUser()"
	OpenOrInProgress = `(status="Open" OR status="In Progress")`
)
