// Package store persists the local invocation history in SQLite.
package store

import (
	"context"

	"github.com/nhle/jiractl/internal/model"
)

// InvocationFilter controls filtering and pagination for history queries.
type InvocationFilter struct {
	Operation  *string
	OnlyFailed bool
	Limit      int
	Offset     int
}

// Store defines the persistence interface for the invocation history.
type Store interface {
	RecordInvocation(ctx context.Context, inv model.Invocation) (string, error)
	ListInvocations(ctx context.Context, filter InvocationFilter) ([]model.Invocation, error)
	GetInvocation(ctx context.Context, id string) (*model.Invocation, error)
	PruneInvocations(ctx context.Context, keep int) (int64, error)
	Close() error
}
