package testutil

import (
	"context"
	"testing"

	"github.com/nhle/jiractl/internal/model"
	"github.com/nhle/jiractl/internal/store"
)

// NewTestStore opens an in-memory history store with every migration
// applied. The store is closed when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("opening history store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing history store: %v", err)
		}
	})
	return s
}

// SeedInvocations records invs in order and returns their IDs.
func SeedInvocations(t *testing.T, s store.Store, invs ...model.Invocation) []string {
	t.Helper()

	ids := make([]string, 0, len(invs))
	for _, inv := range invs {
		id, err := s.RecordInvocation(context.Background(), inv)
		if err != nil {
			t.Fatalf("recording %s: %v", inv.Operation, err)
		}
		ids = append(ids, id)
	}
	return ids
}
