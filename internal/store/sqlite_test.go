package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nhle/jiractl/internal/model"
	"github.com/nhle/jiractl/internal/store"
	"github.com/nhle/jiractl/tests/testutil"
)

func TestRecordAndGet(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	id := testutil.SeedInvocations(t, s, model.Invocation{
		Operation:  "not_watching",
		Host:       "jira.example.com",
		Username:   "u",
		Params:     `{"project":"PRJ"}`,
		Status:     200,
		Success:    true,
		DurationMS: 42,
	})[0]
	if id == "" {
		t.Fatal("RecordInvocation returned an empty ID")
	}

	got, err := s.GetInvocation(ctx, id)
	if err != nil {
		t.Fatalf("GetInvocation: %v", err)
	}
	if got.Operation != "not_watching" || got.Status != 200 || !got.Success {
		t.Errorf("GetInvocation = %+v", got)
	}
	if got.Params != `{"project":"PRJ"}` {
		t.Errorf("Params = %q, want %q", got.Params, `{"project":"PRJ"}`)
	}
	if got.DurationMS != 42 {
		t.Errorf("DurationMS = %d, want 42", got.DurationMS)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}

	if _, err := s.GetInvocation(ctx, "missing"); err == nil {
		t.Error("GetInvocation(missing) succeeded")
	}
}

func TestListInvocations(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, op := range []string{"mine", "get_issue", "mine", "watch_category"} {
		testutil.SeedInvocations(t, s, model.Invocation{
			Operation: op,
			Success:   op != "watch_category",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	all, err := s.ListInvocations(ctx, store.InvocationFilter{})
	if err != nil {
		t.Fatalf("ListInvocations: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("len = %d, want 4", len(all))
	}
	if all[0].Operation != "watch_category" {
		t.Errorf("newest = %q, want %q", all[0].Operation, "watch_category")
	}

	mine := "mine"
	filtered, err := s.ListInvocations(ctx, store.InvocationFilter{Operation: &mine})
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 2 {
		t.Errorf("mine rows = %d, want 2", len(filtered))
	}

	failed, err := s.ListInvocations(ctx, store.InvocationFilter{OnlyFailed: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(failed) != 1 || failed[0].Success {
		t.Errorf("failed rows = %+v", failed)
	}

	page, err := s.ListInvocations(ctx, store.InvocationFilter{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 || page[0].Operation != "mine" || page[1].Operation != "get_issue" {
		t.Errorf("page = %+v", page)
	}

	rest, err := s.ListInvocations(ctx, store.InvocationFilter{Offset: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 1 || rest[0].Operation != "mine" {
		t.Errorf("offset without limit = %+v", rest)
	}
}

func TestPruneInvocations(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		testutil.SeedInvocations(t, s, model.Invocation{Operation: "mine", CreatedAt: base.Add(time.Duration(i) * time.Second)})
	}

	removed, err := s.PruneInvocations(ctx, 2)
	if err != nil {
		t.Fatalf("PruneInvocations: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}

	left, err := s.ListInvocations(ctx, store.InvocationFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 2 {
		t.Errorf("left = %d, want 2", len(left))
	}
}

func TestReopenKeepsRowsAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := store.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	testutil.SeedInvocations(t, s, model.Invocation{Operation: "server_info", Success: true})
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = store.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer s.Close()

	rows, err := s.ListInvocations(context.Background(), store.InvocationFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Operation != "server_info" {
		t.Errorf("rows = %+v", rows)
	}
}
