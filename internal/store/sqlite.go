package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/jiractl/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// An in-memory database exists per connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// RecordInvocation inserts one history row and returns its ID. A new UUID
// is generated when inv has none, and CreatedAt defaults to now.
func (s *SQLiteStore) RecordInvocation(
	ctx context.Context,
	inv model.Invocation,
) (string, error) {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}
	if inv.Params == "" {
		inv.Params = "{}"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invocations (
			id, operation, host, username, params,
			status, success, errors, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Operation, inv.Host, inv.Username, inv.Params,
		inv.Status, boolToInt(inv.Success), inv.Errors, inv.DurationMS,
		inv.CreatedAt.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("recording invocation %s: %w", inv.Operation, err)
	}

	return inv.ID, nil
}

const invocationColumns = `id, operation, host, username, params,
	status, success, errors, duration_ms, created_at`

// ListInvocations returns history rows, newest first.
func (s *SQLiteStore) ListInvocations(
	ctx context.Context,
	filter InvocationFilter,
) ([]model.Invocation, error) {
	var conditions []string
	var args []interface{}

	if filter.Operation != nil {
		conditions = append(conditions, "operation = ?")
		args = append(args, *filter.Operation)
	}
	if filter.OnlyFailed {
		conditions = append(conditions, "success = 0")
	}

	query := "SELECT " + invocationColumns + " FROM invocations"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	switch {
	case filter.Limit > 0:
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	case filter.Offset > 0:
		// sqlite only accepts OFFSET after a LIMIT.
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying invocations: %w", err)
	}
	defer rows.Close()

	var invocations []model.Invocation
	for rows.Next() {
		inv, err := scanInvocation(rows)
		if err != nil {
			return nil, err
		}
		invocations = append(invocations, inv)
	}

	return invocations, rows.Err()
}

// GetInvocation retrieves a single history row by ID.
func (s *SQLiteStore) GetInvocation(
	ctx context.Context,
	id string,
) (*model.Invocation, error) {
	row := s.db.QueryRowxContext(ctx,
		"SELECT "+invocationColumns+" FROM invocations WHERE id = ?", id)

	inv, err := scanInvocation(row)
	if err != nil {
		return nil, fmt.Errorf("getting invocation %s: %w", id, err)
	}

	return &inv, nil
}

// PruneInvocations deletes all but the newest keep rows and reports how
// many were removed.
func (s *SQLiteStore) PruneInvocations(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM invocations WHERE id NOT IN (
			SELECT id FROM invocations ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning invocations: %w", err)
	}

	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanInvocation scans one row selected with invocationColumns.
func scanInvocation(row scanner) (model.Invocation, error) {
	var (
		inv     model.Invocation
		success int
	)

	err := row.Scan(
		&inv.ID, &inv.Operation, &inv.Host, &inv.Username, &inv.Params,
		&inv.Status, &success, &inv.Errors, &inv.DurationMS, &inv.CreatedAt,
	)
	if err != nil {
		return model.Invocation{}, fmt.Errorf("scanning invocation row: %w", err)
	}
	inv.Success = success != 0

	return inv, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
