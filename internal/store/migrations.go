package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS invocations (
	id          TEXT PRIMARY KEY,
	operation   TEXT NOT NULL,
	host        TEXT NOT NULL DEFAULT '',
	username    TEXT NOT NULL DEFAULT '',
	params      TEXT NOT NULL DEFAULT '{}',
	status      INTEGER NOT NULL DEFAULT 0,
	success     INTEGER NOT NULL DEFAULT 0 CHECK(success IN (0, 1)),
	errors      TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_invocations_created_at ON invocations(created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_invocations_operation_created
	ON invocations(operation, created_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
