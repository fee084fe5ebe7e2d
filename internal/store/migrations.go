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

CREATE TABLE IF NOT EXISTS journal (
	id         TEXT PRIMARY KEY,
	entity     TEXT NOT NULL,
	entity_id  TEXT NOT NULL DEFAULT '',
	action     TEXT NOT NULL,
	outcome    TEXT NOT NULL CHECK(outcome IN ('success', 'failure')),
	message    TEXT NOT NULL DEFAULT '',
	actor      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_journal_created_at ON journal(created_at);
CREATE INDEX IF NOT EXISTS idx_journal_entity ON journal(entity);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
