package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/maintenance-admin/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// :memory: databases are per-connection.
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

// Record appends an entry to the journal, filling in ID and CreatedAt
// when they are empty.
func (s *SQLiteStore) Record(ctx context.Context, entry model.JournalEntry) error {
	if strings.TrimSpace(entry.Entity) == "" || strings.TrimSpace(entry.Action) == "" {
		return fmt.Errorf("journal entry needs an entity and an action")
	}
	if entry.Outcome != model.OutcomeSuccess && entry.Outcome != model.OutcomeFailure {
		return fmt.Errorf("invalid journal outcome %q", entry.Outcome)
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO journal (id, entity, entity_id, action, outcome, message, actor, created_at)
		VALUES (:id, :entity, :entity_id, :action, :outcome, :message, :actor, :created_at)`,
		entry,
	)
	if err != nil {
		return fmt.Errorf("recording journal entry: %w", err)
	}
	return nil
}

// buildJournalWhere constructs the WHERE clause and args from a filter.
func buildJournalWhere(f JournalFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if f.Entity != nil {
		conditions = append(conditions, "entity = ?")
		args = append(args, *f.Entity)
	}
	if f.Outcome != nil {
		conditions = append(conditions, "outcome = ?")
		args = append(args, *f.Outcome)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// GetJournal returns journal entries, newest first.
func (s *SQLiteStore) GetJournal(
	ctx context.Context,
	filter JournalFilter,
) ([]model.JournalEntry, error) {
	where, args := buildJournalWhere(filter)
	query := "SELECT id, entity, entity_id, action, outcome, message, actor, created_at FROM journal" +
		where + " ORDER BY created_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	var entries []model.JournalEntry
	if err := s.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	return entries, nil
}

// CountJournal returns the number of entries matching filter.
func (s *SQLiteStore) CountJournal(ctx context.Context, filter JournalFilter) (int, error) {
	where, args := buildJournalWhere(filter)

	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM journal"+where, args...); err != nil {
		return 0, fmt.Errorf("counting journal: %w", err)
	}
	return n, nil
}

// PruneJournal deletes all but the newest keep entries and returns how
// many were removed.
func (s *SQLiteStore) PruneJournal(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM journal WHERE id NOT IN (
			SELECT id FROM journal ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning journal: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}
