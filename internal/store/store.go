package store

import (
	"context"

	"github.com/nhle/maintenance-admin/internal/model"
)

// JournalFilter controls filtering and pagination for journal queries.
type JournalFilter struct {
	Entity  *string // "setor", "preferencias", ... or nil (all)
	Outcome *string // model.OutcomeSuccess, model.OutcomeFailure or nil
	Limit   int
	Offset  int
}

// Store defines the persistence interface for the local journal of
// mutations submitted from this console.
type Store interface {
	Record(ctx context.Context, entry model.JournalEntry) error
	GetJournal(ctx context.Context, filter JournalFilter) ([]model.JournalEntry, error)
	CountJournal(ctx context.Context, filter JournalFilter) (int, error)
	PruneJournal(ctx context.Context, keep int) (int64, error)
}
