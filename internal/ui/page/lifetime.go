// Package page holds what every screen shares: a lifetime that cancels
// in-flight requests when the screen is left, and journaling of mutations.
package page

import (
	"context"
	"log"
	"time"

	"github.com/nhle/maintenance-admin/internal/model"
)

// Lifetime ties asynchronous loads to one opening of a page. Every Begin
// cancels the previous generation; responses tagged with an older
// generation are dropped by the page.
type Lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
	gen    int
}

// NewLifetime returns a lifetime with no open generation.
func NewLifetime() *Lifetime {
	return &Lifetime{}
}

// Begin starts a new generation and returns its context and number.
func (l *Lifetime) Begin() (context.Context, int) {
	if l.cancel != nil {
		l.cancel()
	}
	l.ctx, l.cancel = context.WithCancel(context.Background())
	l.gen++
	return l.ctx, l.gen
}

// Context returns the context of the current generation, beginning one
// if the page has not been opened yet.
func (l *Lifetime) Context() (context.Context, int) {
	if l.ctx == nil || l.ctx.Err() != nil {
		return l.Begin()
	}
	return l.ctx, l.gen
}

// End cancels the current generation. Late responses are then ignored.
func (l *Lifetime) End() {
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
}

// Current reports whether gen is the live generation.
func (l *Lifetime) Current(gen int) bool {
	return l.ctx != nil && l.ctx.Err() == nil && gen == l.gen
}

// Recorder appends mutation outcomes to the local journal.
type Recorder interface {
	Record(ctx context.Context, entry model.JournalEntry) error
}

// Record journals a mutation outcome. A nil recorder or a failing write
// only logs: the journal never blocks the mutation it describes.
func Record(rec Recorder, actor, entity, entityID, action string, err error, message string) {
	if rec == nil {
		return
	}
	entry := model.JournalEntry{
		Entity:    entity,
		EntityID:  entityID,
		Action:    action,
		Outcome:   model.OutcomeSuccess,
		Message:   message,
		Actor:     actor,
		CreatedAt: time.Now(),
	}
	if err != nil {
		entry.Outcome = model.OutcomeFailure
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if werr := rec.Record(ctx, entry); werr != nil {
		log.Printf("journaling %s %s: %v", action, entity, werr)
	}
}
