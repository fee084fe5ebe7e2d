package model

import "time"

// Journal outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// JournalEntry records one mutation submitted from this console.
type JournalEntry struct {
	ID        string    `json:"id" db:"id"`
	Entity    string    `json:"entity" db:"entity"`
	EntityID  string    `json:"entity_id" db:"entity_id"`
	Action    string    `json:"action" db:"action"`
	Outcome   string    `json:"outcome" db:"outcome"`
	Message   string    `json:"message" db:"message"`
	Actor     string    `json:"actor" db:"actor"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
