// Package form holds the state of an edit dialog independently of how it
// is drawn: which entity is being edited, the local draft, and whether a
// submission is in flight.
package form

import (
	"errors"
	"net/http"
)

// State is the lifecycle stage of an edit dialog.
type State int

const (
	Closed State = iota
	Open
	Submitting
	Failed
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case Submitting:
		return "submitting"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	// ErrNotOpen is returned when submitting a closed dialog.
	ErrNotOpen = errors.New("form is not open")

	// ErrInFlight is returned when submitting while a submission is pending.
	ErrInFlight = errors.New("submission already in flight")

	// ErrNotSubmitting is returned when resolving a submission that was never begun.
	ErrNotSubmitting = errors.New("no submission in flight")
)

// Submission describes the request a submit should produce.
type Submission[T any] struct {
	// Method is POST when creating and PUT when editing.
	Method string

	// ID is the edited entity's id; zero when creating.
	ID int64

	Draft T

	// Seq numbers the submissions of one Machine, increasing across
	// dialogs, so a late answer can be told apart from the pending one.
	Seq uint64
}

// Creating reports whether the submission creates a new entity.
func (s Submission[T]) Creating() bool {
	return s.Method == http.MethodPost
}

// Machine is the edit dialog state machine:
//
//	Closed → Open(create | edit) → Submitting → Closed   on success
//	                                          → Failed   on error (still open)
//
// Close discards the draft from any state.
type Machine[T any] struct {
	state   State
	editing bool
	id      int64
	draft   T
	message string
	seq     uint64
}

// State returns the current state.
func (m *Machine[T]) State() State { return m.state }

// IsOpen reports whether the dialog is visible (open, submitting or failed).
func (m *Machine[T]) IsOpen() bool { return m.state != Closed }

// Editing reports whether the dialog was seeded from an existing entity.
func (m *Machine[T]) Editing() bool { return m.editing }

// ID returns the id of the entity being edited.
func (m *Machine[T]) ID() int64 { return m.id }

// Message returns the backend message of the last failed submission.
func (m *Machine[T]) Message() string { return m.message }

// Draft returns the current draft.
func (m *Machine[T]) Draft() T { return m.draft }

// SetDraft replaces the draft. It is ignored while submitting so the
// in-flight request and the draft stay in step.
func (m *Machine[T]) SetDraft(d T) {
	if m.state == Open || m.state == Failed {
		m.draft = d
	}
}

// OpenCreate opens the dialog seeded with defaults.
func (m *Machine[T]) OpenCreate(defaults T) {
	*m = Machine[T]{state: Open, draft: defaults, seq: m.seq}
}

// OpenEdit opens the dialog seeded from entity id.
func (m *Machine[T]) OpenEdit(id int64, seeded T) {
	*m = Machine[T]{state: Open, editing: true, id: id, draft: seeded, seq: m.seq}
}

// Begin moves to Submitting and returns the request to send.
func (m *Machine[T]) Begin() (Submission[T], error) {
	switch m.state {
	case Closed:
		return Submission[T]{}, ErrNotOpen
	case Submitting:
		return Submission[T]{}, ErrInFlight
	}

	m.state = Submitting
	m.message = ""
	m.seq++

	sub := Submission[T]{Method: http.MethodPost, Draft: m.draft, Seq: m.seq}
	if m.editing {
		sub.Method = http.MethodPut
		sub.ID = m.id
	}
	return sub, nil
}

// Pending reports whether sub is the submission the dialog is waiting on.
// Answers to a dismissed dialog, or to an earlier dialog, are not.
func (m *Machine[T]) Pending(sub Submission[T]) bool {
	return m.state == Submitting && sub.Seq == m.seq
}

// Succeed closes the dialog after a successful submission. The caller
// refetches the list.
func (m *Machine[T]) Succeed() error {
	if m.state != Submitting {
		return ErrNotSubmitting
	}
	m.reset()
	return nil
}

// Fail keeps the dialog open and records the backend message.
func (m *Machine[T]) Fail(message string) error {
	if m.state != Submitting {
		return ErrNotSubmitting
	}
	m.state = Failed
	m.message = message
	return nil
}

// Close discards the draft unconditionally.
func (m *Machine[T]) Close() {
	m.reset()
}

func (m *Machine[T]) reset() {
	*m = Machine[T]{seq: m.seq}
}
