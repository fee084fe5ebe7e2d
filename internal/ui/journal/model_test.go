package journal

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/maintenance-admin/internal/keys"
	"github.com/nhle/maintenance-admin/internal/model"
	"github.com/nhle/maintenance-admin/internal/session"
	"github.com/nhle/maintenance-admin/internal/ui/page"
	"github.com/nhle/maintenance-admin/tests/testutil"
)

func apply(m Model, cmd tea.Cmd) Model {
	for _, msg := range testutil.Drain(cmd) {
		m, _ = m.Update(msg)
	}
	return m
}

func TestJournalListsNewestFirstAndFiltersOutcome(t *testing.T) {
	s := testutil.NewTestStore(t)
	page.Record(s, "ana", "setor", "1", "create", nil, "Setor criado")
	page.Record(s, "ana", "setor", "2", "delete", errors.New("boom"), "Erro no servidor")

	m := New(s, keys.DefaultKeyMap(), 140, 30)
	m.SetSession(&session.Session{Token: "t", User: model.User{Role: "usuario", Ativo: true}})
	cmd := m.Open()
	m = apply(m, cmd)

	require.Len(t, m.Entries(), 2)
	assert.Equal(t, "delete", m.Entries()[0].Action)
	assert.Contains(t, m.View(), "Setor criado")

	m, cmd = m.Update(testutil.Key("f"))
	m = apply(m, cmd)
	require.Len(t, m.Entries(), 1)
	assert.Equal(t, model.OutcomeSuccess, m.Entries()[0].Outcome)

	m, cmd = m.Update(testutil.Key("f"))
	m = apply(m, cmd)
	require.Len(t, m.Entries(), 1)
	assert.Equal(t, model.OutcomeFailure, m.Entries()[0].Outcome)
}

func TestJournalRequiresLogin(t *testing.T) {
	m := New(testutil.NewTestStore(t), keys.DefaultKeyMap(), 140, 30)
	assert.Nil(t, m.Open())
	assert.Equal(t, session.DeniedMessage, m.View())
}

func TestJournalEmpty(t *testing.T) {
	m := New(testutil.NewTestStore(t), keys.DefaultKeyMap(), 140, 30)
	m.SetSession(&session.Session{Token: "t", User: model.User{Role: "admin", Ativo: true}})
	cmd := m.Open()
	m = apply(m, cmd)

	assert.Empty(t, m.Entries())
	assert.Contains(t, m.View(), "Nenhuma alteração registrada.")
}
