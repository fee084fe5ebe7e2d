package detail

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/maintenance-admin/internal/api"
	"github.com/nhle/maintenance-admin/internal/keys"
	"github.com/nhle/maintenance-admin/internal/model"
	"github.com/nhle/maintenance-admin/internal/session"
	"github.com/nhle/maintenance-admin/internal/ui/banner"
	"github.com/nhle/maintenance-admin/tests/testutil"
)

type fakeUsers struct {
	users []model.User
	err   error
	asked []int64
}

func (f *fakeUsers) SectorUsers(_ context.Context, id int64) ([]model.User, error) {
	f.asked = append(f.asked, id)
	return f.users, f.err
}

func newView(src UserSource) Model {
	m := New(src, keys.DefaultKeyMap(), 100, 30)
	m.SetSession(&session.Session{Token: "t", User: model.User{Role: "gerente", Ativo: true}})
	return m
}

func open(m Model, s model.Sector) (Model, []tea.Msg) {
	cmd := m.Open(s)
	var follow []tea.Msg
	for _, msg := range testutil.Drain(cmd) {
		var next tea.Cmd
		m, next = m.Update(msg)
		follow = append(follow, testutil.Drain(next)...)
	}
	return m, follow
}

func TestOpenFetchesSectorUsers(t *testing.T) {
	src := &fakeUsers{users: []model.User{
		{ID: 1, Nome: "Ana", Email: "ana@x.com", Role: "tecnico", Ativo: true},
		{ID: 2, Nome: "Bruno", Email: "bruno@x.com", Role: "gerente", Ativo: true},
	}}
	m, follow := open(newView(src), model.Sector{ID: 7, Nome: "Elétrica", Ativo: true})

	assert.Empty(t, follow)
	assert.Equal(t, []int64{7}, src.asked)
	assert.Len(t, m.Users(), 2)
	assert.Contains(t, m.View(), "Elétrica")
	assert.Contains(t, m.View(), "Bruno")
}

func TestRoleFilterCycles(t *testing.T) {
	src := &fakeUsers{users: []model.User{
		{ID: 1, Nome: "Ana", Role: "tecnico", Ativo: true},
		{ID: 2, Nome: "Bruno", Role: "gerente", Ativo: true},
	}}
	m, _ := open(newView(src), model.Sector{ID: 7, Nome: "Elétrica"})

	for i := 0; i < len(session.Roles())+1; i++ {
		m, _ = m.Update(testutil.Key("p"))
		if m.filter.Role == "tecnico" {
			break
		}
	}
	require.Equal(t, "tecnico", m.filter.Role)
	users := m.Users()
	require.Len(t, users, 1)
	assert.Equal(t, "Ana", users[0].Nome)
	assert.Len(t, src.asked, 1)
}

func TestLoadFailureShowsBanner(t *testing.T) {
	src := &fakeUsers{err: &api.HTTPError{Op: "sector users", StatusCode: 404}}
	m, follow := open(newView(src), model.Sector{ID: 7, Nome: "Elétrica"})

	assert.Empty(t, m.Users())
	show, ok := testutil.Find[banner.ShowMsg](follow)
	require.True(t, ok)
	assert.Contains(t, show.Text, api.MsgNotFound)
}

func TestBackEmitsBackMsg(t *testing.T) {
	m, _ := open(newView(&fakeUsers{}), model.Sector{ID: 1})
	_, cmd := m.Update(testutil.Key("esc"))
	_, ok := testutil.Find[BackMsg](testutil.Drain(cmd))
	assert.True(t, ok)
}

func TestReopenDropsEarlierResponse(t *testing.T) {
	src := &fakeUsers{users: []model.User{{ID: 1, Nome: "Ana", Ativo: true}}}
	m := newView(src)
	stale := testutil.Drain(m.Open(model.Sector{ID: 1}))
	src.users = nil
	m, _ = open(m, model.Sector{ID: 2})

	for _, msg := range stale {
		m, _ = m.Update(msg)
	}
	assert.Empty(t, m.Users())
}
