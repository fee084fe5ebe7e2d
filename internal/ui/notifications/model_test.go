package notifications

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
	"github.com/nhle/maintenance-admin/internal/store"
	"github.com/nhle/maintenance-admin/internal/ui/banner"
	"github.com/nhle/maintenance-admin/internal/ui/page"
	"github.com/nhle/maintenance-admin/tests/testutil"
)

type update struct {
	userID int64
	prefs  map[string]bool
}

type fakeService struct {
	overview *model.NotificationOverview
	loadErr  error
	saveErr  error
	loads    int
	updates  []update
}

func (f *fakeService) NotificationOverview(context.Context) (*model.NotificationOverview, error) {
	f.loads++
	return f.overview, f.loadErr
}

func (f *fakeService) UpdatePreferences(_ context.Context, userID int64, prefs map[string]bool) error {
	f.updates = append(f.updates, update{userID: userID, prefs: prefs})
	return f.saveErr
}

func sampleOverview() *model.NotificationOverview {
	return &model.NotificationOverview{
		Estatisticas: model.NotificationStats{TotalUsuarios: 3, UsuariosAtivos: 2, NotificacoesHoje: 5},
		Usuarios: []model.User{
			{ID: 10, Nome: "Ana Souza", Username: "ana", Email: "ana@x.com", Role: "tecnico", Ativo: true,
				Preferencias: map[string]bool{"novo_relatorio": true, "relatorio_concluido": false}},
			{ID: 11, Nome: "Bruno Lima", Username: "bruno", Email: "bruno@x.com", Role: "gerente", Ativo: true,
				Preferencias: map[string]bool{"novo_relatorio": true}},
			{ID: 12, Nome: "Carla Dias", Username: "carla", Email: "carla@x.com", Role: "usuario", Ativo: false},
		},
		NotificacoesRecentes: []model.RecentNotification{
			{ID: 1, Tipo: "novo_relatorio", Titulo: "Novo relatório #42", UsuarioNome: "Bruno Lima"},
		},
		TiposDisponiveis: []model.NotificationType{
			{Tipo: "novo_relatorio", Nome: "Novo relatório"},
			{Tipo: "relatorio_concluido", Nome: "Relatório concluído"},
			{Tipo: "manutencao_agendada", Nome: "Manutenção agendada"},
		},
	}
}

func apply(m Model, cmd tea.Cmd) (Model, []tea.Msg) {
	var follow []tea.Msg
	for _, msg := range testutil.Drain(cmd) {
		var next tea.Cmd
		m, next = m.Update(msg)
		follow = append(follow, testutil.Drain(next)...)
	}
	return m, follow
}

func openPage(t *testing.T, svc *fakeService, role string, rec page.Recorder) Model {
	t.Helper()
	m := New(svc, rec, keys.DefaultKeyMap(), 120, 50)
	m.SetSession(&session.Session{Token: "t", User: model.User{Username: "root", Role: role, Ativo: true}})
	cmd := m.Open()
	require.NotNil(t, cmd)
	m, _ = apply(m, cmd)
	return m
}

func TestOpenRendersOverview(t *testing.T) {
	svc := &fakeService{overview: sampleOverview()}
	m := openPage(t, svc, "admin", nil)

	require.NotNil(t, m.Overview())
	assert.Len(t, m.Visible(), 3)
	view := m.View()
	assert.Contains(t, view, "Novo relatório #42")
	assert.Contains(t, view, "Ana Souza")
}

func TestLoadFailureShowsBanner(t *testing.T) {
	svc := &fakeService{loadErr: &api.EnvelopeError{Op: "notification overview", Message: "Falha ao consultar"}}
	m := New(svc, nil, keys.DefaultKeyMap(), 120, 50)
	m.SetSession(&session.Session{Token: "t", User: model.User{Role: "admin", Ativo: true}})
	cmd := m.Open()

	m, follow := apply(m, cmd)

	assert.Empty(t, m.Visible())
	show, ok := testutil.Find[banner.ShowMsg](follow)
	require.True(t, ok)
	assert.Contains(t, show.Text, "Falha ao consultar")
}

func TestFiltersNarrowWithoutRefetch(t *testing.T) {
	svc := &fakeService{overview: sampleOverview()}
	m := openPage(t, svc, "admin", nil)

	m, _ = m.Update(testutil.Key("f"))
	assert.Len(t, m.Visible(), 2)

	m, _ = m.Update(testutil.Key("/"))
	for _, r := range "BRUNO@" {
		m, _ = m.Update(testutil.Key(string(r)))
	}
	m, _ = m.Update(testutil.Key("enter"))
	require.Len(t, m.Visible(), 1)
	assert.Equal(t, int64(11), m.Visible()[0].ID)
	assert.Equal(t, 1, svc.loads)
}

func TestToggleFlipsExactlyOneType(t *testing.T) {
	svc := &fakeService{overview: sampleOverview()}
	m := openPage(t, svc, "admin", nil)

	m, _ = m.Update(testutil.Key("enter"))
	require.True(t, m.Capturing())
	require.NotNil(t, m.Draft())
	before := m.Draft().Values()

	m, _ = m.Update(testutil.Key("down"))
	m, _ = m.Update(testutil.Key(" "))

	after := m.Draft().Values()
	for tipo, on := range before {
		if tipo == "relatorio_concluido" {
			assert.NotEqual(t, on, after[tipo])
		} else {
			assert.Equal(t, on, after[tipo], tipo)
		}
	}
	assert.True(t, m.Draft().Dirty())
}

func TestSaveSendsFullMapAndRefetches(t *testing.T) {
	svc := &fakeService{overview: sampleOverview()}
	rec := testutil.NewTestStore(t)
	m := openPage(t, svc, "admin", rec)

	m, _ = m.Update(testutil.Key("enter"))
	m, _ = m.Update(testutil.Key("x"))
	m, cmd := m.Update(testutil.Key("s"))
	m, follow := apply(m, cmd)

	require.Len(t, svc.updates, 1)
	assert.Equal(t, int64(10), svc.updates[0].userID)
	assert.Equal(t, map[string]bool{
		"novo_relatorio":      false,
		"relatorio_concluido": false,
		"manutencao_agendada": false,
	}, svc.updates[0].prefs)
	assert.False(t, m.Capturing())
	assert.Equal(t, 2, svc.loads)

	show, ok := testutil.Find[banner.ShowMsg](follow)
	require.True(t, ok)
	assert.Equal(t, banner.KindSuccess, show.Kind)

	entity := "preferencias"
	n, err := rec.CountJournal(context.Background(), store.JournalFilter{Entity: &entity})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSaveFailureKeepsEditorOpen(t *testing.T) {
	svc := &fakeService{overview: sampleOverview(), saveErr: &api.HTTPError{Op: "update preferences", StatusCode: 500}}
	m := openPage(t, svc, "admin", nil)

	m, _ = m.Update(testutil.Key("enter"))
	m, _ = m.Update(testutil.Key(" "))
	m, cmd := m.Update(testutil.Key("s"))
	m, _ = apply(m, cmd)

	assert.True(t, m.Capturing())
	require.NotNil(t, m.Draft())
	assert.True(t, m.Draft().Dirty())
	assert.Equal(t, 1, svc.loads)
	assert.Contains(t, m.View(), api.MsgServer)
}

func TestEscDiscardsDraft(t *testing.T) {
	svc := &fakeService{overview: sampleOverview()}
	m := openPage(t, svc, "admin", nil)

	m, _ = m.Update(testutil.Key("enter"))
	m, _ = m.Update(testutil.Key(" "))
	m, _ = m.Update(testutil.Key("esc"))

	assert.False(t, m.Capturing())
	assert.Nil(t, m.Draft())
	assert.Empty(t, svc.updates)
}

func TestTechnicianIsDenied(t *testing.T) {
	m := New(&fakeService{}, nil, keys.DefaultKeyMap(), 120, 50)
	m.SetSession(&session.Session{Token: "t", User: model.User{Role: "tecnico", Ativo: true}})

	assert.Nil(t, m.Open())
	assert.Equal(t, session.DeniedMessage, m.View())
}
