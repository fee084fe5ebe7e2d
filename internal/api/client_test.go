package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/maintenance-admin/internal/model"
)

func staticToken(tok string) TokenSource {
	return TokenFunc(func() (string, error) { return tok, nil })
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

// recorder collects strings from handler goroutines.
type recorder struct {
	mu   sync.Mutex
	vals []string
}

func (r *recorder) add(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vals = append(r.vals, v)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.vals...)
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", staticToken("tok-123"), WithRateLimit(0))
}

func TestDashboardStatsSendsBearerAndUnwraps(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/dashboard/estatisticas", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"totais": map[string]int{
					"usuarios": 4, "locais": 3, "equipamentos": 12, "motores": 5, "relatorios": 40,
				},
			},
		})
	})

	stats, err := c.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DashboardTotals{
		Usuarios: 4, Locais: 3, Equipamentos: 12, Motores: 5, Relatorios: 40,
	}, stats.Totais)
}

func TestTokenIsReadOnEveryRequest(t *testing.T) {
	var seen recorder
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.add(r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "data": []any{}})
	}))
	defer srv.Close()

	tok := "first"
	c := NewClient(srv.URL, TokenFunc(func() (string, error) { return tok, nil }), WithRateLimit(0))

	_, err := c.Sectors(context.Background())
	require.NoError(t, err)
	tok = ""
	_, err = c.Sectors(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer first", ""}, seen.all())
}

func TestRecentReportsPassesLimit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dashboard/relatorios-recentes", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{"relatorios": []map[string]any{
				{"id": 2, "titulo": "Motor parado", "status": "pendente", "prioridade": "alta"},
				{"id": 1, "titulo": "Vazamento", "status": "concluido", "prioridade": "baixa"},
			}},
		})
	})

	reports, err := c.RecentReports(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, int64(2), reports[0].ID, "backend order is preserved")
	assert.Equal(t, "Motor parado", reports[0].Titulo)
}

func TestEnvelopeFailureCarriesBackendMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": false,
			"message": "Credenciais inválidas",
		})
	})

	_, err := c.Login(context.Background(), model.Credentials{Email: "a@b.c", Senha: "x"})
	require.Error(t, err)
	assert.True(t, IsEnvelope(err))
	assert.Equal(t, "Credenciais inválidas", UserMessage(err))
}

func TestHTTPErrorStatusMapping(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"message": "Token inválido",
		})
	})

	_, err := c.Sectors(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsEnvelope(err))
	assert.Equal(t, MsgUnauthorized, UserMessage(err))

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, "Token inválido", httpErr.Message)
}

func TestAuthedBadRequestStaysGeneric(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Nome obrigatório",
		})
	})

	_, err := c.CreateSector(context.Background(), model.SectorInput{})
	require.Error(t, err)
	assert.False(t, IsEnvelope(err))
	assert.Equal(t, MsgServer, UserMessage(err))
}

func TestWithTimeoutLeavesSharedClientAlone(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}
	c := NewClient("http://api", staticToken(""), WithHTTPClient(shared), WithTimeout(5*time.Second))

	assert.Equal(t, time.Minute, shared.Timeout)
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
}

func TestServerErrorGetsGenericMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "<html>boom</html>")
	})

	_, err := c.Sectors(context.Background())
	require.Error(t, err)
	assert.Equal(t, MsgServer, UserMessage(err))
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, staticToken(""), WithRateLimit(0))
	_, err := c.Sectors(context.Background())
	require.Error(t, err)

	var tErr *TransportError
	assert.True(t, errors.As(err, &tErr))
	assert.Equal(t, MsgConnection, UserMessage(err))
}

func TestMalformedBodyIsTransportError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "not json")
	})

	_, err := c.Sectors(context.Background())
	var tErr *TransportError
	assert.True(t, errors.As(err, &tErr))
}

func TestCreateSectorPostsBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/setores", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in model.SectorInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, model.SectorInput{Nome: "Elétrica", Descricao: "Manutenção elétrica", Ativo: true}, in)

		writeJSON(t, w, http.StatusCreated, map[string]any{
			"success": true,
			"data":    map[string]any{"id": 9, "nome": in.Nome, "descricao": in.Descricao, "ativo": true},
		})
	})

	s, err := c.CreateSector(context.Background(), model.SectorInput{
		Nome: "Elétrica", Descricao: "Manutenção elétrica", Ativo: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), s.ID)
}

func TestUpdateAndDeleteSectorPaths(t *testing.T) {
	var calls recorder
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.add(r.Method + " " + r.URL.Path)
		if r.Method == http.MethodDelete {
			writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "message": "Setor removido"})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"id": 3}})
	})

	_, err := c.UpdateSector(context.Background(), 3, model.SectorInput{Nome: "x"})
	require.NoError(t, err)
	require.NoError(t, c.DeleteSector(context.Background(), 3))

	assert.Equal(t, []string{"PUT /setores/3", "DELETE /setores/3"}, calls.all())
}

func TestSectorByID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/setores/5", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"id": 5, "nome": "Caldeiraria", "ativo": false},
		})
	})

	s, err := c.Sector(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Caldeiraria", s.Nome)
	assert.False(t, s.Ativo)
}

func TestSectorUsers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/setores/4/usuarios", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"data":    []map[string]any{{"id": 1, "nome": "Ana", "role": "tecnico", "ativo": true}},
		})
	})

	users, err := c.SectorUsers(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Ana", users[0].Nome)
}

func TestUpdatePreferencesBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/notificacoes/gerenciamento/usuario/12/preferencias", r.URL.Path)

		var body model.PreferencesUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]bool{"relatorio_criado": true, "manutencao_vencida": false}, body.Preferencias)

		writeJSON(t, w, http.StatusOK, map[string]any{"success": true})
	})

	err := c.UpdatePreferences(context.Background(), 12, map[string]bool{
		"relatorio_criado":   true,
		"manutencao_vencida": false,
	})
	require.NoError(t, err)
}

func TestNotificationOverview(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"estatisticas": map[string]int{"total_usuarios": 2, "notificacoes_hoje": 5},
				"usuarios": []map[string]any{
					{"id": 1, "nome": "Ana", "preferencias": map[string]bool{"relatorio_criado": true}},
				},
				"notificacoes_recentes": []map[string]any{{"id": 1, "titulo": "Novo relatório"}},
				"tipos_disponiveis": []map[string]string{
					{"tipo": "relatorio_criado", "nome": "Relatório criado", "descricao": "..."},
				},
			},
		})
	})

	ov, err := c.NotificationOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, ov.Estatisticas.TotalUsuarios)
	assert.True(t, ov.Usuarios[0].Preferencias["relatorio_criado"])
	assert.Equal(t, "relatorio_criado", ov.TiposDisponiveis[0].Tipo)
	assert.Len(t, ov.NotificacoesRecentes, 1)
}

func TestRetriesOn429(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "data": []any{}})
	})

	_, err := c.Sectors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestCanceledContextStopsRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		writeJSON(t, w, http.StatusOK, map[string]any{"success": true})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Sectors(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnauthorizedHandlerRunsOnlyWithToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Token inválido"})
	}))
	t.Cleanup(srv.Close)

	var calls atomic.Int32
	hook := WithUnauthorizedHandler(func() { calls.Add(1) })

	withToken := NewClient(srv.URL, staticToken("expired"), WithRateLimit(0), hook)
	_, err := withToken.DashboardStats(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, int32(1), calls.Load())

	anonymous := NewClient(srv.URL, staticToken(""), WithRateLimit(0), hook)
	_, err = anonymous.Login(context.Background(), model.Credentials{Email: "a@b.c", Senha: "x"})
	require.Error(t, err)
	assert.Equal(t, "Token inválido", UserMessage(err))
	assert.Equal(t, int32(1), calls.Load())
}
