package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/maintenance-admin/internal/model"
)

func TestLoginPostsCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)

		var body model.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, model.Credentials{Email: "ana@example.com", Senha: "segredo"}, body)

		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"token":   "jwt-abc",
				"usuario": map[string]any{"id": 1, "nome": "Ana", "role": "admin", "ativo": true},
			},
		})
	})

	res, err := c.Login(context.Background(), model.Credentials{Email: "ana@example.com", Senha: "segredo"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", res.Token)
	assert.Equal(t, "Ana", res.Usuario.Nome)
	assert.True(t, res.Usuario.Ativo)
}

func TestRejectedLoginKeepsBackendMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": false,
			"message": "Credenciais inválidas",
		})
	})

	_, err := c.Login(context.Background(), model.Credentials{Email: "ana@example.com", Senha: "x"})
	require.Error(t, err)
	assert.True(t, IsEnvelope(err))
	assert.Equal(t, "Credenciais inválidas", UserMessage(err))
}

func TestRegisterPostsForm(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/registro", r.URL.Path)

		var body model.Registration
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "bia", body.Username)

		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"token": "jwt-new", "usuario": map[string]any{"id": 9, "username": "bia"}},
		})
	})

	res, err := c.Register(context.Background(), model.Registration{
		Nome: "Bia", Username: "bia", Email: "bia@example.com", Senha: "segredo1",
	})
	require.NoError(t, err)
	assert.Equal(t, "jwt-new", res.Token)
	assert.Equal(t, int64(9), res.Usuario.ID)
}

func TestProfileUsesToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/perfil", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"id": 1, "username": "ana", "role": "gerente", "ativo": true},
		})
	})

	u, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "gerente", u.Role)
}

func TestLoginRejectedWithStatusShowsBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"message": "Credenciais inválidas",
		})
	}))
	t.Cleanup(srv.Close)

	expired := false
	c := NewClient(srv.URL, staticToken(""), WithRateLimit(0),
		WithUnauthorizedHandler(func() { expired = true }))

	_, err := c.Login(context.Background(), model.Credentials{Email: "ana@example.com", Senha: "x"})
	require.Error(t, err)
	assert.True(t, IsEnvelope(err))
	assert.False(t, IsUnauthorized(err))
	assert.Equal(t, "Credenciais inválidas", UserMessage(err))
	assert.False(t, expired)
}
