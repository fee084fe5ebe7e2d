package config

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/maintenance-admin/internal/api"
	"github.com/nhle/maintenance-admin/internal/model"
	"github.com/nhle/maintenance-admin/tests/testutil"
)

type fakeProber struct {
	err   error
	asked []string
}

func (f *fakeProber) Probe(_ context.Context, baseURL string) error {
	f.asked = append(f.asked, baseURL)
	return f.err
}

func baseConfig() *model.AppConfig {
	return &model.AppConfig{
		API:     model.APIConfig{TimeoutSec: 30, RequestsPerSec: 10},
		Display: model.DisplayConfig{RecentLimit: 10, BannerSec: 3},
	}
}

func newView(t *testing.T, p Prober, cfg *model.AppConfig) (Model, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	m := New(p, path, cfg, 100, 40)
	m.Init()
	return m, path
}

// runSave drives submit and feeds the validation result back, skipping
// the spinner tick.
func runSave(m Model) (Model, tea.Cmd) {
	m, cmd := m.submit()
	if cmd == nil {
		return m, nil
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		return m, nil
	}
	var out tea.Cmd
	for _, c := range batch {
		if c == nil {
			continue
		}
		if res, ok := c().(validateResultMsg); ok {
			m, out = m.Update(res)
		}
	}
	return m, out
}

func TestFirstRunWithoutBaseURL(t *testing.T) {
	m, _ := newView(t, &fakeProber{}, baseConfig())
	assert.True(t, m.FirstRun())
	assert.Contains(t, m.View(), "Nenhum endereço de API configurado")

	m, _ = m.Update(testutil.Key("esc"))
	assert.Equal(t, ModeForm, m.Mode())
	assert.True(t, m.FirstRun())
}

func TestSaveProbesAndWritesConfig(t *testing.T) {
	p := &fakeProber{}
	m, path := newView(t, p, baseConfig())
	m.fb.baseURL = " https://manutencao.example.com/api/ "
	m.fb.recentLimit = "25"

	m, cmd := runSave(m)
	require.NotNil(t, cmd)
	saved, ok := cmd().(ConfigSavedMsg)
	require.True(t, ok)
	assert.Equal(t, "https://manutencao.example.com/api", saved.Config.API.BaseURL)
	assert.Equal(t, []string{"https://manutencao.example.com/api"}, p.asked)
	assert.False(t, m.FirstRun())

	loaded, err := model.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://manutencao.example.com/api", loaded.API.BaseURL)
	assert.Equal(t, 25, loaded.Display.RecentLimit)
}

func TestUnreachableAddressIsNotSaved(t *testing.T) {
	p := &fakeProber{err: &api.TransportError{Op: "probe", Err: errors.New("connection refused")}}
	m, path := newView(t, p, baseConfig())
	m.fb.baseURL = "http://10.0.0.1:9"

	m, cmd := runSave(m)
	assert.Nil(t, cmd)
	assert.Equal(t, ModeFailed, m.Mode())
	assert.Contains(t, m.Failure(), api.MsgConnection)
	assert.NoFileExists(t, path)

	m, _ = m.Update(testutil.Key("enter"))
	assert.Equal(t, ModeForm, m.Mode())
}

func TestInvalidNumberFails(t *testing.T) {
	m, _ := newView(t, &fakeProber{}, baseConfig())
	m.fb.baseURL = "https://x.example.com"
	m.fb.timeoutSec = "abc"

	m, _ = m.submit()
	assert.Equal(t, ModeFailed, m.Mode())
}

func TestEscClosesWhenConfigured(t *testing.T) {
	cfg := baseConfig()
	cfg.API.BaseURL = "https://x.example.com"
	m, _ := newView(t, &fakeProber{}, cfg)

	_, cmd := m.Update(testutil.Key("esc"))
	_, done := testutil.Find[ConfigDoneMsg](testutil.Drain(cmd))
	assert.True(t, done)
}

func TestValidators(t *testing.T) {
	assert.NoError(t, validateURL("https://a.example.com/api"))
	assert.Error(t, validateURL("a.example.com"))
	assert.Error(t, validateURL("ftp://a.example.com"))
	assert.NoError(t, validatePositive("x")("3"))
	assert.Error(t, validatePositive("x")("0"))
	assert.NoError(t, validateRate("0"))
	assert.Error(t, validateRate("-1"))
}
