package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Empty(t, cfg.API.BaseURL)
	assert.Equal(t, 30, cfg.API.TimeoutSec)
	assert.Equal(t, 10.0, cfg.API.RequestsPerSec)
	assert.Equal(t, 10, cfg.Display.RecentLimit)
	assert.Equal(t, 3, cfg.Display.BannerSec)
}

func TestSaveThenLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	in := &AppConfig{
		API:     APIConfig{BaseURL: "https://manutencao.example.com/api", TimeoutSec: 12, RequestsPerSec: 2.5},
		Display: DisplayConfig{Theme: "default", RecentLimit: 25, BannerSec: 5},
		DataDir: t.TempDir(),
	}
	require.NoError(t, SaveConfig(path, in))

	out, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, in.API, out.API)
	assert.Equal(t, 25, out.Display.RecentLimit)
	assert.Equal(t, in.DataDir, out.DataDir)
}

func TestEnvironmentOverridesBaseURL(t *testing.T) {
	t.Setenv("MAINTADMIN_API_BASE_URL", "http://localhost:3000/api/")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/api", cfg.API.BaseURL)
}

func TestDurations(t *testing.T) {
	assert.Equal(t, "30s", APIConfig{}.Timeout().String())
	assert.Equal(t, "4s", APIConfig{TimeoutSec: 4}.Timeout().String())
	assert.Equal(t, "3s", DisplayConfig{}.BannerDuration().String())
}
