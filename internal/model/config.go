package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. MAINTADMIN_API_BASE_URL.
const EnvPrefix = "MAINTADMIN"

// APIConfig holds settings for the backend REST API.
type APIConfig struct {
	// BaseURL is the root of the REST API (e.g., https://manutencao.example.com/api).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds every HTTP request.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// RequestsPerSec caps the outgoing request rate.
	RequestsPerSec float64 `mapstructure:"requests_per_sec" yaml:"requests_per_sec"`
}

// Timeout returns the request timeout as a duration.
func (c APIConfig) Timeout() time.Duration {
	if c.TimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSec) * time.Second
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`

	// RecentLimit is how many recent reports the dashboard requests.
	RecentLimit int `mapstructure:"recent_limit" yaml:"recent_limit"`

	// BannerSec is how long success/error banners stay on screen.
	BannerSec int `mapstructure:"banner_sec" yaml:"banner_sec"`
}

// BannerDuration returns the banner lifetime as a duration.
func (c DisplayConfig) BannerDuration() time.Duration {
	if c.BannerSec <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.BannerSec) * time.Second
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`

	// DataDir holds the journal database and the log file.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
}

// configDir returns ~/.config/maintadmin, or the working directory when
// the home directory cannot be resolved.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "maintadmin")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/maintadmin/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		API: APIConfig{
			TimeoutSec:     30,
			RequestsPerSec: 10,
		},
		Display: DisplayConfig{
			Theme:       "default",
			RecentLimit: 10,
			BannerSec:   3,
		},
		DataDir: configDir(),
	}
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values.
	def := defaultAppConfig()
	v.SetDefault("api.base_url", "")
	v.SetDefault("api.timeout_sec", def.API.TimeoutSec)
	v.SetDefault("api.requests_per_sec", def.API.RequestsPerSec)
	v.SetDefault("display.theme", def.Display.Theme)
	v.SetDefault("display.recent_limit", def.Display.RecentLimit)
	v.SetDefault("display.banner_sec", def.Display.BannerSec)
	v.SetDefault("data_dir", def.DataDir)
	return v
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables prefixed with MAINTADMIN_ override file values.
// If the file does not exist, defaults (plus environment) are returned.
func LoadConfig(path string) (*AppConfig, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		_, isPathErr := err.(*os.PathError)
		_, isNotFound := err.(viper.ConfigFileNotFoundError)
		if !isPathErr && !isNotFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	if cfg.Display.RecentLimit <= 0 {
		cfg.Display.RecentLimit = 10
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("display", cfg.Display)
	v.Set("data_dir", cfg.DataDir)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
