package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"OLLAMA_HOST", "OLLAMA_API_URL", "KATE_LOG_LEVEL", "KATE_CATALOG_URL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadConfigCreatesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "kate", "config.json")

	cfg, err := LoadConfigFrom(configPath)
	require.NoError(t, err)

	assert.Equal(t, DefaultOllamaAPIURL, cfg.OllamaAPIURL)
	assert.Equal(t, DefaultCatalogURL, cfg.CatalogURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10*time.Minute, cfg.GenerateTimeout)
	assert.Equal(t, time.Duration(0), cfg.PullTimeout)
	assert.Equal(t, RendererTerminal, cfg.Renderer)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err, "default config should be written out")

	var onDisk map[string]any
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, "30s", onDisk["request_timeout"])
}

func TestLoadConfigFromFile(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{
  "ollama_api_url": "http://gpu-box:11434",
  "log_level": "debug",
  "catalog_url": "http://mirror.local/library",
  "request_timeout": "5s",
  "generate_timeout": "1m",
  "renderer": "html"
}`), 0o644))

	cfg, err := LoadConfigFrom(configPath)
	require.NoError(t, err)

	assert.Equal(t, "http://gpu-box:11434", cfg.OllamaAPIURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "http://mirror.local/library", cfg.CatalogURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, time.Minute, cfg.GenerateTimeout)
	assert.Equal(t, RendererHTML, cfg.Renderer)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		expected string
	}{
		{name: "OLLAMA_HOST bare host", env: map[string]string{"OLLAMA_HOST": "ollama.icu.lol"}, expected: "http://ollama.icu.lol:11434"},
		{name: "OLLAMA_HOST host and port", env: map[string]string{"OLLAMA_HOST": "10.0.0.2:8080"}, expected: "http://10.0.0.2:8080"},
		{name: "OLLAMA_API_URL wins over OLLAMA_HOST", env: map[string]string{"OLLAMA_API_URL": "https://api.example.com:443", "OLLAMA_HOST": "other"}, expected: "https://api.example.com:443"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadConfigFrom(filepath.Join(t.TempDir(), "config.json"))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.OllamaAPIURL)
		})
	}
}

func TestLoadConfigRejectsUnknownRenderer(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"renderer": "pdf"}`), 0o644))

	_, err := LoadConfigFrom(configPath)
	assert.Error(t, err)
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{not json`), 0o644))

	_, err := LoadConfigFrom(configPath)
	assert.Error(t, err)
}
