package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/kate-desktop/kate/logging"
	"github.com/kate-desktop/kate/utils"
)

const (
	DefaultOllamaAPIURL = "http://127.0.0.1:11434"
	DefaultCatalogURL   = "https://ollama.com/library"

	RendererHTML     = "html"
	RendererTerminal = "terminal"
)

type Config struct {
	OllamaAPIURL    string        `json:"ollama_api_url" mapstructure:"ollama_api_url"`
	LogLevel        string        `json:"log_level" mapstructure:"log_level"`
	LogFilePath     string        `json:"log_file_path" mapstructure:"log_file_path"`
	StatePath       string        `json:"state_path" mapstructure:"state_path"`
	CatalogURL      string        `json:"catalog_url" mapstructure:"catalog_url"`
	RequestTimeout  time.Duration `json:"request_timeout" mapstructure:"request_timeout"`   // list, delete, catalog, launch; 0 disables
	GenerateTimeout time.Duration `json:"generate_timeout" mapstructure:"generate_timeout"` // one chat turn; 0 disables
	PullTimeout     time.Duration `json:"pull_timeout" mapstructure:"pull_timeout"`         // model download; 0 disables
	Renderer        string        `json:"renderer" mapstructure:"renderer"`                 // html or terminal
	Theme           string        `json:"theme" mapstructure:"theme"`
}

func defaultConfig() Config {
	return Config{
		OllamaAPIURL:    DefaultOllamaAPIURL,
		LogLevel:        "info",
		LogFilePath:     filepath.Join(utils.GetConfigDir(), "kate.log"),
		StatePath:       utils.GetStatePath(),
		CatalogURL:      DefaultCatalogURL,
		RequestTimeout:  30 * time.Second,
		GenerateTimeout: 10 * time.Minute,
		PullTimeout:     0,
		Renderer:        RendererTerminal,
		Theme:           "default",
	}
}

// LoadConfig reads the config file at the default location.
func LoadConfig() (Config, error) {
	return LoadConfigFrom(utils.GetConfigPath())
}

// LoadConfigFrom reads configPath, creating it with defaults when it does not
// exist. Environment variables override file values.
func LoadConfigFrom(configPath string) (Config, error) {
	v := newViper(configPath)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			logging.ErrorLogger.Error().Err(err).Str("path", configPath).Msg("failed to read config file")
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}

		logging.DebugLogger.Debug().Str("path", configPath).Msg("config file does not exist, creating with default values")
		if err := saveConfigTo(configPath, defaultConfig()); err != nil {
			return Config{}, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logging.ErrorLogger.Error().Err(err).Msg("failed to decode config")
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.OllamaAPIURL = normaliseAPIURL(cfg.OllamaAPIURL)
	cfg.LogFilePath = utils.ExpandHome(cfg.LogFilePath)
	cfg.StatePath = utils.ExpandHome(cfg.StatePath)
	if cfg.Renderer != RendererHTML && cfg.Renderer != RendererTerminal {
		return Config{}, fmt.Errorf("unknown renderer %q", cfg.Renderer)
	}

	return cfg, nil
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")

	d := defaultConfig()
	v.SetDefault("ollama_api_url", d.OllamaAPIURL)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file_path", d.LogFilePath)
	v.SetDefault("state_path", d.StatePath)
	v.SetDefault("catalog_url", d.CatalogURL)
	v.SetDefault("request_timeout", d.RequestTimeout)
	v.SetDefault("generate_timeout", d.GenerateTimeout)
	v.SetDefault("pull_timeout", d.PullTimeout)
	v.SetDefault("renderer", d.Renderer)
	v.SetDefault("theme", d.Theme)

	_ = v.BindEnv("ollama_api_url", "OLLAMA_API_URL", "OLLAMA_HOST")
	_ = v.BindEnv("log_level", "KATE_LOG_LEVEL")
	_ = v.BindEnv("catalog_url", "KATE_CATALOG_URL")
	return v
}

// normaliseAPIURL turns OLLAMA_HOST style values ("host", "host:port") into a base URL.
func normaliseAPIURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultOllamaAPIURL
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	if u.Port() == "" {
		u.Host = net.JoinHostPort(u.Hostname(), "11434")
	}
	return strings.TrimSuffix(u.String(), "/")
}

func SaveConfig(config Config) error {
	return saveConfigTo(utils.GetConfigPath(), config)
}

func saveConfigTo(configPath string, config Config) error {
	logging.DebugLogger.Debug().Str("path", configPath).Msg("saving config")

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		logging.ErrorLogger.Error().Err(err).Msg("failed to create config directory")
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		logging.ErrorLogger.Error().Err(err).Msg("failed to create config file")
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(toFile(config)); err != nil {
		logging.ErrorLogger.Error().Err(err).Msg("failed to encode config to file")
		return fmt.Errorf("failed to encode config to file: %w", err)
	}
	return nil
}

// fileConfig is the on-disk form; durations are written as strings so the
// file stays hand-editable.
type fileConfig struct {
	OllamaAPIURL    string `json:"ollama_api_url"`
	LogLevel        string `json:"log_level"`
	LogFilePath     string `json:"log_file_path"`
	StatePath       string `json:"state_path"`
	CatalogURL      string `json:"catalog_url"`
	RequestTimeout  string `json:"request_timeout"`
	GenerateTimeout string `json:"generate_timeout"`
	PullTimeout     string `json:"pull_timeout"`
	Renderer        string `json:"renderer"`
	Theme           string `json:"theme"`
}

func toFile(c Config) fileConfig {
	return fileConfig{
		OllamaAPIURL:    c.OllamaAPIURL,
		LogLevel:        c.LogLevel,
		LogFilePath:     c.LogFilePath,
		StatePath:       c.StatePath,
		CatalogURL:      c.CatalogURL,
		RequestTimeout:  c.RequestTimeout.String(),
		GenerateTimeout: c.GenerateTimeout.String(),
		PullTimeout:     c.PullTimeout.String(),
		Renderer:        c.Renderer,
		Theme:           c.Theme,
	}
}
