package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kate-desktop/kate/logging"
)

func GetHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		logging.ErrorLogger.Error().Err(err).Msg("failed to get user home directory")
		return ""
	}
	return homeDir
}

// GetConfigDir returns the directory holding the config and state files.
func GetConfigDir() string {
	return filepath.Join(GetHomeDir(), ".config", "kate")
}

// GetConfigPath returns the path to the configuration JSON file.
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.json")
}

// GetStatePath returns the path to the persisted UI state (selected model, launcher entries).
func GetStatePath() string {
	return filepath.Join(GetConfigDir(), "state.json")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	return filepath.Join(GetHomeDir(), path[1:])
}

// IsLocalhost checks if a URL or host string refers to localhost
func IsLocalhost(url string) bool {
	return strings.Contains(url, "localhost") || strings.Contains(url, "127.0.0.1")
}

// Truncate shortens s to at most max runes, marking the cut with an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}
