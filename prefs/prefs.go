// Package prefs persists small pieces of UI state (the selected model, the
// launcher entries) as a flat key/value document.
package prefs

import (
	"encoding/json"
	"fmt"
)

// Store is a durable string key/value store.
type Store interface {
	// Load returns the value stored under key and whether it was present.
	Load(key string) (string, bool, error)
	// Save stores value under key, persisting it before returning.
	Save(key, value string) error
}

// LoadJSON decodes the JSON value stored under key into a T.
func LoadJSON[T any](s Store, key string) (T, bool, error) {
	var out T
	raw, ok, err := s.Load(key)
	if err != nil || !ok {
		return out, false, err
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return out, true, nil
}

// SaveJSON stores the JSON encoding of v under key.
func SaveJSON[T any](s Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Save(key, string(raw))
}
