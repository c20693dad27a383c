package main

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kate-desktop/kate/config"
	"github.com/kate-desktop/kate/core"
	"github.com/kate-desktop/kate/prefs"
)

// stubBackend serves a fixed inventory and records what the UI asked for.
type stubBackend struct {
	mu       sync.Mutex
	models   []core.ModelRecord
	answer   string
	catalog  string
	added    []string
	deleted  []string
	launched []string
}

func (b *stubBackend) ListModels(ctx context.Context) (core.Envelope, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	models := b.models
	if models == nil {
		models = []core.ModelRecord{}
	}
	data, err := json.Marshal(map[string]interface{}{"models": models})
	if err != nil {
		return core.Envelope{}, err
	}
	return core.OK(string(data)), nil
}

func (b *stubBackend) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	return b.answer, nil
}

func (b *stubBackend) DeleteModel(ctx context.Context, name string) (core.Envelope, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, name)
	kept := b.models[:0:0]
	for _, m := range b.models {
		if m.Name != name {
			kept = append(kept, m)
		}
	}
	b.models = kept
	return core.OK(""), nil
}

func (b *stubBackend) AddModel(ctx context.Context, name string, progress core.ProgressFunc) (core.Envelope, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.added = append(b.added, name)
	b.models = append(b.models, core.ModelRecord{Name: name, Model: name})
	return core.OK(""), nil
}

func (b *stubBackend) FetchCatalogDocument(ctx context.Context, url string) (core.Envelope, error) {
	return core.OK(b.catalog), nil
}

func (b *stubBackend) LaunchApp(ctx context.Context, command string) (core.Envelope, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.launched = append(b.launched, command)
	return core.OK(""), nil
}

func newStubSession(t *testing.T, backend *stubBackend) *core.Session {
	t.Helper()
	s, err := core.NewSession(core.SessionConfig{
		Config:  config.Config{CatalogURL: "https://example.test/library"},
		Backend: backend,
		Store:   prefs.NewMemoryStore(),
		Renderer: core.RenderFunc(func(text string) (string, error) {
			return "» " + text, nil
		}),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}
