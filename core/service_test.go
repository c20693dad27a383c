package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kate-desktop/kate/config"
	"github.com/kate-desktop/kate/prefs"
)

func newTestSession(t *testing.T, backend Backend, cfg config.Config) *Session {
	t.Helper()
	s, err := NewSession(SessionConfig{
		Config:   cfg,
		Backend:  backend,
		Store:    prefs.NewMemoryStore(),
		Renderer: bracketRenderer,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSessionChatScenario(t *testing.T) {
	backend := &fakeBackend{
		generate: func(ctx context.Context, model, prompt string) (string, error) {
			return "Hello!", nil
		},
	}
	backend.setModels(llama3())
	s := newTestSession(t, backend, config.Config{})
	ctx := context.Background()

	require.NoError(t, s.Refresh(ctx))
	assert.Equal(t, "llama3:latest", s.Inventory().Selection())

	require.NoError(t, s.Send(ctx, "hi"))
	msgs := s.Conversation().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "<p>Hello!</p>", msgs[1].Content)
	assert.Equal(t, "llama3", backend.calls()[0].Model)
}

func TestSessionAddThenRemove(t *testing.T) {
	backend := &fakeBackend{}
	backend.setModels(llama3())
	backend.add = func(ctx context.Context, name string, progress ProgressFunc) (Envelope, error) {
		backend.setModels(llama3(), record(name))
		return OK(""), nil
	}
	backend.delete = func(ctx context.Context, name string) (Envelope, error) {
		backend.setModels(llama3())
		return OK(""), nil
	}
	s := newTestSession(t, backend, config.Config{})
	ctx := context.Background()
	require.NoError(t, s.Refresh(ctx))

	require.NoError(t, s.AddModel(ctx, "phi3:mini"))
	_, ok := s.Inventory().Lookup("phi3:mini")
	assert.True(t, ok)

	require.NoError(t, s.Select("phi3:mini"))
	require.NoError(t, s.RemoveModel(ctx, "phi3:mini"))
	assert.Equal(t, "llama3:latest", s.Inventory().Selection(), "selection falls back once its model is gone")
	assert.Empty(t, s.Lifecycle().InFlight())
}

func TestSessionGenerateTimeoutResetsTurn(t *testing.T) {
	backend := &fakeBackend{
		generate: func(ctx context.Context, model, prompt string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
	backend.setModels(llama3())
	s := newTestSession(t, backend, config.Config{GenerateTimeout: 20 * time.Millisecond})
	require.NoError(t, s.Refresh(context.Background()))

	err := s.Send(context.Background(), "hi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, TurnIdle, s.Conversation().State())
	assert.Len(t, s.Conversation().Messages(), 1)
}

func TestSessionZeroTimeoutIsUnbounded(t *testing.T) {
	var deadline bool
	backend := &fakeBackend{
		add: func(ctx context.Context, name string, progress ProgressFunc) (Envelope, error) {
			_, deadline = ctx.Deadline()
			return OK(""), nil
		},
	}
	s := newTestSession(t, backend, config.Config{PullTimeout: 0})
	require.NoError(t, s.AddModel(context.Background(), "llama3"))
	assert.False(t, deadline)
}

func TestSessionCatalog(t *testing.T) {
	var gotURL string
	backend := &fakeBackend{
		catalog: func(ctx context.Context, url string) (Envelope, error) {
			gotURL = url
			return OK(libraryFragment), nil
		},
	}
	s := newTestSession(t, backend, config.Config{CatalogURL: "https://example.test/library"})

	c := s.NewCatalog()
	require.NoError(t, s.LoadCatalog(context.Background(), c))
	assert.Equal(t, "https://example.test/library", gotURL)
	assert.Len(t, c.Entries(), 3)
}

func TestSessionDefaultsFromConfig(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSession(SessionConfig{Config: config.Config{
		OllamaAPIURL: "http://127.0.0.1:1",
		StatePath:    filepath.Join(dir, "state.json"),
		Renderer:     config.RendererHTML,
	}})
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &OllamaBackend{}, s.backend)
	assert.IsType(t, &prefs.FileStore{}, s.store)

	require.NoError(t, s.Launcher().Add("Shell", "bash"))
	reopened, err := prefs.OpenFileStore(filepath.Join(dir, "state.json"))
	require.NoError(t, err)
	entries, ok, err := prefs.LoadJSON[[]LauncherEntry](reopened, LauncherKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []LauncherEntry{{Name: "Shell", Command: "bash"}}, entries)
}

func TestSessionRejectsUnknownRenderer(t *testing.T) {
	_, err := NewSession(SessionConfig{
		Config:  config.Config{Renderer: "pdf"},
		Backend: &fakeBackend{},
		Store:   prefs.NewMemoryStore(),
	})
	assert.Error(t, err)
}

func TestSessionCloseClosesEvents(t *testing.T) {
	s := newTestSession(t, &fakeBackend{}, config.Config{})
	sub := s.Events().Subscribe()
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, open := <-sub
	assert.False(t, open)
	assert.Error(t, s.Context().Err())
}
