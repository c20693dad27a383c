package core

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/kate-desktop/kate/config"
	"github.com/kate-desktop/kate/prefs"
	"github.com/kate-desktop/kate/utils"
)

// Session wires the state holders together for one run of the application
// and tears them down on Close.
type Session struct {
	config       config.Config
	backend      Backend
	store        prefs.Store
	logger       *Logger
	eventBus     *EventBus
	inventory    *InventoryStore
	lifecycle    *LifecycleCoordinator
	conversation *Conversation
	launcher     *Launcher

	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// SessionConfig holds configuration for initialising the session. Nil
// collaborators are built from Config.
type SessionConfig struct {
	Config   config.Config
	Backend  Backend
	Store    prefs.Store
	Renderer Renderer
	Logger   *Logger
	Context  context.Context
}

func NewSession(cfg SessionConfig) (*Session, error) {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)

	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger()
	}

	backend := cfg.Backend
	if backend == nil {
		b, err := NewOllamaBackend(cfg.Config.OllamaAPIURL, &http.Client{}, logger)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to create Ollama backend: %w", err)
		}
		backend = b
		if !utils.IsLocalhost(cfg.Config.OllamaAPIURL) {
			logger.Infof("Using remote Ollama API at %s", cfg.Config.OllamaAPIURL)
		}
	}

	store := cfg.Store
	if store == nil {
		if cfg.Config.StatePath == "" {
			store = prefs.NewMemoryStore()
		} else {
			fs, err := prefs.OpenFileStore(cfg.Config.StatePath)
			if err != nil {
				cancel()
				return nil, fmt.Errorf("failed to open state file: %w", err)
			}
			store = fs
		}
	}

	renderer := cfg.Renderer
	if renderer == nil {
		r, err := rendererFor(cfg.Config.Renderer)
		if err != nil {
			cancel()
			return nil, err
		}
		renderer = r
	}

	events := NewEventBus()
	inventory := NewInventoryStore(backend, store, logger, events)
	launcher := NewLauncher(backend, store, logger, events)

	s := &Session{
		config:       cfg.Config,
		backend:      backend,
		store:        store,
		logger:       logger,
		eventBus:     events,
		inventory:    inventory,
		lifecycle:    NewLifecycleCoordinator(backend, inventory, logger, events),
		conversation: NewConversation(backend, inventory, renderer, logger, events),
		launcher:     launcher,
		ctx:          ctx,
		cancelFunc:   cancel,
	}

	if fs, ok := store.(*prefs.FileStore); ok {
		err := fs.Watch(ctx, func() {
			if err := launcher.Reload(); err != nil {
				logger.Warnf("Failed to reload launcher entries: %v", err)
			}
		})
		if err != nil {
			logger.Warnf("State file will not be watched: %v", err)
		}
	}

	logger.Info("Session initialised")
	return s, nil
}

func rendererFor(kind string) (Renderer, error) {
	switch kind {
	case config.RendererTerminal:
		return NewTerminalRenderer(80, "")
	case config.RendererHTML, "":
		return NewHTMLRenderer(), nil
	}
	return nil, fmt.Errorf("unknown renderer %q", kind)
}

// Close cancels background work and closes the event bus.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.cancelFunc()
		s.eventBus.Close()
		s.logger.Info("Session shut down")
	})
	return nil
}

// withTimeout bounds ctx by d; a zero d leaves it unbounded.
func (s *Session) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = s.ctx
	}
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// Refresh reloads the inventory.
func (s *Session) Refresh(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx, s.config.RequestTimeout)
	defer cancel()
	return s.inventory.Refresh(ctx)
}

// Select changes the active model.
func (s *Session) Select(name string) error {
	return s.inventory.SetSelection(name)
}

// Send runs one chat turn with the active model.
func (s *Session) Send(ctx context.Context, prompt string) error {
	ctx, cancel := s.withTimeout(ctx, s.config.GenerateTimeout)
	defer cancel()
	return s.conversation.Send(ctx, prompt)
}

// AddModel pulls a model from the catalog.
func (s *Session) AddModel(ctx context.Context, name string) error {
	ctx, cancel := s.withTimeout(ctx, s.config.PullTimeout)
	defer cancel()
	return s.lifecycle.Add(ctx, name)
}

// RemoveModel deletes an installed model.
func (s *Session) RemoveModel(ctx context.Context, name string) error {
	ctx, cancel := s.withTimeout(ctx, s.config.RequestTimeout)
	defer cancel()
	return s.lifecycle.Remove(ctx, name)
}

// NewCatalog starts an "add model" session against the configured library.
func (s *Session) NewCatalog() *CatalogSession {
	return NewCatalogSession(s.backend, s.config.CatalogURL, s.logger, s.eventBus)
}

// LoadCatalog loads c, bounded by the request timeout.
func (s *Session) LoadCatalog(ctx context.Context, c *CatalogSession) error {
	ctx, cancel := s.withTimeout(ctx, s.config.RequestTimeout)
	defer cancel()
	return c.Load(ctx)
}

// Launch opens the launcher entry at index.
func (s *Session) Launch(ctx context.Context, index int) error {
	ctx, cancel := s.withTimeout(ctx, s.config.RequestTimeout)
	defer cancel()
	return s.launcher.Launch(ctx, index)
}

func (s *Session) Inventory() *InventoryStore { return s.inventory }
func (s *Session) Lifecycle() *LifecycleCoordinator { return s.lifecycle }
func (s *Session) Conversation() *Conversation { return s.conversation }
func (s *Session) Launcher() *Launcher { return s.launcher }
func (s *Session) Events() *EventBus { return s.eventBus }
func (s *Session) Logger() *Logger { return s.logger }
func (s *Session) Config() config.Config { return s.config }
func (s *Session) Context() context.Context { return s.ctx }
