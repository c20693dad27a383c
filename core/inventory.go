package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/kate-desktop/kate/prefs"
)

// SelectionKey is the persisted-state key holding the selected model.
const SelectionKey = "currentModel"

// latestTag is the default version qualifier the backend appends to names.
const latestTag = ":latest"

// Normalize strips trailing ":latest" qualifiers. It is idempotent.
func Normalize(name string) string {
	for strings.HasSuffix(name, latestTag) {
		name = strings.TrimSuffix(name, latestTag)
	}
	return name
}

// DisplayName renders a model name for humans: "llama3-chat:latest" becomes
// "Llama3 Chat".
func DisplayName(name string) string {
	words := strings.Split(Normalize(name), "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// InventoryStore holds the installed models and the selected one, keeping
// the selection valid against each fresh inventory.
type InventoryStore struct {
	backend Backend
	store   prefs.Store
	logger  *Logger
	events  *EventBus

	mu        sync.RWMutex
	records   []ModelRecord
	selection string
}

// NewInventoryStore creates the store and restores the persisted selection.
// The selection is not validated until the first Refresh.
func NewInventoryStore(backend Backend, store prefs.Store, logger *Logger, events *EventBus) *InventoryStore {
	if logger == nil {
		logger = NopLogger()
	}
	s := &InventoryStore{
		backend: backend,
		store:   store,
		logger:  logger.With("component", "inventory"),
		events:  events,
	}

	if saved, ok, err := store.Load(SelectionKey); err != nil {
		s.logger.Errorf("Failed to load saved model: %v", err)
	} else if ok {
		s.selection = saved
	}
	return s
}

// Refresh fetches the inventory and replaces the records in one step. On
// failure neither records nor selection change.
func (s *InventoryStore) Refresh(ctx context.Context) error {
	env, err := s.backend.ListModels(ctx)
	if err != nil {
		s.logger.Errorf("Failed to fetch models: %v", err)
		return s.fail(&FetchError{Op: "list models", Err: err})
	}
	records, err := DecodeModelList(env)
	if err != nil {
		s.logger.Errorf("Failed to fetch models: %v", err)
		return s.fail(&FetchError{Op: "list models", Err: err})
	}

	s.mu.Lock()
	prev := s.selection
	s.records = records
	s.selection = revalidate(records, prev)
	next := s.selection
	s.mu.Unlock()

	s.logger.Debugf("Inventory refreshed: %d models", len(records))
	s.events.Publish(EventInventoryRefreshed, len(records))

	if next != prev {
		s.logger.Infof("Selection changed from %q to %q", prev, next)
		s.persist(next)
		s.events.Publish(EventSelectionChanged, next)
	}
	return nil
}

// revalidate keeps sel when a record matches it (comparing normalized
// names, adopting the record's full name), else falls back to the first
// record, else clears it.
func revalidate(records []ModelRecord, sel string) string {
	if len(records) == 0 {
		return ""
	}
	if sel != "" {
		want := Normalize(sel)
		for _, r := range records {
			if r.Name == sel {
				return sel
			}
		}
		for _, r := range records {
			if Normalize(r.Name) == want {
				return r.Name
			}
		}
	}
	return records[0].Name
}

func (s *InventoryStore) fail(err error) error {
	s.events.Publish(EventError, ErrorEvent{Op: "list models", Err: err})
	return err
}

// SetSelection selects name and persists its normalized form. The name is
// not checked against the records until the next Refresh.
func (s *InventoryStore) SetSelection(name string) error {
	s.mu.Lock()
	changed := s.selection != name
	s.selection = name
	s.mu.Unlock()

	if changed {
		s.events.Publish(EventSelectionChanged, name)
	}
	return s.persist(name)
}

// persist writes the normalized selection. An empty selection is not
// written, so the last real choice survives an empty inventory.
func (s *InventoryStore) persist(name string) error {
	if name == "" {
		return nil
	}
	if err := s.store.Save(SelectionKey, Normalize(name)); err != nil {
		s.logger.Errorf("Failed to persist selected model: %v", err)
		return fmt.Errorf("failed to persist selection: %w", err)
	}
	return nil
}

// Selection returns the selected model name, possibly empty.
func (s *InventoryStore) Selection() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// Records returns a copy of the current inventory.
func (s *InventoryStore) Records() []ModelRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ModelRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Lookup finds a record by exact name.
func (s *InventoryStore) Lookup(name string) (ModelRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.Name == name {
			return r, true
		}
	}
	return ModelRecord{}, false
}
