package core

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/kate-desktop/kate/prefs"
)

// LauncherKey is the persisted-state key holding the launcher entries.
const LauncherKey = "apps"

// Launcher manages user-defined application shortcuts.
type Launcher struct {
	backend Backend
	store   prefs.Store
	logger  *Logger
	events  *EventBus

	mu      sync.Mutex
	entries []LauncherEntry
}

// NewLauncher restores the persisted entries. Unreadable entries are logged
// and treated as an empty list.
func NewLauncher(backend Backend, store prefs.Store, logger *Logger, events *EventBus) *Launcher {
	if logger == nil {
		logger = NopLogger()
	}
	l := &Launcher{
		backend: backend,
		store:   store,
		logger:  logger.With("component", "launcher"),
		events:  events,
	}
	entries, _, err := prefs.LoadJSON[[]LauncherEntry](store, LauncherKey)
	if err != nil {
		l.logger.Errorf("Failed to load launcher entries: %v", err)
	}
	l.entries = entries
	return l
}

func (l *Launcher) Entries() []LauncherEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LauncherEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Find returns the index of the entry called name, or -1.
func (l *Launcher) Find(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// Add appends an entry. Both name and command are required.
func (l *Launcher) Add(name, command string) error {
	entry, err := newEntry(name, command)
	if err != nil {
		return err
	}
	return l.mutate(func(entries []LauncherEntry) ([]LauncherEntry, error) {
		return append(entries, entry), nil
	})
}

// Update replaces the entry at index.
func (l *Launcher) Update(index int, name, command string) error {
	entry, err := newEntry(name, command)
	if err != nil {
		return err
	}
	return l.mutate(func(entries []LauncherEntry) ([]LauncherEntry, error) {
		if index < 0 || index >= len(entries) {
			return nil, ErrNoSuchEntry
		}
		entries[index] = entry
		return entries, nil
	})
}

// Remove deletes the entry at index.
func (l *Launcher) Remove(index int) error {
	return l.mutate(func(entries []LauncherEntry) ([]LauncherEntry, error) {
		if index < 0 || index >= len(entries) {
			return nil, ErrNoSuchEntry
		}
		return append(entries[:index], entries[index+1:]...), nil
	})
}

func newEntry(name, command string) (LauncherEntry, error) {
	name, command = strings.TrimSpace(name), strings.TrimSpace(command)
	if name == "" || command == "" {
		return LauncherEntry{}, fmt.Errorf("both a name and a command are required: %w", ErrEmptyName)
	}
	return LauncherEntry{Name: name, Command: command}, nil
}

// mutate applies fn to a copy of the entries and commits it only once the
// new list has been persisted.
func (l *Launcher) mutate(fn func([]LauncherEntry) ([]LauncherEntry, error)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]LauncherEntry, len(l.entries))
	copy(next, l.entries)
	next, err := fn(next)
	if err != nil {
		return err
	}
	if err := prefs.SaveJSON(l.store, LauncherKey, next); err != nil {
		l.logger.Errorf("Failed to save launcher entries: %v", err)
		return err
	}
	l.entries = next
	l.events.Publish(EventLauncherChanged, len(next))
	return nil
}

// Launch starts the entry at index through the backend.
func (l *Launcher) Launch(ctx context.Context, index int) error {
	l.mu.Lock()
	if index < 0 || index >= len(l.entries) {
		l.mu.Unlock()
		return ErrNoSuchEntry
	}
	entry := l.entries[index]
	l.mu.Unlock()

	env, err := l.backend.LaunchApp(ctx, entry.Command)
	if err != nil {
		l.logger.Errorf("Failed to open app %s: %v", entry.Name, err)
		return &FetchError{Op: "launch app", Err: err}
	}
	if err := env.Err("launch app"); err != nil {
		l.logger.Errorf("Failed to open app %s: %v", entry.Name, err)
		return err
	}
	l.logger.Infof("Opened app %s", entry.Name)
	return nil
}

// Running reports whether a process named after the entry's program is
// currently alive.
func (l *Launcher) Running(ctx context.Context, index int) (bool, error) {
	l.mu.Lock()
	if index < 0 || index >= len(l.entries) {
		l.mu.Unlock()
		return false, ErrNoSuchEntry
	}
	fields := strings.Fields(l.entries[index].Command)
	l.mu.Unlock()
	if len(fields) == 0 {
		return false, nil
	}
	program := filepath.Base(fields[0])

	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list processes: %w", err)
	}
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		if name == program {
			return true, nil
		}
	}
	return false, nil
}

// Reload re-reads the entries from the store, picking up edits made by
// another instance.
func (l *Launcher) Reload() error {
	entries, _, err := prefs.LoadJSON[[]LauncherEntry](l.store, LauncherKey)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.entries = entries
	l.mu.Unlock()
	l.events.Publish(EventLauncherChanged, len(entries))
	return nil
}
