package core

import (
	"context"
	"fmt"
	"sync"
)

// LifecycleCoordinator runs add and delete operations against the
// inventory. Each model name has its own status, so operations on different
// names proceed independently while a second operation on a busy name is
// rejected.
type LifecycleCoordinator struct {
	backend   Backend
	inventory *InventoryStore
	logger    *Logger
	events    *EventBus

	mu       sync.Mutex
	status   map[string]OperationStatus
	progress map[string]OperationProgress
}

func NewLifecycleCoordinator(backend Backend, inventory *InventoryStore, logger *Logger, events *EventBus) *LifecycleCoordinator {
	if logger == nil {
		logger = NopLogger()
	}
	return &LifecycleCoordinator{
		backend:   backend,
		inventory: inventory,
		logger:    logger.With("component", "lifecycle"),
		events:    events,
		status:    make(map[string]OperationStatus),
		progress:  make(map[string]OperationProgress),
	}
}

// Add pulls name and refreshes the inventory on success.
func (c *LifecycleCoordinator) Add(ctx context.Context, name string) error {
	return c.run(ctx, name, StatusAdding, "add model", func(ctx context.Context) (Envelope, error) {
		return c.backend.AddModel(ctx, name, func(p OperationProgress) {
			c.setProgress(name, p)
		})
	})
}

// Remove deletes name and refreshes the inventory on success.
func (c *LifecycleCoordinator) Remove(ctx context.Context, name string) error {
	return c.run(ctx, name, StatusDeleting, "delete model", func(ctx context.Context) (Envelope, error) {
		return c.backend.DeleteModel(ctx, name)
	})
}

func (c *LifecycleCoordinator) run(ctx context.Context, name string, status OperationStatus, op string, call func(context.Context) (Envelope, error)) error {
	if name == "" {
		return ErrEmptyName
	}
	if !c.acquire(name, status) {
		c.logger.Debugf("Rejected %s for %s: %s in progress", op, name, c.StatusOf(name))
		return fmt.Errorf("%s %s: %w", op, name, ErrOperationInProgress)
	}

	c.logger.Infof("Starting %s: %s", op, name)
	err := c.invoke(ctx, op, call)
	c.release(name)

	if err != nil {
		c.logger.Errorf("Failed to %s %s: %v", op, name, err)
		c.events.Publish(EventError, ErrorEvent{Op: op, Err: err})
		return err
	}
	c.logger.Infof("Successfully completed %s: %s", op, name)

	// The operation already succeeded; a failed refresh is reported on its own.
	if err := c.inventory.Refresh(ctx); err != nil {
		c.logger.Errorf("Inventory refresh after %s %s failed: %v", op, name, err)
	}
	return nil
}

func (c *LifecycleCoordinator) invoke(ctx context.Context, op string, call func(context.Context) (Envelope, error)) error {
	env, err := call(ctx)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	return env.Err(op)
}

// acquire moves name from idle to status. It reports false when name is busy.
func (c *LifecycleCoordinator) acquire(name string, status OperationStatus) bool {
	c.mu.Lock()
	if cur, ok := c.status[name]; ok && cur != StatusIdle {
		c.mu.Unlock()
		return false
	}
	c.status[name] = status
	c.mu.Unlock()

	c.events.Publish(EventOperationStatus, StatusChange{Name: name, Status: status})
	return true
}

func (c *LifecycleCoordinator) release(name string) {
	c.mu.Lock()
	delete(c.status, name)
	delete(c.progress, name)
	c.mu.Unlock()

	c.events.Publish(EventOperationStatus, StatusChange{Name: name, Status: StatusIdle})
}

func (c *LifecycleCoordinator) setProgress(name string, p OperationProgress) {
	c.mu.Lock()
	if _, busy := c.status[name]; !busy {
		c.mu.Unlock()
		return
	}
	c.progress[name] = p
	c.mu.Unlock()

	c.events.Publish(EventOperationProgress, map[string]interface{}{"name": name, "progress": p})
}

// StatusOf returns the current status of name.
func (c *LifecycleCoordinator) StatusOf(name string) OperationStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.status[name]; ok {
		return s
	}
	return StatusIdle
}

// ProgressOf returns the last progress report for an in-flight add.
func (c *LifecycleCoordinator) ProgressOf(name string) (OperationProgress, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.progress[name]
	return p, ok
}

// InFlight returns every non-idle name and its status.
func (c *LifecycleCoordinator) InFlight() map[string]OperationStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]OperationStatus, len(c.status))
	for k, v := range c.status {
		out[k] = v
	}
	return out
}
