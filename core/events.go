package core

import (
	"sync"
	"time"
)

// Event represents a state change published by one of the state holders.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
	Time time.Time   `json:"time"`
}

const (
	EventInventoryRefreshed = "inventory_refreshed"
	EventSelectionChanged   = "selection_changed"
	EventOperationStatus    = "operation_status"
	EventOperationProgress  = "operation_progress"
	EventMessageAppended    = "message_appended"
	EventTurnState          = "turn_state"
	EventCatalogLoaded      = "catalog_loaded"
	EventLauncherChanged    = "launcher_changed"
	EventError              = "error"
)

// StatusChange is the payload of EventOperationStatus.
type StatusChange struct {
	Name   string          `json:"name"`
	Status OperationStatus `json:"status"`
}

// ErrorEvent is the payload of EventError.
type ErrorEvent struct {
	Op  string `json:"op"`
	Err error  `json:"-"`
}

// EventBus fans events out to subscribers without ever blocking publishers:
// a subscriber whose buffer is full misses the event.
type EventBus struct {
	subscribers map[string][]chan Event
	mutex       sync.RWMutex
	closed      bool
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string][]chan Event),
	}
}

// Subscribe returns a channel receiving events of the given types. With no
// types the subscriber receives every event.
func (eb *EventBus) Subscribe(eventTypes ...string) <-chan Event {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	ch := make(chan Event, 32)
	if eb.closed {
		close(ch)
		return ch
	}
	if len(eventTypes) == 0 {
		eventTypes = []string{"*"}
	}
	for _, t := range eventTypes {
		eb.subscribers[t] = append(eb.subscribers[t], ch)
	}
	return ch
}

// Publish stamps and emits an event.
func (eb *EventBus) Publish(eventType string, data interface{}) {
	eb.Emit(Event{Type: eventType, Data: data, Time: time.Now()})
}

func (eb *EventBus) Emit(event Event) {
	if eb == nil {
		return
	}
	eb.mutex.RLock()
	defer eb.mutex.RUnlock()

	if eb.closed {
		return
	}

	for _, key := range []string{event.Type, "*"} {
		for _, ch := range eb.subscribers[key] {
			select {
			case ch <- event:
			default:
			}
		}
	}
}

// Close closes the event bus and all subscriber channels
func (eb *EventBus) Close() {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	if eb.closed {
		return
	}
	eb.closed = true

	seen := make(map[chan Event]bool)
	for _, subscribers := range eb.subscribers {
		for _, ch := range subscribers {
			if !seen[ch] {
				seen[ch] = true
				close(ch)
			}
		}
	}
	eb.subscribers = make(map[string][]chan Event)
}

func (eb *EventBus) SubscriberCount(eventType string) int {
	eb.mutex.RLock()
	defer eb.mutex.RUnlock()
	return len(eb.subscribers[eventType])
}
