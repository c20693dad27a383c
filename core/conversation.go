package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Conversation owns the transcript and runs one turn at a time against the
// backend.
type Conversation struct {
	backend   Backend
	inventory *InventoryStore
	renderer  Renderer
	logger    *Logger
	events    *EventBus
	now       func() time.Time

	mu       sync.Mutex
	state    TurnState
	messages []Message
	lastErr  error
}

func NewConversation(backend Backend, inventory *InventoryStore, renderer Renderer, logger *Logger, events *EventBus) *Conversation {
	if logger == nil {
		logger = NopLogger()
	}
	if renderer == nil {
		renderer = NewHTMLRenderer()
	}
	return &Conversation{
		backend:   backend,
		inventory: inventory,
		renderer:  renderer,
		logger:    logger.With("component", "conversation"),
		events:    events,
		now:       time.Now,
	}
}

// Send runs one turn. The user message is appended before the backend is
// called and is kept whatever the outcome; a bot message is appended only
// after a successful answer. Send returns ErrTurnInProgress without side
// effects while another turn is unresolved.
func (c *Conversation) Send(ctx context.Context, prompt string) error {
	c.mu.Lock()
	if c.state != TurnIdle {
		c.mu.Unlock()
		c.logger.Debug("Rejected send: turn in progress")
		return ErrTurnInProgress
	}
	c.state = TurnSending
	user := c.appendLocked(prompt, SenderUser)
	c.mu.Unlock()

	c.events.Publish(EventTurnState, TurnSending)
	c.events.Publish(EventMessageAppended, user)

	// Captured now: switching models mid-turn only affects the next turn.
	model := Normalize(c.inventory.Selection())

	answer, err := c.generate(ctx, model, prompt)

	c.mu.Lock()
	var bot Message
	outcome := TurnReceived
	if err != nil {
		outcome = TurnFailed
		c.lastErr = err
	} else {
		c.lastErr = nil
		bot = c.appendLocked(answer, SenderBot)
	}
	c.state = TurnIdle
	c.mu.Unlock()

	c.events.Publish(EventTurnState, outcome)
	if err != nil {
		c.logger.Errorf("Error generating response with %s: %v", model, err)
		c.events.Publish(EventError, ErrorEvent{Op: "generate text", Err: err})
	} else {
		c.events.Publish(EventMessageAppended, bot)
	}
	c.events.Publish(EventTurnState, TurnIdle)
	return err
}

func (c *Conversation) generate(ctx context.Context, model, prompt string) (string, error) {
	raw, err := c.backend.GenerateText(ctx, model, prompt)
	if err != nil {
		return "", &FetchError{Op: "generate text", Err: err}
	}
	markup, err := c.renderer.Render(raw)
	if err != nil {
		c.logger.Warnf("Failed to render response, showing raw text: %v", err)
		return raw, nil
	}
	return markup, nil
}

func (c *Conversation) appendLocked(content string, sender Sender) Message {
	m := Message{
		ID:        uuid.NewString(),
		Content:   content,
		Sender:    sender,
		CreatedAt: c.now(),
	}
	c.messages = append(c.messages, m)
	return m
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) State() TurnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError is the failure of the most recent turn, nil if it succeeded.
func (c *Conversation) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
