package core

import (
	"time"
)

// ModelRecord is one installed model as reported by the backend.
type ModelRecord struct {
	Name       string       `json:"name"`
	Model      string       `json:"model"`
	Size       int64        `json:"size,omitempty"`
	Digest     string       `json:"digest,omitempty"`
	ModifiedAt time.Time    `json:"modified_at,omitempty"`
	Details    ModelDetails `json:"details"`
}

// ModelDetails contains detailed information about a model
type ModelDetails struct {
	Format            string   `json:"format"`
	Family            string   `json:"family,omitempty"`
	Families          []string `json:"families"`
	ParameterSize     string   `json:"parameter_size"`
	QuantizationLevel string   `json:"quantization_level,omitempty"`
}

// CatalogEntry is a model advertised by the remote library but not
// necessarily installed. ID is the entry's position in the source document.
type CatalogEntry struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Sizes       []string `json:"sizes"`
}

// Sender identifies who authored a conversation message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one entry of the transcript. Content is the raw prompt for user
// messages and rendered markup for bot messages.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
}

// TurnState is the conversation's position in a send/receive turn.
type TurnState int

const (
	TurnIdle TurnState = iota
	TurnSending
	TurnReceived
	TurnFailed
)

func (s TurnState) String() string {
	switch s {
	case TurnIdle:
		return "idle"
	case TurnSending:
		return "sending"
	case TurnReceived:
		return "received"
	case TurnFailed:
		return "failed"
	}
	return "unknown"
}

// OperationStatus is the lifecycle state of a single model name.
type OperationStatus string

const (
	StatusIdle     OperationStatus = "idle"
	StatusAdding   OperationStatus = "adding"
	StatusDeleting OperationStatus = "deleting"
)

// OperationProgress represents the progress of a long-running operation
type OperationProgress struct {
	Status     string  `json:"status"`
	Completed  int64   `json:"completed"`
	Total      int64   `json:"total"`
	Percentage float64 `json:"percentage"`
}

// LauncherEntry is a user-defined shortcut to a local application.
type LauncherEntry struct {
	Name    string `json:"name"`
	Command string `json:"command"`
}
