package core

import (
	"context"
	"encoding/json"
	"fmt"
)

// Envelope is the success/error wrapper most backend commands answer with.
type Envelope struct {
	Success bool    `json:"success"`
	Data    *string `json:"data"`
	Error   *string `json:"error"`
}

// OK builds a successful envelope carrying data.
func OK(data string) Envelope {
	return Envelope{Success: true, Data: &data}
}

// Fail builds a failed envelope carrying msg.
func Fail(msg string) Envelope {
	return Envelope{Success: false, Error: &msg}
}

// DataString returns Data or "" when absent.
func (e Envelope) DataString() string {
	if e.Data == nil {
		return ""
	}
	return *e.Data
}

// ErrorString returns Error or "" when absent.
func (e Envelope) ErrorString() string {
	if e.Error == nil {
		return ""
	}
	return *e.Error
}

// Err converts a failed envelope into a *BackendError for op.
func (e Envelope) Err(op string) error {
	if e.Success {
		return nil
	}
	return &BackendError{Op: op, Message: e.ErrorString()}
}

// ProgressFunc receives progress updates from long-running commands.
type ProgressFunc func(OperationProgress)

// Backend is the set of commands exposed by the host process that runs the
// models. Transport failures are returned as errors; command-level failures
// are reported through the envelope.
type Backend interface {
	ListModels(ctx context.Context) (Envelope, error)
	GenerateText(ctx context.Context, model, prompt string) (string, error)
	DeleteModel(ctx context.Context, name string) (Envelope, error)
	AddModel(ctx context.Context, name string, progress ProgressFunc) (Envelope, error)
	FetchCatalogDocument(ctx context.Context, url string) (Envelope, error)
	LaunchApp(ctx context.Context, command string) (Envelope, error)
}

// DecodeModelList unwraps the list-installed-models envelope. Its data is a
// JSON document of its own and needs a second decode.
func DecodeModelList(env Envelope) ([]ModelRecord, error) {
	if err := env.Err("list models"); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, fmt.Errorf("envelope carried no data")
	}

	var payload struct {
		Models []ModelRecord `json:"models"`
	}
	if err := json.Unmarshal([]byte(*env.Data), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode model list: %w", err)
	}
	if payload.Models == nil {
		payload.Models = []ModelRecord{}
	}
	return payload.Models, nil
}
