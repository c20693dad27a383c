package core

import (
	"context"
	"encoding/json"
	"sync"
)

// fakeBackend is a scriptable Backend. Unset hooks succeed with empty data.
type fakeBackend struct {
	mu sync.Mutex

	models    []ModelRecord
	listErr   error
	listEnv   *Envelope
	listCalls int

	generate      func(ctx context.Context, model, prompt string) (string, error)
	generateCalls []generateCall

	add    func(ctx context.Context, name string, progress ProgressFunc) (Envelope, error)
	delete func(ctx context.Context, name string) (Envelope, error)

	catalog func(ctx context.Context, url string) (Envelope, error)
	launch  func(ctx context.Context, command string) (Envelope, error)
}

type generateCall struct {
	Model  string
	Prompt string
}

func (f *fakeBackend) setModels(models ...ModelRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.models = models
}

func (f *fakeBackend) ListModels(ctx context.Context) (Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return Envelope{}, f.listErr
	}
	if f.listEnv != nil {
		return *f.listEnv, nil
	}
	models := f.models
	if models == nil {
		models = []ModelRecord{}
	}
	data, _ := json.Marshal(map[string]interface{}{"models": models})
	return OK(string(data)), nil
}

func (f *fakeBackend) refreshCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func (f *fakeBackend) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	f.mu.Lock()
	f.generateCalls = append(f.generateCalls, generateCall{Model: model, Prompt: prompt})
	gen := f.generate
	f.mu.Unlock()
	if gen == nil {
		return "", nil
	}
	return gen(ctx, model, prompt)
}

func (f *fakeBackend) calls() []generateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]generateCall, len(f.generateCalls))
	copy(out, f.generateCalls)
	return out
}

func (f *fakeBackend) DeleteModel(ctx context.Context, name string) (Envelope, error) {
	if f.delete == nil {
		return OK(""), nil
	}
	return f.delete(ctx, name)
}

func (f *fakeBackend) AddModel(ctx context.Context, name string, progress ProgressFunc) (Envelope, error) {
	if f.add == nil {
		return OK(""), nil
	}
	return f.add(ctx, name, progress)
}

func (f *fakeBackend) FetchCatalogDocument(ctx context.Context, url string) (Envelope, error) {
	if f.catalog == nil {
		return OK(""), nil
	}
	return f.catalog(ctx, url)
}

func (f *fakeBackend) LaunchApp(ctx context.Context, command string) (Envelope, error) {
	if f.launch == nil {
		return OK(""), nil
	}
	return f.launch(ctx, command)
}

func llama3() ModelRecord {
	return ModelRecord{
		Name:  "llama3:latest",
		Model: "llama3",
		Details: ModelDetails{
			Format:        "gguf",
			Families:      []string{"llama"},
			ParameterSize: "8B",
		},
	}
}

func record(name string) ModelRecord {
	return ModelRecord{Name: name, Model: Normalize(name), Details: ModelDetails{Format: "gguf", Families: []string{}}}
}
