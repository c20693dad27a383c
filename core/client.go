package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os/exec"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ollama/ollama/api"
)

// catalogListSelector matches the model lists on the Ollama library page.
const catalogListSelector = "ul[role='list']"

// OllamaBackend implements Backend against an Ollama server.
type OllamaBackend struct {
	client     *api.Client
	httpClient *http.Client
	logger     *Logger
}

// NewOllamaBackend creates a backend for the Ollama API at baseURL.
func NewOllamaBackend(baseURL string, httpClient *http.Client, logger *Logger) (*OllamaBackend, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse API URL: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &OllamaBackend{
		client:     api.NewClient(u, httpClient),
		httpClient: httpClient,
		logger:     logger.With("component", "backend"),
	}, nil
}

// asEnvelope folds API-level failures into a failed envelope and passes
// transport failures through.
func asEnvelope(err error) (Envelope, error) {
	if err == nil {
		return OK(""), nil
	}
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		msg := statusErr.ErrorMessage
		if msg == "" {
			msg = statusErr.Status
		}
		return Fail(msg), nil
	}
	return Envelope{}, err
}

// ListModels retrieves all installed models. The data field holds the
// /api/tags document verbatim.
func (b *OllamaBackend) ListModels(ctx context.Context) (Envelope, error) {
	resp, err := b.client.List(ctx)
	if err != nil {
		b.logger.Errorf("Failed to list models: %v", err)
		return asEnvelope(err)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return Fail(fmt.Sprintf("failed to encode model list: %v", err)), nil
	}
	return OK(string(data)), nil
}

// GenerateText runs a prompt to completion and returns the concatenated
// response chunks.
func (b *OllamaBackend) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	var out strings.Builder
	req := &api.GenerateRequest{Model: model, Prompt: prompt}

	err := b.client.Generate(ctx, req, func(r api.GenerateResponse) error {
		out.WriteString(r.Response)
		return nil
	})
	if err != nil {
		b.logger.Errorf("Failed to generate with %s: %v", model, err)
		return "", err
	}
	return out.String(), nil
}

// DeleteModel removes a model from Ollama
func (b *OllamaBackend) DeleteModel(ctx context.Context, name string) (Envelope, error) {
	b.logger.Debugf("Attempting to delete model: %s", name)
	err := b.client.Delete(ctx, &api.DeleteRequest{Model: name})
	if err != nil {
		b.logger.Errorf("Error deleting model %s: %v", name, err)
	}
	return asEnvelope(err)
}

// AddModel pulls name from the registry, reporting download progress.
func (b *OllamaBackend) AddModel(ctx context.Context, name string, progress ProgressFunc) (Envelope, error) {
	b.logger.Debugf("Attempting to pull model: %s", name)
	err := b.client.Pull(ctx, &api.PullRequest{Model: name}, func(p api.ProgressResponse) error {
		if progress != nil {
			progress(toProgress(p))
		}
		return nil
	})
	if err != nil {
		b.logger.Errorf("Error pulling model %s: %v", name, err)
	}
	return asEnvelope(err)
}

func toProgress(p api.ProgressResponse) OperationProgress {
	op := OperationProgress{Status: p.Status, Completed: p.Completed, Total: p.Total}
	if p.Total > 0 {
		op.Percentage = float64(p.Completed) / float64(p.Total) * 100
	}
	return op
}

// FetchCatalogDocument downloads url and returns the HTML of every
// ul[role=list] element, joined by newlines.
func (b *OllamaBackend) FetchCatalogDocument(ctx context.Context, url string) (Envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "kate/1.0")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		b.logger.Errorf("Failed to fetch catalog %s: %v", url, err)
		return Envelope{}, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Fail(fmt.Sprintf("catalog request failed with status %d", resp.StatusCode)), nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to read response text: %w", err)
	}

	var lists []string
	doc.Find(catalogListSelector).Each(func(_ int, s *goquery.Selection) {
		if html, err := goquery.OuterHtml(s); err == nil {
			lists = append(lists, html)
		}
	})
	if len(lists) == 0 {
		return Fail(`No <ul role="list"> elements found.`), nil
	}
	return OK(strings.Join(lists, "\n")), nil
}

// LaunchApp starts command detached from the application. The command is
// split on whitespace into a program and its arguments.
func (b *OllamaBackend) LaunchApp(_ context.Context, command string) (Envelope, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return Fail("empty launch command"), nil
	}

	cmd := exec.Command(fields[0], fields[1:]...)
	if err := cmd.Start(); err != nil {
		b.logger.Errorf("Failed to launch %q: %v", command, err)
		return Fail(err.Error()), nil
	}
	b.logger.Infof("Launched %q (pid %d)", command, cmd.Process.Pid)
	go func() { _ = cmd.Wait() }()

	return OK(""), nil
}
