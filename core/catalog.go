package core

import (
	"context"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// ExtractCatalog turns the HTML of the remote model library into catalog
// entries, one per list item. Missing fields come back empty; only a document
// that cannot be parsed at all is an error.
func ExtractCatalog(document string) ([]CatalogEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	items := doc.Find("li")
	entries := make([]CatalogEntry, 0, items.Length())
	items.Each(func(i int, li *goquery.Selection) {
		entries = append(entries, CatalogEntry{
			ID:          i,
			Name:        entryName(li),
			Description: strings.TrimSpace(li.Find("p").First().Text()),
			Sizes:       entrySizes(li),
		})
	})
	return entries, nil
}

func entryName(li *goquery.Selection) string {
	if span := li.Find("h2 span").First(); span.Length() > 0 {
		return strings.TrimSpace(span.Text())
	}
	return strings.TrimSpace(li.Find("h2").First().Text())
}

func entrySizes(li *goquery.Selection) []string {
	sizes := []string{}
	li.Find("div.flex-wrap span").Each(func(_ int, s *goquery.Selection) {
		if v := strings.TrimSpace(s.Text()); v != "" {
			sizes = append(sizes, v)
		}
	})
	return sizes
}

// CatalogSession holds the catalog entries for one "add model" interaction.
// Entries are dropped on Close.
type CatalogSession struct {
	backend Backend
	url     string
	logger  *Logger
	events  *EventBus

	mu      sync.Mutex
	entries []CatalogEntry
	loading bool
	closed  bool
}

func NewCatalogSession(backend Backend, url string, logger *Logger, events *EventBus) *CatalogSession {
	if logger == nil {
		logger = NopLogger()
	}
	return &CatalogSession{
		backend: backend,
		url:     url,
		logger:  logger.With("component", "catalog"),
		events:  events,
	}
}

// Load fetches and extracts the catalog. On failure the previous entries are
// kept.
func (c *CatalogSession) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	env, err := c.backend.FetchCatalogDocument(ctx, c.url)
	if err != nil {
		c.logger.Errorf("Failed to fetch catalog: %v", err)
		return c.fail(&FetchError{Op: "fetch catalog", Err: err})
	}
	if err := env.Err("fetch catalog"); err != nil {
		c.logger.Errorf("Error in catalog response: %v", err)
		return c.fail(err)
	}

	entries, err := ExtractCatalog(env.DataString())
	if err != nil {
		c.logger.Errorf("Failed to extract catalog: %v", err)
		return c.fail(err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.entries = entries
	c.mu.Unlock()

	c.logger.Debugf("Loaded %d catalog entries", len(entries))
	c.events.Publish(EventCatalogLoaded, len(entries))
	return nil
}

func (c *CatalogSession) fail(err error) error {
	c.events.Publish(EventError, ErrorEvent{Op: "fetch catalog", Err: err})
	return err
}

// Entries returns a copy of the loaded entries.
func (c *CatalogSession) Entries() []CatalogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *CatalogSession) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Close discards the entries; a Load still in flight will not repopulate them.
func (c *CatalogSession) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.closed = true
}
