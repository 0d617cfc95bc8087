// Package search holds the paginated attraction result set behind the index
// page: the cursor, the active filters and the accumulated cards.
package search

import (
	"context"
	"log/slog"
	"sync"

	models "github.com/chrisdamba/daytrip/internal"
	"github.com/chrisdamba/daytrip/internal/ports"
)

// Page is the outcome of one LoadNextPage call.
type Page struct {
	Items   []models.AttractionSummary
	Skipped bool
	Empty   bool
}

type Filters struct {
	Keyword  string
	Category string
}

// Engine owns the result sequence. The mutex only guards field access; the
// fetch itself runs unlocked so a reset may interleave with a page in flight.
// When that happens the stale page still appends its items and overwrites
// the cursor. There is no cancellation.
type Engine struct {
	mu      sync.Mutex
	api     ports.AttractionAPI
	cursor  *int
	filters Filters
	loading bool
	loaded  bool
	empty   bool
	items   []models.AttractionSummary
	log     *slog.Logger
}

func NewEngine(api ports.AttractionAPI, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	first := 0
	return &Engine{api: api, cursor: &first, log: log}
}

// LoadNextPage fetches the page under the cursor and appends it. It is a
// no-op while another page is loading or once the cursor is exhausted.
func (e *Engine) LoadNextPage(ctx context.Context) (Page, error) {
	e.mu.Lock()
	if e.loading || e.cursor == nil {
		e.mu.Unlock()
		return Page{Skipped: true}, nil
	}
	e.loading = true
	page := *e.cursor
	filters := e.filters
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.loading = false
		e.mu.Unlock()
	}()

	res, err := e.api.Attractions(ctx, page, filters.Keyword, filters.Category)
	if err != nil {
		e.log.Warn("loading attractions page failed", "page", page, "keyword", filters.Keyword, "error", err)
		return Page{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.items = append(e.items, res.Data...)
	e.cursor = res.NextPage
	first := !e.loaded
	e.loaded = true
	e.empty = first && len(res.Data) == 0
	e.log.Debug("attractions page loaded", "page", page, "count", len(res.Data), "next", res.NextPage)

	return Page{Items: res.Data, Empty: e.empty}, nil
}

// ResetAndSearch drops all results, rewinds to page 0 under the new filters
// and loads the first page.
func (e *Engine) ResetAndSearch(ctx context.Context, keyword, category string) (Page, error) {
	if category == models.AllCategories {
		category = ""
	}
	e.mu.Lock()
	first := 0
	e.items = nil
	e.cursor = &first
	e.loading = false
	e.loaded = false
	e.empty = false
	e.filters = Filters{Keyword: keyword, Category: category}
	e.mu.Unlock()

	return e.LoadNextPage(ctx)
}

// OnProximity is fed the visibility of the end-of-list sentinel.
func (e *Engine) OnProximity(ctx context.Context, visible bool) (Page, error) {
	if !visible || e.Cursor() == nil {
		return Page{Skipped: true}, nil
	}
	return e.LoadNextPage(ctx)
}

func (e *Engine) Items() []models.AttractionSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.AttractionSummary, len(e.items))
	copy(out, e.items)
	return out
}

// Cursor returns the next page number, nil once exhausted.
func (e *Engine) Cursor() *int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cursor == nil {
		return nil
	}
	c := *e.cursor
	return &c
}

func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// Empty is true only after a first page came back with no items, as opposed
// to nothing loaded yet.
func (e *Engine) Empty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.empty
}

func (e *Engine) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

func (e *Engine) Filters() Filters {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filters
}
