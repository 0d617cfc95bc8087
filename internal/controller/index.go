package controller

import (
	"context"

	"github.com/chrisdamba/daytrip/internal/search"
	"github.com/chrisdamba/daytrip/internal/view"
)

type Index struct {
	Deps
	engine           *search.Engine
	categoriesLoaded bool
}

func NewIndex(d Deps) *Index {
	return &Index{Deps: d, engine: search.NewEngine(d.API, d.Logger)}
}

// Init renders the station bar and the first page of all attractions.
func (c *Index) Init(ctx context.Context) error {
	mrts, err := c.API.MRTs(ctx)
	if err != nil {
		c.logger().Warn("loading stations failed", "error", err)
	} else {
		view.MRTs(c.Render, mrts)
	}
	return c.Search(ctx, "", "")
}

func (c *Index) Search(ctx context.Context, keyword, category string) error {
	page, err := c.engine.ResetAndSearch(ctx, keyword, category)
	return c.show(page, err)
}

// SelectMRT searches by station name, as clicking a station does.
func (c *Index) SelectMRT(ctx context.Context, station string) error {
	return c.Search(ctx, station, c.engine.Filters().Category)
}

// OpenCategories fetches the category list on first open only.
func (c *Index) OpenCategories(ctx context.Context) error {
	if c.categoriesLoaded {
		return nil
	}
	categories, err := c.API.Categories(ctx)
	if err != nil {
		c.alert(MsgLoadFailed)
		return err
	}
	c.categoriesLoaded = true
	view.Categories(c.Render, categories)
	return nil
}

// Scroll reports whether the end of the list is on screen.
func (c *Index) Scroll(ctx context.Context, visible bool) error {
	page, err := c.engine.OnProximity(ctx, visible)
	return c.show(page, err)
}

func (c *Index) HasMore() bool {
	return c.engine.Cursor() != nil
}

func (c *Index) Engine() *search.Engine {
	return c.engine
}

func (c *Index) show(page search.Page, err error) error {
	if err != nil {
		c.alert(MsgLoadFailed)
		return err
	}
	switch {
	case page.Skipped:
	case page.Empty:
		view.EmptyAttractions(c.Render)
	default:
		view.Attractions(c.Render, page.Items)
	}
	return nil
}
