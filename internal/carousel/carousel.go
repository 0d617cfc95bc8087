package carousel

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// Transition names the two indicator slots a renderer has to toggle.
type Transition struct {
	Old   int
	New   int
	Image string
}

type Carousel struct {
	images  []string
	current int
}

func New(images []string) *Carousel {
	return &Carousel{images: images}
}

// Advance moves one slide in dir, wrapping at both ends. It reports false
// and changes nothing when there are no images.
func (c *Carousel) Advance(dir Direction) (Transition, bool) {
	n := len(c.images)
	if n == 0 {
		return Transition{}, false
	}
	old := c.current
	c.current = (c.current + int(dir) + n) % n
	return Transition{Old: old, New: c.current, Image: c.images[c.current]}, true
}

func (c *Carousel) Current() int {
	return c.current
}

// CurrentImage returns "" for an empty carousel.
func (c *Carousel) CurrentImage() string {
	if len(c.images) == 0 {
		return ""
	}
	return c.images[c.current]
}

func (c *Carousel) Len() int {
	return len(c.images)
}

func (c *Carousel) Images() []string {
	return c.images
}

// Fetcher warms a single image, typically an HTTP GET discarding the body.
type Fetcher func(ctx context.Context, url string) error

// Preload fetches every image with at most limit requests in flight. Failed
// images are returned keyed by URL; a failure never stops the others.
func Preload(ctx context.Context, fetch Fetcher, images []string, limit int) map[string]error {
	if limit <= 0 {
		limit = 4
	}
	var (
		mu     sync.Mutex
		failed = map[string]error{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, img := range images {
		g.Go(func() error {
			if err := fetch(gctx, img); err != nil {
				mu.Lock()
				failed[img] = fmt.Errorf("preloading %s: %w", img, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return failed
}
