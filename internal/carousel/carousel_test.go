package carousel_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/chrisdamba/daytrip/internal/carousel"
	"github.com/stretchr/testify/assert"
)

func TestAdvance(t *testing.T) {
	images := []string{"a.jpg", "b.jpg", "c.jpg"}

	tests := []struct {
		name     string
		start    int
		dir      carousel.Direction
		expected carousel.Transition
	}{
		{"next from last wraps to first", 2, carousel.Next, carousel.Transition{Old: 2, New: 0, Image: "a.jpg"}},
		{"prev from first wraps to last", 0, carousel.Prev, carousel.Transition{Old: 0, New: 2, Image: "c.jpg"}},
		{"next in the middle", 0, carousel.Next, carousel.Transition{Old: 0, New: 1, Image: "b.jpg"}},
		{"prev in the middle", 1, carousel.Prev, carousel.Transition{Old: 1, New: 0, Image: "a.jpg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := carousel.New(images)
			for c.Current() != tt.start {
				c.Advance(carousel.Next)
			}
			tr, ok := c.Advance(tt.dir)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, tr)
			assert.Equal(t, tt.expected.New, c.Current())
			assert.Equal(t, tt.expected.Image, c.CurrentImage())
		})
	}
}

func TestAdvance_Empty(t *testing.T) {
	c := carousel.New(nil)
	for _, dir := range []carousel.Direction{carousel.Next, carousel.Prev} {
		_, ok := c.Advance(dir)
		assert.False(t, ok)
		assert.Equal(t, 0, c.Current())
	}
	assert.Empty(t, c.CurrentImage())
}

func TestAdvance_SingleImage(t *testing.T) {
	c := carousel.New([]string{"only.jpg"})
	tr, ok := c.Advance(carousel.Next)
	assert.True(t, ok)
	assert.Equal(t, carousel.Transition{Old: 0, New: 0, Image: "only.jpg"}, tr)
}

func TestPreload(t *testing.T) {
	var (
		inFlight int32
		peak     int32
		calls    int32
	)
	fetch := func(ctx context.Context, url string) error {
		atomic.AddInt32(&calls, 1)
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		if url == "broken.jpg" {
			return errors.New("404")
		}
		return nil
	}

	images := []string{"a.jpg", "broken.jpg", "c.jpg", "d.jpg", "e.jpg"}
	failed := carousel.Preload(context.Background(), fetch, images, 2)

	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	assert.Len(t, failed, 1)
	assert.ErrorContains(t, failed["broken.jpg"], "404")
}
