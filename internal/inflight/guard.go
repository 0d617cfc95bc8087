// Package inflight serializes mutating user actions and keeps the loading
// indicator in step with them.
package inflight

import (
	"context"
	"sync/atomic"

	models "github.com/chrisdamba/daytrip/internal"
	"github.com/chrisdamba/daytrip/internal/ports"
)

type Guard struct {
	busy      atomic.Bool
	indicator ports.Indicator
}

func NewGuard(indicator ports.Indicator) *Guard {
	return &Guard{indicator: indicator}
}

// Do runs fn while holding the guard. A second caller gets models.ErrBusy
// instead of waiting. The indicator is hidden and the guard released on
// every exit path, panics included.
func (g *Guard) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if !g.busy.CompareAndSwap(false, true) {
		return models.ErrBusy
	}
	if g.indicator != nil {
		g.indicator.Show()
	}
	defer func() {
		if g.indicator != nil {
			g.indicator.Hide()
		}
		g.busy.Store(false)
	}()
	return fn(ctx)
}

func (g *Guard) Busy() bool {
	return g.busy.Load()
}
