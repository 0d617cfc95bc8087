package controller

import (
	"context"
	"errors"

	models "github.com/chrisdamba/daytrip/internal"
	"github.com/chrisdamba/daytrip/internal/view"
)

type Thankyou struct {
	Deps
}

func NewThankyou(d Deps) *Thankyou {
	return &Thankyou{Deps: d}
}

// Open renders the order named by number, or the no-order view.
func (c *Thankyou) Open(ctx context.Context, number string) (*models.Order, error) {
	o, err := c.Flow.Order(ctx, number)
	if errors.Is(err, models.ErrMissingOrderID) {
		view.NoOrder(c.Render)
		return nil, nil
	}
	if err != nil {
		c.report(err, MsgLoadFailed)
		return nil, err
	}
	if o == nil {
		view.NoOrder(c.Render)
		return nil, nil
	}
	view.OrderCard(c.Render, *o)
	return o, nil
}
