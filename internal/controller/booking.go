package controller

import (
	"context"
	"errors"
	"net/url"

	models "github.com/chrisdamba/daytrip/internal"
	"github.com/chrisdamba/daytrip/internal/view"
)

type Booking struct {
	Deps
	user *models.User
}

func NewBooking(d Deps) *Booking {
	return &Booking{Deps: d}
}

// Init shows the signed-in user's booking. Anonymous visitors are sent home.
func (c *Booking) Init(ctx context.Context) error {
	if !c.Auth.IsAuthenticated(ctx) {
		c.navigate("/")
		return models.ErrAuthRequired
	}
	user, err := c.Auth.Status(ctx)
	if err != nil {
		c.report(err, MsgLoadFailed)
		return err
	}
	if user == nil {
		c.navigate("/")
		return models.ErrAuthRequired
	}
	c.user = user
	view.Greeting(c.Render, user.Name)

	b, err := c.Flow.Load(ctx)
	if err != nil {
		c.report(err, MsgLoadFailed)
		return err
	}
	c.render(b)
	return nil
}

// Delete cancels the booking once the user confirms.
func (c *Booking) Delete(ctx context.Context) (bool, error) {
	deleted, err := c.Flow.Delete(ctx)
	if err != nil {
		c.report(err, MsgDeleteFailed)
		return false, err
	}
	if deleted {
		view.NoBooking(c.Render)
	}
	return deleted, nil
}

// Pay submits the order and moves on to the confirmation page.
func (c *Booking) Pay(ctx context.Context, contact models.Contact) error {
	res, err := c.Flow.Pay(ctx, contact)
	if err != nil {
		if errors.Is(err, models.ErrValidation) && models.Message(err) == "" {
			c.alert(MsgInvalidContact)
			return err
		}
		c.report(err, MsgPaymentFailed)
		return err
	}
	c.navigate("/thankyou?number=" + url.QueryEscape(res.Number))
	return nil
}

func (c *Booking) User() *models.User {
	return c.user
}

func (c *Booking) render(b *models.Booking) {
	if b == nil {
		view.NoBooking(c.Render)
		return
	}
	view.BookingCard(c.Render, *b)
}
