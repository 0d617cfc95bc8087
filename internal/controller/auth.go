package controller

import (
	"context"

	"github.com/chrisdamba/daytrip/internal/auth"
	"github.com/chrisdamba/daytrip/internal/view"
)

type Auth struct {
	Deps
}

func NewAuth(d Deps) *Auth {
	return &Auth{Deps: d}
}

func (c *Auth) Navbar(ctx context.Context) bool {
	loggedIn := c.Auth.IsAuthenticated(ctx)
	view.Navbar(c.Render, loggedIn)
	return loggedIn
}

// OpenBooking follows the navbar booking link, or opens the dialog for
// anonymous users.
func (c *Auth) OpenBooking(ctx context.Context) {
	if c.Auth.IsAuthenticated(ctx) {
		c.navigate("/booking")
		return
	}
	c.requestLogin()
}

func (c *Auth) Open() {
	c.requestLogin()
}

func (c *Auth) Close() {
	c.Auth.Hide()
}

func (c *Auth) Toggle() {
	c.Auth.Toggle()
	view.DialogState(c.Render, c.Auth.State())
}

// Submit sends the form and shows the resulting dialog state.
func (c *Auth) Submit(ctx context.Context, fields auth.Fields) error {
	c.Auth.SetFields(fields)
	err := c.Auth.Submit(ctx)
	st := c.Auth.State()
	if st.Open {
		view.DialogState(c.Render, st)
	}
	return err
}

func (c *Auth) Logout(ctx context.Context) error {
	if err := c.Auth.Logout(ctx); err != nil {
		c.report(err, MsgLoadFailed)
		return err
	}
	c.alert(auth.MsgLoggedOut)
	c.Navbar(ctx)
	return nil
}
