// Package auth holds the sign-in / sign-up dialog state and the session
// predicate every page consults before booking actions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	models "github.com/chrisdamba/daytrip/internal"
	"github.com/chrisdamba/daytrip/internal/ports"
)

type Mode int

const (
	SignIn Mode = iota
	SignUp
)

func (m Mode) String() string {
	if m == SignUp {
		return "sign-up"
	}
	return "sign-in"
}

type BannerKind int

const (
	BannerNone BannerKind = iota
	BannerError
	BannerSuccess
)

type Banner struct {
	Kind BannerKind
	Text string
}

const (
	MsgRequiredFields = "請填寫所有欄位"
	MsgLoginFailed    = "電子信箱或密碼錯誤"
	MsgSignupFailed   = "註冊失敗"
	MsgSignupSuccess  = "註冊成功，請登入"
	MsgServerError    = "伺服器忙碌中，請稍後再試"
	MsgLoggedOut      = "已成功登出系統！"
)

type Fields struct {
	Name     string
	Email    string
	Password string
}

// State is a snapshot for rendering.
type State struct {
	Open   bool
	Mode   Mode
	Fields Fields
	Banner Banner
}

type Dialog struct {
	mu       sync.Mutex
	api      ports.UserAPI
	session  ports.SessionStore
	log      *slog.Logger
	onLogin  func(ctx context.Context)
	onLogout func(ctx context.Context)

	open   bool
	mode   Mode
	fields Fields
	banner Banner
}

type Option func(*Dialog)

// OnLogin runs after a token has been stored, to re-derive logged-in UI.
func OnLogin(fn func(ctx context.Context)) Option {
	return func(d *Dialog) {
		d.onLogin = fn
	}
}

func OnLogout(fn func(ctx context.Context)) Option {
	return func(d *Dialog) {
		d.onLogout = fn
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(d *Dialog) {
		d.log = log
	}
}

func NewDialog(api ports.UserAPI, session ports.SessionStore, opts ...Option) *Dialog {
	d := &Dialog{api: api, session: session, log: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Show opens the dialog in SignIn with empty fields.
func (d *Dialog) Show() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = true
	d.mode = SignIn
	d.fields = Fields{}
	d.banner = Banner{}
}

// RequestLogin lets flows ask for re-authentication after a 403.
func (d *Dialog) RequestLogin() {
	d.Show()
}

func (d *Dialog) Hide() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
}

// Toggle switches between SignIn and SignUp and clears inputs and banner.
func (d *Dialog) Toggle() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mode == SignIn {
		d.mode = SignUp
	} else {
		d.mode = SignIn
	}
	d.fields = Fields{}
	d.banner = Banner{}
}

func (d *Dialog) SetFields(f Fields) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fields = Fields{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
	}
}

func (d *Dialog) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return State{Open: d.open, Mode: d.mode, Fields: d.fields, Banner: d.banner}
}

// Submit sends the form for the current mode. The returned error is the
// same failure the banner describes.
func (d *Dialog) Submit(ctx context.Context) error {
	d.mu.Lock()
	mode, f := d.mode, d.fields
	d.mu.Unlock()

	if f.Email == "" || f.Password == "" || (mode == SignUp && f.Name == "") {
		d.setBanner(BannerError, MsgRequiredFields)
		return fmt.Errorf("%w: %s", models.ErrValidation, MsgRequiredFields)
	}

	if mode == SignIn {
		return d.signIn(ctx, f)
	}
	return d.signUp(ctx, f)
}

func (d *Dialog) signIn(ctx context.Context, f Fields) error {
	token, err := d.api.Login(ctx, f.Email, f.Password)
	if err != nil {
		d.setBanner(BannerError, failureText(err, MsgLoginFailed))
		d.log.Info("sign in rejected", "email", f.Email, "kind", models.KindOf(err))
		return err
	}
	if err := d.session.SetToken(ctx, token); err != nil {
		d.setBanner(BannerError, MsgServerError)
		return err
	}

	d.mu.Lock()
	d.open = false
	d.fields = Fields{}
	d.banner = Banner{}
	d.mu.Unlock()

	d.log.Info("signed in", "email", f.Email)
	if d.onLogin != nil {
		d.onLogin(ctx)
	}
	return nil
}

func (d *Dialog) signUp(ctx context.Context, f Fields) error {
	if err := d.api.Register(ctx, f.Name, f.Email, f.Password); err != nil {
		d.setBanner(BannerError, failureText(err, MsgSignupFailed))
		d.log.Info("sign up rejected", "email", f.Email, "kind", models.KindOf(err))
		return err
	}
	d.setBanner(BannerSuccess, MsgSignupSuccess)
	d.log.Info("signed up", "email", f.Email)
	return nil
}

// Logout drops the stored token and re-derives the anonymous UI.
func (d *Dialog) Logout(ctx context.Context) error {
	if err := d.session.Remove(ctx); err != nil {
		return err
	}
	d.log.Info("signed out")
	if d.onLogout != nil {
		d.onLogout(ctx)
	}
	return nil
}

// Status probes the server for the current user. nil means anonymous.
func (d *Dialog) Status(ctx context.Context) (*models.User, error) {
	if !d.session.IsAuthenticated(ctx) {
		return nil, nil
	}
	return d.api.CurrentUser(ctx)
}

func (d *Dialog) IsAuthenticated(ctx context.Context) bool {
	return d.session.IsAuthenticated(ctx)
}

func (d *Dialog) setBanner(kind BannerKind, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.banner = Banner{Kind: kind, Text: text}
}

func failureText(err error, fallback string) string {
	if errors.Is(err, models.ErrValidation) {
		if msg := models.Message(err); msg != "" {
			return msg
		}
		return fallback
	}
	return MsgServerError
}
