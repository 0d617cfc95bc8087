// Package booking drives the single-booking lifecycle of a signed-in user:
// reserving a trip, cancelling it and paying for it.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	models "github.com/chrisdamba/daytrip/internal"
	"github.com/chrisdamba/daytrip/internal/inflight"
	"github.com/chrisdamba/daytrip/internal/ports"
	"github.com/chrisdamba/daytrip/internal/validator"
)

// DeletePrompt is shown before a booking is cancelled.
const DeletePrompt = "確定要刪除預定行程嗎？"

type State int

const (
	Unknown State = iota
	NoBooking
	HasBooking
	Ordered
)

func (s State) String() string {
	switch s {
	case NoBooking:
		return "no_booking"
	case HasBooking:
		return "has_booking"
	case Ordered:
		return "ordered"
	default:
		return "unknown"
	}
}

type Flow struct {
	mu        sync.Mutex
	api       ports.BookingAPI
	guard     *inflight.Guard
	confirm   ports.Confirmer
	widget    ports.PaymentWidget
	reauth    ports.Reauthenticator
	validator *validator.CustomValidator
	log       *slog.Logger

	state   State
	booking *models.Booking
	result  *models.OrderResult
}

type Option func(*Flow)

func WithConfirmer(c ports.Confirmer) Option {
	return func(f *Flow) {
		f.confirm = c
	}
}

func WithPaymentWidget(w ports.PaymentWidget) Option {
	return func(f *Flow) {
		f.widget = w
	}
}

func WithReauthenticator(r ports.Reauthenticator) Option {
	return func(f *Flow) {
		f.reauth = r
	}
}

func WithValidator(v *validator.CustomValidator) Option {
	return func(f *Flow) {
		f.validator = v
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(f *Flow) {
		f.log = log
	}
}

func NewFlow(api ports.BookingAPI, guard *inflight.Guard, opts ...Option) *Flow {
	f := &Flow{
		api:       api,
		guard:     guard,
		validator: validator.NewCustomValidator(),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.guard == nil {
		f.guard = inflight.NewGuard(nil)
	}
	return f
}

// Load reads the current booking and settles the state on NoBooking or
// HasBooking.
func (f *Flow) Load(ctx context.Context) (*models.Booking, error) {
	b, err := f.api.Booking(ctx)
	if err != nil {
		f.handleAuth(err)
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.booking = b
	if b == nil {
		f.setState(NoBooking)
	} else {
		f.setState(HasBooking)
	}
	return b, nil
}

// Create reserves a trip. It is refused with models.ErrBookingExists while
// a booking is active. The booking is re-read first when the state is not
// known yet or an order was just placed.
func (f *Flow) Create(ctx context.Context, input models.BookingInput) error {
	if s := f.State(); s == Unknown || s == Ordered {
		if _, err := f.Load(ctx); err != nil {
			return err
		}
	}
	if f.State() != NoBooking {
		return models.ErrBookingExists
	}
	if err := f.validator.Validate(input); err != nil {
		return fmt.Errorf("%w: %s", models.ErrValidation, strings.Join(validator.Fields(err), ", "))
	}

	return f.guard.Do(ctx, func(ctx context.Context) error {
		if err := f.api.CreateBooking(ctx, input); err != nil {
			f.handleAuth(err)
			return err
		}
		f.log.Info("booking created", "attraction_id", input.AttractionID, "date", input.Date, "time", input.Time)
		if _, err := f.Load(ctx); err != nil {
			return err
		}
		return nil
	})
}

// Delete cancels the active booking after the user confirms. A declined
// prompt returns (false, nil) and nothing is sent.
func (f *Flow) Delete(ctx context.Context) (bool, error) {
	if f.State() != HasBooking {
		return false, models.ErrNoBooking
	}
	if f.confirm == nil {
		return false, errors.New("no confirmation prompt configured")
	}
	ok, err := f.confirm.Confirm(ctx, DeletePrompt)
	if err != nil || !ok {
		return false, err
	}

	err = f.guard.Do(ctx, func(ctx context.Context) error {
		if err := f.api.DeleteBooking(ctx); err != nil {
			f.handleAuth(err)
			return err
		}
		f.mu.Lock()
		f.booking = nil
		f.setState(NoBooking)
		f.mu.Unlock()
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Pay obtains a prime from the card widget and submits the order built
// from the active booking. Incomplete card fields fail with
// models.ErrPaymentFields before anything is sent.
func (f *Flow) Pay(ctx context.Context, contact models.Contact) (models.OrderResult, error) {
	var res models.OrderResult
	f.mu.Lock()
	state, booking := f.state, f.booking
	f.mu.Unlock()
	if state != HasBooking || booking == nil {
		return res, models.ErrNoBooking
	}
	if err := f.validator.Validate(contact); err != nil {
		return res, fmt.Errorf("%w: %s", models.ErrValidation, strings.Join(validator.Fields(err), ", "))
	}

	err := f.guard.Do(ctx, func(ctx context.Context) error {
		if f.widget == nil || !f.widget.Ready() {
			return models.ErrPaymentFields
		}
		prime, err := f.widget.Token(ctx)
		if err != nil || prime == "" {
			f.log.Warn("payment token unavailable", "error", err)
			return models.ErrPaymentFields
		}

		out, err := f.api.CreateOrder(ctx, models.NewOrderRequest(prime, *booking, contact))
		if err != nil {
			f.handleAuth(err)
			return err
		}
		res = out
		f.mu.Lock()
		f.result = &out
		f.setState(Ordered)
		f.mu.Unlock()
		f.log.Info("order created", "number", out.Number, "paid", out.Paid())
		return nil
	})
	return res, err
}

// Order looks up a placed order for the confirmation page.
func (f *Flow) Order(ctx context.Context, number string) (*models.Order, error) {
	o, err := f.api.Order(ctx, number)
	if err != nil {
		f.handleAuth(err)
		return nil, err
	}
	return o, nil
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Booking() *models.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.booking
}

// Result is the last order outcome, nil before a successful Pay.
func (f *Flow) Result() *models.OrderResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// setState must be called with mu held.
func (f *Flow) setState(s State) {
	if f.state != s {
		f.log.Info("booking state changed", "from", f.state, "to", s)
	}
	f.state = s
}

func (f *Flow) handleAuth(err error) {
	if errors.Is(err, models.ErrAuthRequired) && f.reauth != nil {
		f.reauth.RequestLogin()
	}
}
