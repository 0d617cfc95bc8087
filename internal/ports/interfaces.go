package ports

import (
	"context"
	"time"

	models "github.com/chrisdamba/daytrip/internal"
)

type AttractionAPI interface {
	Attractions(ctx context.Context, page int, keyword, category string) (models.AttractionPage, error)
	Attraction(ctx context.Context, id int) (models.AttractionDetail, error)
	MRTs(ctx context.Context) ([]string, error)
	Categories(ctx context.Context) ([]string, error)
}

type UserAPI interface {
	CurrentUser(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, name, email, password string) error
}

type BookingAPI interface {
	Booking(ctx context.Context) (*models.Booking, error)
	CreateBooking(ctx context.Context, input models.BookingInput) error
	DeleteBooking(ctx context.Context) error
	CreateOrder(ctx context.Context, req models.OrderRequest) (models.OrderResult, error)
	Order(ctx context.Context, number string) (*models.Order, error)
}

type Gateway interface {
	AttractionAPI
	UserAPI
	BookingAPI
}

type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type SessionStore interface {
	TokenSource
	SetToken(ctx context.Context, token string) error
	Remove(ctx context.Context) error
	IsAuthenticated(ctx context.Context) bool
}

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

type PaymentWidget interface {
	Ready() bool
	Token(ctx context.Context) (string, error)
}

type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

type Indicator interface {
	Show()
	Hide()
}

type Reauthenticator interface {
	RequestLogin()
}

type Navigator interface {
	Navigate(path string)
}

type Alerter interface {
	Alert(message string)
}
