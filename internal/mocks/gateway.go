package mocks

import (
	"context"

	models "github.com/chrisdamba/daytrip/internal"
	"github.com/stretchr/testify/mock"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Attractions(ctx context.Context, page int, keyword, category string) (models.AttractionPage, error) {
	args := m.Called(ctx, page, keyword, category)
	return args.Get(0).(models.AttractionPage), args.Error(1)
}

func (m *MockGateway) Attraction(ctx context.Context, id int) (models.AttractionDetail, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.AttractionDetail), args.Error(1)
}

func (m *MockGateway) MRTs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockGateway) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockGateway) CurrentUser(ctx context.Context) (*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockGateway) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) Register(ctx context.Context, name, email, password string) error {
	args := m.Called(ctx, name, email, password)
	return args.Error(0)
}

func (m *MockGateway) Booking(ctx context.Context) (*models.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockGateway) CreateBooking(ctx context.Context, input models.BookingInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockGateway) DeleteBooking(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockGateway) CreateOrder(ctx context.Context, req models.OrderRequest) (models.OrderResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.OrderResult), args.Error(1)
}

func (m *MockGateway) Order(ctx context.Context, number string) (*models.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
