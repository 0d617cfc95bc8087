package mocks

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Token(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) SetToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockSessionStore) Remove(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSessionStore) IsAuthenticated(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

type MockPaymentWidget struct {
	mock.Mock
}

func (m *MockPaymentWidget) Ready() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockPaymentWidget) Token(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(ctx context.Context, message string) (bool, error) {
	args := m.Called(ctx, message)
	return args.Bool(0), args.Error(1)
}

type MockReauthenticator struct {
	mock.Mock
}

func (m *MockReauthenticator) RequestLogin() {
	m.Called()
}

// CountingIndicator records Show/Hide calls.
type CountingIndicator struct {
	mu      sync.Mutex
	Shows   int
	Hides   int
	visible bool
}

func (c *CountingIndicator) Show() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Shows++
	c.visible = true
}

func (c *CountingIndicator) Hide() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Hides++
	c.visible = false
}

func (c *CountingIndicator) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// RecordingNavigator keeps every path navigated to.
type RecordingNavigator struct {
	Paths []string
}

func (r *RecordingNavigator) Navigate(path string) {
	r.Paths = append(r.Paths, path)
}

func (r *RecordingNavigator) Last() string {
	if len(r.Paths) == 0 {
		return ""
	}
	return r.Paths[len(r.Paths)-1]
}

// RecordingAlerter keeps every alert message.
type RecordingAlerter struct {
	Messages []string
}

func (r *RecordingAlerter) Alert(message string) {
	r.Messages = append(r.Messages, message)
}
