package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKey is the well-known key the bearer credential is stored under.
const TokenKey = "jwt_token"

var ErrNotFound = errors.New("session key not found")

// Backend is durable key-value storage for session data.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Claims is the unverified payload of a JWT session token.
type Claims struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"-"`
}

// Store holds at most one token. All writes go through mu so readers never
// observe a half-replaced session.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	key     string
	now     func() time.Time
	log     *slog.Logger
}

type Option func(*Store)

// WithProfile namespaces the token key so several profiles can share one backend.
func WithProfile(profile string) Option {
	return func(s *Store) {
		if profile != "" {
			s.key = profile + ":" + TokenKey
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     TokenKey,
		now:     time.Now,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Token returns the stored credential, or "" when anonymous.
func (s *Store) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading session: %w", err)
	}
	return token, nil
}

func (s *Store) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.Remove(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Set(ctx, s.key, token); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	s.log.Info("session stored", "key", s.key)
	return nil
}

func (s *Store) Remove(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx, s.key); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("removing session: %w", err)
	}
	s.log.Info("session removed", "key", s.key)
	return nil
}

// IsAuthenticated reports whether a usable token is held. Tokens that parse
// as JWTs with an exp claim in the past are treated as absent; opaque tokens
// are trusted until the server rejects them.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	token, err := s.Token(ctx)
	if err != nil || token == "" {
		return false
	}
	claims, err := parseClaims(token)
	if err != nil {
		return true
	}
	if claims.ExpiresAt.IsZero() {
		return true
	}
	return s.now().Before(claims.ExpiresAt)
}

// Claims decodes the stored token without verifying its signature. It is
// display data only; the server stays the authority.
func (s *Store) Claims(ctx context.Context) (*Claims, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}
	return parseClaims(token)
}

func (s *Store) Close() error {
	return s.backend.Close()
}

func parseClaims(token string) (*Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return nil, err
	}
	c := &Claims{}
	if id, ok := mc["id"].(float64); ok {
		c.ID = int(id)
	}
	c.Name, _ = mc["name"].(string)
	c.Email, _ = mc["email"].(string)
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}
