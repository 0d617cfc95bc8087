// Package payment is the terminal stand-in for the hosted card fields: it
// collects the card, decides whether a prime may be requested and hands out
// the sandbox prime.
package payment

import (
	"context"
	"errors"
	"strings"
	"sync"

	models "github.com/chrisdamba/daytrip/internal"
	"github.com/chrisdamba/daytrip/internal/validator"
)

// SandboxPrime is the test prime accepted by the payment sandbox.
const SandboxPrime = "test_3a2fb2b7e892b914a03c95dd4dd5dc7970c908df67a49527c0a648b2bc9"

type card struct {
	Number string `validate:"required,luhn"`
	Expiry string `validate:"required,card_expiry"`
	CCV    string `validate:"required,card_ccv"`
}

type MaskRange struct {
	Begin int
	End   int
}

// CardFields holds what the user typed. It never transmits the card itself.
type CardFields struct {
	mu        sync.RWMutex
	card      card
	prime     string
	mask      MaskRange
	validator *validator.CustomValidator
}

type Option func(*CardFields)

func WithPrime(prime string) Option {
	return func(c *CardFields) {
		if prime != "" {
			c.prime = prime
		}
	}
}

func WithMaskRange(begin, end int) Option {
	return func(c *CardFields) {
		c.mask = MaskRange{Begin: begin, End: end}
	}
}

func WithValidator(v *validator.CustomValidator) Option {
	return func(c *CardFields) {
		c.validator = v
	}
}

func NewCardFields(opts ...Option) *CardFields {
	c := &CardFields{
		prime:     SandboxPrime,
		mask:      MaskRange{Begin: 6, End: 11},
		validator: validator.NewCustomValidator(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CardFields) Set(number, expiry, ccv string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.card = card{
		Number: strings.ReplaceAll(strings.TrimSpace(number), " ", ""),
		Expiry: strings.TrimSpace(expiry),
		CCV:    strings.TrimSpace(ccv),
	}
}

func (c *CardFields) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.card = card{}
}

// Ready reports whether all three fields pass their checks.
func (c *CardFields) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.validator.Validate(c.card) == nil
}

// Invalid lists the fields that currently fail.
func (c *CardFields) Invalid() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return validator.Fields(c.validator.Validate(c.card))
}

func (c *CardFields) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !c.Ready() {
		return "", models.ErrPaymentFields
	}
	if c.prime == "" {
		return "", errors.New("no prime configured")
	}
	return c.prime, nil
}

// Masked renders the card number with the digits in the mask range
// replaced by '*'.
func (c *CardFields) Masked() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	digits := []rune(c.card.Number)
	for i := range digits {
		if i >= c.mask.Begin && i <= c.mask.End {
			digits[i] = '*'
		}
	}
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(d)
	}
	return b.String()
}
