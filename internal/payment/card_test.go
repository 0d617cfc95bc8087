package payment_test

import (
	"context"
	"testing"
	"time"

	models "github.com/chrisdamba/daytrip/internal"
	"github.com/chrisdamba/daytrip/internal/payment"
	"github.com/chrisdamba/daytrip/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedValidator() *validator.CustomValidator {
	return validator.NewCustomValidator().WithClock(func() time.Time {
		return time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	})
}

func TestCardFields_Ready(t *testing.T) {
	tests := []struct {
		name    string
		number  string
		expiry  string
		ccv     string
		ready   bool
		invalid []string
	}{
		{"valid card", "4242 4242 4242 4242", "01/30", "123", true, nil},
		{"bad checksum", "4242 4242 4242 4241", "01/30", "123", false, []string{"Number"}},
		{"expired", "4242424242424242", "04/26", "123", false, []string{"Expiry"}},
		{"current month", "4242424242424242", "05/26", "1234", true, nil},
		{"short ccv", "4242424242424242", "01/30", "12", false, []string{"CCV"}},
		{"empty", "", "", "", false, []string{"Number", "Expiry", "CCV"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := payment.NewCardFields(payment.WithValidator(fixedValidator()))
			c.Set(tt.number, tt.expiry, tt.ccv)
			assert.Equal(t, tt.ready, c.Ready())
			assert.ElementsMatch(t, tt.invalid, c.Invalid())
		})
	}
}

func TestCardFields_Token(t *testing.T) {
	ctx := context.Background()
	c := payment.NewCardFields(payment.WithValidator(fixedValidator()), payment.WithPrime("prime-123"))

	_, err := c.Token(ctx)
	assert.ErrorIs(t, err, models.ErrPaymentFields)

	c.Set("4242424242424242", "12/29", "999")
	prime, err := c.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "prime-123", prime)

	c.Clear()
	assert.False(t, c.Ready())
}

func TestCardFields_Masked(t *testing.T) {
	c := payment.NewCardFields()
	c.Set("4242424242424242", "", "")
	assert.Equal(t, "4242 42** **** 4242", c.Masked())

	c = payment.NewCardFields(payment.WithMaskRange(0, 3))
	c.Set("1234567890123456", "", "")
	assert.Equal(t, "**** 5678 9012 3456", c.Masked())
}
