package validator_test

import (
	"testing"
	"time"

	models "github.com/chrisdamba/daytrip/internal"
	"github.com/chrisdamba/daytrip/internal/validator"
	"github.com/stretchr/testify/assert"
)

type testCard struct {
	Number string `validate:"required,luhn"`
	Expiry string `validate:"required,card_expiry"`
	CCV    string `validate:"required,card_ccv"`
}

func fixedClock() time.Time {
	return time.Date(2026, 10, 17, 15, 0, 0, 0, time.Local)
}

func TestNewCustomValidator(t *testing.T) {
	v := validator.NewCustomValidator()
	assert.NotNil(t, v)
}

func TestValidateBookingInput(t *testing.T) {
	tests := []struct {
		name    string
		input   models.BookingInput
		wantErr bool
	}{
		{
			name:  "Valid morning booking today",
			input: models.BookingInput{AttractionID: 1, Date: "2026-10-17", Time: models.TimeMorning, Price: 2000},
		},
		{
			name:  "Valid afternoon booking next month",
			input: models.BookingInput{AttractionID: 3, Date: "2026-11-01", Time: models.TimeAfternoon, Price: 2500},
		},
		{
			name:    "Past date",
			input:   models.BookingInput{AttractionID: 1, Date: "2026-10-16", Time: models.TimeMorning, Price: 2000},
			wantErr: true,
		},
		{
			name:    "Malformed date",
			input:   models.BookingInput{AttractionID: 1, Date: "17/10/2026", Time: models.TimeMorning, Price: 2000},
			wantErr: true,
		},
		{
			name:    "Unknown time slot",
			input:   models.BookingInput{AttractionID: 1, Date: "2026-10-18", Time: "evening", Price: 2000},
			wantErr: true,
		},
		{
			name:    "Missing attraction",
			input:   models.BookingInput{Date: "2026-10-18", Time: models.TimeMorning, Price: 2000},
			wantErr: true,
		},
		{
			name:    "Zero price",
			input:   models.BookingInput{AttractionID: 1, Date: "2026-10-18", Time: models.TimeMorning},
			wantErr: true,
		},
	}

	v := validator.NewCustomValidator().WithClock(fixedClock)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateContact(t *testing.T) {
	tests := []struct {
		name       string
		contact    models.Contact
		wantFields []string
	}{
		{
			name:    "Valid contact",
			contact: models.Contact{Name: "王小明", Email: "ming@example.com", Phone: "0912345678"},
		},
		{
			name:       "Short phone",
			contact:    models.Contact{Name: "王小明", Email: "ming@example.com", Phone: "091234567"},
			wantFields: []string{"Phone"},
		},
		{
			name:       "Phone with letters",
			contact:    models.Contact{Name: "王小明", Email: "ming@example.com", Phone: "09123456ab"},
			wantFields: []string{"Phone"},
		},
		{
			name:       "Bad email and missing name",
			contact:    models.Contact{Email: "not-an-email", Phone: "0912345678"},
			wantFields: []string{"Name", "Email"},
		},
	}

	v := validator.NewCustomValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.contact)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.ElementsMatch(t, tt.wantFields, validator.Fields(err))
		})
	}
}

func TestValidateCard(t *testing.T) {
	tests := []struct {
		name    string
		card    testCard
		wantErr bool
	}{
		{
			name: "Valid sandbox card",
			card: testCard{Number: "4242 4242 4242 4242", Expiry: "01 / 28", CCV: "123"},
		},
		{
			name:    "Bad checksum",
			card:    testCard{Number: "4242 4242 4242 4241", Expiry: "01/28", CCV: "123"},
			wantErr: true,
		},
		{
			name:    "Expired card",
			card:    testCard{Number: "4242424242424242", Expiry: "09/26", CCV: "123"},
			wantErr: true,
		},
		{
			name: "Expiring this month",
			card: testCard{Number: "4242424242424242", Expiry: "10/26", CCV: "1234"},
		},
		{
			name:    "Invalid month",
			card:    testCard{Number: "4242424242424242", Expiry: "13/28", CCV: "123"},
			wantErr: true,
		},
		{
			name:    "Short ccv",
			card:    testCard{Number: "4242424242424242", Expiry: "01/28", CCV: "12"},
			wantErr: true,
		},
	}

	v := validator.NewCustomValidator().WithClock(fixedClock)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.card)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLuhn(t *testing.T) {
	assert.True(t, validator.Luhn("4111111111111111"))
	assert.True(t, validator.Luhn("5555 5555 5555 4444"))
	assert.False(t, validator.Luhn("4111111111111112"))
	assert.False(t, validator.Luhn("4111-1111-1111-1111"))
	assert.False(t, validator.Luhn("4242"))
}
