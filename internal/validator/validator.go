package validator

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var (
	mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)
	ccvPattern    = regexp.MustCompile(`^[0-9]{3,4}$`)
)

type CustomValidator struct {
	validator *validator.Validate
	now       func() time.Time
}

func NewCustomValidator() *CustomValidator {
	cv := &CustomValidator{validator: validator.New(), now: time.Now}
	cv.validator.RegisterValidation("trip_time", validateTripTime)
	cv.validator.RegisterValidation("not_past_date", cv.validateNotPastDate)
	cv.validator.RegisterValidation("tw_mobile", validateMobile)
	cv.validator.RegisterValidation("card_expiry", cv.validateCardExpiry)
	cv.validator.RegisterValidation("card_ccv", validateCCV)
	cv.validator.RegisterValidation("luhn", validateLuhn)

	return cv
}

// WithClock pins "today" for date rules.
func (cv *CustomValidator) WithClock(now func() time.Time) *CustomValidator {
	cv.now = now
	return cv
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func validateTripTime(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	return v == "morning" || v == "afternoon"
}

func (cv *CustomValidator) validateNotPastDate(fl validator.FieldLevel) bool {
	d, err := time.ParseInLocation(dateLayout, fl.Field().String(), time.Local)
	if err != nil {
		return false
	}
	now := cv.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	return !d.Before(today)
}

func validateMobile(fl validator.FieldLevel) bool {
	return mobilePattern.MatchString(fl.Field().String())
}

func validateCCV(fl validator.FieldLevel) bool {
	return ccvPattern.MatchString(fl.Field().String())
}

// validateCardExpiry accepts MM/YY (spaces allowed) for the current month or later.
func (cv *CustomValidator) validateCardExpiry(fl validator.FieldLevel) bool {
	raw := strings.ReplaceAll(fl.Field().String(), " ", "")
	parts := strings.Split(raw, "/")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return false
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	now := cv.now()
	year += 2000
	return year > now.Year() || (year == now.Year() && month >= int(now.Month()))
}

func validateLuhn(fl validator.FieldLevel) bool {
	return Luhn(fl.Field().String())
}

// Luhn checks a card number (spaces ignored) with the mod-10 checksum.
func Luhn(number string) bool {
	digits := strings.ReplaceAll(number, " ", "")
	if len(digits) < 12 || len(digits) > 19 {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// Fields lists the struct field names that failed validation.
func Fields(err error) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Field())
	}
	return out
}
