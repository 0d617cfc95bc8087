package models

import (
	"encoding/json"
	"fmt"
)

type TripTime string

const (
	TimeMorning   TripTime = "morning"
	TimeAfternoon TripTime = "afternoon"
)

// Price returns the fixed tour price for the time slot, 0 for unknown slots.
func (t TripTime) Price() int {
	switch t {
	case TimeMorning:
		return 2000
	case TimeAfternoon:
		return 2500
	default:
		return 0
	}
}

func (t TripTime) Label() string {
	if t == TimeMorning {
		return "早上 9 點到下午 12 點"
	}
	return "下午 1 點到下午 4 點"
}

// AllCategories is the pseudo category meaning "no category filter".
const AllCategories = "全部分類"

type AttractionSummary struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	MRT      *string  `json:"mrt"`
	Images   []string `json:"images"`
}

type AttractionDetail struct {
	AttractionSummary
	Description string  `json:"description"`
	Address     string  `json:"address"`
	Transport   string  `json:"transport"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

type AttractionPage struct {
	NextPage *int                `json:"nextPage"`
	Data     []AttractionSummary `json:"data"`
}

type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type BookingAttraction struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Image   string `json:"image"`
}

type Booking struct {
	Attraction BookingAttraction `json:"attraction"`
	Date       string            `json:"date"`
	Time       TripTime          `json:"time"`
	Price      int               `json:"price"`
}

type BookingInput struct {
	AttractionID int      `json:"attractionId" validate:"required,gt=0"`
	Date         string   `json:"date" validate:"required,not_past_date"`
	Time         TripTime `json:"time" validate:"required,trip_time"`
	Price        int      `json:"price" validate:"required,gt=0"`
}

type Contact struct {
	Name  string `json:"name" validate:"required,max=50"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,tw_mobile"`
}

type Trip struct {
	Attraction BookingAttraction `json:"attraction"`
	Date       string            `json:"date"`
	Time       TripTime          `json:"time"`
}

type OrderInput struct {
	Price   int     `json:"price"`
	Trip    Trip    `json:"trip"`
	Contact Contact `json:"contact"`
}

type OrderRequest struct {
	Prime string     `json:"prime"`
	Order OrderInput `json:"order"`
}

type PaymentStatus struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type OrderResult struct {
	Number  string        `json:"number"`
	Payment PaymentStatus `json:"payment"`
}

// Paid reports whether the card charge went through.
func (o OrderResult) Paid() bool {
	return o.Payment.Status == 0
}

type OrderStatus int

const (
	StatusUnpaid OrderStatus = 0
	StatusPaid   OrderStatus = 1
)

func (s OrderStatus) String() string {
	if s == StatusPaid {
		return "已付款"
	}
	return "未付款"
}

func (s *OrderStatus) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*s = OrderStatus(n)
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return fmt.Errorf("invalid order status %s", string(b))
	}
	switch str {
	case "PAID", "paid":
		*s = StatusPaid
	case "UNPAID", "unpaid":
		*s = StatusUnpaid
	default:
		return fmt.Errorf("invalid order status %q", str)
	}
	return nil
}

type Order struct {
	Number  string      `json:"number"`
	Price   int         `json:"price"`
	Trip    Trip        `json:"trip"`
	Contact Contact     `json:"contact"`
	Status  OrderStatus `json:"status"`
}

// NewOrderRequest derives the order payload from the active booking.
func NewOrderRequest(prime string, b Booking, contact Contact) OrderRequest {
	return OrderRequest{
		Prime: prime,
		Order: OrderInput{
			Price: b.Price,
			Trip: Trip{
				Attraction: b.Attraction,
				Date:       b.Date,
				Time:       b.Time,
			},
			Contact: contact,
		},
	}
}
