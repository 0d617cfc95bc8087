package models

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind int

const (
	KindNetworkOrServer ErrorKind = iota
	KindValidation
	KindAuthRequired
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthRequired:
		return "auth_required"
	case KindNotFound:
		return "not_found"
	default:
		return "network_or_server"
	}
}

var (
	ErrValidation      = errors.New("validation error")
	ErrAuthRequired    = errors.New("authentication required")
	ErrNotFound        = errors.New("resource not found")
	ErrNetworkOrServer = errors.New("network or server error")
)

var (
	ErrBusy           = errors.New("another action is in progress")
	ErrNoBooking      = errors.New("no active booking")
	ErrBookingExists  = errors.New("a booking is already active")
	ErrPaymentFields  = errors.New("付款欄位有誤，請確認。")
	ErrMissingOrderID = errors.New("missing order number")
)

// ApiError is the classified outcome of a failed gateway call.
type ApiError struct {
	Kind       ErrorKind
	StatusCode int
	Msg        string
	Err        error
}

func (o *ApiError) Error() string {
	if o.Msg != "" {
		return fmt.Sprintf("%d: %s", o.StatusCode, o.Msg)
	}
	if o.Err != nil {
		return fmt.Sprintf("%s: %v", o.Kind, o.Err)
	}
	return fmt.Sprintf("%d: %s", o.StatusCode, o.Kind)
}

func (o *ApiError) Unwrap() error {
	return o.Err
}

func (o *ApiError) Is(target error) bool {
	switch target {
	case ErrValidation:
		return o.Kind == KindValidation
	case ErrAuthRequired:
		return o.Kind == KindAuthRequired
	case ErrNotFound:
		return o.Kind == KindNotFound
	case ErrNetworkOrServer:
		return o.Kind == KindNetworkOrServer
	}
	return false
}

// NewStatusError classifies a non-2xx response.
func NewStatusError(statusCode int, msg string) *ApiError {
	ae := &ApiError{StatusCode: statusCode, Msg: msg}
	switch statusCode {
	case http.StatusBadRequest:
		ae.Kind = KindValidation
	case http.StatusForbidden:
		ae.Kind = KindAuthRequired
	case http.StatusNotFound:
		ae.Kind = KindNotFound
	default:
		ae.Kind = KindNetworkOrServer
	}
	return ae
}

func NewNetworkError(err error) *ApiError {
	return &ApiError{Kind: KindNetworkOrServer, Err: err}
}

func NewValidationError(msg string) *ApiError {
	return &ApiError{Kind: KindValidation, StatusCode: http.StatusBadRequest, Msg: msg}
}

// KindOf reports the taxonomy entry for err. Unclassified errors count as
// network/server failures.
func KindOf(err error) ErrorKind {
	var ae *ApiError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	if errors.Is(err, ErrValidation) {
		return KindValidation
	}
	return KindNetworkOrServer
}

// Message returns the server-provided message carried by err, if any.
func Message(err error) string {
	var ae *ApiError
	if errors.As(err, &ae) {
		return ae.Msg
	}
	return ""
}
