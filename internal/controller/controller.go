// Package controller binds user actions on each page to the flows and
// renders their outcome. Every failure ends here as an alert, a dialog or
// a redirect; none is returned unhandled to the shell.
package controller

import (
	"errors"
	"log/slog"

	models "github.com/chrisdamba/daytrip/internal"
	"github.com/chrisdamba/daytrip/internal/auth"
	"github.com/chrisdamba/daytrip/internal/booking"
	"github.com/chrisdamba/daytrip/internal/ports"
	"github.com/chrisdamba/daytrip/internal/view"
)

const (
	MsgNotFound       = "查無景點資訊，將返回首頁"
	MsgLoadFailed     = "景點資料載入錯誤，請稍後再試"
	MsgLoginRequired  = "未登入系統，請登入後再試。"
	MsgPickDate       = "請選擇日期"
	MsgPastDate       = "預約日期不能是過去的時間"
	MsgBookingFailed  = "新增預約行程錯誤，請稍後再試"
	MsgBookingExists  = "您已有一筆待付款的預定行程，請先至預定頁面處理。"
	MsgDeleteFailed   = "刪除預定行程發生錯誤，請稍後再試。"
	MsgPaymentFailed  = "訂購與付款預定行程發生錯誤，請稍後再試。"
	MsgBusy           = "處理中，請稍候。"
	MsgInvalidContact = "聯絡資訊格式有誤，請確認。"
)

// Deps is what every page controller is built from.
type Deps struct {
	API       ports.Gateway
	Auth      *auth.Dialog
	Flow      *booking.Flow
	Navigator ports.Navigator
	Alerter   ports.Alerter
	Render    *view.RenderContext
	Logger    *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

func (d Deps) alert(msg string) {
	if d.Alerter != nil {
		d.Alerter.Alert(msg)
	}
	if d.Render != nil {
		view.Alert(d.Render, msg)
	}
}

func (d Deps) navigate(path string) {
	if d.Navigator != nil {
		d.Navigator.Navigate(path)
	}
}

// alertAndLeave is the blocking error message followed by a return home.
func (d Deps) alertAndLeave(msg string) {
	d.alert(msg)
	d.navigate("/")
}

func (d Deps) requestLogin() {
	if d.Auth == nil {
		return
	}
	d.Auth.Show()
	if d.Render != nil {
		view.DialogState(d.Render, d.Auth.State())
	}
}

// report maps an error from a mutating action onto the user-facing action
// for its kind. fallback is the generic message for network/server failures.
func (d Deps) report(err error, fallback string) {
	switch {
	case err == nil:
	case errors.Is(err, models.ErrBusy):
		d.alert(MsgBusy)
	case errors.Is(err, models.ErrPaymentFields):
		d.alert(err.Error())
	case errors.Is(err, models.ErrBookingExists):
		d.alert(MsgBookingExists)
	case errors.Is(err, models.ErrAuthRequired):
		d.alert(MsgLoginRequired)
		d.requestLogin()
	case errors.Is(err, models.ErrValidation):
		if msg := models.Message(err); msg != "" {
			d.alert(msg)
		} else {
			d.alert(fallback)
		}
	default:
		d.logger().Warn("action failed", "error", err)
		d.alertAndLeave(fallback)
	}
}
