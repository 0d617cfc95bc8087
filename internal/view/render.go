// Package view renders page state as plain text onto the writers a page
// owns. Render functions hold no state; a RenderContext is built once per
// page and passed in.
package view

import (
	"fmt"
	"io"
	"strings"

	models "github.com/chrisdamba/daytrip/internal"
	"github.com/chrisdamba/daytrip/internal/auth"
	"github.com/chrisdamba/daytrip/internal/carousel"
	"github.com/dustin/go-humanize"
)

const (
	MsgNoAttractions = "查無相關景點"
	MsgNoBooking     = "目前沒有任何待預訂的行程"
	MsgNoOrder       = "查無訂單資訊"
	noMRT            = "無"
)

// RenderContext holds the output handles of one page. Nil handles discard.
type RenderContext struct {
	Cards      io.Writer
	MRTs       io.Writer
	Categories io.Writer
	Detail     io.Writer
	Indicators io.Writer
	Booking    io.Writer
	Order      io.Writer
	Navbar     io.Writer
	Dialog     io.Writer
	Alert      io.Writer
}

// NewRenderContext points every handle at w.
func NewRenderContext(w io.Writer) *RenderContext {
	return &RenderContext{
		Cards:      w,
		MRTs:       w,
		Categories: w,
		Detail:     w,
		Indicators: w,
		Booking:    w,
		Order:      w,
		Navbar:     w,
		Dialog:     w,
		Alert:      w,
	}
}

func out(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

func Price(n int) string {
	return fmt.Sprintf("新台幣 %s 元", humanize.Comma(int64(n)))
}

func mrtName(m *string) string {
	if m == nil || *m == "" {
		return noMRT
	}
	return *m
}

func Attractions(rc *RenderContext, items []models.AttractionSummary) {
	w := out(rc.Cards)
	for _, a := range items {
		fmt.Fprintf(w, "[%d] %s\n    %s ・ %s\n", a.ID, a.Name, mrtName(a.MRT), a.Category)
	}
}

func EmptyAttractions(rc *RenderContext) {
	fmt.Fprintln(out(rc.Cards), MsgNoAttractions)
}

func MRTs(rc *RenderContext, stations []string) {
	fmt.Fprintf(out(rc.MRTs), "捷運站: %s\n", strings.Join(stations, " | "))
}

// Categories lists the filter options with the all-categories entry first.
func Categories(rc *RenderContext, categories []string) {
	all := append([]string{models.AllCategories}, categories...)
	fmt.Fprintf(out(rc.Categories), "分類: %s\n", strings.Join(all, " | "))
}

func AttractionInfo(rc *RenderContext, a models.AttractionDetail) {
	w := out(rc.Detail)
	fmt.Fprintf(w, "%s\n", a.Name)
	fmt.Fprintf(w, "%s at %s\n", a.Category, mrtName(a.MRT))
	fmt.Fprintf(w, "\n%s\n", a.Description)
	fmt.Fprintf(w, "\n景點地址：\n%s\n", a.Address)
	fmt.Fprintf(w, "\n交通方式：\n%s\n", a.Transport)
}

// Indicators draws one dot per image with the active one filled.
func Indicators(rc *RenderContext, count, active int) {
	if count == 0 {
		return
	}
	var b strings.Builder
	for i := 0; i < count; i++ {
		if i == active {
			b.WriteString("●")
		} else {
			b.WriteString("○")
		}
	}
	fmt.Fprintln(out(rc.Indicators), b.String())
}

// Transition redraws the slide after an Advance.
func Transition(rc *RenderContext, count int, t carousel.Transition) {
	Indicators(rc, count, t.New)
	fmt.Fprintf(out(rc.Detail), "圖片 %d/%d: %s\n", t.New+1, count, t.Image)
}

func TripPrice(rc *RenderContext, tt models.TripTime) {
	fmt.Fprintf(out(rc.Detail), "導覽費用：%s\n", Price(tt.Price()))
}

func Greeting(rc *RenderContext, name string) {
	fmt.Fprintf(out(rc.Booking), "您好，%s，待預訂的行程如下：\n", name)
}

func BookingCard(rc *RenderContext, b models.Booking) {
	w := out(rc.Booking)
	fmt.Fprintf(w, "台北一日遊：%s\n", b.Attraction.Name)
	fmt.Fprintf(w, "日期：%s\n", b.Date)
	fmt.Fprintf(w, "時間：%s\n", b.Time.Label())
	fmt.Fprintf(w, "費用：%s\n", Price(b.Price))
	fmt.Fprintf(w, "地點：%s\n", b.Attraction.Address)
	fmt.Fprintf(w, "總價：%s\n", Price(b.Price))
}

func NoBooking(rc *RenderContext) {
	fmt.Fprintln(out(rc.Booking), MsgNoBooking)
}

func OrderCard(rc *RenderContext, o models.Order) {
	w := out(rc.Order)
	fmt.Fprintf(w, "訂單編號：%s\n", o.Number)
	fmt.Fprintf(w, "付款狀態：%s\n", o.Status)
	fmt.Fprintf(w, "行程：%s\n", o.Trip.Attraction.Name)
	fmt.Fprintf(w, "日期：%s %s\n", o.Trip.Date, o.Trip.Time.Label())
	fmt.Fprintf(w, "金額：%s\n", Price(o.Price))
	fmt.Fprintf(w, "聯絡人：%s <%s> %s\n", o.Contact.Name, o.Contact.Email, o.Contact.Phone)
}

func NoOrder(rc *RenderContext) {
	fmt.Fprintln(out(rc.Order), MsgNoOrder)
}

func Navbar(rc *RenderContext, loggedIn bool) {
	action := "登入/註冊"
	if loggedIn {
		action = "登出系統"
	}
	fmt.Fprintf(out(rc.Navbar), "台北一日遊 | 預定行程 | %s\n", action)
}

func DialogState(rc *RenderContext, st auth.State) {
	if !st.Open {
		return
	}
	w := out(rc.Dialog)
	title := "登入會員帳號"
	if st.Mode == auth.SignUp {
		title = "註冊會員帳號"
	}
	fmt.Fprintln(w, title)
	switch st.Banner.Kind {
	case auth.BannerError:
		fmt.Fprintf(w, "! %s\n", st.Banner.Text)
	case auth.BannerSuccess:
		fmt.Fprintf(w, "✓ %s\n", st.Banner.Text)
	}
}

func Alert(rc *RenderContext, message string) {
	fmt.Fprintf(out(rc.Alert), "⚠ %s\n", message)
}
