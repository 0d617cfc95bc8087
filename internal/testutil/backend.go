// Package testutil provides an in-memory stand-in for the attraction REST
// API, for tests that need real HTTP round trips.
package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	models "github.com/chrisdamba/daytrip/internal"
	"github.com/chrisdamba/daytrip/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

const (
	PageSize = 8

	MsgLoginFailed  = "電子信箱或密碼錯誤"
	MsgEmailTaken   = "此電子郵件信箱已被註冊，請使用其他信箱。"
	MsgUnauthorized = "未登入系統，拒絕存取。"
	MsgNoBooking    = "無對應的預定行程，請重新預定。"
	MsgPastDate     = "預約日期不能是過去的時間"
	MsgBadAttrID    = "找不到該景點"
)

type account struct {
	models.User
	password string
}

type order struct {
	userID int
	models.Order
}

// Backend is an httptest server holding attractions, members, one booking
// per member and orders.
type Backend struct {
	Server *httptest.Server

	mu          sync.Mutex
	attractions []models.AttractionDetail
	accounts    map[string]*account
	bookings    map[int]*models.Booking
	orders      map[string]*order
	counts      map[string]int
	failures    map[string]int
	secret      []byte
	now         func() time.Time
}

func NewBackend(t testing.TB) *Backend {
	b := &Backend{
		attractions: SeedAttractions(),
		accounts:    map[string]*account{},
		bookings:    map[int]*models.Booking{},
		orders:      map[string]*order{},
		counts:      map[string]int{},
		failures:    map[string]int{},
		secret:      []byte("testutil-secret"),
		now:         time.Now,
	}
	b.Server = httptest.NewServer(b.routes())
	t.Cleanup(b.Server.Close)
	return b
}

func (b *Backend) URL() string {
	return b.Server.URL
}

// SetAttractions replaces the catalog.
func (b *Backend) SetAttractions(items []models.AttractionDetail) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attractions = items
}

// AddUser registers a member and returns a valid token for it.
func (b *Backend) AddUser(name, email, password string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := &account{User: models.User{ID: len(b.accounts) + 1, Name: name, Email: email}, password: password}
	b.accounts[strings.ToLower(email)] = acc
	return b.issue(acc.User)
}

// SetBooking stores a booking for the member owning email.
func (b *Backend) SetBooking(email string, booking models.Booking) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if acc, ok := b.accounts[strings.ToLower(email)]; ok {
		bk := booking
		b.bookings[acc.ID] = &bk
	}
}

// Fail makes the next request matching "METHOD /path" answer status.
func (b *Backend) Fail(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = status
}

// Count returns how many requests hit "METHOD /path".
func (b *Backend) Count(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts[route]
}

func (b *Backend) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/attractions", b.listAttractions)
	mux.HandleFunc("GET /api/attraction/{id}", b.getAttraction)
	mux.HandleFunc("GET /api/mrts", b.listMRTs)
	mux.HandleFunc("GET /api/categories", b.listCategories)
	mux.HandleFunc("GET /api/user/auth", b.currentUser)
	mux.HandleFunc("PUT /api/user/auth", b.login)
	mux.HandleFunc("POST /api/user", b.register)
	mux.HandleFunc("/api/booking", utils.AllowedMethods(b.booking, http.MethodGet, http.MethodPost, http.MethodDelete))
	mux.HandleFunc("POST /api/orders", b.createOrder)
	mux.HandleFunc("GET /api/order/{number}", b.getOrder)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		b.mu.Lock()
		b.counts[route]++
		status, fail := b.failures[route]
		delete(b.failures, route)
		b.mu.Unlock()
		if fail {
			utils.RenderError(w, status, http.StatusText(status))
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func (b *Backend) listAttractions(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 0 {
		utils.RenderJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"detail": []map[string]string{{"msg": "page must be a non-negative integer"}},
		})
		return
	}
	keyword := r.URL.Query().Get("keyword")
	category := r.URL.Query().Get("category")

	b.mu.Lock()
	var matched []models.AttractionSummary
	for _, a := range b.attractions {
		if category != "" && a.Category != category {
			continue
		}
		if keyword != "" && !(a.MRT != nil && *a.MRT == keyword) && !strings.Contains(a.Name, keyword) {
			continue
		}
		matched = append(matched, a.AttractionSummary)
	}
	b.mu.Unlock()

	data := []models.AttractionSummary{}
	start := page * PageSize
	if start < len(matched) {
		end := start + PageSize
		if end > len(matched) {
			end = len(matched)
		}
		data = matched[start:end]
	}
	var next *int
	if len(data) == PageSize {
		n := page + 1
		next = &n
	}
	utils.RenderJSON(w, http.StatusOK, models.AttractionPage{NextPage: next, Data: data})
}

func (b *Backend) getAttraction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utils.RenderError(w, http.StatusBadRequest, "景點編號不正確")
		return
	}
	if a, ok := b.findAttraction(id); ok {
		utils.RenderData(w, http.StatusOK, a)
		return
	}
	utils.RenderError(w, http.StatusNotFound, "景點編號不正確")
}

func (b *Backend) listMRTs(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, a := range b.attractions {
		if a.MRT != nil && !seen[*a.MRT] {
			seen[*a.MRT] = true
			out = append(out, *a.MRT)
		}
	}
	utils.RenderData(w, http.StatusOK, out)
}

func (b *Backend) listCategories(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, a := range b.attractions {
		if !seen[a.Category] {
			seen[a.Category] = true
			out = append(out, a.Category)
		}
	}
	utils.RenderData(w, http.StatusOK, out)
}

func (b *Backend) currentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := b.authenticate(r)
	if !ok {
		utils.RenderData(w, http.StatusOK, nil)
		return
	}
	utils.RenderData(w, http.StatusOK, user)
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := utils.JsonDecodeBody(r, &req); err != nil {
		utils.RenderError(w, http.StatusBadRequest, err.Error())
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.accounts[strings.ToLower(req.Email)]
	if !ok || acc.password != req.Password {
		utils.RenderJSON(w, http.StatusBadRequest, utils.ErrorBody{Detail: MsgLoginFailed})
		return
	}
	utils.RenderJSON(w, http.StatusOK, map[string]string{"token": b.issue(acc.User)})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := utils.JsonDecodeBody(r, &req); err != nil {
		utils.RenderError(w, http.StatusBadRequest, err.Error())
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	key := strings.ToLower(req.Email)
	if _, taken := b.accounts[key]; taken {
		utils.RenderJSON(w, http.StatusBadRequest, utils.ErrorBody{Detail: MsgEmailTaken})
		return
	}
	b.accounts[key] = &account{
		User:     models.User{ID: len(b.accounts) + 1, Name: req.Name, Email: req.Email},
		password: req.Password,
	}
	utils.RenderJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (b *Backend) booking(w http.ResponseWriter, r *http.Request) {
	user, ok := b.authenticate(r)
	if !ok {
		utils.RenderJSON(w, http.StatusForbidden, utils.ErrorBody{Detail: MsgUnauthorized})
		return
	}

	switch r.Method {
	case http.MethodGet:
		b.mu.Lock()
		bk := b.bookings[user.ID]
		b.mu.Unlock()
		if bk == nil {
			utils.RenderData(w, http.StatusOK, nil)
			return
		}
		utils.RenderData(w, http.StatusOK, bk)

	case http.MethodPost:
		var in models.BookingInput
		if err := utils.JsonDecodeBody(r, &in); err != nil {
			utils.RenderError(w, http.StatusBadRequest, err.Error())
			return
		}
		if d, err := time.Parse("2006-01-02", in.Date); err != nil || d.Before(b.today()) {
			utils.RenderJSON(w, http.StatusBadRequest, utils.ErrorBody{Detail: MsgPastDate})
			return
		}
		a, found := b.findAttraction(in.AttractionID)
		if !found {
			utils.RenderJSON(w, http.StatusBadRequest, utils.ErrorBody{Detail: MsgBadAttrID})
			return
		}
		img := ""
		if len(a.Images) > 0 {
			img = a.Images[0]
		}
		b.mu.Lock()
		b.bookings[user.ID] = &models.Booking{
			Attraction: models.BookingAttraction{ID: a.ID, Name: a.Name, Address: a.Address, Image: img},
			Date:       in.Date,
			Time:       in.Time,
			Price:      in.Price,
		}
		b.mu.Unlock()
		utils.RenderJSON(w, http.StatusOK, map[string]bool{"ok": true})

	case http.MethodDelete:
		b.mu.Lock()
		delete(b.bookings, user.ID)
		b.mu.Unlock()
		utils.RenderJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func (b *Backend) createOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := b.authenticate(r)
	if !ok {
		utils.RenderJSON(w, http.StatusForbidden, utils.ErrorBody{Detail: MsgUnauthorized})
		return
	}
	var req models.OrderRequest
	if err := utils.JsonDecodeBody(r, &req); err != nil {
		utils.RenderError(w, http.StatusBadRequest, err.Error())
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	bk := b.bookings[user.ID]
	if bk == nil {
		utils.RenderJSON(w, http.StatusBadRequest, utils.ErrorBody{Detail: MsgNoBooking})
		return
	}
	delete(b.bookings, user.ID)

	number := b.now().Format("20060102150405") + randomHex(3)
	status := models.StatusPaid
	payment := models.PaymentStatus{Status: 0, Message: "付款成功"}
	if req.Prime == "" || strings.HasPrefix(req.Prime, "fail") {
		status = models.StatusUnpaid
		payment = models.PaymentStatus{Status: 1, Message: "付款失敗"}
	}
	b.orders[number] = &order{userID: user.ID, Order: models.Order{
		Number:  number,
		Price:   bk.Price,
		Trip:    models.Trip{Attraction: bk.Attraction, Date: bk.Date, Time: bk.Time},
		Contact: req.Order.Contact,
		Status:  status,
	}}
	utils.RenderData(w, http.StatusOK, models.OrderResult{Number: number, Payment: payment})
}

func (b *Backend) getOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := b.authenticate(r)
	if !ok {
		utils.RenderJSON(w, http.StatusForbidden, utils.ErrorBody{Detail: MsgUnauthorized})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	o := b.orders[r.PathValue("number")]
	if o == nil || o.userID != user.ID {
		utils.RenderData(w, http.StatusOK, nil)
		return
	}
	utils.RenderData(w, http.StatusOK, map[string]interface{}{
		"number":  o.Number,
		"price":   o.Price,
		"trip":    o.Trip,
		"contact": o.Contact,
		"status":  int(o.Status),
	})
}

func (b *Backend) findAttraction(id int) (models.AttractionDetail, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.attractions {
		if a.ID == id {
			return a, true
		}
	}
	return models.AttractionDetail{}, false
}

func (b *Backend) authenticate(r *http.Request) (models.User, bool) {
	raw := utils.BearerToken(r)
	if raw == "" {
		return models.User{}, false
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return b.secret, nil
	})
	if err != nil {
		return models.User{}, false
	}
	id, _ := claims["id"].(float64)
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)
	return models.User{ID: int(id), Name: name, Email: email}, true
}

// issue must be called with mu held.
func (b *Backend) issue(u models.User) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"exp":   b.now().Add(7 * 24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(b.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

func (b *Backend) today() time.Time {
	now := b.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
