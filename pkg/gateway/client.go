package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	models "github.com/chrisdamba/daytrip/internal"
	"github.com/chrisdamba/daytrip/internal/ports"
	"github.com/chrisdamba/daytrip/internal/utils"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	catalogTTL      = 10 * time.Minute
)

type Client struct {
	httpClient HTTPClient
	baseURL    string
	tokens     ports.TokenSource
	cache      ports.Cache
	cacheTTL   time.Duration
	log        *slog.Logger
}

type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

type Option func(*Client)

func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTokenSource sets where the bearer credential is read from on every
// authenticated call.
func WithTokenSource(tokens ports.TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

func WithCache(cache ports.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    "http://localhost:8000",
		cacheTTL:   catalogTTL,
		log:        slog.Default(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

func (c *Client) Attractions(ctx context.Context, page int, keyword, category string) (models.AttractionPage, error) {
	if category == models.AllCategories {
		category = ""
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("keyword", keyword)
	q.Set("category", category)

	var ans models.AttractionPage
	body, err := c.do(ctx, http.MethodGet, "/api/attractions?"+q.Encode(), nil, false)
	if err != nil {
		return ans, err
	}
	if err := json.Unmarshal(body, &ans); err != nil {
		return ans, models.NewNetworkError(fmt.Errorf("decoding attractions page: %w", err))
	}
	return ans, nil
}

func (c *Client) Attraction(ctx context.Context, id int) (models.AttractionDetail, error) {
	var ans models.AttractionDetail
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/attraction/%d", id), nil, false)
	if err != nil {
		return ans, err
	}
	ok, err := utils.DecodeEnvelope(body, &ans)
	if err != nil {
		return ans, models.NewNetworkError(fmt.Errorf("decoding attraction: %w", err))
	}
	if !ok {
		return ans, models.NewStatusError(http.StatusNotFound, "")
	}
	return ans, nil
}

func (c *Client) MRTs(ctx context.Context) ([]string, error) {
	return c.catalog(ctx, "/api/mrts")
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	return c.catalog(ctx, "/api/categories")
}

// CurrentUser probes the session. It returns nil without a request when no
// token is held, and nil when the server no longer recognises the token.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	if c.bearer(ctx) == "" {
		return nil, nil
	}
	body, err := c.do(ctx, http.MethodGet, "/api/user/auth", nil, true)
	if err != nil {
		return nil, err
	}
	var user models.User
	ok, err := utils.DecodeEnvelope(body, &user)
	if err != nil {
		return nil, models.NewNetworkError(fmt.Errorf("decoding user: %w", err))
	}
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload := map[string]string{"email": email, "password": password}
	body, err := c.do(ctx, http.MethodPut, "/api/user/auth", payload, false)
	if err != nil {
		return "", err
	}
	var res struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &res); err != nil || res.Token == "" {
		return "", models.NewNetworkError(fmt.Errorf("login response carried no token"))
	}
	return res.Token, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) error {
	payload := map[string]string{"name": name, "email": email, "password": password}
	_, err := c.do(ctx, http.MethodPost, "/api/user", payload, false)
	return err
}

func (c *Client) Booking(ctx context.Context) (*models.Booking, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/booking", nil, true)
	if err != nil {
		return nil, err
	}
	var b models.Booking
	ok, err := utils.DecodeEnvelope(body, &b)
	if err != nil {
		return nil, models.NewNetworkError(fmt.Errorf("decoding booking: %w", err))
	}
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (c *Client) CreateBooking(ctx context.Context, input models.BookingInput) error {
	_, err := c.do(ctx, http.MethodPost, "/api/booking", input, true)
	return err
}

func (c *Client) DeleteBooking(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/booking", nil, true)
	return err
}

func (c *Client) CreateOrder(ctx context.Context, req models.OrderRequest) (models.OrderResult, error) {
	var ans models.OrderResult
	body, err := c.do(ctx, http.MethodPost, "/api/orders", req, true)
	if err != nil {
		return ans, err
	}
	ok, err := utils.DecodeEnvelope(body, &ans)
	if err != nil || !ok || ans.Number == "" {
		return ans, models.NewNetworkError(fmt.Errorf("order response carried no number"))
	}
	return ans, nil
}

func (c *Client) Order(ctx context.Context, number string) (*models.Order, error) {
	if number == "" {
		return nil, &models.ApiError{Kind: models.KindValidation, Err: models.ErrMissingOrderID}
	}
	body, err := c.do(ctx, http.MethodGet, "/api/order/"+url.PathEscape(number), nil, true)
	if err != nil {
		return nil, err
	}
	var o models.Order
	ok, err := utils.DecodeEnvelope(body, &o)
	if err != nil {
		return nil, models.NewNetworkError(fmt.Errorf("decoding order: %w", err))
	}
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (c *Client) catalog(ctx context.Context, path string) ([]string, error) {
	if c.cache != nil {
		if raw, ok := c.cache.Get(ctx, path); ok {
			var cached []string
			if _, err := utils.DecodeEnvelope(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	body, err := c.do(ctx, http.MethodGet, path, nil, false)
	if err != nil {
		return nil, err
	}
	var ans []string
	if _, err := utils.DecodeEnvelope(body, &ans); err != nil {
		return nil, models.NewNetworkError(fmt.Errorf("decoding %s: %w", path, err))
	}
	if c.cache != nil {
		c.cache.Set(ctx, path, body, c.cacheTTL)
	}
	return ans, nil
}

func (c *Client) bearer(ctx context.Context) string {
	if c.tokens == nil {
		return ""
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		c.log.Warn("reading session token failed", "error", err)
		return ""
	}
	return token
}

// do performs one request and converts every failure into *models.ApiError.
// The returned body belongs to a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, payload interface{}, auth bool) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, models.NewNetworkError(err)
		}
		reqBody = bytes.NewReader(jsonBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, models.NewNetworkError(err)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", utils.ContentTypeJSON)
	if payload != nil {
		req.Header.Set("Content-Type", utils.ContentTypeJSON)
	}
	if auth {
		if token := c.bearer(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, models.NewNetworkError(err)
	}
	if resp == nil || resp.Body == nil {
		return nil, models.NewNetworkError(fmt.Errorf("empty response"))
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	c.log.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, utils.ErrorFromResponse(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewNetworkError(err)
	}
	return body, nil
}
