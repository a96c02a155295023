// Package bookingclient is an HTTP client for the booking API.
package bookingclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/otodrive/otodrive-web/internal/api/router"
	"github.com/otodrive/otodrive-web/internal/booking"
	"github.com/otodrive/otodrive-web/pkg/logging"
)

const maxResponseBody = 1 << 20

// Client calls the booking endpoints of a running server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// ClientOption is a functional option for configuring the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the server at baseURL, e.g.
// "http://localhost:8080".
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Book submits req. A response that is not a booking result is reported as a
// generic failure rather than an error; only transport failures return err.
func (c *Client) Book(ctx context.Context, req booking.Request) (booking.Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return booking.Result{}, fmt.Errorf("bookingclient: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/book", bytes.NewReader(payload))
	if err != nil {
		return booking.Result{}, fmt.Errorf("bookingclient: create book request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return booking.Result{}, fmt.Errorf("bookingclient: book request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return booking.Result{}, fmt.Errorf("bookingclient: read book response: %w", err)
	}
	result, ok := decodeResult(body)
	if !ok {
		c.logger.Warn("malformed booking response", "status", resp.StatusCode, "content_type", resp.Header.Get("Content-Type"))
		return booking.Result{Success: false, Error: booking.MsgGenericFailure}, nil
	}
	return result, nil
}

// decodeResult accepts only a JSON object carrying a boolean success field.
func decodeResult(body []byte) (booking.Result, bool) {
	var shape struct {
		Success     *bool   `json:"success"`
		CalendarURL *string `json:"calendarUrl"`
		Error       string  `json:"error"`
		Message     string  `json:"message"`
	}
	if err := json.Unmarshal(body, &shape); err != nil || shape.Success == nil {
		return booking.Result{}, false
	}
	result := booking.Result{
		Success:     *shape.Success,
		CalendarURL: shape.CalendarURL,
		Error:       shape.Error,
		Message:     shape.Message,
	}
	if !result.Success && result.Error == "" {
		result.Error = booking.MsgGenericFailure
	}
	return result, true
}

// Slots lists the bookable slots for date (YYYY-MM-DD).
func (c *Client) Slots(ctx context.Context, date string) (*booking.SlotsResponse, error) {
	endpoint := c.baseURL + "/api/slots?" + url.Values{"date": {date}}.Encode()
	var slots booking.SlotsResponse
	if err := c.getJSON(ctx, endpoint, &slots); err != nil {
		return nil, err
	}
	return &slots, nil
}

// Health checks the server's health endpoint.
func (c *Client) Health(ctx context.Context) (*router.HealthResponse, error) {
	var health router.HealthResponse
	if err := c.getJSON(ctx, c.baseURL+"/api/health", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("bookingclient: create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bookingclient: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("bookingclient: %s returned status %d: %s", req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("bookingclient: decode response: %w", err)
	}
	return nil
}
