package feedapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sony/gobreaker"
)

// Subscription is a feed the service tracks. URL is the unique key.
type Subscription struct {
	URL   string `json:"URL"`
	Title string `json:"Title"`
}

// FeedItem is one entry of a fetched feed.
type FeedItem struct {
	Title       string    `json:"Title"`
	Link        string    `json:"Link"`
	PublishedAt time.Time `json:"PublishedAt"`
	Description string    `json:"Description,omitempty"`
	Content     string    `json:"Content,omitempty"`
}

// Body is the HTML shown for the item: the description, else the content.
func (i FeedItem) Body() string {
	if strings.TrimSpace(i.Description) != "" {
		return i.Description
	}
	return i.Content
}

// FeedSnapshot is a freshly fetched feed. It is never cached.
type FeedSnapshot struct {
	Title string     `json:"Title"`
	Items []FeedItem `json:"Items"`
}

// Options tunes the transport and the circuit breaker of a Client.
type Options struct {
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	BreakerFailures   uint32
	BreakerTimeout    time.Duration
	Logger            *slog.Logger
}

type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
	newID   func() string
}

func NewClient(baseURL string, httpClient *http.Client, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	if httpClient == nil {
		httpClient = NewRateLimitedHTTPClient(opts.RequestsPerSecond, opts.Burst, opts.Timeout)
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	failures := opts.BreakerFailures
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "feed-service",
		MaxRequests: 1,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		breaker: breaker,
		logger:  logger,
		newID:   newRequestID,
	}
}

// AddFeed subscribes to feedURL and returns the subscription the server created.
func (c *Client) AddFeed(ctx context.Context, feedURL string) (Subscription, error) {
	var sub Subscription
	payload := map[string]string{"url": feedURL}
	if err := c.do(ctx, "add feed", http.MethodPost, "/feeds", nil, payload, &sub); err != nil {
		return Subscription{}, err
	}
	if strings.TrimSpace(sub.URL) == "" {
		sub.URL = feedURL
	}
	return sub, nil
}

// ListFeeds returns every subscription in server order.
func (c *Client) ListFeeds(ctx context.Context) ([]Subscription, error) {
	var subs []Subscription
	if err := c.do(ctx, "list feeds", http.MethodGet, "/feeds", nil, nil, &subs); err != nil {
		return nil, err
	}
	out := subs[:0]
	for _, sub := range subs {
		if strings.TrimSpace(sub.URL) == "" {
			continue
		}
		out = append(out, sub)
	}
	return out, nil
}

// GetFeed fetches the current items of feedURL.
func (c *Client) GetFeed(ctx context.Context, feedURL string) (FeedSnapshot, error) {
	q := make(url.Values)
	q.Set("url", feedURL)
	var snap FeedSnapshot
	if err := c.do(ctx, "get feed", http.MethodGet, "/feed", q, nil, &snap); err != nil {
		return FeedSnapshot{}, err
	}
	return snap, nil
}

// DeleteFeed unsubscribes from feedURL.
func (c *Client) DeleteFeed(ctx context.Context, feedURL string) error {
	q := make(url.Values)
	q.Set("url", feedURL)
	return c.do(ctx, "delete feed", http.MethodDelete, "/feed", q, nil, nil)
}

// ExportURL is the address a browser navigates to for the RSS export of feedURL.
func (c *Client) ExportURL(feedURL string) string {
	q := make(url.Values)
	q.Set("url", feedURL)
	return c.baseURL + "/export?" + q.Encode()
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, payload, out any) error {
	requestID := c.newID()
	start := time.Now()

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.roundTrip(ctx, op, requestID, method, path, query, payload, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = &Error{Kind: KindNetwork, Op: op, RequestID: requestID, Cause: err}
	}

	if err != nil {
		c.logger.Warn("feed service request failed",
			"op", op, "request_id", requestID, "duration", time.Since(start), "err", err)
		return err
	}
	c.logger.Debug("feed service request done", "op", op, "request_id", requestID, "duration", time.Since(start))
	return nil
}

func (c *Client) roundTrip(ctx context.Context, op, requestID, method, path string, query url.Values, payload, out any) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return &Error{Kind: KindValidation, Op: op, RequestID: requestID, Cause: fmt.Errorf("encode %s request: %w", op, err)}
		}
		body = bytes.NewReader(buf)
	}

	req, err := c.newRequest(ctx, method, path, query, body, requestID)
	if err != nil {
		return &Error{Kind: KindValidation, Op: op, RequestID: requestID, Cause: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: op, RequestID: requestID, Cause: fmt.Errorf("%s request failed: %w", op, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &Error{
			Kind:      KindServer,
			Op:        op,
			Message:   serverMessage(snippet),
			Status:    resp.StatusCode,
			RequestID: requestID,
			Cause:     fmt.Errorf("%s failed with status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(snippet))),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{
			Kind:      KindServer,
			Op:        op,
			Status:    resp.StatusCode,
			RequestID: requestID,
			Cause:     fmt.Errorf("decode %s response: %w", op, err),
		}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, requestID string) (*http.Request, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func serverMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Error)
}

// countsAsSuccess keeps client-side rejections and 4xx answers from tripping
// the breaker; only transport failures and 5xx responses count.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Kind {
	case KindValidation:
		return true
	case KindServer:
		return apiErr.Status != 0 && apiErr.Status < 500
	default:
		return false
	}
}

func newRequestID() string {
	id, err := gonanoid.New()
	if err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return id
}
