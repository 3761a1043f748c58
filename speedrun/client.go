package speedrun

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the root of the public speedrun.com API
const DefaultBaseURL = "https://www.speedrun.com/api/v1/"

// DefaultUserAgent identifies the client when no user agent is configured
const DefaultUserAgent = "srcom-go"

const defaultTimeout = 30 * time.Second

// Client is the HTTP transport for the speedrun.com API and the entry point
// for fetching entities. It is safe for concurrent use.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
	metrics    *Metrics
}

// NewClient creates a new speedrun.com client
func NewClient(logger zerolog.Logger, opts ...Option) (*Client, error) {
	o := clientOptions{
		baseURL:   DefaultBaseURL,
		timeout:   defaultTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.baseURL == "" {
		return nil, fmt.Errorf("speedrun API URL is required")
	}
	base, err := url.Parse(o.baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid speedrun API URL %q", o.baseURL)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	return &Client{
		// Relative paths are joined onto the base, so it must end in a slash
		baseURL:    strings.TrimRight(o.baseURL, "/") + "/",
		userAgent:  o.userAgent,
		httpClient: httpClient,
		logger:     logger,
		metrics:    o.metrics,
	}, nil
}

// Logger returns the client's logger
func (c *Client) Logger() *zerolog.Logger {
	return &c.logger
}

// Close releases idle connections held by the client
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// Get issues a GET against a path relative to the API root
func (c *Client) Get(ctx context.Context, path string, params url.Values) (map[string]any, error) {
	return c.doRequest(ctx, c.baseURL+strings.TrimLeft(path, "/"), params)
}

// GetAbsolute issues a GET against an absolute URI taken from a link
func (c *Client) GetAbsolute(ctx context.Context, uri string, params url.Values) (map[string]any, error) {
	return c.doRequest(ctx, uri, params)
}

// doRequest performs a GET and decodes the JSON object it returns. Query
// parameters already present on rawURL are kept and params are added to
// them.
func (c *Client) doRequest(ctx context.Context, rawURL string, params url.Values) (map[string]any, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid request URL %q: %w", rawURL, err)
	}
	if len(params) > 0 {
		query := u.Query()
		for k, vs := range params {
			query.Del(k)
			for _, v := range vs {
				query.Add(k, v)
			}
		}
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observeFailure(time.Since(start))
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	c.metrics.observe(resp.StatusCode, elapsed)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("url", u.String()).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("duration", elapsed).
		Msg("speedrun API request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, body)
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &DecodeError{Field: ".", Reason: fmt.Sprintf("invalid JSON body: %v", err)}
	}
	if decoded == nil {
		return nil, &DecodeError{Field: ".", Reason: "expected object, got null"}
	}
	return decoded, nil
}

// newAPIError builds an APIError, taking the message from the API's
// {"status": n, "message": "..."} error body when it has one
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: string(body)}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	} else {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// Game fetches a game by id
func (c *Client) Game(ctx context.Context, id string) (*Game, error) {
	return GetGame(ctx, c, id)
}

// Category fetches a category by id
func (c *Client) Category(ctx context.Context, id string) (*Category, error) {
	return GetCategory(ctx, c, id)
}

// Run fetches a run by id
func (c *Client) Run(ctx context.Context, id string) (*Run, error) {
	return GetRun(ctx, c, id)
}

// User fetches a user by id
func (c *Client) User(ctx context.Context, id string) (*User, error) {
	return GetUser(ctx, c, id)
}

// Series fetches a series by id
func (c *Client) Series(ctx context.Context, id string) (*Series, error) {
	return GetSeries(ctx, c, id)
}

// Variable fetches a variable by id
func (c *Client) Variable(ctx context.Context, id string) (*Variable, error) {
	return GetVariable(ctx, c, id)
}
