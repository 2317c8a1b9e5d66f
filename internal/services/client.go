package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// ClientOpts contains configuration options for creating a [Client].
type ClientOpts struct {
	BaseURL           string
	HTTPClient        *http.Client
	Tokens            oauth2.TokenSource // Bearer token for authenticated endpoints; optional
	RequestsPerSecond float64            // 0 disables client-side rate limiting
	Logger            *log.Logger
	OnUnauthorized    func() // Called after any 401 response
}

// Client performs JSON requests against the video backend.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         oauth2.TokenSource
	limiter        *rate.Limiter
	logger         *log.Logger
	onUnauthorized func()
}

// NewClient creates a backend client.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:8080/api"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	c := &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		httpClient:     opts.HTTPClient,
		tokens:         opts.Tokens,
		logger:         opts.Logger,
		onUnauthorized: opts.OnUnauthorized,
	}
	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return c
}

// BaseURL returns the backend root, without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// doRequest sends body as JSON and decodes the response into result when it is not nil.
//
// Transport failures wrap [shared.ErrNetwork]; non-2xx responses return a [shared.APIError].
func (c *Client) doRequest(ctx context.Context, method, endpoint string, query url.Values, body, result any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %v", shared.ErrNetwork, err)
		}
	}

	apiURL := c.baseURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok, err := c.tokens.Token(); err == nil && tok.Valid() {
			tok.SetAuthHeader(req)
		}
	}

	c.logger.Debug("api request", "method", method, "endpoint", endpoint, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", shared.ErrNetwork, method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &shared.APIError{Status: resp.StatusCode}
		var errResp errorBody
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			apiErr.Message = errResp.Error
			if apiErr.Message == "" {
				apiErr.Message = errResp.Message
			}
		}
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		c.logger.Debug("api error", "method", method, "endpoint", endpoint, "status", resp.StatusCode, "request_id", requestID)
		return apiErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrServer, err)
		}
	}

	return nil
}

// pageValues encodes a page request as query parameters.
func pageValues(req models.PageRequest) url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(req.Page))
	v.Set("size", strconv.Itoa(req.Size))
	if req.Search != "" {
		v.Set("search", req.Search)
	}
	for key, value := range req.Filters {
		v.Set(key, value)
	}
	return v
}

func fetchPage[T any](ctx context.Context, c *Client, endpoint string, req models.PageRequest) (*models.Page[T], error) {
	var page models.Page[T]
	if err := c.doRequest(ctx, http.MethodGet, endpoint, pageValues(req), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, strconv.FormatInt(id, 10))
}
