// Package covidapi is a client for the RapidAPI COVID-19 statistics reports and regions endpoints.
package covidapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// API Docs: https://rapidapi.com/axisbits-axisbits-default/api/covid-19-statistics
// Sample request: https://covid-19-statistics.p.rapidapi.com/reports?iso=USA&region_province=California
const (
	DefaultHost    = "covid-19-statistics.p.rapidapi.com"
	DefaultTimeout = 10 * time.Second

	headerHost = "x-rapidapi-host"
	headerKey  = "x-rapidapi-key"

	maxBodyBytes = 64 << 20
)

// Client retrieves raw payloads from the statistics API.
type Client interface {
	// FetchReports retrieves the per-country/province reports matching filters.
	FetchReports(ctx context.Context, filters Filters) (*ReportsResponse, error)

	// FetchRegions retrieves the lightweight {iso, name} list.
	FetchRegions(ctx context.Context) (*RegionsResponse, error)
}

// Option configures the client.
type Option func(*client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithBaseURL overrides the scheme and host requests are sent to. The host
// header still carries the configured API host.
func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHost sets the RapidAPI host used for the host header and the default base URL.
func WithHost(host string) Option {
	return func(c *client) {
		if host != "" {
			c.host = host
		}
	}
}

// WithAPIKey sets the RapidAPI key header.
func WithAPIKey(key string) Option {
	return func(c *client) {
		c.apiKey = key
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit sets a requests-per-second limit for outgoing calls.
func WithRateLimit(rps float64) Option {
	return func(c *client) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type client struct {
	httpClient *http.Client
	baseURL    string
	host       string
	apiKey     string
	timeout    time.Duration
	limiter    *rate.Limiter
}

// NewClient creates a Client with the given options.
func NewClient(opts ...Option) Client {
	c := &client{
		host:    DefaultHost,
		timeout: DefaultTimeout,
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	if c.baseURL == "" {
		c.baseURL = "https://" + c.host
	}
	return c
}

// FetchReports implements Client.
func (c *client) FetchReports(ctx context.Context, filters Filters) (*ReportsResponse, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	u := c.baseURL + "/reports"
	if q := filters.Values(); len(q) > 0 {
		u += "?" + q.Encode()
	}

	body, err := c.get(ctx, "reports", u)
	if err != nil {
		return nil, err
	}

	var out ReportsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &DecodeError{Op: "reports", Err: eris.Wrap(err, "unmarshal reports")}
	}
	if out.Data == nil {
		return nil, &DecodeError{Op: "reports", Err: eris.New("missing data array")}
	}

	zap.L().Debug("covidapi: fetched reports",
		zap.Int("entries", len(out.Data)),
		zap.String("query", filtersForLog(filters)),
	)
	return &out, nil
}

// FetchRegions implements Client.
func (c *client) FetchRegions(ctx context.Context) (*RegionsResponse, error) {
	body, err := c.get(ctx, "regions", c.baseURL+"/regions")
	if err != nil {
		return nil, err
	}

	var out RegionsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &DecodeError{Op: "regions", Err: eris.Wrap(err, "unmarshal regions")}
	}
	if out.Data == nil {
		return nil, &DecodeError{Op: "regions", Err: eris.New("missing data array")}
	}

	zap.L().Debug("covidapi: fetched regions", zap.Int("entries", len(out.Data)))
	return &out, nil
}

// get performs the GET and returns the body. Every failure before a body is
// fully read is a TransportError.
func (c *client) get(ctx context.Context, op, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Op: op, Err: eris.Wrap(err, "rate limiter wait")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: eris.Wrap(err, "create request")}
	}
	req.Header.Set(headerHost, c.host)
	req.Header.Set(headerKey, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: eris.Wrap(err, "request failed")}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        eris.Errorf("unexpected status: %s", strings.TrimSpace(string(snippet))),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Op: op, Err: eris.Wrap(err, "read body")}
	}
	return body, nil
}

func filtersForLog(f Filters) string {
	if f.Empty() {
		return ""
	}
	return f.Values().Encode()
}
