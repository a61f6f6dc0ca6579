// Package worldbank is a client for the World Bank indicators API (v2).
package worldbank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/wbindicators/internal/domain"
	"github.com/kailas-cloud/wbindicators/internal/metrics"
)

const (
	defaultBaseURL = "https://api.worldbank.org/"
	defaultPerPage = 10000
	maxBodyBytes   = 64 << 20
)

// Config holds the provider settings.
type Config struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	PerPage           int
	HTTPClient        *http.Client
	Logger            *zap.Logger
}

// Client implements domain.Provider over HTTP. Requests are paced, never retried.
type Client struct {
	base      *url.URL
	userAgent string
	perPage   int
	http      *http.Client
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// NewClient creates a World Bank API client.
func NewClient(cfg *Config) (*Client, error) {
	raw := cfg.BaseURL
	if raw == "" {
		raw = defaultBaseURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		base:      base,
		userAgent: cfg.UserAgent,
		perPage:   perPage,
		http:      hc,
		limiter:   rate.NewLimiter(limit, burst),
		logger:    logger,
	}, nil
}

// get fetches path and decodes the [meta, items] envelope into items.
func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, items any) (metaDTO, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("format", "json")
	if query.Get("per_page") == "" {
		query.Set("per_page", strconv.Itoa(c.perPage))
	}
	u := c.base.JoinPath(path)
	u.RawQuery = query.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return metaDTO{}, fmt.Errorf("wait for request slot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return metaDTO{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return metaDTO{}, fmt.Errorf("%s: %w: %w", endpoint, domain.ErrProvider, err)
	}
	defer resp.Body.Close()
	metrics.ProviderRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	metrics.ProviderRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return metaDTO{}, fmt.Errorf("%s: read body: %w: %w", endpoint, domain.ErrProvider, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return metaDTO{}, fmt.Errorf("%s: status %d: %w", endpoint, resp.StatusCode, domain.ErrRateLimited)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return metaDTO{}, fmt.Errorf("%s: status %d: %w", endpoint, resp.StatusCode, domain.ErrProvider)
	}

	meta, err := decodeEnvelope(body, items)
	if err != nil {
		return metaDTO{}, fmt.Errorf("%s %s: %w", endpoint, u.Path, err)
	}
	c.logger.Debug("provider request",
		zap.String("endpoint", endpoint),
		zap.String("path", u.Path),
		zap.Int("total", int(meta.Total)),
		zap.Duration("took", time.Since(start)),
	)
	return meta, nil
}

var errMalformed = errors.New("malformed response")

// decodeEnvelope splits [meta, items]. A lone {"message": ...} element is a provider error;
// a null items element decodes as no items.
func decodeEnvelope(body []byte, items any) (metaDTO, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(body, &parts); err != nil {
		return metaDTO{}, fmt.Errorf("%w: %w: %w", domain.ErrProvider, errMalformed, err)
	}
	if len(parts) == 0 {
		return metaDTO{}, fmt.Errorf("%w: %w: empty array", domain.ErrProvider, errMalformed)
	}

	var msg messageDTO
	if err := json.Unmarshal(parts[0], &msg); err == nil && len(msg.Message) > 0 {
		m := msg.Message[0]
		return metaDTO{}, fmt.Errorf("%w: %s %s: %s", domain.ErrProvider, m.ID, m.Key, m.Value)
	}

	var meta metaDTO
	if err := json.Unmarshal(parts[0], &meta); err != nil {
		return metaDTO{}, fmt.Errorf("%w: %w: meta: %w", domain.ErrProvider, errMalformed, err)
	}
	if len(parts) < 2 || string(parts[1]) == "null" {
		return meta, nil
	}
	if err := json.Unmarshal(parts[1], items); err != nil {
		return metaDTO{}, fmt.Errorf("%w: %w: items: %w", domain.ErrProvider, errMalformed, err)
	}
	return meta, nil
}
