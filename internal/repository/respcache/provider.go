// Package respcache caches decoded provider responses in a key-value store.
package respcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/wbindicators/internal/db"
	"github.com/kailas-cloud/wbindicators/internal/domain"
	"github.com/kailas-cloud/wbindicators/internal/domain/indicator"
)

var cacheKeyPrefix = domain.KeyPrefix + "resp:"

// store is the consumer interface for the response cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

var (
	_ domain.Provider      = (*Provider)(nil)
	_ domain.HealthChecker = (*Provider)(nil)
)

// Provider wraps a domain.Provider and serves repeated requests from the store.
// Errors from the inner provider are returned as-is and never cached.
type Provider struct {
	inner      domain.Provider
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Provider,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{inner: inner, store: s, ttl: ttl, cacheTotal: cacheTotal, logger: logger}
}

// ListDataSources returns cached data sources or lists them from the inner provider.
func (p *Provider) ListDataSources(ctx context.Context) ([]domain.DataSource, error) {
	return cached(ctx, p, p.key("sources"), p.inner.ListDataSources)
}

// ListTopics returns cached topics or lists them from the inner provider.
func (p *Provider) ListTopics(ctx context.Context) ([]domain.TopicInfo, error) {
	return cached(ctx, p, p.key("topics"), p.inner.ListTopics)
}

// ListTopicIndicators returns cached indicators of a topic or lists them from the inner provider.
func (p *Provider) ListTopicIndicators(ctx context.Context, topicID string) ([]indicator.Indicator, error) {
	dtos, err := cached(ctx, p, p.key("topic_indicators", topicID), func(ctx context.Context) ([]indicatorDTO, error) {
		inds, err := p.inner.ListTopicIndicators(ctx, topicID)
		if err != nil {
			return nil, err //nolint:wrapcheck // decorator passes provider errors through
		}
		return indicatorsToDTO(inds), nil
	})
	if err != nil {
		return nil, err
	}
	return indicatorsFromDTO(dtos)
}

// ListCountries returns cached countries or lists them from the inner provider.
func (p *Provider) ListCountries(ctx context.Context) ([]domain.Country, error) {
	return cached(ctx, p, p.key("countries"), p.inner.ListCountries)
}

// FetchObservations returns a cached observation page or fetches it from the inner provider.
func (p *Provider) FetchObservations(
	ctx context.Context, countryISO3 string, codes []string, sourceID string,
) (domain.ObservationPage, error) {
	key := p.key("observations", countryISO3, strings.Join(codes, ";"), sourceID)
	return cached(ctx, p, key, func(ctx context.Context) (domain.ObservationPage, error) {
		return p.inner.FetchObservations(ctx, countryISO3, codes, sourceID)
	})
}

// FetchLatestAcrossCountries returns a cached latest-value page or fetches it from the inner provider.
func (p *Provider) FetchLatestAcrossCountries(
	ctx context.Context, codes []string, sourceID string,
) (domain.ObservationPage, error) {
	key := p.key("latest", strings.Join(codes, ";"), sourceID)
	return cached(ctx, p, key, func(ctx context.Context) (domain.ObservationPage, error) {
		return p.inner.FetchLatestAcrossCountries(ctx, codes, sourceID)
	})
}

// HealthCheck delegates to the inner provider when it supports health checks.
func (p *Provider) HealthCheck(ctx context.Context) error {
	if hc, ok := p.inner.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("provider health check: %w", err)
		}
	}
	return nil
}

func cached[T any](ctx context.Context, p *Provider, key string, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok := getFromCache[T](ctx, p, key); ok {
		p.incCache("hit")
		return v, nil
	}
	p.incCache("miss")

	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	p.putToCache(ctx, key, v)
	return v, nil
}

func getFromCache[T any](ctx context.Context, p *Provider, key string) (T, bool) {
	var v T
	data, err := p.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			p.logger.Warn("Response cache read failed", zap.String("key", key), zap.Error(err))
		}
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		p.logger.Warn("Response cache entry corrupt", zap.String("key", key), zap.Error(err))
		return v, false
	}
	return v, true
}

func (p *Provider) putToCache(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		p.logger.Warn("Response cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := p.store.SetWithTTL(ctx, key, data, p.ttl); err != nil {
		p.logger.Warn("Response cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (p *Provider) incCache(result string) {
	if p.cacheTotal != nil {
		p.cacheTotal.WithLabelValues(result).Inc()
	}
}

// key hashes the request identity; parts are NUL-separated so adjacent values cannot collide.
func (p *Provider) key(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}
