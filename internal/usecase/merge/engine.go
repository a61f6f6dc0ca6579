// Package merge fetches indicator batches and folds them into row sets.
package merge

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/wbindicators/internal/domain"
	"github.com/kailas-cloud/wbindicators/internal/domain/indicator"
	"github.com/kailas-cloud/wbindicators/internal/domain/observation"
	"github.com/kailas-cloud/wbindicators/internal/domain/topic"
	"github.com/kailas-cloud/wbindicators/internal/usecase/batch"
)

// Engine issues one fetch per batch and merges the returned observations.
// It is stateless between calls; callers own the Result.
type Engine struct {
	fetcher      ObservationFetcher
	limits       batch.Limits
	logger       *zap.Logger
	batches      *prometheus.CounterVec
	observations prometheus.Counter
}

// New creates a merge engine.
func New(fetcher ObservationFetcher, limits batch.Limits, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{fetcher: fetcher, limits: limits.Normalize(), logger: logger}
}

// WithMetrics attaches counters. batches has label "result" ("merged"/"empty").
func (e *Engine) WithMetrics(batches *prometheus.CounterVec, observations prometheus.Counter) *Engine {
	e.batches = batches
	e.observations = observations
	return e
}

// FetchAndMerge fetches every batch for one source and accumulates into res.
// Empty batches are skipped. A multi-page response aborts with a PageCountError.
func (e *Engine) FetchAndMerge(
	ctx context.Context, country domain.Country, sourceID string, batches [][]string, res *Result,
) error {
	for _, codes := range batches {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("merge %s: %w", country.ISO3, err)
		}

		page, err := e.fetcher.FetchObservations(ctx, country.ISO3, codes, sourceID)
		if err != nil {
			return fmt.Errorf("fetch %s source %s: %w", country.ISO3, sourceID, err)
		}
		if page.Total == 0 {
			e.incBatch("empty")
			continue
		}
		if page.Pages != 1 {
			return domain.NewPageCountError(page.Pages, sourceID, batch.Join(codes))
		}
		e.incBatch("merged")

		for _, raw := range page.Items {
			obs, ok, err := observation.FromRaw(country, raw)
			if err != nil {
				e.logger.Warn("skipping observation", zap.String("country", country.ISO3), zap.Error(err))
				continue
			}
			if !ok {
				continue
			}
			res.Add(obs)
			if e.observations != nil {
				e.observations.Inc()
			}
		}
	}
	return nil
}

// MergeTopic plans and merges every source group of a topic into one result.
// Use Result.HasData to tell an empty topic from a populated one.
func (e *Engine) MergeTopic(ctx context.Context, country domain.Country, t topic.Topic) (*Result, error) {
	res := NewResult()
	for _, group := range t.Sources() {
		batches, err := batch.Plan(indicator.Codes(group.Indicators), e.limits)
		if err != nil {
			return nil, fmt.Errorf("plan topic %s source %s: %w", t.ID(), group.SourceID, err)
		}
		if err := e.FetchAndMerge(ctx, country, group.SourceID, batches, res); err != nil {
			return nil, fmt.Errorf("topic %s: %w", t.ID(), err)
		}
	}
	return res, nil
}

func (e *Engine) incBatch(result string) {
	if e.batches != nil {
		e.batches.WithLabelValues(result).Inc()
	}
}
