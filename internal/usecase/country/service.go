// Package country runs every topic of one country and publishes the results.
package country

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/wbindicators/internal/domain"
	domchart "github.com/kailas-cloud/wbindicators/internal/domain/chart"
	"github.com/kailas-cloud/wbindicators/internal/domain/dataset"
	"github.com/kailas-cloud/wbindicators/internal/domain/topic"
	domtopline "github.com/kailas-cloud/wbindicators/internal/domain/topline"
	"github.com/kailas-cloud/wbindicators/internal/logger"
	"github.com/kailas-cloud/wbindicators/internal/usecase/chart"
	"github.com/kailas-cloud/wbindicators/internal/usecase/combined"
	"github.com/kailas-cloud/wbindicators/internal/usecase/topline"
)

// Options configure per-country processing.
type Options struct {
	PortalURL          string
	DatasetURL         string
	QuickChartResource int
	Headlines          []domchart.Pick
	// ToplineCodes enables derived topline facts for these indicators.
	ToplineCodes []string
}

// Outcome summarizes one country.
type Outcome struct {
	Published []string // topic names with a published dataset
	NoData    []string // topic names without observations
	Combined  bool
	Toplines  []domtopline.Fact
}

// HasData reports whether any topic was published.
func (o Outcome) HasData() bool { return len(o.Published) > 0 }

// Service processes the topics of a country one at a time.
type Service struct {
	merger TopicMerger
	pub    Publisher
	opts   Options
	topics *prometheus.CounterVec
}

// New creates a country service.
func New(merger TopicMerger, pub Publisher, opts Options) *Service {
	return &Service{merger: merger, pub: pub, opts: opts}
}

// WithMetrics attaches a topic outcome counter with label "outcome".
func (s *Service) WithMetrics(topics *prometheus.CounterVec) *Service {
	s.topics = topics
	return s
}

// Process folds over topics for c. An error aborts the remaining topics of this
// country; the outcome gathered so far is returned with it.
func (s *Service) Process(ctx context.Context, c domain.Country, topics []topic.Topic) (Outcome, error) {
	log := logger.FromContext(ctx)

	var out Outcome
	agg := combined.NewAggregator(s.opts.Headlines)
	var acc *topline.Accumulator
	if len(s.opts.ToplineCodes) > 0 {
		acc = topline.NewAccumulator(c, s.opts.ToplineCodes, s.opts.PortalURL, log)
	}

	for _, t := range topics {
		res, err := s.merger.MergeTopic(ctx, c, t)
		if err != nil {
			return out, fmt.Errorf("country %s: %w", c.ISO3, err)
		}
		if !res.HasData() {
			log.Info("topic has no data", zap.String("topic", t.Name()))
			out.NoData = append(out.NoData, t.Name())
			s.inc("no_data")
			continue
		}

		slots := chart.Select(res.Series, res.Names(), log.With(zap.String("topic", t.Name())))
		if acc != nil {
			acc.ObserveAll(res.Rows)
		}

		art := s.topicArtifact(c, t, res, slots)
		if err := s.pub.PublishDataset(ctx, art); err != nil {
			return out, fmt.Errorf("publish %s for %s: %w", art.Manifest.Name, c.ISO3, err)
		}
		log.Info("topic published",
			zap.String("topic", t.Name()),
			zap.Int("rows", len(res.Rows)),
			zap.Int("charts", len(slots)),
		)
		out.Published = append(out.Published, t.Name())
		s.inc("published")

		agg.Add(combined.TopicResult{
			Link:  dataset.TopicLink{TopicName: t.Name(), Dataset: art.Manifest.Name},
			Tags:  t.Tags(),
			Rows:  res.Rows,
			Years: res.Years,
		})
	}

	if acc != nil {
		out.Toplines = acc.Facts()
	}

	res, ok := agg.Result()
	if !ok {
		log.Info("country has no data")
		return out, nil
	}
	art := s.combinedArtifact(c, res)
	if err := s.pub.PublishDataset(ctx, art); err != nil {
		return out, fmt.Errorf("publish combined for %s: %w", c.ISO3, err)
	}
	out.Combined = true
	return out, nil
}

func (s *Service) inc(outcome string) {
	if s.topics != nil {
		s.topics.WithLabelValues(outcome).Inc()
	}
}
