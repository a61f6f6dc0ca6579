// Package run drives a full pipeline run across countries.
package run

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/wbindicators/internal/domain"
	"github.com/kailas-cloud/wbindicators/internal/domain/dataset"
	"github.com/kailas-cloud/wbindicators/internal/domain/topic"
	domtopline "github.com/kailas-cloud/wbindicators/internal/domain/topline"
	"github.com/kailas-cloud/wbindicators/internal/domain/years"
	"github.com/kailas-cloud/wbindicators/internal/logger"
	"github.com/kailas-cloud/wbindicators/internal/usecase/country"
)

// Topline modes.
const (
	ToplineDerived = "derived"
	ToplineQueried = "query"
)

// Options configure a run.
type Options struct {
	Workers           int
	BatchID           string
	Resume            bool
	ToplineMode       string
	ToplineIndicators []domtopline.Indicator
}

// Report summarizes a run.
type Report struct {
	Countries int
	Published int
	NoData    int
	Failed    int
	Skipped   int
	Toplines  int
	// FailedCountries lists ISO3 codes whose processing returned an error.
	FailedCountries []string
}

// Driver runs countries with bounded parallelism. Each country runs sequentially
// and owns its accumulators, so nothing mutable is shared between workers.
type Driver struct {
	catalog  Catalog
	proc     CountryProcessor
	topline  ToplinePublisher
	query    ToplineQuery
	progress Progress
	sink     ToplineSink
	opts     Options
	outcomes *prometheus.CounterVec
}

// New creates a run driver. query, progress and sink may be nil.
func New(
	catalog Catalog, proc CountryProcessor, topline ToplinePublisher,
	query ToplineQuery, progress Progress, sink ToplineSink, opts Options,
) *Driver {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.ToplineMode == "" {
		opts.ToplineMode = ToplineDerived
	}
	return &Driver{
		catalog: catalog, proc: proc, topline: topline,
		query: query, progress: progress, sink: sink, opts: opts,
	}
}

// WithMetrics attaches a country outcome counter with label "outcome".
func (d *Driver) WithMetrics(outcomes *prometheus.CounterVec) *Driver {
	d.outcomes = outcomes
	return d
}

type countryResult struct {
	outcome country.Outcome
	err     error
	skipped bool
	ran     bool
}

// Run processes every country. Per-country failures are counted in the report;
// the returned error is reserved for run-level failures such as an unavailable catalog.
func (d *Driver) Run(ctx context.Context) (Report, error) {
	log := logger.FromContext(ctx).With(zap.String("batch", d.opts.BatchID))

	topics, err := d.catalog.Topics(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("build topic catalog: %w", err)
	}
	countries, err := d.catalog.Countries(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list countries: %w", err)
	}
	log.Info("catalog ready", zap.Int("topics", len(topics)), zap.Int("countries", len(countries)))

	results := make([]countryResult, len(countries))
	var g errgroup.Group
	g.SetLimit(d.opts.Workers)
	for i, c := range countries {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = d.runCountry(ctx, log, c, topics)
			return nil
		})
	}
	_ = g.Wait()

	rep := Report{Countries: len(countries)}
	var facts []domtopline.Fact
	for i, r := range results {
		switch {
		case !r.ran:
			continue
		case r.skipped:
			rep.Skipped++
			d.inc("skipped")
		case r.err != nil:
			rep.Failed++
			rep.FailedCountries = append(rep.FailedCountries, countries[i].ISO3)
			d.inc("failed")
		case r.outcome.HasData():
			rep.Published++
			d.inc("published")
		default:
			rep.NoData++
			d.inc("no_data")
		}
		facts = append(facts, r.outcome.Toplines...)
	}
	if err := ctx.Err(); err != nil {
		return rep, fmt.Errorf("run interrupted: %w", err)
	}

	facts, err = d.toplines(ctx, facts, countries)
	if err != nil {
		return rep, err
	}
	rep.Toplines = len(facts)
	if len(facts) > 0 {
		if err := d.topline.PublishTopline(ctx, toplineManifest(facts, countries), facts); err != nil {
			return rep, fmt.Errorf("publish topline: %w", err)
		}
		if d.sink != nil {
			if err := d.sink.UpsertFacts(ctx, facts); err != nil {
				return rep, fmt.Errorf("store topline: %w", err)
			}
		}
	}
	log.Info("run finished",
		zap.Int("countries", rep.Countries),
		zap.Int("published", rep.Published),
		zap.Int("no_data", rep.NoData),
		zap.Int("failed", rep.Failed),
		zap.Int("skipped", rep.Skipped),
		zap.Int("toplines", rep.Toplines),
	)
	return rep, nil
}

func (d *Driver) runCountry(ctx context.Context, log *zap.Logger, c domain.Country, topics []topic.Topic) countryResult {
	ctx = logger.WithFields(logger.ContextWithLogger(ctx, log), zap.String("country", c.ISO3))
	clog := logger.FromContext(ctx)
	if d.opts.Resume && d.progress != nil {
		facts, done, err := d.progress.Done(ctx, d.opts.BatchID, c.ISO3)
		if err != nil {
			clog.Warn("read progress", zap.Error(err))
		}
		if done {
			clog.Info("already processed, skipping", zap.Int("toplines", len(facts)))
			return countryResult{ran: true, skipped: true, outcome: country.Outcome{Toplines: facts}}
		}
	}

	out, err := d.proc.Process(ctx, c, topics)
	if err != nil {
		if domain.IsFatal(err) {
			clog.Error("configuration-fatal error, skipping rest of country", zap.Error(err))
		} else if !errors.Is(err, context.Canceled) {
			clog.Error("country failed", zap.Error(err))
		}
		return countryResult{ran: true, err: err}
	}

	if d.progress != nil {
		if err := d.progress.MarkDone(ctx, d.opts.BatchID, c.ISO3, out.Toplines); err != nil {
			clog.Warn("record progress", zap.Error(err))
		}
	}
	return countryResult{ran: true, outcome: out}
}

func (d *Driver) toplines(ctx context.Context, derived []domtopline.Fact, countries []domain.Country) ([]domtopline.Fact, error) {
	if d.opts.ToplineMode != ToplineQueried {
		return derived, nil
	}
	if d.query == nil || len(d.opts.ToplineIndicators) == 0 {
		return nil, nil
	}
	facts, err := d.query.Latest(ctx, d.opts.ToplineIndicators, countries)
	if err != nil {
		return nil, fmt.Errorf("global topline: %w", err)
	}
	return facts, nil
}

func (d *Driver) inc(outcome string) {
	if d.outcomes != nil {
		d.outcomes.WithLabelValues(outcome).Inc()
	}
}

const toplineDataset = "World Bank Country Topline Indicators"

func toplineManifest(facts []domtopline.Fact, countries []domain.Country) dataset.Manifest {
	var r years.Range
	present := make(map[string]struct{}, len(facts))
	for _, f := range facts {
		r.Observe(f.Year)
		present[f.CountryISO3] = struct{}{}
	}
	var locations []string
	for _, c := range countries {
		if _, ok := present[strings.ToUpper(c.ISO3)]; ok {
			locations = append(locations, strings.ToLower(c.ISO3))
		}
	}
	m := dataset.Manifest{
		Name:     dataset.Slug(toplineDataset),
		Title:    "Topline Indicators",
		Location: strings.Join(locations, ","),
		Tags:     []string{"indicators"},
		Resources: []dataset.Resource{{
			Name:        "topline_indicators",
			Description: "Country topline indicators",
			File:        dataset.ToplineFile,
			Format:      "csv",
		}},
	}
	m.SetYears(r)
	return m
}
