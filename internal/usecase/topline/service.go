package topline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/wbindicators/internal/domain"
	"github.com/kailas-cloud/wbindicators/internal/domain/observation"
	domtopline "github.com/kailas-cloud/wbindicators/internal/domain/topline"
	"github.com/kailas-cloud/wbindicators/internal/usecase/batch"
)

// Service answers the global topline query: one cross-country request per source.
type Service struct {
	fetcher LatestFetcher
	portal  string
	logger  *zap.Logger
}

// New creates a topline service.
func New(fetcher LatestFetcher, portal string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{fetcher: fetcher, portal: portal, logger: logger}
}

// Latest fetches the most recent value of each indicator and keeps rows for the
// given countries. Facts are ordered by country, then by indicator.
func (s *Service) Latest(
	ctx context.Context, indicators []domtopline.Indicator, countries []domain.Country,
) ([]domtopline.Fact, error) {
	codes := domtopline.Codes(indicators)
	accs := make(map[string]*Accumulator, len(countries))
	for _, c := range countries {
		accs[c.ISO3] = NewAccumulator(c, codes, s.portal, s.logger)
	}

	for _, g := range groupBySource(indicators) {
		page, err := s.fetcher.FetchLatestAcrossCountries(ctx, g.codes, g.source)
		if err != nil {
			return nil, fmt.Errorf("latest values for source %s: %w", g.source, err)
		}
		if page.Total == 0 {
			return nil, fmt.Errorf("latest values for %s: %w", batch.Join(g.codes), domain.ErrNoData)
		}
		if page.Pages != 1 {
			return nil, domain.NewPageCountError(page.Pages, g.source, batch.Join(g.codes))
		}
		for _, raw := range page.Items {
			acc, ok := accs[raw.CountryISO3]
			if !ok {
				continue
			}
			obs, ok, err := observation.FromRaw(acc.country, raw)
			if err != nil {
				s.logger.Warn("skipping topline value", zap.String("country", raw.CountryISO3), zap.Error(err))
				continue
			}
			if ok {
				acc.Observe(obs)
			}
		}
	}

	var facts []domtopline.Fact
	for _, c := range countries {
		if acc, ok := accs[c.ISO3]; ok {
			facts = append(facts, acc.Facts()...)
			delete(accs, c.ISO3)
		}
	}
	return facts, nil
}

type sourceGroup struct {
	source string
	codes  []string
}

func groupBySource(indicators []domtopline.Indicator) []sourceGroup {
	var groups []sourceGroup
	index := make(map[string]int)
	for _, ind := range indicators {
		i, ok := index[ind.SourceID]
		if !ok {
			i = len(groups)
			index[ind.SourceID] = i
			groups = append(groups, sourceGroup{source: ind.SourceID})
		}
		groups[i].codes = append(groups[i].codes, ind.Code)
	}
	return groups
}
