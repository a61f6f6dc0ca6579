package topline

import (
	"context"

	"github.com/kailas-cloud/wbindicators/internal/domain"
)

// LatestFetcher returns the most recent non-empty value of indicators for every economy.
type LatestFetcher interface {
	FetchLatestAcrossCountries(ctx context.Context, codes []string, sourceID string) (domain.ObservationPage, error)
}
