package merge

import (
	"context"

	"github.com/kailas-cloud/wbindicators/internal/domain"
)

// ObservationFetcher fetches one batch of observations for a country.
type ObservationFetcher interface {
	FetchObservations(ctx context.Context, countryISO3 string, codes []string, sourceID string) (domain.ObservationPage, error)
}
