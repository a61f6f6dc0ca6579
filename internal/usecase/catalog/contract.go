package catalog

import (
	"context"

	"github.com/kailas-cloud/wbindicators/internal/domain"
	"github.com/kailas-cloud/wbindicators/internal/domain/indicator"
)

// Lister lists the provider catalog.
type Lister interface {
	ListDataSources(ctx context.Context) ([]domain.DataSource, error)
	ListTopics(ctx context.Context) ([]domain.TopicInfo, error)
	ListTopicIndicators(ctx context.Context, topicID string) ([]indicator.Indicator, error)
	ListCountries(ctx context.Context) ([]domain.Country, error)
}
