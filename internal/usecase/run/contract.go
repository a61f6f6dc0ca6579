package run

import (
	"context"

	"github.com/kailas-cloud/wbindicators/internal/domain"
	"github.com/kailas-cloud/wbindicators/internal/domain/dataset"
	"github.com/kailas-cloud/wbindicators/internal/domain/topic"
	domtopline "github.com/kailas-cloud/wbindicators/internal/domain/topline"
	"github.com/kailas-cloud/wbindicators/internal/usecase/country"
)

// Catalog provides the topics and countries to process.
type Catalog interface {
	Topics(ctx context.Context) ([]topic.Topic, error)
	Countries(ctx context.Context) ([]domain.Country, error)
}

// CountryProcessor processes every topic of one country.
type CountryProcessor interface {
	Process(ctx context.Context, c domain.Country, topics []topic.Topic) (country.Outcome, error)
}

// Progress remembers finished countries per run batch, with the topline
// facts each one derived.
type Progress interface {
	Done(ctx context.Context, batchID, iso3 string) ([]domtopline.Fact, bool, error)
	MarkDone(ctx context.Context, batchID, iso3 string, facts []domtopline.Fact) error
}

// ToplinePublisher writes the cross-country topline artifact.
type ToplinePublisher interface {
	PublishTopline(ctx context.Context, m dataset.Manifest, facts []domtopline.Fact) error
}

// ToplineQuery answers the global latest-value query.
type ToplineQuery interface {
	Latest(ctx context.Context, indicators []domtopline.Indicator, countries []domain.Country) ([]domtopline.Fact, error)
}

// ToplineSink stores topline facts outside the artifact tree.
type ToplineSink interface {
	UpsertFacts(ctx context.Context, facts []domtopline.Fact) error
}
