package country

import (
	"context"

	"github.com/kailas-cloud/wbindicators/internal/domain"
	"github.com/kailas-cloud/wbindicators/internal/domain/dataset"
	"github.com/kailas-cloud/wbindicators/internal/domain/topic"
	"github.com/kailas-cloud/wbindicators/internal/usecase/merge"
)

// TopicMerger fetches and merges all indicators of a topic for a country.
type TopicMerger interface {
	MergeTopic(ctx context.Context, country domain.Country, t topic.Topic) (*merge.Result, error)
}

// Publisher writes a dataset artifact.
type Publisher interface {
	PublishDataset(ctx context.Context, a dataset.Artifact) error
}
