package domain

import (
	"context"

	"github.com/kailas-cloud/wbindicators/internal/domain/indicator"
)

// Provider is a remote indicator time-series provider.
type Provider interface {
	ListDataSources(ctx context.Context) ([]DataSource, error)
	ListTopics(ctx context.Context) ([]TopicInfo, error)
	ListTopicIndicators(ctx context.Context, topicID string) ([]indicator.Indicator, error)
	ListCountries(ctx context.Context) ([]Country, error)
	FetchObservations(ctx context.Context, countryISO3 string, codes []string, sourceID string) (ObservationPage, error)
	FetchLatestAcrossCountries(ctx context.Context, codes []string, sourceID string) (ObservationPage, error)
}

// HealthChecker is an optional interface for providers that can verify availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// AggregatesRegion is the region label the provider uses for country groupings.
const AggregatesRegion = "Aggregates"

// DataSource is one upstream data source (database).
type DataSource struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// TopicInfo is a topic as listed by the provider, before indicator grouping.
type TopicInfo struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	SourceNote string `json:"source_note"`
}

// Country identifies an economy.
type Country struct {
	ISO3   string `json:"iso3"`
	ISO2   string `json:"iso2"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

// IsAggregate reports whether the entry is a regional/income grouping rather than an economy.
func (c Country) IsAggregate() bool { return c.Region == AggregatesRegion }

// RawObservation is one data point as returned by the provider. Value is nil for gaps.
type RawObservation struct {
	IndicatorCode string   `json:"indicator_code"`
	IndicatorName string   `json:"indicator_name"`
	CountryISO3   string   `json:"country_iso3"`
	CountryName   string   `json:"country_name"`
	Date          string   `json:"date"`
	Value         *float64 `json:"value"`
}

// ObservationPage is a decoded page of observations with its pagination metadata.
type ObservationPage struct {
	Total int              `json:"total"`
	Pages int              `json:"pages"`
	Items []RawObservation `json:"items"`
}
