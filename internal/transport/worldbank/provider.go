package worldbank

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/wbindicators/internal/domain"
	"github.com/kailas-cloud/wbindicators/internal/domain/indicator"
)

const latestSource = "2"

var _ domain.Provider = (*Client)(nil)

// ListDataSources lists the data sources (databases).
func (c *Client) ListDataSources(ctx context.Context) ([]domain.DataSource, error) {
	var items []sourceDTO
	if _, err := c.get(ctx, "sources", "v2/en/source", nil, &items); err != nil {
		return nil, err
	}
	out := make([]domain.DataSource, len(items))
	for i, s := range items {
		out[i] = domain.DataSource{ID: s.ID, Name: s.Name, Available: s.DataAvailability == "Y"}
	}
	return out, nil
}

// ListTopics lists indicator topics.
func (c *Client) ListTopics(ctx context.Context) ([]domain.TopicInfo, error) {
	var items []topicDTO
	if _, err := c.get(ctx, "topics", "v2/en/topic", nil, &items); err != nil {
		return nil, err
	}
	out := make([]domain.TopicInfo, len(items))
	for i, t := range items {
		out[i] = domain.TopicInfo{ID: strings.TrimSpace(t.ID), Label: t.Value, SourceNote: t.SourceNote}
	}
	return out, nil
}

// ListTopicIndicators lists the indicators of a topic in catalog order.
func (c *Client) ListTopicIndicators(ctx context.Context, topicID string) ([]indicator.Indicator, error) {
	var items []indicatorDTO
	path := "v2/en/topic/" + url.PathEscape(topicID) + "/indicator"
	meta, err := c.get(ctx, "topic_indicators", path, nil, &items)
	if err != nil {
		return nil, err
	}
	if meta.Pages > 1 {
		c.logger.Warn("topic indicator listing truncated", zap.String("topic", topicID), zap.Int("pages", int(meta.Pages)))
	}

	out := make([]indicator.Indicator, 0, len(items))
	for _, it := range items {
		topics := make([]string, 0, len(it.Topics))
		for _, t := range it.Topics {
			topics = append(topics, t.ID)
		}
		ind, err := indicator.New(it.ID, it.Name, it.Source.ID, topics)
		if err != nil {
			c.logger.Warn("skipping indicator", zap.String("topic", topicID), zap.Error(err))
			continue
		}
		out = append(out, ind)
	}
	return out, nil
}

// ListCountries lists every economy and aggregate.
func (c *Client) ListCountries(ctx context.Context) ([]domain.Country, error) {
	var items []countryDTO
	if _, err := c.get(ctx, "countries", "v2/en/country", nil, &items); err != nil {
		return nil, err
	}
	out := make([]domain.Country, len(items))
	for i, it := range items {
		out[i] = domain.Country{ISO3: it.ID, ISO2: it.ISO2Code, Name: it.Name, Region: strings.TrimSpace(it.Region.Value)}
	}
	return out, nil
}

// FetchObservations fetches the time series of a batch of indicators for one country.
func (c *Client) FetchObservations(
	ctx context.Context, countryISO3 string, codes []string, sourceID string,
) (domain.ObservationPage, error) {
	path := fmt.Sprintf("v2/en/country/%s/indicator/%s", url.PathEscape(countryISO3), joinCodes(codes))
	return c.observations(ctx, "observations", path, url.Values{"source": {sourceID}})
}

// FetchLatestAcrossCountries fetches the most recent non-empty value of indicators for all economies.
func (c *Client) FetchLatestAcrossCountries(
	ctx context.Context, codes []string, sourceID string,
) (domain.ObservationPage, error) {
	if sourceID == "" {
		sourceID = latestSource
	}
	path := "v2/en/country/all/indicator/" + joinCodes(codes)
	return c.observations(ctx, "latest", path, url.Values{"source": {sourceID}, "mrnev": {"1"}})
}

// HealthCheck verifies the API answers a minimal listing.
func (c *Client) HealthCheck(ctx context.Context) error {
	var items []sourceDTO
	if _, err := c.get(ctx, "health", "v2/en/source", url.Values{"per_page": {"1"}}, &items); err != nil {
		return fmt.Errorf("list sources: %w", err)
	}
	return nil
}

func (c *Client) observations(ctx context.Context, endpoint, path string, q url.Values) (domain.ObservationPage, error) {
	var items []observationDTO
	meta, err := c.get(ctx, endpoint, path, q, &items)
	if err != nil {
		return domain.ObservationPage{}, err
	}
	page := domain.ObservationPage{
		Total: int(meta.Total),
		Pages: int(meta.Pages),
		Items: make([]domain.RawObservation, len(items)),
	}
	for i, it := range items {
		page.Items[i] = domain.RawObservation{
			IndicatorCode: it.Indicator.ID,
			IndicatorName: it.Indicator.Value,
			CountryISO3:   it.CountryISO3Code,
			CountryName:   it.Country.Value,
			Date:          it.Date,
			Value:         it.Value,
		}
	}
	return page, nil
}

func joinCodes(codes []string) string {
	escaped := make([]string, len(codes))
	for i, code := range codes {
		escaped[i] = url.PathEscape(code)
	}
	return strings.Join(escaped, ";")
}
