// Package catalog builds the topic and country catalog the pipeline iterates over.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/wbindicators/internal/domain"
	"github.com/kailas-cloud/wbindicators/internal/domain/indicator"
	"github.com/kailas-cloud/wbindicators/internal/domain/topic"
	"github.com/kailas-cloud/wbindicators/internal/domain/unit"
)

// Options tune catalog filtering.
type Options struct {
	// ExcludedIndicators are dropped from every topic (restrictive licences).
	ExcludedIndicators []string
	// TagMappings replace derived topic tags.
	TagMappings map[string]string
	// Countries limits the run to these ISO3 codes when non-empty.
	Countries []string
}

// Service builds catalogs from a provider.
type Service struct {
	lister   Lister
	excluded map[string]struct{}
	mappings map[string]string
	allow    map[string]struct{}
	logger   *zap.Logger
}

// New creates a catalog service.
func New(lister Lister, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		lister:   lister,
		excluded: toSet(opts.ExcludedIndicators, strings.TrimSpace),
		mappings: opts.TagMappings,
		allow:    toSet(opts.Countries, func(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }),
		logger:   logger,
	}
}

// ValidSources returns the ids of available, non-archive data sources.
func (s *Service) ValidSources(ctx context.Context) (map[string]struct{}, error) {
	sources, err := s.lister.ListDataSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list data sources: %w", err)
	}
	valid := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		if !src.Available || strings.Contains(strings.ToLower(src.Name), "archive") {
			continue
		}
		valid[src.ID] = struct{}{}
	}
	return valid, nil
}

// Topics returns every topic with its indicators grouped by valid source,
// in provider order.
func (s *Service) Topics(ctx context.Context) ([]topic.Topic, error) {
	valid, err := s.ValidSources(ctx)
	if err != nil {
		return nil, err
	}
	infos, err := s.lister.ListTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}

	topics := make([]topic.Topic, 0, len(infos))
	for _, info := range infos {
		all, err := s.lister.ListTopicIndicators(ctx, info.ID)
		if err != nil {
			return nil, fmt.Errorf("list indicators of topic %s: %w", info.ID, err)
		}
		kept := make([]indicator.Indicator, 0, len(all))
		for _, ind := range all {
			if _, ok := valid[ind.SourceID()]; !ok {
				continue
			}
			if _, ok := s.excluded[ind.Code()]; ok {
				continue
			}
			kept = append(kept, ind)
		}

		t, err := topic.New(info.ID, info.Label, info.SourceNote, s.tags(info.Label), topic.GroupBySource(kept))
		if err != nil {
			return nil, fmt.Errorf("topic %q: %w", info.Label, err)
		}
		s.logger.Debug("catalog topic",
			zap.String("topic", t.Label()),
			zap.Int("indicators", t.IndicatorCount()),
			zap.Int("dropped", len(all)-len(kept)),
		)
		topics = append(topics, t)
	}
	return topics, nil
}

// Countries returns economies, excluding aggregates and honouring the allow-list.
func (s *Service) Countries(ctx context.Context) ([]domain.Country, error) {
	all, err := s.lister.ListCountries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	out := make([]domain.Country, 0, len(all))
	for _, c := range all {
		if c.IsAggregate() {
			continue
		}
		if len(s.allow) > 0 {
			if _, ok := s.allow[strings.ToUpper(c.ISO3)]; !ok {
				continue
			}
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Service) tags(label string) []string {
	raw := unit.TopicTags(label)
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, t := range raw {
		if m, ok := s.mappings[t]; ok {
			t = m
		}
		if _, dup := seen[t]; dup || t == "" {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func toSet(values []string, norm func(string) string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = norm(v); v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}
