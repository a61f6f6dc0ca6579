package topic

import (
	"errors"
	"strings"

	"github.com/kailas-cloud/wbindicators/internal/domain/indicator"
)

// ErrEmptyID signals a topic without an id.
var ErrEmptyID = errors.New("topic id is required")

// SourceGroup holds the indicators of a topic that come from one data source,
// in catalog order. Each group is queried with a single source filter.
type SourceGroup struct {
	SourceID   string
	Indicators []indicator.Indicator
}

// Topic is a thematic grouping of indicators with its own tag set.
type Topic struct {
	id         string
	label      string
	sourceNote string
	tags       []string
	sources    []SourceGroup
}

// New creates a topic. Groups keep the order they are given in.
func New(id, label, sourceNote string, tags []string, sources []SourceGroup) (Topic, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Topic{}, ErrEmptyID
	}
	return Topic{
		id:         id,
		label:      strings.TrimSpace(label),
		sourceNote: sourceNote,
		tags:       tags,
		sources:    sources,
	}, nil
}

// ID returns the topic id.
func (t Topic) ID() string { return t.id }

// Label returns the provider label, e.g. "Gender & Science".
func (t Topic) Label() string { return t.label }

// Name returns the display name with "&" spelled out.
func (t Topic) Name() string { return strings.ReplaceAll(t.label, "&", "and") }

// SourceNote returns the topic description.
func (t Topic) SourceNote() string { return t.sourceNote }

// Tags returns the derived tags.
func (t Topic) Tags() []string { return t.tags }

// Sources returns the per-source indicator groups in catalog order.
func (t Topic) Sources() []SourceGroup { return t.sources }

// IndicatorCount returns the number of indicators across all groups.
func (t Topic) IndicatorCount() int {
	n := 0
	for _, g := range t.sources {
		n += len(g.Indicators)
	}
	return n
}

// GroupBySource groups indicators by source id, keeping first-seen source order
// and catalog order within each group.
func GroupBySource(list []indicator.Indicator) []SourceGroup {
	var groups []SourceGroup
	index := make(map[string]int)
	for _, ind := range list {
		i, ok := index[ind.SourceID()]
		if !ok {
			i = len(groups)
			index[ind.SourceID()] = i
			groups = append(groups, SourceGroup{SourceID: ind.SourceID()})
		}
		groups[i].Indicators = append(groups[i].Indicators, ind)
	}
	return groups
}
