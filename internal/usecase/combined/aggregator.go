// Package combined unions the per-topic results of one country.
package combined

import (
	domchart "github.com/kailas-cloud/wbindicators/internal/domain/chart"
	"github.com/kailas-cloud/wbindicators/internal/domain/dataset"
	"github.com/kailas-cloud/wbindicators/internal/domain/observation"
	"github.com/kailas-cloud/wbindicators/internal/domain/years"
)

// TopicResult is what one published topic contributes.
type TopicResult struct {
	Link  dataset.TopicLink
	Tags  []string
	Rows  []observation.Observation
	Years years.Range
}

// Result is the combined view of a country.
type Result struct {
	Rows           []observation.Observation
	QuickChartRows []observation.Observation
	Tags           []string
	Years          years.Range
	Topics         []dataset.TopicLink
	// Disabled[i] is true when headline i had no rows.
	Disabled []bool
}

type rowKey struct {
	code string
	year int
}

// Aggregator folds topic results for a single country. Not safe for concurrent use.
type Aggregator struct {
	headlines []domchart.Pick
	slot      map[string]int
	found     []bool

	rows    []observation.Observation
	rowAt   map[rowKey]int
	qcRows  []observation.Observation
	qcAt    map[rowKey]int
	tags    []string
	tagSeen map[string]struct{}
	years   years.Range
	topics  []dataset.TopicLink
}

// NewAggregator creates an aggregator over fixed headline indicators.
func NewAggregator(headlines []domchart.Pick) *Aggregator {
	slot := make(map[string]int, len(headlines))
	for i, h := range headlines {
		if _, dup := slot[h.Code]; !dup {
			slot[h.Code] = i
		}
	}
	return &Aggregator{
		headlines: headlines,
		slot:      slot,
		found:     make([]bool, len(headlines)),
		tagSeen:   make(map[string]struct{}),
		rowAt:     make(map[rowKey]int),
		qcAt:      make(map[rowKey]int),
	}
}

// Add unions one topic into the aggregate. Topics without rows are ignored.
// An indicator shared by several topics contributes one row per year.
func (a *Aggregator) Add(tr TopicResult) {
	if len(tr.Rows) == 0 {
		return
	}
	a.topics = append(a.topics, tr.Link)
	for _, t := range tr.Tags {
		if _, ok := a.tagSeen[t]; ok {
			continue
		}
		a.tagSeen[t] = struct{}{}
		a.tags = append(a.tags, t)
	}
	a.years.Union(tr.Years)
	for _, r := range tr.Rows {
		a.rows = upsert(a.rows, a.rowAt, r)
		if i, ok := a.slot[r.IndicatorCode]; ok {
			a.qcRows = upsert(a.qcRows, a.qcAt, r)
			a.found[i] = true
		}
	}
}

// upsert keeps one row per (indicator, year); a later topic's value wins.
func upsert(rows []observation.Observation, at map[rowKey]int, r observation.Observation) []observation.Observation {
	k := rowKey{code: r.IndicatorCode, year: r.Year}
	if i, ok := at[k]; ok {
		rows[i] = r
		return rows
	}
	at[k] = len(rows)
	return append(rows, r)
}

// Result returns the aggregate; ok is false when no topic had data.
func (a *Aggregator) Result() (Result, bool) {
	if len(a.rows) == 0 {
		return Result{}, false
	}
	disabled := make([]bool, len(a.found))
	for i, f := range a.found {
		disabled[i] = !f
	}
	return Result{
		Rows:           a.rows,
		QuickChartRows: a.qcRows,
		Tags:           a.tags,
		Years:          a.years,
		Topics:         a.topics,
		Disabled:       disabled,
	}, true
}

// Headlines returns the configured headline picks.
func (a *Aggregator) Headlines() []domchart.Pick { return a.headlines }
