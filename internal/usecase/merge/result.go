package merge

import (
	"github.com/kailas-cloud/wbindicators/internal/domain/observation"
	"github.com/kailas-cloud/wbindicators/internal/domain/series"
	"github.com/kailas-cloud/wbindicators/internal/domain/years"
)

// Result accumulates the merged observations of one (country, topic) unit.
type Result struct {
	Rows   []observation.Observation
	Series *series.Series
	Years  years.Range

	names map[string]string
	index map[rowKey]int
}

type rowKey struct {
	code string
	year int
}

// NewResult creates an empty result.
func NewResult() *Result {
	return &Result{
		Series: series.New(),
		names:  make(map[string]string),
		index:  make(map[rowKey]int),
	}
}

// Add folds one observation into the result. A repeated (indicator, year)
// replaces the earlier row in place, matching Series.
func (r *Result) Add(obs observation.Observation) {
	k := rowKey{code: obs.IndicatorCode, year: obs.Year}
	if i, ok := r.index[k]; ok {
		r.Rows[i] = obs
	} else {
		r.index[k] = len(r.Rows)
		r.Rows = append(r.Rows, obs)
	}
	r.Series.Set(obs.IndicatorCode, obs.Year, obs.Value)
	r.Years.Observe(obs.Year)
	r.names[obs.IndicatorCode] = obs.IndicatorName
}

// HasData reports whether any non-null observation was merged.
func (r *Result) HasData() bool { return len(r.Rows) > 0 }

// Name returns the display name last seen for an indicator code.
func (r *Result) Name(code string) string { return r.names[code] }

// Names returns code -> display name for every merged indicator.
func (r *Result) Names() map[string]string {
	out := make(map[string]string, len(r.names))
	for k, v := range r.names {
		out[k] = v
	}
	return out
}

// Remerge rebuilds a result from already merged rows.
func Remerge(rows []observation.Observation) *Result {
	r := NewResult()
	for _, obs := range rows {
		r.Add(obs)
	}
	return r
}
