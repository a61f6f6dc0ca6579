// Package topline derives the most recent known value per indicator and country.
package topline

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/wbindicators/internal/domain"
	"github.com/kailas-cloud/wbindicators/internal/domain/observation"
	domtopline "github.com/kailas-cloud/wbindicators/internal/domain/topline"
	"github.com/kailas-cloud/wbindicators/internal/domain/unit"
)

// SourceURL links the portal page of an indicator for one country.
func SourceURL(portal, code, iso2 string) string {
	return fmt.Sprintf("%sindicator/%s?locations=%s", portal, code, strings.ToUpper(iso2))
}

// Accumulator keeps one fact per whitelisted indicator for a single country,
// replacing it only when a strictly later year arrives. Not safe for concurrent use.
type Accumulator struct {
	country domain.Country
	portal  string
	order   []string
	facts   map[string]domtopline.Fact
	allowed map[string]struct{}
	logger  *zap.Logger
}

// NewAccumulator creates an accumulator for country over the whitelisted codes.
func NewAccumulator(country domain.Country, codes []string, portal string, logger *zap.Logger) *Accumulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[string]struct{}, len(codes))
	order := make([]string, 0, len(codes))
	for _, c := range codes {
		if _, dup := allowed[c]; dup {
			continue
		}
		allowed[c] = struct{}{}
		order = append(order, c)
	}
	return &Accumulator{
		country: country,
		portal:  portal,
		order:   order,
		facts:   make(map[string]domtopline.Fact),
		allowed: allowed,
		logger:  logger,
	}
}

// Observe considers one observation. Reports whether it became the current fact.
func (a *Accumulator) Observe(obs observation.Observation) bool {
	if _, ok := a.allowed[obs.IndicatorCode]; !ok {
		return false
	}
	if cur, ok := a.facts[obs.IndicatorCode]; ok && obs.Year <= cur.Year {
		return false
	}
	a.facts[obs.IndicatorCode] = newFact(a.country, obs, a.portal, a.logger)
	return true
}

// ObserveAll feeds rows in order.
func (a *Accumulator) ObserveAll(rows []observation.Observation) {
	for _, r := range rows {
		a.Observe(r)
	}
}

// Facts returns the current facts in whitelist order.
func (a *Accumulator) Facts() []domtopline.Fact {
	out := make([]domtopline.Fact, 0, len(a.facts))
	for _, code := range a.order {
		if f, ok := a.facts[code]; ok {
			out = append(out, f)
		}
	}
	return out
}

func newFact(c domain.Country, obs observation.Observation, portal string, logger *zap.Logger) domtopline.Fact {
	u, matched := unit.Extract(obs.IndicatorName)
	if !matched {
		logger.Warn("using full indicator name as unit", zap.String("indicator", obs.IndicatorName))
	}
	return domtopline.Fact{
		CountryISO3:   strings.ToUpper(c.ISO3),
		IndicatorCode: obs.IndicatorCode,
		Indicator:     unit.ShortName(obs.IndicatorName, u),
		Source:        domtopline.Source,
		URL:           SourceURL(portal, obs.IndicatorCode, c.ISO2),
		Year:          obs.Year,
		Unit:          u,
		Value:         obs.Value,
	}
}
