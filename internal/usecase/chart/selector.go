// Package chart picks indicators worth charting from a merged series.
package chart

import (
	"go.uber.org/zap"

	domchart "github.com/kailas-cloud/wbindicators/internal/domain/chart"
	"github.com/kailas-cloud/wbindicators/internal/domain/series"
	"github.com/kailas-cloud/wbindicators/internal/domain/unit"
)

// Select fills up to three slots with indicators whose values vary across years.
// Codes are scanned shortest first, ties in insertion order. names maps code to
// display title; the unit is derived from the title, and a title no unit rule
// matched is logged at Warn. logger may be nil.
func Select(s *series.Series, names map[string]string, logger *zap.Logger) domchart.Slots {
	if logger == nil {
		logger = zap.NewNop()
	}
	slots := make(domchart.Slots, 0, domchart.MaxSlots)
	for _, code := range s.ByCodeLength() {
		if slots.Full() {
			break
		}
		if s.Distinct(code) <= 1 {
			continue
		}
		title := names[code]
		u, matched := unit.Extract(title)
		if !matched {
			logger.Warn("using full indicator name as chart unit",
				zap.String("indicator_code", code), zap.String("indicator", title))
		}
		slots = append(slots, domchart.Pick{Code: code, Title: title, Unit: u})
	}
	return slots
}
