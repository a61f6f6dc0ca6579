package observation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/wbindicators/internal/domain"
)

// Observation is one non-null data point for a country, indicator and year.
// Observations double as output rows; null values never become observations.
type Observation struct {
	CountryISO3   string
	CountryName   string
	Year          int
	IndicatorCode string
	IndicatorName string
	Value         float64
}

// FromRaw converts a provider data point for the given country.
// Returns ok=false for null values. Dates must be plain years.
func FromRaw(c domain.Country, raw domain.RawObservation) (Observation, bool, error) {
	if raw.Value == nil {
		return Observation{}, false, nil
	}
	year, err := strconv.Atoi(strings.TrimSpace(raw.Date))
	if err != nil {
		return Observation{}, false, fmt.Errorf("indicator %s: non-annual date %q: %w", raw.IndicatorCode, raw.Date, err)
	}
	return Observation{
		CountryISO3:   c.ISO3,
		CountryName:   c.Name,
		Year:          year,
		IndicatorCode: raw.IndicatorCode,
		IndicatorName: raw.IndicatorName,
		Value:         *raw.Value,
	}, true, nil
}

// FilterCodes returns the observations whose indicator code is in codes, in order.
func FilterCodes(rows []Observation, codes []string) []Observation {
	want := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		want[c] = struct{}{}
	}
	var out []Observation
	for _, r := range rows {
		if _, ok := want[r.IndicatorCode]; ok {
			out = append(out, r)
		}
	}
	return out
}
