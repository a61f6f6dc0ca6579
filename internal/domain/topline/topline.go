// Package topline holds single-value summary facts per country and indicator.
package topline

import "fmt"

// Source is the attribution carried by every fact.
const Source = "World Bank"

// Fact is the most recent known value of one indicator in one country.
type Fact struct {
	CountryISO3   string  `json:"countryiso"`
	IndicatorCode string  `json:"indicator_code"`
	Indicator     string  `json:"indicator"`
	Source        string  `json:"source"`
	URL           string  `json:"url"`
	Year          int     `json:"year"`
	Unit          string  `json:"unit"`
	Value         float64 `json:"value"`
}

// Date renders the fact year as the first day of that year.
func (f Fact) Date() string { return fmt.Sprintf("%d-01-01", f.Year) }

// Indicator is a whitelisted topline indicator.
type Indicator struct {
	Code     string
	SourceID string
}

// Codes returns the whitelist codes in order.
func Codes(list []Indicator) []string {
	out := make([]string, len(list))
	for i, ind := range list {
		out[i] = ind.Code
	}
	return out
}
