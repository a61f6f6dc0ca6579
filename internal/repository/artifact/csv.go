package artifact

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/wbindicators/internal/domain/observation"
	"github.com/kailas-cloud/wbindicators/internal/domain/topline"
)

var (
	indicatorHeaders = []string{"Country Name", "Country ISO3", "Year", "Indicator Name", "Indicator Code", "Value"}
	indicatorHXL     = []string{
		"#country+name", "#country+code", "#date+year",
		"#indicator+name", "#indicator+code", "#indicator+value+num",
	}

	toplineHeaders = []string{"countryiso", "indicator", "source", "url", "date", "unit", "value"}
	toplineHXL     = []string{
		"#country+code", "#indicator+name", "#meta+source", "#meta+url",
		"#date", "#indicator+unit", "#value+amount",
	}
)

// FormatValue renders a number with the fewest digits that parse back to the same float.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// EncodeIndicators renders observation rows as an HXL-tagged indicator CSV.
func EncodeIndicators(rows []observation.Observation) ([]byte, error) {
	records := make([][]string, 0, len(rows)+2)
	records = append(records, indicatorHeaders, indicatorHXL)
	for _, r := range rows {
		records = append(records, []string{
			r.CountryName,
			r.CountryISO3,
			strconv.Itoa(r.Year),
			r.IndicatorName,
			r.IndicatorCode,
			FormatValue(r.Value),
		})
	}
	return encode(records)
}

// EncodeTopline renders topline facts as an HXL-tagged CSV.
func EncodeTopline(facts []topline.Fact) ([]byte, error) {
	records := make([][]string, 0, len(facts)+2)
	records = append(records, toplineHeaders, toplineHXL)
	for _, f := range facts {
		records = append(records, []string{
			f.CountryISO3,
			f.Indicator,
			f.Source,
			f.URL,
			f.Date(),
			f.Unit,
			FormatValue(f.Value),
		})
	}
	return encode(records)
}

func encode(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}
	return buf.Bytes(), nil
}
