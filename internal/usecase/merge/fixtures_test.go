package merge

import (
	"context"
	"strings"

	"github.com/kailas-cloud/wbindicators/internal/domain"
)

const (
	mmrtName = "Maternal mortality ratio (modeled estimate, per 100,000 live births)"
	chmrName = "Law prohibits or invalidates child or early marriage (1=yes; 0=no)"
	tfrtName = "Adolescent fertility rate (births per 1,000 women ages 15-19)"
	riskName = "Lifetime risk of maternal death (1 in:  rate varies by country)"
)

var afghanistan = domain.Country{ISO3: "AFG", ISO2: "AF", Name: "Afghanistan", Region: "South Asia"}

func ptr(v float64) *float64 { return &v }

func raw(code, name, date string, v *float64) domain.RawObservation {
	return domain.RawObservation{
		IndicatorCode: code, IndicatorName: name,
		CountryISO3: "AFG", CountryName: "Afghanistan",
		Date: date, Value: v,
	}
}

// genderItems are the Gender & Science observations for Afghanistan, newest first.
func genderItems() []domain.RawObservation {
	return []domain.RawObservation{
		raw("SH.STA.MMRT", mmrtName, "2018", nil),
		raw("SH.STA.MMRT", mmrtName, "2017", ptr(638)),
		raw("SH.STA.MMRT", mmrtName, "2016", ptr(673)),
		raw("SG.LAW.CHMR", chmrName, "2017", ptr(1)),
		raw("SG.LAW.CHMR", chmrName, "2016", ptr(1)),
		raw("SP.ADO.TFRT", tfrtName, "2017", ptr(68.957)),
		raw("SP.ADO.TFRT", tfrtName, "2016", ptr(75.325)),
		raw("SH.MMR.RISK", riskName, "2017", ptr(33)),
		raw("SH.MMR.RISK", riskName, "2016", ptr(30)),
	}
}

// --- Mocks ---

type fetchCall struct {
	country, codes, source string
}

// mockFetcher serves pages keyed by the joined codes; unknown batches are empty.
type mockFetcher struct {
	pages map[string]domain.ObservationPage
	errs  map[string]error
	calls []fetchCall
}

func (m *mockFetcher) FetchObservations(
	_ context.Context, countryISO3 string, codes []string, sourceID string,
) (domain.ObservationPage, error) {
	key := strings.Join(codes, ";")
	m.calls = append(m.calls, fetchCall{country: countryISO3, codes: key, source: sourceID})
	if err, ok := m.errs[key]; ok {
		return domain.ObservationPage{}, err
	}
	if p, ok := m.pages[key]; ok {
		return p, nil
	}
	return domain.ObservationPage{Total: 0, Pages: 0}, nil
}

// filterItems picks items whose code is in codes, keeping order.
func filterItems(items []domain.RawObservation, codes ...string) []domain.RawObservation {
	want := make(map[string]bool, len(codes))
	for _, c := range codes {
		want[c] = true
	}
	var out []domain.RawObservation
	for _, it := range items {
		if want[it.IndicatorCode] {
			out = append(out, it)
		}
	}
	return out
}
