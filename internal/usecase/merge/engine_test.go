package merge

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/wbindicators/internal/domain"
	"github.com/kailas-cloud/wbindicators/internal/domain/indicator"
	"github.com/kailas-cloud/wbindicators/internal/domain/observation"
	"github.com/kailas-cloud/wbindicators/internal/domain/topic"
	"github.com/kailas-cloud/wbindicators/internal/usecase/batch"
)

func genderTopic(t *testing.T) topic.Topic {
	t.Helper()
	var list []indicator.Indicator
	for _, c := range []struct{ code, name string }{
		{"SH.STA.MMRT", mmrtName},
		{"SG.LAW.CHMR", chmrName},
		{"SP.ADO.TFRT", tfrtName},
		{"SH.MMR.RISK", riskName},
	} {
		ind, err := indicator.New(c.code, c.name, "2", []string{"17"})
		if err != nil {
			t.Fatalf("indicator.New: %v", err)
		}
		list = append(list, ind)
	}
	tp, err := topic.New("17", "Gender & Science", "", []string{"gender", "science"}, topic.GroupBySource(list))
	if err != nil {
		t.Fatalf("topic.New: %v", err)
	}
	return tp
}

func TestMergeTopic_SingleBatch(t *testing.T) {
	f := &mockFetcher{pages: map[string]domain.ObservationPage{
		"SH.STA.MMRT;SG.LAW.CHMR;SP.ADO.TFRT;SH.MMR.RISK": {Total: 236, Pages: 1, Items: genderItems()},
	}}
	e := New(f, batch.Limits{IndicatorLimit: 60, CharacterLimit: 1400}, nil)

	res, err := e.MergeTopic(context.Background(), afghanistan, genderTopic(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.HasData() {
		t.Fatal("expected data")
	}
	if len(res.Rows) != 8 {
		t.Errorf("rows = %d, want 8 (null value dropped)", len(res.Rows))
	}
	if res.Years.Earliest() != 2016 || res.Years.Latest() != 2017 {
		t.Errorf("years = %d..%d, want 2016..2017", res.Years.Earliest(), res.Years.Latest())
	}
	if res.Series.Len() != 4 {
		t.Errorf("series codes = %d, want 4", res.Series.Len())
	}
	if _, ok := res.Series.Value("SH.STA.MMRT", 2018); ok {
		t.Error("null observation reached the series")
	}
	if res.Name("SP.ADO.TFRT") != tfrtName {
		t.Errorf("Name() = %q", res.Name("SP.ADO.TFRT"))
	}
	if len(f.calls) != 1 || f.calls[0].source != "2" || f.calls[0].country != "AFG" {
		t.Errorf("calls = %+v", f.calls)
	}
	for _, r := range res.Rows {
		if r.CountryName != "Afghanistan" {
			t.Errorf("row country name = %q", r.CountryName)
		}
	}
}

func TestMergeTopic_SplitBatchesMatchSingle(t *testing.T) {
	items := genderItems()
	f := &mockFetcher{pages: map[string]domain.ObservationPage{
		"SH.STA.MMRT;SG.LAW.CHMR": {Total: 236, Pages: 1, Items: filterItems(items, "SH.STA.MMRT", "SG.LAW.CHMR")},
		"SP.ADO.TFRT;SH.MMR.RISK": {Total: 236, Pages: 1, Items: filterItems(items, "SP.ADO.TFRT", "SH.MMR.RISK")},
	}}
	e := New(f, batch.Limits{IndicatorLimit: 60, CharacterLimit: 25, IndicatorSubtract: 2}, nil)

	res, err := e.MergeTopic(context.Background(), afghanistan, genderTopic(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(f.calls))
	}
	if len(res.Rows) != 8 {
		t.Errorf("rows = %d, want 8", len(res.Rows))
	}
}

func TestMergeTopic_NoData(t *testing.T) {
	e := New(&mockFetcher{}, batch.Limits{}, nil)
	res, err := e.MergeTopic(context.Background(), afghanistan, genderTopic(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.HasData() {
		t.Error("expected no data")
	}
	if !res.Years.Empty() {
		t.Error("expected empty year range")
	}
}

func TestMergeTopic_AllNullIsNoData(t *testing.T) {
	f := &mockFetcher{pages: map[string]domain.ObservationPage{
		"SH.STA.MMRT;SG.LAW.CHMR;SP.ADO.TFRT;SH.MMR.RISK": {
			Total: 1, Pages: 1,
			Items: []domain.RawObservation{raw("SH.STA.MMRT", mmrtName, "2018", nil)},
		},
	}}
	res, err := New(f, batch.Limits{}, nil).MergeTopic(context.Background(), afghanistan, genderTopic(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.HasData() {
		t.Error("null-only response should be no data")
	}
}

func TestFetchAndMerge_MultiPageIsFatal(t *testing.T) {
	f := &mockFetcher{pages: map[string]domain.ObservationPage{
		"A;B": {Total: 10, Pages: 2},
	}}
	err := New(f, batch.Limits{}, nil).
		FetchAndMerge(context.Background(), afghanistan, "2", [][]string{{"A", "B"}, {"C"}}, NewResult())

	var pce *domain.PageCountError
	if !errors.As(err, &pce) {
		t.Fatalf("expected PageCountError, got %v", err)
	}
	if pce.Pages != 2 || pce.Codes != "A;B" || pce.SourceID != "2" {
		t.Errorf("unexpected error fields: %+v", pce)
	}
	if !domain.IsFatal(err) {
		t.Error("multi-page should be fatal")
	}
	if len(f.calls) != 1 {
		t.Errorf("calls = %d, want 1 (abort after fatal batch)", len(f.calls))
	}
}

func TestFetchAndMerge_ZeroTotalSkippedBeforePageCheck(t *testing.T) {
	f := &mockFetcher{pages: map[string]domain.ObservationPage{
		"A": {Total: 0, Pages: 0},
	}}
	if err := New(f, batch.Limits{}, nil).
		FetchAndMerge(context.Background(), afghanistan, "2", [][]string{{"A"}}, NewResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFetchAndMerge_ProviderError(t *testing.T) {
	f := &mockFetcher{errs: map[string]error{"A": domain.ErrRateLimited}}
	err := New(f, batch.Limits{}, nil).
		FetchAndMerge(context.Background(), afghanistan, "2", [][]string{{"A"}}, NewResult())
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if domain.IsFatal(err) {
		t.Error("transport errors are not configuration-fatal")
	}
}

func TestFetchAndMerge_AccumulatesAcrossCalls(t *testing.T) {
	f := &mockFetcher{pages: map[string]domain.ObservationPage{
		"X": {Total: 1, Pages: 1, Items: []domain.RawObservation{raw("X", "x", "2016", ptr(1))}},
		"Y": {Total: 1, Pages: 1, Items: []domain.RawObservation{raw("Y", "y", "2019", ptr(2))}},
	}}
	e := New(f, batch.Limits{}, nil)
	res := NewResult()
	if err := e.FetchAndMerge(context.Background(), afghanistan, "2", [][]string{{"X"}}, res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.FetchAndMerge(context.Background(), afghanistan, "11", [][]string{{"Y"}}, res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 2 || res.Years.Earliest() != 2016 || res.Years.Latest() != 2019 {
		t.Errorf("rows=%d years=%d..%d", len(res.Rows), res.Years.Earliest(), res.Years.Latest())
	}
}

func TestFetchAndMerge_LaterValueOverwrites(t *testing.T) {
	f := &mockFetcher{pages: map[string]domain.ObservationPage{
		"X": {Total: 2, Pages: 1, Items: []domain.RawObservation{
			raw("X", "x", "2016", ptr(1)),
			raw("X", "x", "2016", ptr(5)),
		}},
	}}
	res := NewResult()
	if err := New(f, batch.Limits{}, nil).
		FetchAndMerge(context.Background(), afghanistan, "2", [][]string{{"X"}}, res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := res.Series.Value("X", 2016); v != 5 {
		t.Errorf("series value = %v, want 5", v)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(res.Rows))
	}
	if res.Rows[0].Value != 5 {
		t.Errorf("row value = %v, want 5", res.Rows[0].Value)
	}
}

func TestResultAdd_RepeatedPointReplacesRow(t *testing.T) {
	res := NewResult()
	res.Add(observation.Observation{CountryISO3: "AFG", IndicatorCode: "X", Year: 2000, Value: 1})
	res.Add(observation.Observation{CountryISO3: "AFG", IndicatorCode: "Y", Year: 2000, Value: 3})
	res.Add(observation.Observation{CountryISO3: "AFG", IndicatorCode: "X", Year: 2000, Value: 2})

	if len(res.Rows) != 2 {
		t.Fatalf("rows = %d, want 2: %+v", len(res.Rows), res.Rows)
	}
	if res.Rows[0].IndicatorCode != "X" || res.Rows[0].Value != 2 {
		t.Errorf("rows[0] = %+v, want X=2 in first position", res.Rows[0])
	}
	for _, row := range res.Rows {
		if v, _ := res.Series.Value(row.IndicatorCode, row.Year); v != row.Value {
			t.Errorf("%s/%d row=%v series=%v", row.IndicatorCode, row.Year, row.Value, v)
		}
	}
}

func TestFetchAndMerge_NonAnnualDateSkipped(t *testing.T) {
	f := &mockFetcher{pages: map[string]domain.ObservationPage{
		"X": {Total: 2, Pages: 1, Items: []domain.RawObservation{
			raw("X", "x", "2016Q1", ptr(1)),
			raw("X", "x", "2016", ptr(2)),
		}},
	}}
	res := NewResult()
	if err := New(f, batch.Limits{}, nil).
		FetchAndMerge(context.Background(), afghanistan, "2", [][]string{{"X"}}, res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 1 {
		t.Errorf("rows = %d, want 1", len(res.Rows))
	}
}

func TestFetchAndMerge_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New(&mockFetcher{}, batch.Limits{}, nil).
		FetchAndMerge(ctx, afghanistan, "2", [][]string{{"X"}}, NewResult())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFetchAndMerge_Metrics(t *testing.T) {
	batches := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_batches_total"}, []string{"result"})
	obs := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_observations_total"})
	f := &mockFetcher{pages: map[string]domain.ObservationPage{
		"X": {Total: 1, Pages: 1, Items: []domain.RawObservation{raw("X", "x", "2016", ptr(1))}},
	}}
	e := New(f, batch.Limits{}, nil).WithMetrics(batches, obs)
	if err := e.FetchAndMerge(context.Background(), afghanistan, "2", [][]string{{"X"}, {"Y"}}, NewResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := testutil.ToFloat64(batches.WithLabelValues("merged")); v != 1 {
		t.Errorf("merged = %v, want 1", v)
	}
	if v := testutil.ToFloat64(batches.WithLabelValues("empty")); v != 1 {
		t.Errorf("empty = %v, want 1", v)
	}
	if v := testutil.ToFloat64(obs); v != 1 {
		t.Errorf("observations = %v, want 1", v)
	}
}

func TestRemerge_Idempotent(t *testing.T) {
	f := &mockFetcher{pages: map[string]domain.ObservationPage{
		"SH.STA.MMRT;SG.LAW.CHMR;SP.ADO.TFRT;SH.MMR.RISK": {Total: 236, Pages: 1, Items: genderItems()},
	}}
	res, err := New(f, batch.Limits{}, nil).MergeTopic(context.Background(), afghanistan, genderTopic(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	again := Remerge(res.Rows)
	if again.Years != res.Years {
		t.Errorf("years changed: %+v vs %+v", again.Years, res.Years)
	}
	for _, code := range res.Series.Codes() {
		for year, v := range res.Series.Values(code) {
			if got, ok := again.Series.Value(code, year); !ok || got != v {
				t.Errorf("%s/%d = %v,%v want %v", code, year, got, ok, v)
			}
		}
	}
}
