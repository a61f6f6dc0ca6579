package chart

import (
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	domchart "github.com/kailas-cloud/wbindicators/internal/domain/chart"
	"github.com/kailas-cloud/wbindicators/internal/domain/series"
)

func TestSelect_GenderTopic(t *testing.T) {
	s := series.New()
	s.Set("SH.STA.MMRT", 2017, 638)
	s.Set("SH.STA.MMRT", 2016, 673)
	s.Set("SG.LAW.CHMR", 2017, 1)
	s.Set("SG.LAW.CHMR", 2016, 1)
	s.Set("SP.ADO.TFRT", 2017, 68.957)
	s.Set("SP.ADO.TFRT", 2016, 75.325)
	s.Set("SH.MMR.RISK", 2017, 33)
	s.Set("SH.MMR.RISK", 2016, 30)

	names := map[string]string{
		"SH.STA.MMRT": "Maternal mortality ratio (modeled estimate, per 100,000 live births)",
		"SG.LAW.CHMR": "Law prohibits or invalidates child or early marriage (1=yes; 0=no)",
		"SP.ADO.TFRT": "Adolescent fertility rate (births per 1,000 women ages 15-19)",
		"SH.MMR.RISK": "Lifetime risk of maternal death (1 in:  rate varies by country)",
	}

	want := domchart.Slots{
		{
			Code:  "SH.STA.MMRT",
			Title: "Maternal mortality ratio (modeled estimate, per 100,000 live births)",
			Unit:  "modeled estimate, per 100,000 live births",
		},
		{
			Code:  "SP.ADO.TFRT",
			Title: "Adolescent fertility rate (births per 1,000 women ages 15-19)",
			Unit:  "births per 1,000 women ages 15-19",
		},
		{
			Code:  "SH.MMR.RISK",
			Title: "Lifetime risk of maternal death (1 in:  rate varies by country)",
			Unit:  "1 in:  rate varies by country",
		},
	}
	if got := Select(s, names, nil); !reflect.DeepEqual(got, want) {
		t.Errorf("Select() = %+v\nwant %+v", got, want)
	}
}

func TestSelect_ConstantNeverPicked(t *testing.T) {
	s := series.New()
	s.Set("A", 2016, 1)
	s.Set("A", 2017, 1)
	s.Set("B", 2016, 3) // single year
	if got := Select(s, nil, nil); len(got) != 0 {
		t.Errorf("Select() = %+v, want none", got)
	}
}

func TestSelect_LengthThenInsertionOrder(t *testing.T) {
	s := series.New()
	for _, code := range []string{"LONGER.CODE", "BB.2", "AAA.1", "CC.3", "D.4"} {
		s.Set(code, 2016, 1)
		s.Set(code, 2017, 2)
	}
	got := Select(s, nil, nil).Codes()
	want := []string{"D.4", "BB.2", "CC.3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Select() = %v, want %v", got, want)
	}
}

func TestSelect_Empty(t *testing.T) {
	if got := Select(series.New(), nil, nil); len(got) != 0 {
		t.Errorf("Select() = %+v", got)
	}
}

func TestSelect_UnitFallbackLogged(t *testing.T) {
	s := series.New()
	s.Set("SI.POV.DDAY", 2016, 1)
	s.Set("SI.POV.DDAY", 2017, 2)
	s.Set("SP.POP.TOTL", 2016, 10)
	s.Set("SP.POP.TOTL", 2017, 11)
	names := map[string]string{
		"SI.POV.DDAY": "Poverty Headcount ($1.90 a day)",
		"SP.POP.TOTL": "Population, total",
	}
	core, logs := observer.New(zapcore.WarnLevel)

	got := Select(s, names, zap.New(core))

	if len(got) != 2 {
		t.Fatalf("slots = %+v", got)
	}
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(entries))
	}
	if code := entries[0].ContextMap()["indicator_code"]; code != "SI.POV.DDAY" {
		t.Errorf("indicator_code = %v", code)
	}
}
