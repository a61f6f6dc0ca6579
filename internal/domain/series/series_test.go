package series

import (
	"reflect"
	"testing"
)

func TestSet_LaterValueOverwrites(t *testing.T) {
	s := New()
	s.Set("SP.POP.TOTL", 2017, 1)
	s.Set("SP.POP.TOTL", 2017, 2)

	v, ok := s.Value("SP.POP.TOTL", 2017)
	if !ok || v != 2 {
		t.Errorf("Value() = %v, %v, want 2, true", v, ok)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}

	// Re-applying identical input leaves the series unchanged.
	s.Set("SP.POP.TOTL", 2017, 2)
	if v, _ := s.Value("SP.POP.TOTL", 2017); v != 2 {
		t.Errorf("after repeat Value() = %v, want 2", v)
	}
	if len(s.Values("SP.POP.TOTL")) != 1 {
		t.Errorf("Values() len = %d, want 1", len(s.Values("SP.POP.TOTL")))
	}
}

func TestCodes_InsertionOrder(t *testing.T) {
	s := New()
	for _, c := range []string{"SH.STA.MMRT", "SG.LAW.CHMR", "SP.ADO.TFRT", "SG.LAW.CHMR"} {
		s.Set(c, 2016, 1)
	}
	want := []string{"SH.STA.MMRT", "SG.LAW.CHMR", "SP.ADO.TFRT"}
	if got := s.Codes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Codes() = %v, want %v", got, want)
	}
}

func TestByCodeLength(t *testing.T) {
	s := New()
	for _, c := range []string{"AAAA.1", "B.1", "CCCCCC.1", "D.2", "EE.1"} {
		s.Set(c, 2000, 0)
	}
	want := []string{"B.1", "D.2", "EE.1", "AAAA.1", "CCCCCC.1"}
	if got := s.ByCodeLength(); !reflect.DeepEqual(got, want) {
		t.Errorf("ByCodeLength() = %v, want %v", got, want)
	}
	if got := s.Codes(); got[0] != "AAAA.1" {
		t.Errorf("ByCodeLength mutated insertion order: %v", got)
	}
}

func TestDistinct(t *testing.T) {
	s := New()
	s.Set("X", 2016, 1)
	s.Set("X", 2017, 1)
	s.Set("Y", 2016, 1)
	s.Set("Y", 2017, 2)

	if got := s.Distinct("X"); got != 1 {
		t.Errorf("Distinct(X) = %d, want 1", got)
	}
	if got := s.Distinct("Y"); got != 2 {
		t.Errorf("Distinct(Y) = %d, want 2", got)
	}
	if got := s.Distinct("missing"); got != 0 {
		t.Errorf("Distinct(missing) = %d, want 0", got)
	}
}

func TestValue_Missing(t *testing.T) {
	s := New()
	if _, ok := s.Value("X", 2000); ok {
		t.Error("expected missing value")
	}
	if s.Values("X") != nil {
		t.Error("expected nil values for unknown code")
	}
}
