package chart

import (
	"reflect"
	"testing"
)

func TestSlots(t *testing.T) {
	s := Slots{{Code: "A"}, {Code: "B"}}
	if s.Full() {
		t.Error("two slots should not be full")
	}
	if !reflect.DeepEqual(s.Codes(), []string{"A", "B"}) {
		t.Errorf("Codes() = %v", s.Codes())
	}
	s = append(s, Pick{Code: "C"})
	if !s.Full() {
		t.Error("three slots should be full")
	}
}

func TestNewView(t *testing.T) {
	v := NewView(0, Slots{{Code: "A", Title: "a", Unit: "%"}})
	if v.Resource != 0 || len(v.Bites) != 1 {
		t.Fatalf("unexpected view: %+v", v)
	}
	if v.Bites[0].Code != "A" || v.Bites[0].Disabled {
		t.Errorf("bite = %+v", v.Bites[0])
	}
}

func TestNewHeadlineView(t *testing.T) {
	heads := []Pick{{Code: "SP.POP.TOTL"}, {Code: "NY.GDP.MKTP.CD"}, {Code: "SE.PRM.ENRR"}}
	v := NewHeadlineView(1, heads, []bool{false, true, true})
	if len(v.Bites) != 3 {
		t.Fatalf("bites = %d, want 3", len(v.Bites))
	}
	enabled := v.Enabled()
	if len(enabled) != 1 || enabled[0].Code != "SP.POP.TOTL" {
		t.Errorf("Enabled() = %+v", enabled)
	}

	// Missing flags default to enabled.
	v = NewHeadlineView(0, heads, nil)
	if len(v.Enabled()) != 3 {
		t.Errorf("Enabled() = %d, want 3", len(v.Enabled()))
	}
}
