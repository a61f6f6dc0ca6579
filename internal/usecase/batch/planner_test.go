package batch

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/kailas-cloud/wbindicators/internal/domain"
)

var genderCodes = []string{"SH.STA.MMRT", "SG.LAW.CHMR", "SP.ADO.TFRT", "SH.MMR.RISK"}

func TestPlan_SingleBatch(t *testing.T) {
	got, err := Plan(genderCodes, Limits{IndicatorLimit: 60, CharacterLimit: 1400})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || !reflect.DeepEqual(got[0], genderCodes) {
		t.Errorf("Plan() = %v", got)
	}
}

func TestPlan_ShrinkByCharacterLimit(t *testing.T) {
	got, err := Plan(genderCodes, Limits{IndicatorLimit: 60, CharacterLimit: 25, IndicatorSubtract: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{
		{"SH.STA.MMRT", "SG.LAW.CHMR"},
		{"SP.ADO.TFRT", "SH.MMR.RISK"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Plan() = %v, want %v", got, want)
	}
}

func TestPlan_IndicatorLimit(t *testing.T) {
	got, err := Plan(genderCodes, Limits{IndicatorLimit: 3, CharacterLimit: 1400})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || len(got[0]) != 3 || len(got[1]) != 1 {
		t.Errorf("Plan() = %v", got)
	}
}

func TestPlan_Empty(t *testing.T) {
	got, err := Plan(nil, Limits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Plan(nil) = %v", got)
	}
}

func TestPlan_CodeLongerThanBudget(t *testing.T) {
	_, err := Plan(genderCodes, Limits{IndicatorLimit: 60, CharacterLimit: 5})
	if !errors.Is(err, domain.ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
	if !domain.IsFatal(err) {
		t.Error("empty batch should be fatal")
	}
}

func TestPlan_NegativeLimits(t *testing.T) {
	_, err := Plan(genderCodes, Limits{IndicatorLimit: -1})
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestPlan_BatchesAreIndependentSlices(t *testing.T) {
	got, err := Plan(genderCodes, Limits{IndicatorLimit: 2, CharacterLimit: 1400})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got[0] = append(got[0], "X")
	if got[1][0] != "SP.ADO.TFRT" {
		t.Errorf("appending to a batch overwrote the next one: %v", got[1])
	}
}

func TestPlan_Properties(t *testing.T) {
	codes := make([]string, 0, 97)
	for i := range 97 {
		// Vary code length so shrink steps land on different boundaries.
		codes = append(codes, fmt.Sprintf("IND.%0*d", 1+i%7, i))
	}

	for _, limits := range []Limits{
		{IndicatorLimit: 60, CharacterLimit: 1400, IndicatorSubtract: 1},
		{IndicatorLimit: 10, CharacterLimit: 40, IndicatorSubtract: 1},
		{IndicatorLimit: 25, CharacterLimit: 90, IndicatorSubtract: 3},
		{IndicatorLimit: 1, CharacterLimit: 12, IndicatorSubtract: 1},
	} {
		t.Run(fmt.Sprintf("%+v", limits), func(t *testing.T) {
			batches, err := Plan(codes, limits)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var flat []string
			for _, b := range batches {
				if len(b) == 0 {
					t.Fatal("empty batch")
				}
				if len(b) > limits.IndicatorLimit {
					t.Errorf("batch of %d exceeds indicator limit", len(b))
				}
				if n := len(Join(b)); n > limits.CharacterLimit {
					t.Errorf("batch length %d exceeds character limit", n)
				}
				flat = append(flat, b...)
			}
			if !reflect.DeepEqual(flat, codes) {
				t.Error("batches do not concatenate to the input")
			}
		})
	}
}

func TestLimits_Normalize(t *testing.T) {
	l := Limits{}.Normalize()
	if l.IndicatorLimit != DefaultIndicatorLimit || l.CharacterLimit != DefaultCharacterLimit ||
		l.IndicatorSubtract != DefaultIndicatorSubtract {
		t.Errorf("Normalize() = %+v", l)
	}
}
