package progress

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/kailas-cloud/wbindicators/internal/db/memory"
	domtopline "github.com/kailas-cloud/wbindicators/internal/domain/topline"
)

// --- Mocks ---

type failingStore struct{ err error }

func (f failingStore) Get(_ context.Context, _ string) ([]byte, error) { return nil, f.err }
func (f failingStore) SetWithTTL(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return f.err
}
func (f failingStore) Del(_ context.Context, _ string) error { return f.err }

func newMemStore(t *testing.T) *memory.Store {
	t.Helper()
	mem, err := memory.NewStore(16)
	if err != nil {
		t.Fatalf("memory.NewStore: %v", err)
	}
	return mem
}

// --- Tests ---

func TestKey(t *testing.T) {
	if got := Key("run-1", "afg"); got != "wbindicators:progress:run-1:AFG" {
		t.Errorf("Key = %q", got)
	}
}

func TestMarkDoneThenDone(t *testing.T) {
	ctx := context.Background()
	s := New(newMemStore(t), time.Hour)

	if _, done, err := s.Done(ctx, "run-1", "AFG"); err != nil || done {
		t.Fatalf("Done before mark = %v, %v", done, err)
	}
	if err := s.MarkDone(ctx, "run-1", "AFG", nil); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
	if _, done, _ := s.Done(ctx, "run-1", "AFG"); !done {
		t.Error("expected AFG done in run-1")
	}
	if _, done, _ := s.Done(ctx, "run-2", "AFG"); done {
		t.Error("marks must be scoped to the batch")
	}

	if err := s.Reset(ctx, "run-1", "AFG"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, done, _ := s.Done(ctx, "run-1", "AFG"); done {
		t.Error("expected AFG pending after reset")
	}
}

func TestMarkDone_KeepsToplines(t *testing.T) {
	ctx := context.Background()
	s := New(newMemStore(t), time.Hour)
	facts := []domtopline.Fact{{
		CountryISO3: "AFG", IndicatorCode: "SP.POP.TOTL", Indicator: "Population, total",
		Source: domtopline.Source, Year: 2022, Unit: "people", Value: 41128771,
	}}

	if err := s.MarkDone(ctx, "run-1", "AFG", facts); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
	got, done, err := s.Done(ctx, "run-1", "AFG")
	if err != nil || !done {
		t.Fatalf("Done = %v, %v", done, err)
	}
	if !reflect.DeepEqual(got, facts) {
		t.Errorf("facts = %+v, want %+v", got, facts)
	}
}

func TestDone_CorruptMarker(t *testing.T) {
	ctx := context.Background()
	mem := newMemStore(t)
	if err := mem.Set(ctx, Key("run-1", "AFG"), []byte("2024-01-01T00:00:00Z")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	s := New(mem, time.Hour)

	if _, done, err := s.Done(ctx, "run-1", "AFG"); err == nil || done {
		t.Errorf("Done = %v, %v; want not done with error", done, err)
	}
}

func TestErrorsWrapped(t *testing.T) {
	boom := errors.New("boom")
	s := New(failingStore{err: boom}, 0)
	ctx := context.Background()

	if _, _, err := s.Done(ctx, "b", "AFG"); !errors.Is(err, boom) {
		t.Errorf("Done err = %v", err)
	}
	if err := s.MarkDone(ctx, "b", "AFG", nil); !errors.Is(err, boom) {
		t.Errorf("MarkDone err = %v", err)
	}
	if err := s.Reset(ctx, "b", "AFG"); !errors.Is(err, boom) {
		t.Errorf("Reset err = %v", err)
	}
}
