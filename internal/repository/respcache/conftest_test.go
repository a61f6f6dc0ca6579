package respcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/wbindicators/internal/db"
	"github.com/kailas-cloud/wbindicators/internal/domain"
	"github.com/kailas-cloud/wbindicators/internal/domain/indicator"
)

// mockProvider counts calls per method.
type mockProvider struct {
	calls      map[string]int
	err        error
	page       domain.ObservationPage
	indicators []indicator.Indicator
	healthErr  error
}

func (m *mockProvider) hit(name string) error {
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[name]++
	return m.err
}

func (m *mockProvider) ListDataSources(_ context.Context) ([]domain.DataSource, error) {
	if err := m.hit("sources"); err != nil {
		return nil, err
	}
	return []domain.DataSource{{ID: "2", Name: "World Development Indicators", Available: true}}, nil
}

func (m *mockProvider) ListTopics(_ context.Context) ([]domain.TopicInfo, error) {
	if err := m.hit("topics"); err != nil {
		return nil, err
	}
	return []domain.TopicInfo{{ID: "17", Label: "Gender & Science"}}, nil
}

func (m *mockProvider) ListTopicIndicators(_ context.Context, _ string) ([]indicator.Indicator, error) {
	if err := m.hit("topic_indicators"); err != nil {
		return nil, err
	}
	return m.indicators, nil
}

func (m *mockProvider) ListCountries(_ context.Context) ([]domain.Country, error) {
	if err := m.hit("countries"); err != nil {
		return nil, err
	}
	return []domain.Country{{ISO3: "AFG", ISO2: "AF", Name: "Afghanistan", Region: "South Asia"}}, nil
}

func (m *mockProvider) FetchObservations(_ context.Context, _ string, _ []string, _ string) (domain.ObservationPage, error) {
	if err := m.hit("observations"); err != nil {
		return domain.ObservationPage{}, err
	}
	return m.page, nil
}

func (m *mockProvider) FetchLatestAcrossCountries(_ context.Context, _ []string, _ string) (domain.ObservationPage, error) {
	if err := m.hit("latest"); err != nil {
		return domain.ObservationPage{}, err
	}
	return m.page, nil
}

func (m *mockProvider) HealthCheck(_ context.Context) error { return m.healthErr }

// mockKVStore is an in-memory consumer store with injectable failures.
type mockKVStore struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mockKVStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

var errStoreDown = errors.New("store down")

func newTestProvider(t *testing.T, inner *mockProvider) (*Provider, *mockKVStore) {
	t.Helper()
	ms := newMockKVStore()
	return New(inner, ms, time.Hour, nil, zap.NewNop()), ms
}
