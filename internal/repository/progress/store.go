// Package progress records which countries a run batch has finished.
//
// Each marker carries the country's derived topline facts, so a resumed run
// can rebuild the cross-country topline without reprocessing finished countries.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/wbindicators/internal/db"
	"github.com/kailas-cloud/wbindicators/internal/domain"
	domtopline "github.com/kailas-cloud/wbindicators/internal/domain/topline"
)

var keyPrefix = domain.KeyPrefix + "progress:"

// store is the consumer interface for progress marks (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type marker struct {
	FinishedAt time.Time         `json:"finished_at"`
	Toplines   []domtopline.Fact `json:"toplines,omitempty"`
}

// Store keeps one marker key per finished country.
type Store struct {
	store store
	ttl   time.Duration
	now   func() time.Time
}

// New creates a progress store. ttl bounds how long a batch can be resumed; 0 keeps marks forever.
func New(s store, ttl time.Duration) *Store {
	return &Store{store: s, ttl: ttl, now: time.Now}
}

// Done reports whether the country was finished in the batch and returns the
// topline facts recorded with it. An unreadable marker counts as not done.
func (s *Store) Done(ctx context.Context, batchID, iso3 string) ([]domtopline.Fact, bool, error) {
	key := Key(batchID, iso3)
	data, err := s.store.Get(ctx, key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("progress GET %s: %w", key, err)
	}
	var m marker
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false, fmt.Errorf("progress decode %s: %w", key, err)
	}
	return m.Toplines, true, nil
}

// MarkDone records the country as finished in the batch together with its facts.
func (s *Store) MarkDone(ctx context.Context, batchID, iso3 string, facts []domtopline.Fact) error {
	key := Key(batchID, iso3)
	data, err := json.Marshal(marker{FinishedAt: s.now().UTC(), Toplines: facts})
	if err != nil {
		return fmt.Errorf("progress encode %s: %w", key, err)
	}
	if err := s.store.SetWithTTL(ctx, key, data, s.ttl); err != nil {
		return fmt.Errorf("progress SET %s: %w", key, err)
	}
	return nil
}

// Reset forgets the country so the next resumed run processes it again.
func (s *Store) Reset(ctx context.Context, batchID, iso3 string) error {
	key := Key(batchID, iso3)
	if err := s.store.Del(ctx, key); err != nil {
		return fmt.Errorf("progress DEL %s: %w", key, err)
	}
	return nil
}

// Key builds the marker key for a batch and country.
func Key(batchID, iso3 string) string {
	return keyPrefix + batchID + ":" + strings.ToUpper(iso3)
}
