// Package redis backs the pipeline cache and resume markers with Redis or Valkey.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/wbindicators/internal/db"
)

var _ db.Store = (*Store)(nil)

const defaultPollInterval = 100 * time.Millisecond

// Config holds connection parameters. Valkey speaks the same protocol.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
}

// Store is a db.Store over a rueidis client. Client-side caching is off:
// every entry is written once per run and read back at most a few times.
type Store struct {
	client       rueidis.Client
	pollInterval time.Duration
}

// NewStore connects to the first reachable address.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, errors.New("cache addrs are required")
	}
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect cache %v: %w", cfg.Addrs, err)
	}
	return newStore(client), nil
}

func newStore(c rueidis.Client) *Store {
	return &Store{client: c, pollInterval: defaultPollInterval}
}

// Ping sends PING.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases the connections.
func (s *Store) Close() { s.client.Close() }

// WaitForReady pings immediately and then every poll interval until the store
// answers or timeout elapses. The last ping error is reported on timeout.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var last error
	for {
		if last = s.Ping(ctx); last == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("cache not ready after %s: %w", timeout, errors.Join(ctx.Err(), last))
		case <-time.After(s.pollInterval):
		}
	}
}
