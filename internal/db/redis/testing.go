package redis

import (
	"time"

	"github.com/redis/rueidis"
)

// NewStoreForTest wraps an existing client, typically a rueidis mock.
func NewStoreForTest(c rueidis.Client) *Store {
	s := newStore(c)
	s.pollInterval = 10 * time.Millisecond
	return s
}
