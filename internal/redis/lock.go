package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireInvoiceLock attempts to acquire the invoice-synthesis lock for a
// checkout session, so concurrent resolver calls cannot both create a
// provider-side invoice. Returns true if the lock was acquired.
func (s *LockStore) AcquireInvoiceLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:invoice:%s", sessionID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseInvoiceLock releases the invoice-synthesis lock for a session.
func (s *LockStore) ReleaseInvoiceLock(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf("lock:invoice:%s", sessionID)

	return s.client.Del(ctx, key).Err()
}
