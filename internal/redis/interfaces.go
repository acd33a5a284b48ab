package redis

import (
	"context"
	"time"
)

// InvoiceCacheInterface defines the interface for invoice-reference caching.
type InvoiceCacheInterface interface {
	Get(ctx context.Context, sessionID string) (*CachedInvoice, error)
	Set(ctx context.Context, inv *CachedInvoice) error
	Invalidate(ctx context.Context, sessionID string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireInvoiceLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)
	ReleaseInvoiceLock(ctx context.Context, sessionID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ InvoiceCacheInterface = (*InvoiceCache)(nil)
	_ LockStoreInterface    = (*LockStore)(nil)
)
