package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// InvoiceCache stores resolved invoice references in Redis so a second
// resolver call short-circuits instead of hitting the payment provider
// (and possibly synthesizing a duplicate invoice).
type InvoiceCache struct {
	client *redis.Client
}

// NewInvoiceCache creates a new InvoiceCache.
func NewInvoiceCache(client *redis.Client) *InvoiceCache {
	return &InvoiceCache{client: client}
}

// InvoiceCacheTTL bounds how long a resolved reference is kept.
// Invoice URLs are stable, so this mainly caps key growth.
const InvoiceCacheTTL = 24 * time.Hour

const invoiceCachePrefix = "cache:invoice:"

// CachedInvoice is the cached view of a resolved invoice.
type CachedInvoice struct {
	SessionID string `json:"session_id"`
	InvoiceID string `json:"invoice_id"`
	HostedURL string `json:"hosted_url"`
	PDFURL    string `json:"pdf_url"`
}

// Get retrieves an invoice reference from cache. Returns nil on a miss.
func (s *InvoiceCache) Get(ctx context.Context, sessionID string) (*CachedInvoice, error) {
	key := invoiceCachePrefix + sessionID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var inv CachedInvoice
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Set stores an invoice reference in cache.
func (s *InvoiceCache) Set(ctx context.Context, inv *CachedInvoice) error {
	key := invoiceCachePrefix + inv.SessionID
	data, err := json.Marshal(inv)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, InvoiceCacheTTL).Err()
}

// Invalidate removes an invoice reference from cache.
func (s *InvoiceCache) Invalidate(ctx context.Context, sessionID string) error {
	key := invoiceCachePrefix + sessionID
	return s.client.Del(ctx, key).Err()
}
