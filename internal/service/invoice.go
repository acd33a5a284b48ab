package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"shademy/internal/domain"
	"shademy/internal/redis"
)

// invoiceLockTTL bounds how long a synthesis lock can be held if a
// resolver dies mid-flight.
const invoiceLockTTL = 30 * time.Second

// InvoiceService resolves the invoice for a completed checkout session,
// lazily synthesizing one when the provider has not attached it yet.
type InvoiceService struct {
	gateway PaymentGateway
	cache   redis.InvoiceCacheInterface
	locks   redis.LockStoreInterface
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(gateway PaymentGateway, cache redis.InvoiceCacheInterface, locks redis.LockStoreInterface) *InvoiceService {
	return &InvoiceService{
		gateway: gateway,
		cache:   cache,
		locks:   locks,
	}
}

// InvoiceResult carries the resolved invoice URLs.
type InvoiceResult struct {
	InvoiceURL string
	InvoicePDF string
	Status     string // "existing" or "created"
}

// Resolve returns the invoice for a checkout session.
//
// A cached reference short-circuits everything, so a second call during
// the provider's invoice-generation lag never synthesizes a duplicate.
// The fallback path re-checks the session once, then creates an invoice
// under a per-session lock.
func (s *InvoiceService) Resolve(ctx context.Context, sessionID string) (*InvoiceResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}

	if cached := s.cachedResult(ctx, sessionID); cached != nil {
		return cached, nil
	}

	details, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		log.Printf("failed to retrieve session %s: %v", sessionID, err)
		return nil, ErrInvoiceLookupFailed
	}

	if details.Invoice != nil {
		return s.finish(ctx, details.Invoice, "existing"), nil
	}

	// Invoice generation lags checkout completion; check once more
	// before creating provider-side objects.
	details, err = s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		log.Printf("failed to re-check session %s: %v", sessionID, err)
		return nil, ErrInvoiceLookupFailed
	}
	if details.Invoice != nil {
		return s.finish(ctx, details.Invoice, "existing"), nil
	}

	if details.PaymentIntentID == "" {
		return nil, ErrInvoiceNotAvailable
	}

	return s.synthesize(ctx, details)
}

// synthesize creates a provider-side invoice for the session's payment.
// Runs under a per-session lock; a concurrent resolver holding the lock
// means an invoice is on its way, so the caller is told to retry.
func (s *InvoiceService) synthesize(ctx context.Context, details *SessionDetails) (*InvoiceResult, error) {
	acquired, err := s.locks.AcquireInvoiceLock(ctx, details.ID, invoiceLockTTL)
	if err != nil {
		log.Printf("invoice lock error for session %s: %v", details.ID, err)
		return nil, ErrInvoiceLookupFailed
	}
	if !acquired {
		return nil, ErrInvoiceNotAvailable
	}
	defer func() {
		if err := s.locks.ReleaseInvoiceLock(ctx, details.ID); err != nil {
			log.Printf("failed to release invoice lock for session %s: %v", details.ID, err)
		}
	}()

	// A concurrent resolver may have finished between our cache miss
	// and acquiring the lock.
	if cached := s.cachedResult(ctx, details.ID); cached != nil {
		return cached, nil
	}

	confirmation, err := s.gateway.GetPaymentConfirmation(ctx, details.PaymentIntentID)
	if err != nil {
		log.Printf("failed to retrieve payment %s: %v", details.PaymentIntentID, err)
		return nil, ErrInvoiceLookupFailed
	}
	if !confirmation.Succeeded {
		return nil, ErrInvoiceNotAvailable
	}

	customerID := details.CustomerID
	if customerID == "" {
		customerID = confirmation.CustomerID
	}
	if customerID == "" {
		return nil, ErrInvoiceNotAvailable
	}

	ref, err := s.gateway.CreateInvoice(ctx, InvoiceParams{
		CustomerID:  customerID,
		Amount:      details.AmountTotal,
		Currency:    details.Currency,
		Description: fmt.Sprintf("Payment for checkout session %s", details.ID),
	})
	if err != nil {
		log.Printf("failed to create invoice for session %s: %v", details.ID, err)
		return nil, ErrInvoiceLookupFailed
	}
	ref.SessionID = details.ID

	return s.finish(ctx, ref, "created"), nil
}

// cachedResult returns a previously resolved reference, or nil.
// Cache errors degrade to a miss.
func (s *InvoiceService) cachedResult(ctx context.Context, sessionID string) *InvoiceResult {
	cached, err := s.cache.Get(ctx, sessionID)
	if err != nil {
		log.Printf("invoice cache read failed for session %s: %v", sessionID, err)
		return nil
	}
	if cached == nil {
		return nil
	}
	return &InvoiceResult{InvoiceURL: cached.HostedURL, InvoicePDF: cached.PDFURL, Status: "existing"}
}

// finish caches the reference and builds the result.
func (s *InvoiceService) finish(ctx context.Context, ref *domain.InvoiceReference, status string) *InvoiceResult {
	err := s.cache.Set(ctx, &redis.CachedInvoice{
		SessionID: ref.SessionID,
		InvoiceID: ref.InvoiceID,
		HostedURL: ref.HostedURL,
		PDFURL:    ref.PDFURL,
	})
	if err != nil {
		log.Printf("invoice cache write failed for session %s: %v", ref.SessionID, err)
	}

	return &InvoiceResult{InvoiceURL: ref.HostedURL, InvoicePDF: ref.PDFURL, Status: status}
}
