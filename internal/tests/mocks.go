package tests

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"shademy/internal/domain"
	"shademy/internal/redis"
	"shademy/internal/repository"
	"shademy/internal/service"
)

// ──────────────────────────────────────────────
// MOCK PAYMENT CODE REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentCodeRepository is a mock implementation of PaymentCodeRepository.
type MockPaymentCodeRepository struct {
	mu    sync.RWMutex
	codes map[string]*domain.PaymentCode

	// Counters for verification
	ClaimCallCount    int32
	ReleaseCallCount  int32
	MarkUsedCallCount int32

	// Error injection
	ClaimError    error
	ReleaseError  error
	MarkUsedError error
}

// NewMockPaymentCodeRepository creates a new mock payment code repository.
func NewMockPaymentCodeRepository() *MockPaymentCodeRepository {
	return &MockPaymentCodeRepository{
		codes: make(map[string]*domain.PaymentCode),
	}
}

// AddCode adds a code to the mock repository.
func (m *MockPaymentCodeRepository) AddCode(pc *domain.PaymentCode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[pc.Code] = pc
}

func (m *MockPaymentCodeRepository) ClaimUnused(ctx context.Context, code string) (*domain.PaymentCode, error) {
	atomic.AddInt32(&m.ClaimCallCount, 1)
	if m.ClaimError != nil {
		return nil, m.ClaimError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	pc, ok := m.codes[code]
	if !ok || pc.Used || pc.Claimed {
		return nil, repository.ErrNotFound
	}
	pc.Claimed = true
	// Return a copy to avoid mutation issues.
	copy := *pc
	return &copy, nil
}

func (m *MockPaymentCodeRepository) ReleaseClaim(ctx context.Context, code string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	if m.ReleaseError != nil {
		return m.ReleaseError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if pc, ok := m.codes[code]; ok && !pc.Used {
		pc.Claimed = false
	}
	return nil
}

func (m *MockPaymentCodeRepository) MarkUsed(ctx context.Context, code string) (bool, error) {
	atomic.AddInt32(&m.MarkUsedCallCount, 1)
	if m.MarkUsedError != nil {
		return false, m.MarkUsedError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	pc, ok := m.codes[code]
	if !ok || pc.Used {
		return false, nil // Conditional update affected no rows.
	}
	pc.Used = true
	return true, nil
}

func (m *MockPaymentCodeRepository) GetByCode(ctx context.Context, code string) (*domain.PaymentCode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pc, ok := m.codes[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *pc
	return &copy, nil
}

// GetCode returns a code for test assertions.
func (m *MockPaymentCodeRepository) GetCode(code string) *domain.PaymentCode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.codes[code]
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.SessionBooking

	// Counters
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.SessionBooking),
	}
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.SessionBooking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MockBookingRepository) UpdateStatusBySessionID(ctx context.Context, stripeSessionID string, status domain.BookingStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.StripeSessionID == stripeSessionID {
			b.Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

// GetBySessionID returns a booking for test assertions.
func (m *MockBookingRepository) GetBySessionID(stripeSessionID string) *domain.SessionBooking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookings {
		if b.StripeSessionID == stripeSessionID {
			return b
		}
	}
	return nil
}

// CountBookings returns the number of bookings.
func (m *MockBookingRepository) CountBookings() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bookings)
}

// ──────────────────────────────────────────────
// MOCK PAYMENT GATEWAY
// ──────────────────────────────────────────────

// MockPaymentGateway is a mock implementation of service.PaymentGateway.
type MockPaymentGateway struct {
	mu            sync.Mutex
	sessions      map[string]*service.SessionDetails
	confirmations map[string]*service.PaymentConfirmation
	nextSession   int

	// Counters
	CreateSessionCallCount int32
	GetSessionCallCount    int32
	GetPaymentCallCount    int32
	CreateInvoiceCallCount int32

	// Error injection
	CreateSessionError error
	GetSessionError    error
	GetPaymentError    error
	CreateInvoiceError error

	// Captured input
	LastSessionParams service.CheckoutSessionParams
	LastInvoiceParams service.InvoiceParams
}

// NewMockPaymentGateway creates a new mock payment gateway.
func NewMockPaymentGateway() *MockPaymentGateway {
	return &MockPaymentGateway{
		sessions:      make(map[string]*service.SessionDetails),
		confirmations: make(map[string]*service.PaymentConfirmation),
	}
}

func (m *MockPaymentGateway) CreateCheckoutSession(ctx context.Context, params service.CheckoutSessionParams) (*service.CheckoutSession, error) {
	atomic.AddInt32(&m.CreateSessionCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastSessionParams = params
	if m.CreateSessionError != nil {
		return nil, m.CreateSessionError
	}
	m.nextSession++
	id := fmt.Sprintf("cs_test_%d", m.nextSession)
	m.sessions[id] = &service.SessionDetails{
		ID:          id,
		AmountTotal: params.UnitAmount,
		Currency:    params.Currency,
	}
	return &service.CheckoutSession{
		ID:  id,
		URL: "https://checkout.stripe.com/c/pay/" + id,
	}, nil
}

func (m *MockPaymentGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*service.SessionDetails, error) {
	atomic.AddInt32(&m.GetSessionCallCount, 1)
	if m.GetSessionError != nil {
		return nil, m.GetSessionError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	details, ok := m.sessions[sessionID]
	if !ok {
		return nil, errors.New("mock: no such session")
	}
	copy := *details
	return &copy, nil
}

func (m *MockPaymentGateway) GetPaymentConfirmation(ctx context.Context, paymentIntentID string) (*service.PaymentConfirmation, error) {
	atomic.AddInt32(&m.GetPaymentCallCount, 1)
	if m.GetPaymentError != nil {
		return nil, m.GetPaymentError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	confirmation, ok := m.confirmations[paymentIntentID]
	if !ok {
		return nil, errors.New("mock: no such payment intent")
	}
	copy := *confirmation
	return &copy, nil
}

func (m *MockPaymentGateway) CreateInvoice(ctx context.Context, params service.InvoiceParams) (*domain.InvoiceReference, error) {
	atomic.AddInt32(&m.CreateInvoiceCallCount, 1)
	if m.CreateInvoiceError != nil {
		return nil, m.CreateInvoiceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastInvoiceParams = params
	return &domain.InvoiceReference{
		InvoiceID: "in_test_1",
		HostedURL: "https://invoice.stripe.com/i/in_test_1",
		PDFURL:    "https://pay.stripe.com/invoice/in_test_1/pdf",
	}, nil
}

// SetSessionDetails overrides a stored session (for test setup).
func (m *MockPaymentGateway) SetSessionDetails(details *service.SessionDetails) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[details.ID] = details
}

// SetPaymentConfirmation registers a payment intent (for test setup).
func (m *MockPaymentGateway) SetPaymentConfirmation(confirmation *service.PaymentConfirmation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmations[confirmation.ID] = confirmation
}

// AttachPaymentIntent links a payment intent to a stored session.
func (m *MockPaymentGateway) AttachPaymentIntent(sessionID, paymentIntentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if details, ok := m.sessions[sessionID]; ok {
		details.PaymentIntentID = paymentIntentID
	}
}

// ──────────────────────────────────────────────
// MOCK INVOICE CACHE
// ──────────────────────────────────────────────

// MockInvoiceCache is a mock implementation of InvoiceCache.
type MockInvoiceCache struct {
	mu      sync.RWMutex
	entries map[string]*redis.CachedInvoice

	// Counters
	GetCallCount int32
	SetCallCount int32

	// Error injection
	GetError error
	SetError error
}

// NewMockInvoiceCache creates a new mock invoice cache.
func NewMockInvoiceCache() *MockInvoiceCache {
	return &MockInvoiceCache{
		entries: make(map[string]*redis.CachedInvoice),
	}
}

func (m *MockInvoiceCache) Get(ctx context.Context, sessionID string) (*redis.CachedInvoice, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	inv, ok := m.entries[sessionID]
	if !ok {
		return nil, nil // Cache miss
	}
	copy := *inv
	return &copy, nil
}

func (m *MockInvoiceCache) Set(ctx context.Context, inv *redis.CachedInvoice) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[inv.SessionID] = inv
	return nil
}

func (m *MockInvoiceCache) Invalidate(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
	return nil
}

// GetEntry returns a cached invoice for test assertions.
func (m *MockInvoiceCache) GetEntry(sessionID string) *redis.CachedInvoice {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[sessionID]
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStore.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireInvoiceLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := "lock:invoice:" + sessionID
	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) ReleaseInvoiceLock(ctx context.Context, sessionID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, "lock:invoice:"+sessionID)
	return nil
}

// IsLocked checks if a session's invoice lock is held (for test assertions).
func (m *MockLockStore) IsLocked(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks["lock:invoice:"+sessionID]
	return exists && time.Now().Before(expiry)
}
