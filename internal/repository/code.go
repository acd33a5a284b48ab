package repository

import (
	"context"

	"shademy/internal/domain"
)

// PaymentCodeRepository defines the persistence operations for payment codes.
type PaymentCodeRepository interface {
	// ClaimUnused atomically claims an unused code for redemption.
	// Returns ErrNotFound when the code does not exist, is already used,
	// or is already claimed - the three cases are indistinguishable so
	// callers cannot probe for code existence.
	ClaimUnused(ctx context.Context, code string) (*domain.PaymentCode, error)

	// ReleaseClaim rolls back a claim after a failed session creation so
	// the payer can retry. No-op if the code was consumed in the meantime.
	ReleaseClaim(ctx context.Context, code string) error

	// MarkUsed conditionally consumes a code. Returns true if this call
	// transitioned the row; false means the code was already consumed
	// (an idempotent no-op under webhook redelivery).
	MarkUsed(ctx context.Context, code string) (bool, error)

	// GetByCode retrieves a code regardless of its flags.
	GetByCode(ctx context.Context, code string) (*domain.PaymentCode, error)
}

// BookingRepository defines the persistence operations for session bookings.
type BookingRepository interface {
	// Create persists a new booking audit record.
	Create(ctx context.Context, booking *domain.SessionBooking) error

	// UpdateStatusBySessionID updates the booking linked to a checkout
	// session. Returns ErrNotFound if no booking references the session.
	UpdateStatusBySessionID(ctx context.Context, stripeSessionID string, status domain.BookingStatus) error
}
