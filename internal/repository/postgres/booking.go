package postgres

import (
	"context"
	"database/sql"

	"shademy/internal/domain"
	"shademy/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

// Create persists a new booking audit record.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.SessionBooking) error {
	query := `
		INSERT INTO session_bookings (id, course_name, student_name, student_email, session_date, amount, currency, stripe_session_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.CourseName,
		booking.StudentName,
		booking.StudentEmail,
		booking.SessionDate,
		booking.Amount,
		booking.Currency,
		booking.StripeSessionID,
		booking.Status,
		booking.CreatedAt,
	)

	return err
}

// UpdateStatusBySessionID updates the booking linked to a checkout session.
func (r *BookingRepository) UpdateStatusBySessionID(ctx context.Context, stripeSessionID string, status domain.BookingStatus) error {
	query := `UPDATE session_bookings SET status = $1 WHERE stripe_session_id = $2`

	result, err := r.q.ExecContext(ctx, query, status, stripeSessionID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
