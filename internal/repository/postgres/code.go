package postgres

import (
	"context"
	"database/sql"
	"errors"

	"shademy/internal/domain"
	"shademy/internal/repository"
)

// PaymentCodeRepository is a PostgreSQL implementation of repository.PaymentCodeRepository.
type PaymentCodeRepository struct {
	q Querier
}

// NewPaymentCodeRepository creates a new PostgreSQL payment code repository.
func NewPaymentCodeRepository(db *sql.DB) *PaymentCodeRepository {
	return &PaymentCodeRepository{q: db}
}

// NewPaymentCodeRepositoryWithTx creates a payment code repository using a transaction.
func NewPaymentCodeRepositoryWithTx(tx *sql.Tx) *PaymentCodeRepository {
	return &PaymentCodeRepository{q: tx}
}

// ClaimUnused atomically claims an unused code for redemption.
// The single conditional UPDATE closes the window where two concurrent
// redemptions of the same code could both pass validation.
func (r *PaymentCodeRepository) ClaimUnused(ctx context.Context, code string) (*domain.PaymentCode, error) {
	query := `
		UPDATE payment_codes SET claimed = true
		WHERE code = $1 AND used = false AND claimed = false
		RETURNING code, amount, email, student_name, used, claimed
	`

	var pc domain.PaymentCode
	err := r.q.QueryRowContext(ctx, query, code).Scan(
		&pc.Code,
		&pc.Amount,
		&pc.Email,
		&pc.StudentName,
		&pc.Used,
		&pc.Claimed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &pc, nil
}

// ReleaseClaim rolls back a claim after a failed session creation.
// Codes already consumed by the webhook are left untouched.
func (r *PaymentCodeRepository) ReleaseClaim(ctx context.Context, code string) error {
	query := `UPDATE payment_codes SET claimed = false WHERE code = $1 AND used = false`

	_, err := r.q.ExecContext(ctx, query, code)
	return err
}

// MarkUsed conditionally consumes a code. The used = false guard makes
// repeated webhook delivery a no-op on the second application.
func (r *PaymentCodeRepository) MarkUsed(ctx context.Context, code string) (bool, error) {
	query := `UPDATE payment_codes SET used = true WHERE code = $1 AND used = false`

	result, err := r.q.ExecContext(ctx, query, code)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// GetByCode retrieves a code regardless of its flags.
func (r *PaymentCodeRepository) GetByCode(ctx context.Context, code string) (*domain.PaymentCode, error) {
	query := `
		SELECT code, amount, email, student_name, used, claimed
		FROM payment_codes WHERE code = $1
	`

	var pc domain.PaymentCode
	err := r.q.QueryRowContext(ctx, query, code).Scan(
		&pc.Code,
		&pc.Amount,
		&pc.Email,
		&pc.StudentName,
		&pc.Used,
		&pc.Claimed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &pc, nil
}
