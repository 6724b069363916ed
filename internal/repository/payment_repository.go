package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/roomy-lb/roomy-api/internal/models"
)

const paymentColumns = `id, reservation_id, user_id, amount_usd, card_last4, status, failure_reason, receipt_path, settled_at, created_at, updated_at`

// PaymentRepository persists mocked payment intents.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs the repository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment intent.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	const query = `
INSERT INTO payments (id, reservation_id, user_id, amount_usd, card_last4, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(ctx, query,
		payment.ID, payment.ReservationID, payment.UserID, payment.AmountUSD, payment.CardLast4,
		payment.Status, payment.CreatedAt, payment.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// GetByID fetches one payment.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE id = $1`, paymentColumns)
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &payment, nil
}

// MarkSettled records a successful settlement and the stored receipt path.
func (r *PaymentRepository) MarkSettled(ctx context.Context, id, receiptPath string, settledAt time.Time) error {
	const query = `
UPDATE payments
SET status = $2, receipt_path = $3, settled_at = $4, updated_at = $4
WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.PaymentStatusSettled, receiptPath, settledAt); err != nil {
		return fmt.Errorf("mark payment settled: %w", err)
	}
	return nil
}

// MarkDeclined records a failed settlement with its reason.
func (r *PaymentRepository) MarkDeclined(ctx context.Context, id, reason string, ts time.Time) error {
	const query = `
UPDATE payments
SET status = $2, failure_reason = $3, updated_at = $4
WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.PaymentStatusDeclined, reason, ts); err != nil {
		return fmt.Errorf("mark payment declined: %w", err)
	}
	return nil
}
