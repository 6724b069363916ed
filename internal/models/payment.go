package models

import "time"

// Payment statuses for the mocked gateway lifecycle.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusSettled  = "settled"
	PaymentStatusDeclined = "declined"
)

// Payment is a payment intent attached to a reservation. Settlement happens
// asynchronously through the jobs queue; clients poll the status.
type Payment struct {
	ID            string     `db:"id" json:"id"`
	ReservationID string     `db:"reservation_id" json:"reservation_id"`
	UserID        string     `db:"user_id" json:"user_id"`
	AmountUSD     float64    `db:"amount_usd" json:"amount_usd"`
	CardLast4     string     `db:"card_last4" json:"card_last4"`
	Status        string     `db:"status" json:"status"`
	FailureReason *string    `db:"failure_reason" json:"failure_reason,omitempty"`
	ReceiptPath   *string    `db:"receipt_path" json:"-"`
	SettledAt     *time.Time `db:"settled_at" json:"settled_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}
