package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/roomy-lb/roomy-api/internal/models"
)

const reservationColumns = `id, user_id, apartment_id, level, bedroom_id, bed_id, status, created_at, updated_at`

// ReservationRepository persists booking requests.
type ReservationRepository struct {
	db *sqlx.DB
}

// NewReservationRepository constructs the repository.
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create inserts a reservation row.
func (r *ReservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	const query = `
INSERT INTO reservations (id, user_id, apartment_id, level, bedroom_id, bed_id, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.db.ExecContext(ctx, query,
		reservation.ID, reservation.UserID, reservation.ApartmentID, reservation.Level,
		reservation.BedroomID, reservation.BedID, reservation.Status, reservation.CreatedAt, reservation.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

// GetByID fetches one reservation.
func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	query := fmt.Sprintf(`SELECT %s FROM reservations WHERE id = $1`, reservationColumns)
	var reservation models.Reservation
	if err := r.db.GetContext(ctx, &reservation, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return &reservation, nil
}

// ListByApartment returns every reservation attached to an apartment. The
// availability engine filters for active statuses itself.
func (r *ReservationRepository) ListByApartment(ctx context.Context, apartmentID string) ([]models.Reservation, error) {
	query := fmt.Sprintf(`SELECT %s FROM reservations WHERE apartment_id = $1 ORDER BY created_at ASC`, reservationColumns)
	var reservations []models.Reservation
	if err := r.db.SelectContext(ctx, &reservations, query, apartmentID); err != nil {
		return nil, fmt.Errorf("list reservations by apartment: %w", err)
	}
	return reservations, nil
}

// ListByUser returns a user's reservations, newest first.
func (r *ReservationRepository) ListByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	query := fmt.Sprintf(`SELECT %s FROM reservations WHERE user_id = $1 ORDER BY created_at DESC`, reservationColumns)
	var reservations []models.Reservation
	if err := r.db.SelectContext(ctx, &reservations, query, userID); err != nil {
		return nil, fmt.Errorf("list reservations by user: %w", err)
	}
	return reservations, nil
}

// UpdateStatus transitions a reservation's status.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id, status string, ts time.Time) error {
	const query = `UPDATE reservations SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status, ts)
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
