package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/roomy-lb/roomy-api/internal/models"
)

// ApartmentRepository persists the apartment configuration tree.
type ApartmentRepository struct {
	db *sqlx.DB
}

// NewApartmentRepository constructs the repository.
func NewApartmentRepository(db *sqlx.DB) *ApartmentRepository {
	return &ApartmentRepository{db: db}
}

// Create inserts the apartment with its bedrooms and beds in one transaction.
func (r *ApartmentRepository) Create(ctx context.Context, apartment *models.ApartmentConfig) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create apartment: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertApartment = `
INSERT INTO apartments (id, owner_id, name, city, monthly_price_usd, enable_full_apartment, enable_bedroom, enable_bed, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := tx.ExecContext(ctx, insertApartment,
		apartment.ID, apartment.OwnerID, apartment.Name, apartment.City, apartment.MonthlyPriceUSD,
		apartment.EnableFullApartmentReservation, apartment.EnableBedroomReservation, apartment.EnableBedReservation,
		apartment.CreatedAt, apartment.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert apartment: %w", err)
	}

	const insertBedroom = `INSERT INTO bedrooms (id, apartment_id, name, position) VALUES ($1, $2, $3, $4)`
	const insertBed = `INSERT INTO beds (id, bedroom_id, label, available, position) VALUES ($1, $2, $3, $4, $5)`
	for _, bedroom := range apartment.Bedrooms {
		if _, err := tx.ExecContext(ctx, insertBedroom, bedroom.ID, apartment.ID, bedroom.Name, bedroom.Position); err != nil {
			return fmt.Errorf("insert bedroom: %w", err)
		}
		for _, bed := range bedroom.Beds {
			if _, err := tx.ExecContext(ctx, insertBed, bed.ID, bedroom.ID, bed.Label, bed.Available, bed.Position); err != nil {
				return fmt.Errorf("insert bed: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create apartment: %w", err)
	}
	return nil
}

// GetConfig assembles the full configuration tree for one apartment.
func (r *ApartmentRepository) GetConfig(ctx context.Context, apartmentID string) (*models.ApartmentConfig, error) {
	const apartmentQuery = `
SELECT id, owner_id, name, city, monthly_price_usd, enable_full_apartment, enable_bedroom, enable_bed, created_at, updated_at
FROM apartments
WHERE id = $1`

	var apartment models.ApartmentConfig
	if err := r.db.GetContext(ctx, &apartment, apartmentQuery, apartmentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get apartment: %w", err)
	}

	const bedroomQuery = `SELECT id, apartment_id, name, position FROM bedrooms WHERE apartment_id = $1 ORDER BY position ASC`
	if err := r.db.SelectContext(ctx, &apartment.Bedrooms, bedroomQuery, apartmentID); err != nil {
		return nil, fmt.Errorf("get bedrooms: %w", err)
	}

	const bedQuery = `
SELECT b.id, b.bedroom_id, b.label, b.available, b.position
FROM beds b
JOIN bedrooms br ON br.id = b.bedroom_id
WHERE br.apartment_id = $1
ORDER BY b.position ASC`
	var beds []models.Bed
	if err := r.db.SelectContext(ctx, &beds, bedQuery, apartmentID); err != nil {
		return nil, fmt.Errorf("get beds: %w", err)
	}

	byBedroom := make(map[string][]models.Bed, len(apartment.Bedrooms))
	for _, bed := range beds {
		byBedroom[bed.BedroomID] = append(byBedroom[bed.BedroomID], bed)
	}
	for i := range apartment.Bedrooms {
		apartment.Bedrooms[i].Beds = byBedroom[apartment.Bedrooms[i].ID]
	}

	return &apartment, nil
}

// ListByOwner returns the owner's apartments without their bedroom trees.
func (r *ApartmentRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.ApartmentConfig, error) {
	const query = `
SELECT id, owner_id, name, city, monthly_price_usd, enable_full_apartment, enable_bedroom, enable_bed, created_at, updated_at
FROM apartments
WHERE owner_id = $1
ORDER BY created_at DESC`
	var apartments []models.ApartmentConfig
	if err := r.db.SelectContext(ctx, &apartments, query, ownerID); err != nil {
		return nil, fmt.Errorf("list apartments: %w", err)
	}
	return apartments, nil
}

// UpdateFlags changes the three reservation-level feature flags.
func (r *ApartmentRepository) UpdateFlags(ctx context.Context, apartmentID string, fullApartment, bedroom, bed bool) error {
	const query = `
UPDATE apartments
SET enable_full_apartment = $2, enable_bedroom = $3, enable_bed = $4, updated_at = NOW()
WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, apartmentID, fullApartment, bedroom, bed)
	if err != nil {
		return fmt.Errorf("update apartment flags: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetBedAvailability flips the static availability flag of a bed.
func (r *ApartmentRepository) SetBedAvailability(ctx context.Context, bedID string, available bool) error {
	const query = `UPDATE beds SET available = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, bedID, available)
	if err != nil {
		return fmt.Errorf("set bed availability: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
