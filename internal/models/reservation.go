package models

import "time"

// ReservationLevel tags the granularity of a reservation.
type ReservationLevel string

const (
	LevelApartment ReservationLevel = "apartment"
	LevelBedroom   ReservationLevel = "bedroom"
	LevelBed       ReservationLevel = "bed"
)

// Reservation statuses. Only active, confirmed and pending count against
// availability.
const (
	ReservationStatusPending   = "pending"
	ReservationStatusActive    = "active"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusExpired   = "expired"
)

// Reservation is a booking request at one of the three levels. BedroomID and
// BedID are populated depending on the level.
type Reservation struct {
	ID          string           `db:"id" json:"id"`
	UserID      string           `db:"user_id" json:"user_id"`
	ApartmentID string           `db:"apartment_id" json:"apartment_id"`
	Level       ReservationLevel `db:"level" json:"level"`
	BedroomID   *string          `db:"bedroom_id" json:"bedroom_id,omitempty"`
	BedID       *string          `db:"bed_id" json:"bed_id,omitempty"`
	Status      string           `db:"status" json:"status"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}

// IsActive reports whether the reservation currently blocks availability.
func (r Reservation) IsActive() bool {
	switch r.Status {
	case ReservationStatusActive, ReservationStatusConfirmed, ReservationStatusPending:
		return true
	}
	return false
}
