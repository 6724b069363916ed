package models

import "time"

// Bed is the smallest reservable unit.
type Bed struct {
	ID        string `db:"id" json:"id"`
	BedroomID string `db:"bedroom_id" json:"bedroom_id"`
	Label     string `db:"label" json:"label"`
	Available bool   `db:"available" json:"available"`
	Position  int    `db:"position" json:"position"`
}

// Bedroom groups beds inside an apartment.
type Bedroom struct {
	ID          string `db:"id" json:"id"`
	ApartmentID string `db:"apartment_id" json:"apartment_id"`
	Name        string `db:"name" json:"name"`
	Position    int    `db:"position" json:"position"`
	Beds        []Bed  `json:"beds"`
}

// ApartmentConfig is the owner-managed reservation configuration tree: the
// apartment, its bedrooms and their beds, plus the three level flags that
// control which reservation granularities are offered.
type ApartmentConfig struct {
	ID                             string    `db:"id" json:"id"`
	OwnerID                        string    `db:"owner_id" json:"owner_id"`
	Name                           string    `db:"name" json:"name"`
	City                           string    `db:"city" json:"city"`
	MonthlyPriceUSD                float64   `db:"monthly_price_usd" json:"monthly_price_usd"`
	EnableFullApartmentReservation bool      `db:"enable_full_apartment" json:"enable_full_apartment_reservation"`
	EnableBedroomReservation       bool      `db:"enable_bedroom" json:"enable_bedroom_reservation"`
	EnableBedReservation           bool      `db:"enable_bed" json:"enable_bed_reservation"`
	Bedrooms                       []Bedroom `json:"bedrooms"`
	CreatedAt                      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt                      time.Time `db:"updated_at" json:"updated_at"`
}

// AvailabilityState is the derived, per-query output of the availability
// engine. It is recomputed fresh on every call and never persisted.
type AvailabilityState struct {
	ApartmentReservable    bool            `json:"apartment_reservable"`
	BedroomReservable      bool            `json:"bedroom_reservable"`
	BedReservable          bool            `json:"bed_reservable"`
	CanReserveBedroom      map[string]bool `json:"can_reserve_bedroom"`
	CanReserveBed          map[string]bool `json:"can_reserve_bed"`
	AvailableBedroomsCount int             `json:"available_bedrooms_count"`
	AvailableBedsCount     int             `json:"available_beds_count"`
	TotalBedrooms          int             `json:"total_bedrooms"`
	TotalBeds              int             `json:"total_beds"`
	ApartmentLocked        bool            `json:"apartment_locked"`
	AnyBedReserved         bool            `json:"any_bed_reserved"`
	AnyBedroomReserved     bool            `json:"any_bedroom_reserved"`
}

// ReservationCheck is the result of a single level/target permission query.
type ReservationCheck struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// AvailabilitySummary is the display projection of an AvailabilityState.
type AvailabilitySummary struct {
	IsFullyBooked        bool   `json:"is_fully_booked"`
	IsFullyAvailable     bool   `json:"is_fully_available"`
	IsPartiallyAvailable bool   `json:"is_partially_available"`
	StatusText           string `json:"status_text"`
}
