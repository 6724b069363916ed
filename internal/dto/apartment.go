package dto

import "github.com/roomy-lb/roomy-api/internal/models"

// CreateBedRequest describes one bed inside a bedroom payload.
type CreateBedRequest struct {
	Label     string `json:"label" binding:"required"`
	Available bool   `json:"available"`
}

// CreateBedroomRequest describes one bedroom and its beds.
type CreateBedroomRequest struct {
	Name string             `json:"name" binding:"required"`
	Beds []CreateBedRequest `json:"beds" binding:"required,min=1,dive"`
}

// CreateApartmentRequest is the owner payload for listing a new apartment.
type CreateApartmentRequest struct {
	Name                           string                 `json:"name" binding:"required"`
	City                           string                 `json:"city" binding:"required"`
	MonthlyPriceUSD                float64                `json:"monthly_price_usd" binding:"required,gt=0"`
	EnableFullApartmentReservation bool                   `json:"enable_full_apartment_reservation"`
	EnableBedroomReservation       bool                   `json:"enable_bedroom_reservation"`
	EnableBedReservation           bool                   `json:"enable_bed_reservation"`
	Bedrooms                       []CreateBedroomRequest `json:"bedrooms" binding:"required,min=1,dive"`
}

// UpdateApartmentFlagsRequest changes which reservation levels are offered.
type UpdateApartmentFlagsRequest struct {
	EnableFullApartmentReservation bool `json:"enable_full_apartment_reservation"`
	EnableBedroomReservation       bool `json:"enable_bedroom_reservation"`
	EnableBedReservation           bool `json:"enable_bed_reservation"`
}

// SetBedAvailabilityRequest flips one bed's static availability flag.
type SetBedAvailabilityRequest struct {
	Available bool `json:"available"`
}

// AvailabilityResponse bundles the computed state with its summary.
type AvailabilityResponse struct {
	State   models.AvailabilityState   `json:"state"`
	Summary models.AvailabilitySummary `json:"summary"`
}
