package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomy-lb/roomy-api/internal/models"
)

func strPtr(s string) *string { return &s }

func twoBedroomConfig() models.ApartmentConfig {
	return models.ApartmentConfig{
		ID:                             "apt-1",
		EnableFullApartmentReservation: true,
		EnableBedroomReservation:       true,
		EnableBedReservation:           true,
		Bedrooms: []models.Bedroom{
			{
				ID:          "room-1",
				ApartmentID: "apt-1",
				Beds: []models.Bed{
					{ID: "bed-1", BedroomID: "room-1", Available: true},
					{ID: "bed-2", BedroomID: "room-1", Available: true},
				},
			},
			{
				ID:          "room-2",
				ApartmentID: "apt-1",
				Beds: []models.Bed{
					{ID: "bed-3", BedroomID: "room-2", Available: true},
				},
			},
		},
	}
}

func TestCalculateAvailabilityEmptyApartment(t *testing.T) {
	cfg := twoBedroomConfig()

	state := CalculateAvailability(cfg, nil)

	assert.True(t, state.ApartmentReservable)
	assert.True(t, state.BedroomReservable)
	assert.True(t, state.BedReservable)
	assert.Equal(t, 2, state.AvailableBedroomsCount)
	assert.Equal(t, 3, state.AvailableBedsCount)
	assert.Equal(t, 2, state.TotalBedrooms)
	assert.Equal(t, 3, state.TotalBeds)
	assert.False(t, state.ApartmentLocked)
}

func TestCalculateAvailabilityApartmentLockDominates(t *testing.T) {
	cfg := twoBedroomConfig()
	reservations := []models.Reservation{
		{ID: "res-1", ApartmentID: "apt-1", Level: models.LevelApartment, Status: models.ReservationStatusConfirmed},
		// A later bed reservation must not matter once the lock applies.
		{ID: "res-2", ApartmentID: "apt-1", Level: models.LevelBed, BedID: strPtr("bed-1"), Status: models.ReservationStatusActive},
	}

	state := CalculateAvailability(cfg, reservations)

	assert.True(t, state.ApartmentLocked)
	assert.False(t, state.ApartmentReservable)
	for id, reservable := range state.CanReserveBedroom {
		assert.False(t, reservable, "bedroom %s", id)
	}
	for id, reservable := range state.CanReserveBed {
		assert.False(t, reservable, "bed %s", id)
	}
	assert.Zero(t, state.AvailableBedroomsCount)
	assert.Zero(t, state.AvailableBedsCount)
}

func TestCalculateAvailabilityBedReservation(t *testing.T) {
	cfg := twoBedroomConfig()
	reservations := []models.Reservation{
		{ID: "res-1", ApartmentID: "apt-1", Level: models.LevelBed, BedID: strPtr("bed-1"), Status: models.ReservationStatusConfirmed},
	}

	state := CalculateAvailability(cfg, reservations)

	assert.False(t, state.ApartmentReservable)
	assert.True(t, state.AnyBedReserved)
	assert.False(t, state.CanReserveBed["bed-1"])
	assert.True(t, state.CanReserveBed["bed-2"])
	assert.True(t, state.CanReserveBed["bed-3"])
	// The reserved bed removes its own room's whole-room option only.
	assert.False(t, state.CanReserveBedroom["room-1"])
	assert.True(t, state.CanReserveBedroom["room-2"])
	assert.Equal(t, 2, state.AvailableBedsCount)
	assert.Equal(t, 1, state.AvailableBedroomsCount)
}

func TestCalculateAvailabilityBedroomReservationCascades(t *testing.T) {
	cfg := twoBedroomConfig()
	reservations := []models.Reservation{
		{ID: "res-1", ApartmentID: "apt-1", Level: models.LevelBedroom, BedroomID: strPtr("room-1"), Status: models.ReservationStatusPending},
	}

	state := CalculateAvailability(cfg, reservations)

	assert.False(t, state.ApartmentReservable)
	assert.True(t, state.AnyBedroomReserved)
	assert.False(t, state.CanReserveBedroom["room-1"])
	assert.False(t, state.CanReserveBed["bed-1"])
	assert.False(t, state.CanReserveBed["bed-2"])
	// The other bedroom is untouched.
	assert.True(t, state.CanReserveBedroom["room-2"])
	assert.True(t, state.CanReserveBed["bed-3"])
}

func TestCalculateAvailabilityIgnoresInactiveAndForeignReservations(t *testing.T) {
	cfg := twoBedroomConfig()
	reservations := []models.Reservation{
		{ID: "res-1", ApartmentID: "apt-1", Level: models.LevelApartment, Status: models.ReservationStatusCancelled},
		{ID: "res-2", ApartmentID: "apt-1", Level: models.LevelBed, BedID: strPtr("bed-1"), Status: models.ReservationStatusExpired},
		{ID: "res-3", ApartmentID: "apt-other", Level: models.LevelApartment, Status: models.ReservationStatusConfirmed},
	}

	state := CalculateAvailability(cfg, reservations)

	assert.True(t, state.ApartmentReservable)
	assert.Equal(t, 3, state.AvailableBedsCount)
}

func TestCalculateAvailabilityHonorsFeatureFlagsAndBedFlag(t *testing.T) {
	cfg := twoBedroomConfig()
	cfg.EnableFullApartmentReservation = false
	cfg.EnableBedroomReservation = false
	cfg.Bedrooms[0].Beds[1].Available = false

	state := CalculateAvailability(cfg, nil)

	assert.False(t, state.ApartmentReservable)
	assert.False(t, state.BedroomReservable)
	assert.Zero(t, state.AvailableBedroomsCount)
	assert.False(t, state.CanReserveBed["bed-2"])
	assert.Equal(t, 2, state.AvailableBedsCount)
}

func TestCalculateAvailabilityIsIdempotent(t *testing.T) {
	cfg := twoBedroomConfig()
	reservations := []models.Reservation{
		{ID: "res-1", ApartmentID: "apt-1", Level: models.LevelBed, BedID: strPtr("bed-2"), Status: models.ReservationStatusActive},
	}

	first := CalculateAvailability(cfg, reservations)
	second := CalculateAvailability(cfg, reservations)

	assert.Equal(t, first, second)
}

func TestCanMakeReservation(t *testing.T) {
	cfg := twoBedroomConfig()
	reservations := []models.Reservation{
		{ID: "res-1", ApartmentID: "apt-1", Level: models.LevelBed, BedID: strPtr("bed-1"), Status: models.ReservationStatusConfirmed},
	}

	check := CanMakeReservation(cfg, reservations, models.LevelApartment, "")
	assert.False(t, check.Allowed)
	assert.NotEmpty(t, check.Reason)

	check = CanMakeReservation(cfg, reservations, models.LevelBed, "bed-2")
	assert.True(t, check.Allowed)
	assert.Empty(t, check.Reason)

	check = CanMakeReservation(cfg, reservations, models.LevelBed, "bed-1")
	assert.False(t, check.Allowed)

	check = CanMakeReservation(cfg, reservations, models.LevelBedroom, "")
	assert.False(t, check.Allowed)
	assert.Equal(t, "bedroom ID required", check.Reason)

	check = CanMakeReservation(cfg, reservations, models.LevelBed, "")
	assert.False(t, check.Allowed)
	assert.Equal(t, "bed ID required", check.Reason)

	check = CanMakeReservation(cfg, reservations, models.LevelBed, "no-such-bed")
	assert.False(t, check.Allowed)

	check = CanMakeReservation(cfg, nil, models.LevelApartment, "")
	assert.True(t, check.Allowed)
}

func TestScenarioSingleBedReservation(t *testing.T) {
	cfg := models.ApartmentConfig{
		ID:                             "apt-9",
		EnableFullApartmentReservation: true,
		EnableBedroomReservation:       true,
		EnableBedReservation:           true,
		Bedrooms: []models.Bedroom{
			{
				ID:          "room-1",
				ApartmentID: "apt-9",
				Beds: []models.Bed{
					{ID: "bed-1", BedroomID: "room-1", Available: true},
					{ID: "bed-2", BedroomID: "room-1", Available: true},
				},
			},
		},
	}
	reservations := []models.Reservation{
		{ID: "res-1", ApartmentID: "apt-9", Level: models.LevelBed, BedID: strPtr("bed-1"), Status: models.ReservationStatusConfirmed},
	}

	state := CalculateAvailability(cfg, reservations)

	assert.False(t, state.ApartmentReservable)
	assert.False(t, state.CanReserveBed["bed-1"])
	assert.True(t, state.CanReserveBed["bed-2"])
	assert.False(t, state.CanReserveBedroom["room-1"])
}

func TestGetAvailabilitySummary(t *testing.T) {
	cfg := twoBedroomConfig()

	fully := GetAvailabilitySummary(CalculateAvailability(cfg, nil))
	assert.True(t, fully.IsFullyAvailable)
	assert.False(t, fully.IsFullyBooked)
	assert.False(t, fully.IsPartiallyAvailable)
	assert.Equal(t, "Fully Available", fully.StatusText)

	booked := GetAvailabilitySummary(CalculateAvailability(cfg, []models.Reservation{
		{ID: "res-1", ApartmentID: "apt-1", Level: models.LevelApartment, Status: models.ReservationStatusActive},
	}))
	assert.True(t, booked.IsFullyBooked)
	assert.Equal(t, "Fully Booked", booked.StatusText)

	partialState := CalculateAvailability(cfg, []models.Reservation{
		{ID: "res-2", ApartmentID: "apt-1", Level: models.LevelBed, BedID: strPtr("bed-1"), Status: models.ReservationStatusPending},
	})
	partial := GetAvailabilitySummary(partialState)
	require.True(t, partial.IsPartiallyAvailable)
	assert.Equal(t, "2 beds available", partial.StatusText)
}
