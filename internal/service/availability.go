package service

import (
	"fmt"

	"github.com/roomy-lb/roomy-api/internal/models"
)

// Availability display texts.
const (
	statusFullyBooked    = "Fully Booked"
	statusFullyAvailable = "Fully Available"
)

// CalculateAvailability evaluates which reservation options are currently
// legal for an apartment given the active reservations. It is a pure,
// idempotent computation over the inputs; nothing is cached or persisted.
//
// Exclusivity rules, in evaluation order:
//  1. An apartment-level reservation locks everything. Short-circuits.
//  2. Any bed- or bedroom-level reservation disables full-apartment booking.
//  3. A bedroom-level reservation disables that bedroom and all its beds.
//  4. A bed-level reservation disables that bed and its bedroom's whole-room
//     option, leaving the room's other beds individually reservable.
//
// Rules 2-4 only ever disable options, so their relative order does not
// change the fixed point; rule 1's early return must come first.
func CalculateAvailability(cfg models.ApartmentConfig, allReservations []models.Reservation) models.AvailabilityState {
	active := make([]models.Reservation, 0, len(allReservations))
	for _, r := range allReservations {
		if r.ApartmentID == cfg.ID && r.IsActive() {
			active = append(active, r)
		}
	}

	state := models.AvailabilityState{
		ApartmentReservable: cfg.EnableFullApartmentReservation,
		CanReserveBedroom:   make(map[string]bool),
		CanReserveBed:       make(map[string]bool),
	}

	for _, bedroom := range cfg.Bedrooms {
		state.TotalBedrooms++
		state.CanReserveBedroom[bedroom.ID] = cfg.EnableBedroomReservation
		for _, bed := range bedroom.Beds {
			state.TotalBeds++
			state.CanReserveBed[bed.ID] = cfg.EnableBedReservation && bed.Available
		}
	}

	// Rule 1: an apartment-level reservation dominates everything else.
	for _, r := range active {
		if r.Level == models.LevelApartment {
			state.ApartmentLocked = true
			state.ApartmentReservable = false
			for id := range state.CanReserveBedroom {
				state.CanReserveBedroom[id] = false
			}
			for id := range state.CanReserveBed {
				state.CanReserveBed[id] = false
			}
			return state
		}
	}

	reservedBeds := make(map[string]bool)
	reservedBedrooms := make(map[string]bool)
	for _, r := range active {
		switch r.Level {
		case models.LevelBed:
			state.AnyBedReserved = true
			if r.BedID != nil {
				reservedBeds[*r.BedID] = true
			}
		case models.LevelBedroom:
			state.AnyBedroomReserved = true
			if r.BedroomID != nil {
				reservedBedrooms[*r.BedroomID] = true
			}
		}
	}

	// Rule 2: any bed or whole-bedroom reservation rules out taking the full
	// apartment.
	if state.AnyBedReserved || state.AnyBedroomReserved {
		state.ApartmentReservable = false
	}

	for _, bedroom := range cfg.Bedrooms {
		// Rule 3: a whole-bedroom reservation blocks the room and every bed
		// in it, even beds that are otherwise free.
		if reservedBedrooms[bedroom.ID] {
			state.CanReserveBedroom[bedroom.ID] = false
			for _, bed := range bedroom.Beds {
				state.CanReserveBed[bed.ID] = false
			}
			continue
		}
		// Rule 4: a reserved bed removes that bed and the room's whole-room
		// option; sibling beds stay individually reservable.
		for _, bed := range bedroom.Beds {
			if reservedBeds[bed.ID] {
				state.CanReserveBed[bed.ID] = false
				state.CanReserveBedroom[bedroom.ID] = false
			}
		}
	}

	for _, reservable := range state.CanReserveBedroom {
		if reservable {
			state.AvailableBedroomsCount++
		}
	}
	for _, reservable := range state.CanReserveBed {
		if reservable {
			state.AvailableBedsCount++
		}
	}

	state.BedroomReservable = state.AvailableBedroomsCount > 0 && cfg.EnableBedroomReservation
	state.BedReservable = state.AvailableBedsCount > 0 && cfg.EnableBedReservation

	return state
}

// CanMakeReservation checks whether a reservation at the given level and
// target is currently allowed. Disallowed checks carry a human-readable
// reason; missing target ids are reported as value-level failures, never as
// errors.
func CanMakeReservation(cfg models.ApartmentConfig, reservations []models.Reservation, level models.ReservationLevel, targetID string) models.ReservationCheck {
	state := CalculateAvailability(cfg, reservations)

	switch level {
	case models.LevelApartment:
		if !state.ApartmentReservable {
			return models.ReservationCheck{Reason: apartmentDeniedReason(cfg, state)}
		}
		return models.ReservationCheck{Allowed: true}

	case models.LevelBedroom:
		if targetID == "" {
			return models.ReservationCheck{Reason: "bedroom ID required"}
		}
		reservable, ok := state.CanReserveBedroom[targetID]
		if !ok {
			return models.ReservationCheck{Reason: "bedroom not found in this apartment"}
		}
		if !reservable {
			return models.ReservationCheck{Reason: "this bedroom is not currently reservable"}
		}
		return models.ReservationCheck{Allowed: true}

	case models.LevelBed:
		if targetID == "" {
			return models.ReservationCheck{Reason: "bed ID required"}
		}
		reservable, ok := state.CanReserveBed[targetID]
		if !ok {
			return models.ReservationCheck{Reason: "bed not found in this apartment"}
		}
		if !reservable {
			return models.ReservationCheck{Reason: "this bed is not currently reservable"}
		}
		return models.ReservationCheck{Allowed: true}
	}

	return models.ReservationCheck{Reason: fmt.Sprintf("unknown reservation level %q", level)}
}

func apartmentDeniedReason(cfg models.ApartmentConfig, state models.AvailabilityState) string {
	switch {
	case state.ApartmentLocked:
		return "the apartment is already fully reserved"
	case !cfg.EnableFullApartmentReservation:
		return "full apartment reservation is not offered"
	case state.AnyBedReserved || state.AnyBedroomReserved:
		return "individual beds or bedrooms are already reserved"
	}
	return "full apartment reservation is not currently possible"
}

// GetAvailabilitySummary projects an AvailabilityState into display form.
// The partial branch reports bed count only; that mirrors the established
// display policy even when bedrooms alone are reservable.
func GetAvailabilitySummary(state models.AvailabilityState) models.AvailabilitySummary {
	summary := models.AvailabilitySummary{}

	switch {
	case !state.ApartmentReservable && !state.BedroomReservable && !state.BedReservable:
		summary.IsFullyBooked = true
		summary.StatusText = statusFullyBooked
	case state.ApartmentReservable:
		summary.IsFullyAvailable = true
		summary.StatusText = statusFullyAvailable
	default:
		summary.IsPartiallyAvailable = true
		summary.StatusText = fmt.Sprintf("%d beds available", state.AvailableBedsCount)
	}

	return summary
}
