package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roomy-lb/roomy-api/internal/models"
	appErrors "github.com/roomy-lb/roomy-api/pkg/errors"
	"github.com/roomy-lb/roomy-api/pkg/export"
)

type bookingApartmentRepository interface {
	GetConfig(ctx context.Context, apartmentID string) (*models.ApartmentConfig, error)
}

type bookingReservationRepository interface {
	Create(ctx context.Context, reservation *models.Reservation) error
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	ListByApartment(ctx context.Context, apartmentID string) ([]models.Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]models.Reservation, error)
	UpdateStatus(ctx context.Context, id, status string, ts time.Time) error
}

// BookingService guards reservation creation with the availability engine.
type BookingService struct {
	apartments   bookingApartmentRepository
	reservations bookingReservationRepository
	csv          *export.CSVExporter
	metrics      *MetricsService
	logger       *zap.Logger
	now          func() time.Time
}

// BookingServiceParams groups constructor dependencies.
type BookingServiceParams struct {
	Apartments   bookingApartmentRepository
	Reservations bookingReservationRepository
	CSV          *export.CSVExporter
	Metrics      *MetricsService
	Logger       *zap.Logger
}

// NewBookingService constructs a BookingService.
func NewBookingService(params BookingServiceParams) *BookingService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	csv := params.CSV
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	return &BookingService{
		apartments:   params.Apartments,
		reservations: params.Reservations,
		csv:          csv,
		metrics:      params.Metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// Availability computes the current availability state and summary for an
// apartment.
func (s *BookingService) Availability(ctx context.Context, apartmentID string) (*models.AvailabilityState, *models.AvailabilitySummary, error) {
	cfg, reservations, err := s.load(ctx, apartmentID)
	if err != nil {
		return nil, nil, err
	}

	state := CalculateAvailability(*cfg, reservations)
	summary := GetAvailabilitySummary(state)
	if s.metrics != nil {
		s.metrics.RecordAvailabilityEvaluation()
	}
	return &state, &summary, nil
}

// Check evaluates a reservation permission at the given level and target.
func (s *BookingService) Check(ctx context.Context, apartmentID string, level models.ReservationLevel, targetID string) (*models.ReservationCheck, error) {
	cfg, reservations, err := s.load(ctx, apartmentID)
	if err != nil {
		return nil, err
	}

	check := CanMakeReservation(*cfg, reservations, level, targetID)
	if s.metrics != nil {
		s.metrics.RecordAvailabilityEvaluation()
	}
	return &check, nil
}

// Create places a pending reservation after re-checking availability.
func (s *BookingService) Create(ctx context.Context, userID, apartmentID string, level models.ReservationLevel, targetID string) (*models.Reservation, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "userId is required")
	}
	switch level {
	case models.LevelApartment, models.LevelBedroom, models.LevelBed:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown reservation level %q", level))
	}

	cfg, reservations, err := s.load(ctx, apartmentID)
	if err != nil {
		return nil, err
	}

	check := CanMakeReservation(*cfg, reservations, level, targetID)
	if !check.Allowed {
		return nil, appErrors.Clone(appErrors.ErrReservationNotAllowed, check.Reason)
	}

	now := s.now().UTC()
	reservation := &models.Reservation{
		ID:          uuid.NewString(),
		UserID:      userID,
		ApartmentID: apartmentID,
		Level:       level,
		Status:      models.ReservationStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	switch level {
	case models.LevelBedroom:
		reservation.BedroomID = &targetID
	case models.LevelBed:
		reservation.BedID = &targetID
		for _, bedroom := range cfg.Bedrooms {
			for _, bed := range bedroom.Beds {
				if bed.ID == targetID {
					bedroomID := bedroom.ID
					reservation.BedroomID = &bedroomID
				}
			}
		}
	}

	if err := s.reservations.Create(ctx, reservation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create reservation")
	}

	s.logger.Info("reservation created",
		zap.String("reservation_id", reservation.ID),
		zap.String("apartment_id", apartmentID),
		zap.String("level", string(level)),
	)
	return reservation, nil
}

// Cancel sets a reservation to cancelled. Only the requesting tenant may
// cancel their own reservation.
func (s *BookingService) Cancel(ctx context.Context, userID, reservationID string) error {
	reservation, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "reservation not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reservation")
	}
	if reservation.UserID != userID {
		return appErrors.Clone(appErrors.ErrForbidden, "reservation belongs to another user")
	}
	if reservation.Status == models.ReservationStatusCancelled {
		return nil
	}

	if err := s.reservations.UpdateStatus(ctx, reservationID, models.ReservationStatusCancelled, s.now().UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel reservation")
	}
	return nil
}

// ListByUser returns a tenant's reservations.
func (s *BookingService) ListByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	reservations, err := s.reservations.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reservations")
	}
	return reservations, nil
}

// ExportApartmentCSV renders an apartment's bookings for the owner back
// office.
func (s *BookingService) ExportApartmentCSV(ctx context.Context, ownerID, apartmentID string) ([]byte, error) {
	cfg, reservations, err := s.load(ctx, apartmentID)
	if err != nil {
		return nil, err
	}
	if cfg.OwnerID != ownerID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "apartment belongs to another owner")
	}

	dataset := export.Dataset{
		Headers: []string{"reservation_id", "user_id", "level", "target", "status", "created_at"},
	}
	for _, r := range reservations {
		target := ""
		if r.BedID != nil {
			target = *r.BedID
		} else if r.BedroomID != nil {
			target = *r.BedroomID
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"reservation_id": r.ID,
			"user_id":        r.UserID,
			"level":          string(r.Level),
			"target":         target,
			"status":         r.Status,
			"created_at":     r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render bookings export")
	}
	return payload, nil
}

func (s *BookingService) load(ctx context.Context, apartmentID string) (*models.ApartmentConfig, []models.Reservation, error) {
	if apartmentID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "apartmentId is required")
	}
	cfg, err := s.apartments.GetConfig(ctx, apartmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "apartment not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load apartment")
	}
	reservations, err := s.reservations.ListByApartment(ctx, apartmentID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reservations")
	}
	return cfg, reservations, nil
}
