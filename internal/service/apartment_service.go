package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roomy-lb/roomy-api/internal/dto"
	"github.com/roomy-lb/roomy-api/internal/models"
	appErrors "github.com/roomy-lb/roomy-api/pkg/errors"
)

type apartmentRepository interface {
	Create(ctx context.Context, apartment *models.ApartmentConfig) error
	GetConfig(ctx context.Context, apartmentID string) (*models.ApartmentConfig, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.ApartmentConfig, error)
	UpdateFlags(ctx context.Context, apartmentID string, fullApartment, bedroom, bed bool) error
	SetBedAvailability(ctx context.Context, bedID string, available bool) error
}

// ApartmentService manages the owner-facing apartment configuration.
type ApartmentService struct {
	repo   apartmentRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewApartmentService constructs the service.
func NewApartmentService(repo apartmentRepository, logger *zap.Logger) *ApartmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApartmentService{repo: repo, logger: logger, now: time.Now}
}

// Create builds and stores a new apartment tree from the owner's payload.
func (s *ApartmentService) Create(ctx context.Context, ownerID string, req dto.CreateApartmentRequest) (*models.ApartmentConfig, error) {
	if ownerID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ownerId is required")
	}
	if len(req.Bedrooms) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one bedroom is required")
	}

	now := s.now().UTC()
	apartment := &models.ApartmentConfig{
		ID:                             uuid.NewString(),
		OwnerID:                        ownerID,
		Name:                           req.Name,
		City:                           req.City,
		MonthlyPriceUSD:                req.MonthlyPriceUSD,
		EnableFullApartmentReservation: req.EnableFullApartmentReservation,
		EnableBedroomReservation:       req.EnableBedroomReservation,
		EnableBedReservation:           req.EnableBedReservation,
		CreatedAt:                      now,
		UpdatedAt:                      now,
	}

	for i, bedroomReq := range req.Bedrooms {
		if len(bedroomReq.Beds) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "every bedroom needs at least one bed")
		}
		bedroom := models.Bedroom{
			ID:          uuid.NewString(),
			ApartmentID: apartment.ID,
			Name:        bedroomReq.Name,
			Position:    i + 1,
		}
		for j, bedReq := range bedroomReq.Beds {
			bedroom.Beds = append(bedroom.Beds, models.Bed{
				ID:        uuid.NewString(),
				BedroomID: bedroom.ID,
				Label:     bedReq.Label,
				Available: bedReq.Available,
				Position:  j + 1,
			})
		}
		apartment.Bedrooms = append(apartment.Bedrooms, bedroom)
	}

	if err := s.repo.Create(ctx, apartment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create apartment")
	}

	s.logger.Info("apartment created",
		zap.String("apartment_id", apartment.ID),
		zap.String("owner_id", ownerID),
		zap.Int("bedrooms", len(apartment.Bedrooms)),
	)
	return apartment, nil
}

// Get returns the apartment configuration tree.
func (s *ApartmentService) Get(ctx context.Context, apartmentID string) (*models.ApartmentConfig, error) {
	apartment, err := s.repo.GetConfig(ctx, apartmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "apartment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load apartment")
	}
	return apartment, nil
}

// ListByOwner returns the owner's apartments.
func (s *ApartmentService) ListByOwner(ctx context.Context, ownerID string) ([]models.ApartmentConfig, error) {
	apartments, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list apartments")
	}
	return apartments, nil
}

// UpdateFlags changes which reservation levels the apartment offers. Only the
// owner may change them.
func (s *ApartmentService) UpdateFlags(ctx context.Context, ownerID, apartmentID string, req dto.UpdateApartmentFlagsRequest) (*models.ApartmentConfig, error) {
	apartment, err := s.Get(ctx, apartmentID)
	if err != nil {
		return nil, err
	}
	if apartment.OwnerID != ownerID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "apartment belongs to another owner")
	}

	if err := s.repo.UpdateFlags(ctx, apartmentID, req.EnableFullApartmentReservation, req.EnableBedroomReservation, req.EnableBedReservation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update apartment flags")
	}
	return s.Get(ctx, apartmentID)
}

// SetBedAvailability flips a bed's static availability flag. Only the owner
// of the containing apartment may change it.
func (s *ApartmentService) SetBedAvailability(ctx context.Context, ownerID, apartmentID, bedID string, available bool) error {
	apartment, err := s.Get(ctx, apartmentID)
	if err != nil {
		return err
	}
	if apartment.OwnerID != ownerID {
		return appErrors.Clone(appErrors.ErrForbidden, "apartment belongs to another owner")
	}

	found := false
	for _, bedroom := range apartment.Bedrooms {
		for _, bed := range bedroom.Beds {
			if bed.ID == bedID {
				found = true
			}
		}
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "bed not found in this apartment")
	}

	if err := s.repo.SetBedAvailability(ctx, bedID, available); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update bed availability")
	}
	return nil
}
