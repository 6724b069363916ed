package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/roomy-lb/roomy-api/internal/dto"
	"github.com/roomy-lb/roomy-api/internal/models"
	appErrors "github.com/roomy-lb/roomy-api/pkg/errors"
)

type profileRepository interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, profile *models.Profile) error
}

// ProfileService manages student matching profiles.
type ProfileService struct {
	repo    profileRepository
	matches matchCacheInvalidator
	logger  *zap.Logger
	now     func() time.Time
}

// NewProfileService constructs the service.
func NewProfileService(repo profileRepository, matches matchCacheInvalidator, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{repo: repo, matches: matches, logger: logger, now: time.Now}
}

// Get returns a user's profile.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	return profile, nil
}

// Upsert creates or updates the profile. A roommate request requires an
// intent branch; changing either drops cached match rankings.
func (s *ProfileService) Upsert(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*models.Profile, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "userId is required")
	}
	if req.NeedsRoommate && req.RoommateIntent == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "roommate_intent is required when needs_roommate is set")
	}

	// Preserve questionnaire state across profile edits.
	completed := false
	advancedOptIn := false
	if existing, err := s.repo.Get(ctx, userID); err == nil {
		completed = existing.QuestionnaireCompleted
		advancedOptIn = existing.AdvancedOptIn
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}

	profile := &models.Profile{
		UserID:                 userID,
		University:             req.University,
		Major:                  req.Major,
		YearOfStudy:            req.YearOfStudy,
		Gender:                 req.Gender,
		Bio:                    req.Bio,
		NeedsRoommate:          req.NeedsRoommate,
		QuestionnaireCompleted: completed,
		AdvancedOptIn:          advancedOptIn,
		UpdatedAt:              s.now().UTC(),
	}
	if req.RoommateIntent != nil {
		intent := models.RoommateIntent(*req.RoommateIntent)
		profile.RoommateIntent = &intent
	}

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save profile")
	}

	if s.matches != nil {
		s.matches.InvalidateForUser(ctx, userID)
	}

	s.logger.Info("profile saved",
		zap.String("user_id", userID),
		zap.Bool("needs_roommate", profile.NeedsRoommate),
	)
	return s.Get(ctx, userID)
}
