package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/roomy-lb/roomy-api/internal/models"
	appErrors "github.com/roomy-lb/roomy-api/pkg/errors"
)

type questionnaireResponseRepository interface {
	GetByUser(ctx context.Context, userID string) (models.ResponseMap, error)
	ReplaceForUser(ctx context.Context, userID string, responses models.ResponseMap, submittedAt time.Time) error
}

type questionnaireProfileRepository interface {
	SetQuestionnaireState(ctx context.Context, userID string, completed, advancedOptIn bool) error
}

type matchCacheInvalidator interface {
	InvalidateForUser(ctx context.Context, userID string)
}

// QuestionnaireService manages questionnaire submissions.
type QuestionnaireService struct {
	responses questionnaireResponseRepository
	profiles  questionnaireProfileRepository
	matches   matchCacheInvalidator
	logger    *zap.Logger
	now       func() time.Time
}

// NewQuestionnaireService constructs the service.
func NewQuestionnaireService(responses questionnaireResponseRepository, profiles questionnaireProfileRepository, matches matchCacheInvalidator, logger *zap.Logger) *QuestionnaireService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionnaireService{
		responses: responses,
		profiles:  profiles,
		matches:   matches,
		logger:    logger,
		now:       time.Now,
	}
}

// Catalog returns the fixed questionnaire item set.
func (s *QuestionnaireService) Catalog() []models.QuestionnaireItem {
	return models.QuestionnaireItems()
}

// GetResponses returns a user's stored answers.
func (s *QuestionnaireService) GetResponses(ctx context.Context, userID string) (models.ResponseMap, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "userId is required")
	}
	responses, err := s.responses.GetByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load responses")
	}
	return responses, nil
}

// Submit validates and stores a full answer set, updates the profile's
// questionnaire state, and drops any cached match rankings. The questionnaire
// counts as completed once every base (non-advanced) item is answered.
func (s *QuestionnaireService) Submit(ctx context.Context, userID string, responses models.ResponseMap, advancedOptIn bool) error {
	if userID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "userId is required")
	}
	if len(responses) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "at least one answer is required")
	}

	baseAnswered := 0
	baseTotal := 0
	for _, item := range models.QuestionnaireItems() {
		if !item.IsAdvanced {
			baseTotal++
		}
	}
	for questionID, answer := range responses {
		item, ok := models.QuestionnaireItemByID(questionID)
		if !ok {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown question id %d", questionID))
		}
		if answer < models.LikertMin || answer > models.LikertMax {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("answer for question %d must be between %d and %d", questionID, models.LikertMin, models.LikertMax))
		}
		if !item.IsAdvanced {
			baseAnswered++
		}
	}
	completed := baseAnswered == baseTotal

	submittedAt := s.now().UTC()
	if err := s.responses.ReplaceForUser(ctx, userID, responses, submittedAt); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store responses")
	}
	if err := s.profiles.SetQuestionnaireState(ctx, userID, completed, advancedOptIn); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile state")
	}

	if s.matches != nil {
		s.matches.InvalidateForUser(ctx, userID)
	}

	s.logger.Info("questionnaire submitted",
		zap.String("user_id", userID),
		zap.Int("answers", len(responses)),
		zap.Bool("completed", completed),
		zap.Bool("advanced_opt_in", advancedOptIn),
	)
	return nil
}
