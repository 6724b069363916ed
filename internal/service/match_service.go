package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/roomy-lb/roomy-api/internal/models"
	appErrors "github.com/roomy-lb/roomy-api/pkg/errors"
)

type matchProfileRepository interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	ListCandidates(ctx context.Context, intent models.RoommateIntent, excludeUserID string) ([]models.Profile, error)
}

type matchResponseRepository interface {
	GetByUser(ctx context.Context, userID string) (models.ResponseMap, error)
	GetByUsers(ctx context.Context, userIDs []string) (map[string]models.ResponseMap, error)
}

// MatchServiceConfig tunes match ranking behaviour.
type MatchServiceConfig struct {
	CacheTTL    time.Duration
	MaxResults  int
	ReasonLimit int
}

// MatchService ranks roommate candidates for a student.
type MatchService struct {
	profiles  matchProfileRepository
	responses matchResponseRepository
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       MatchServiceConfig
}

// MatchServiceParams groups constructor dependencies.
type MatchServiceParams struct {
	Profiles  matchProfileRepository
	Responses matchResponseRepository
	Cache     *CacheService
	Metrics   *MetricsService
	Logger    *zap.Logger
	Config    MatchServiceConfig
}

// NewMatchService constructs a MatchService with sane defaults.
func NewMatchService(params MatchServiceParams) *MatchService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 20
	}
	if cfg.ReasonLimit <= 0 || cfg.ReasonLimit > defaultReasonLimit {
		cfg.ReasonLimit = defaultReasonLimit
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchService{
		profiles:  params.Profiles,
		responses: params.Responses,
		cache:     params.Cache,
		metrics:   params.Metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// FindMatches returns the ranked candidate list for a user and reports cache
// utilisation. A user without a completed questionnaire or without an active
// roommate request gets an empty list, not an error.
func (s *MatchService) FindMatches(ctx context.Context, userID string) ([]models.MatchCandidate, bool, error) {
	if userID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "userId is required")
	}
	start := time.Now()

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []models.MatchCandidate{}, false, nil
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}

	// No eligible request: short-circuit with an empty result.
	if !profile.QuestionnaireCompleted || !profile.NeedsRoommate || profile.RoommateIntent == nil {
		return []models.MatchCandidate{}, false, nil
	}

	cacheKey := matchCacheKey(userID)
	var cached []models.MatchCandidate
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached, true, nil
		}
	}

	ownResponses, err := s.responses.GetByUser(ctx, userID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load responses")
	}

	candidates, err := s.profiles.ListCandidates(ctx, *profile.RoommateIntent, userID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load candidates")
	}

	candidateIDs := make([]string, 0, len(candidates))
	for _, c := range candidates {
		candidateIDs = append(candidateIDs, c.UserID)
	}
	candidateResponses, err := s.responses.GetByUsers(ctx, candidateIDs)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load candidate responses")
	}

	matches := make([]models.MatchCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		responses := candidateResponses[candidate.UserID]
		if len(responses) == 0 {
			continue
		}

		includeAdvanced := profile.AdvancedOptIn && candidate.AdvancedOptIn
		scores := ComputeCompatibility(ownResponses, responses, includeAdvanced)
		reasons := GenerateMatchReasons(scores, ownResponses, responses)
		if len(reasons) > s.cfg.ReasonLimit {
			reasons = reasons[:s.cfg.ReasonLimit]
		}
		if s.metrics != nil {
			s.metrics.RecordMatchComputation()
		}

		matches = append(matches, models.MatchCandidate{
			Profile: candidate,
			Scores:  scores,
			Reasons: reasons,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Scores.Overall > matches[j].Scores.Overall
	})
	if len(matches) > s.cfg.MaxResults {
		matches = matches[:s.cfg.MaxResults]
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, matches, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("failed to cache match results", zap.String("user_id", userID), zap.Error(err))
		}
	}
	if s.metrics != nil {
		s.metrics.ObserveMatchRequest(time.Since(start))
	}

	s.logger.Info("match ranking computed",
		zap.String("user_id", userID),
		zap.Int("pool_size", len(candidates)),
		zap.Int("results", len(matches)),
	)
	return matches, false, nil
}

// InvalidateForUser drops cached results after a questionnaire or intent
// change. Every user's ranking involves the changed respondent, so the whole
// match namespace is flushed.
func (s *MatchService) InvalidateForUser(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "match:user:*"); err != nil {
		s.logger.Warn("failed to invalidate match cache", zap.String("user_id", userID), zap.Error(err))
	}
}

func matchCacheKey(userID string) string {
	return fmt.Sprintf("match:user:%s", userID)
}
