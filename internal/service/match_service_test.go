package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomy-lb/roomy-api/internal/models"
)

type fakeProfileRepo struct {
	profiles   map[string]*models.Profile
	candidates []models.Profile
}

func (f *fakeProfileRepo) Get(_ context.Context, userID string) (*models.Profile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return profile, nil
}

func (f *fakeProfileRepo) ListCandidates(context.Context, models.RoommateIntent, string) ([]models.Profile, error) {
	return f.candidates, nil
}

type fakeResponseRepo struct {
	responses map[string]models.ResponseMap
}

func (f *fakeResponseRepo) GetByUser(_ context.Context, userID string) (models.ResponseMap, error) {
	return f.responses[userID], nil
}

func (f *fakeResponseRepo) GetByUsers(_ context.Context, userIDs []string) (map[string]models.ResponseMap, error) {
	out := make(map[string]models.ResponseMap, len(userIDs))
	for _, id := range userIDs {
		if responses, ok := f.responses[id]; ok {
			out[id] = responses
		}
	}
	return out, nil
}

func intentPtr(i models.RoommateIntent) *models.RoommateIntent { return &i }

func eligibleProfile(userID string, advanced bool) *models.Profile {
	return &models.Profile{
		UserID:                 userID,
		NeedsRoommate:          true,
		RoommateIntent:         intentPtr(models.IntentNewDorm),
		QuestionnaireCompleted: true,
		AdvancedOptIn:          advanced,
	}
}

func newMatchService(profiles *fakeProfileRepo, responses *fakeResponseRepo, cfg MatchServiceConfig) *MatchService {
	return NewMatchService(MatchServiceParams{
		Profiles:  profiles,
		Responses: responses,
		Config:    cfg,
	})
}

func TestFindMatchesMissingProfileReturnsEmptyList(t *testing.T) {
	svc := newMatchService(&fakeProfileRepo{profiles: map[string]*models.Profile{}}, &fakeResponseRepo{}, MatchServiceConfig{})

	matches, hit, err := svc.FindMatches(context.Background(), "user-1")

	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, matches)
}

func TestFindMatchesIneligibleProfileShortCircuits(t *testing.T) {
	cases := []struct {
		name    string
		profile *models.Profile
	}{
		{"questionnaire incomplete", &models.Profile{UserID: "user-1", NeedsRoommate: true, RoommateIntent: intentPtr(models.IntentNewDorm)}},
		{"no roommate request", &models.Profile{UserID: "user-1", QuestionnaireCompleted: true, RoommateIntent: intentPtr(models.IntentNewDorm)}},
		{"missing intent", &models.Profile{UserID: "user-1", NeedsRoommate: true, QuestionnaireCompleted: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newMatchService(&fakeProfileRepo{profiles: map[string]*models.Profile{"user-1": tc.profile}}, &fakeResponseRepo{}, MatchServiceConfig{})

			matches, _, err := svc.FindMatches(context.Background(), "user-1")

			require.NoError(t, err)
			assert.Empty(t, matches)
		})
	}
}

func TestFindMatchesRanksByOverallScoreDescending(t *testing.T) {
	profiles := &fakeProfileRepo{
		profiles: map[string]*models.Profile{"user-1": eligibleProfile("user-1", false)},
		candidates: []models.Profile{
			*eligibleProfile("far", false),
			*eligibleProfile("close", false),
			*eligibleProfile("twin", false),
		},
	}
	responses := &fakeResponseRepo{responses: map[string]models.ResponseMap{
		"user-1": fullResponses(4),
		"twin":   fullResponses(4),
		"close":  fullResponses(3),
		"far":    fullResponses(1),
	}}
	svc := newMatchService(profiles, responses, MatchServiceConfig{})

	matches, hit, err := svc.FindMatches(context.Background(), "user-1")

	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, matches, 3)
	assert.Equal(t, "twin", matches[0].Profile.UserID)
	assert.Equal(t, "close", matches[1].Profile.UserID)
	assert.Equal(t, "far", matches[2].Profile.UserID)
	assert.Equal(t, 100, matches[0].Scores.Overall)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Scores.Overall, matches[i].Scores.Overall)
	}
}

func TestFindMatchesSkipsCandidatesWithoutResponses(t *testing.T) {
	profiles := &fakeProfileRepo{
		profiles: map[string]*models.Profile{"user-1": eligibleProfile("user-1", false)},
		candidates: []models.Profile{
			*eligibleProfile("answered", false),
			*eligibleProfile("silent", false),
		},
	}
	responses := &fakeResponseRepo{responses: map[string]models.ResponseMap{
		"user-1":   fullResponses(3),
		"answered": fullResponses(3),
	}}
	svc := newMatchService(profiles, responses, MatchServiceConfig{})

	matches, _, err := svc.FindMatches(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "answered", matches[0].Profile.UserID)
}

func TestFindMatchesCapsAtMaxResults(t *testing.T) {
	profiles := &fakeProfileRepo{profiles: map[string]*models.Profile{"user-1": eligibleProfile("user-1", false)}}
	responses := &fakeResponseRepo{responses: map[string]models.ResponseMap{"user-1": fullResponses(3)}}
	for i := 0; i < 25; i++ {
		id := string(rune('a' + i%26))
		candidate := eligibleProfile("cand-"+id, false)
		candidate.UserID = candidate.UserID + string(rune('0'+i/26))
		profiles.candidates = append(profiles.candidates, *candidate)
		responses.responses[candidate.UserID] = fullResponses(3)
	}
	svc := newMatchService(profiles, responses, MatchServiceConfig{MaxResults: 20})

	matches, _, err := svc.FindMatches(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Len(t, matches, 20)
}

func TestFindMatchesAdvancedRequiresMutualOptIn(t *testing.T) {
	profiles := &fakeProfileRepo{
		profiles: map[string]*models.Profile{"user-1": eligibleProfile("user-1", true)},
		candidates: []models.Profile{
			*eligibleProfile("opted-in", true),
			*eligibleProfile("opted-out", false),
		},
	}
	responses := &fakeResponseRepo{responses: map[string]models.ResponseMap{
		"user-1":    fullResponses(4),
		"opted-in":  fullResponses(4),
		"opted-out": fullResponses(4),
	}}
	svc := newMatchService(profiles, responses, MatchServiceConfig{})

	matches, _, err := svc.FindMatches(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, matches, 2)
	for _, match := range matches {
		if match.Profile.UserID == "opted-in" {
			require.NotNil(t, match.Scores.Advanced)
			assert.Equal(t, 100, *match.Scores.Advanced)
		} else {
			assert.Nil(t, match.Scores.Advanced)
		}
	}
}

func TestFindMatchesLimitsReasons(t *testing.T) {
	profiles := &fakeProfileRepo{
		profiles:   map[string]*models.Profile{"user-1": eligibleProfile("user-1", false)},
		candidates: []models.Profile{*eligibleProfile("twin", false)},
	}
	responses := &fakeResponseRepo{responses: map[string]models.ResponseMap{
		"user-1": fullResponses(5),
		"twin":   fullResponses(5),
	}}
	svc := newMatchService(profiles, responses, MatchServiceConfig{})

	matches, _, err := svc.FindMatches(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.LessOrEqual(t, len(matches[0].Reasons), 3)
	assert.NotEmpty(t, matches[0].Reasons)
}
