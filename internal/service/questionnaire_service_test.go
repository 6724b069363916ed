package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomy-lb/roomy-api/internal/models"
	appErrors "github.com/roomy-lb/roomy-api/pkg/errors"
)

type fakeQuestionnaireResponses struct {
	stored    models.ResponseMap
	submitted time.Time
}

func (f *fakeQuestionnaireResponses) GetByUser(context.Context, string) (models.ResponseMap, error) {
	return f.stored, nil
}

func (f *fakeQuestionnaireResponses) ReplaceForUser(_ context.Context, _ string, responses models.ResponseMap, submittedAt time.Time) error {
	f.stored = responses
	f.submitted = submittedAt
	return nil
}

type fakeQuestionnaireProfiles struct {
	completed     bool
	advancedOptIn bool
	called        bool
}

func (f *fakeQuestionnaireProfiles) SetQuestionnaireState(_ context.Context, _ string, completed, advancedOptIn bool) error {
	f.completed = completed
	f.advancedOptIn = advancedOptIn
	f.called = true
	return nil
}

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) InvalidateForUser(context.Context, string) { f.calls++ }

func baseResponses(value int) models.ResponseMap {
	responses := make(models.ResponseMap)
	for _, item := range models.QuestionnaireItems() {
		if !item.IsAdvanced {
			responses[item.ID] = value
		}
	}
	return responses
}

func TestSubmitRejectsUnknownQuestion(t *testing.T) {
	svc := NewQuestionnaireService(&fakeQuestionnaireResponses{}, &fakeQuestionnaireProfiles{}, nil, nil)

	err := svc.Submit(context.Background(), "user-1", models.ResponseMap{999: 3}, false)

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubmitRejectsOutOfRangeAnswer(t *testing.T) {
	svc := NewQuestionnaireService(&fakeQuestionnaireResponses{}, &fakeQuestionnaireProfiles{}, nil, nil)

	for _, answer := range []int{0, 6, -1} {
		err := svc.Submit(context.Background(), "user-1", models.ResponseMap{1: answer}, false)
		require.Error(t, err)
	}
}

func TestSubmitMarksCompletedWhenAllBaseItemsAnswered(t *testing.T) {
	responses := &fakeQuestionnaireResponses{}
	profiles := &fakeQuestionnaireProfiles{}
	invalidator := &fakeInvalidator{}
	svc := NewQuestionnaireService(responses, profiles, invalidator, nil)

	err := svc.Submit(context.Background(), "user-1", baseResponses(3), true)

	require.NoError(t, err)
	assert.True(t, profiles.called)
	assert.True(t, profiles.completed)
	assert.True(t, profiles.advancedOptIn)
	assert.Equal(t, 1, invalidator.calls)
	assert.Len(t, responses.stored, len(baseResponses(3)))
}

func TestSubmitPartialAnswersStayIncomplete(t *testing.T) {
	profiles := &fakeQuestionnaireProfiles{}
	svc := NewQuestionnaireService(&fakeQuestionnaireResponses{}, profiles, nil, nil)

	err := svc.Submit(context.Background(), "user-1", models.ResponseMap{1: 3, 2: 4}, false)

	require.NoError(t, err)
	assert.True(t, profiles.called)
	assert.False(t, profiles.completed)
}

func TestSubmitAdvancedAnswersDoNotCountTowardsCompletion(t *testing.T) {
	profiles := &fakeQuestionnaireProfiles{}
	svc := NewQuestionnaireService(&fakeQuestionnaireResponses{}, profiles, nil, nil)

	advancedOnly := make(models.ResponseMap)
	for _, item := range models.QuestionnaireItems() {
		if item.IsAdvanced {
			advancedOnly[item.ID] = 3
		}
	}
	err := svc.Submit(context.Background(), "user-1", advancedOnly, true)

	require.NoError(t, err)
	assert.False(t, profiles.completed)
}

func TestCatalogIsFixedAndOrdered(t *testing.T) {
	svc := NewQuestionnaireService(&fakeQuestionnaireResponses{}, &fakeQuestionnaireProfiles{}, nil, nil)

	items := svc.Catalog()

	require.Len(t, items, models.QuestionnaireSize())
	for i := 1; i < len(items); i++ {
		assert.Greater(t, items[i].Order, items[i-1].Order)
	}
}
