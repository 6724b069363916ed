package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomy-lb/roomy-api/internal/models"
)

func fullResponses(value int) models.ResponseMap {
	responses := make(models.ResponseMap, models.QuestionnaireSize())
	for id := 1; id <= models.QuestionnaireSize(); id++ {
		responses[id] = value
	}
	return responses
}

func TestComputeCompatibilitySelfMatchIs100(t *testing.T) {
	responses := fullResponses(4)

	scores := ComputeCompatibility(responses, responses, true)

	assert.Equal(t, 100, scores.Overall)
	assert.Equal(t, 100, scores.Lifestyle)
	assert.Equal(t, 100, scores.Study)
	assert.Equal(t, 100, scores.Personality)
	assert.Equal(t, 100, scores.Similarity)
	require.NotNil(t, scores.Advanced)
	assert.Equal(t, 100, *scores.Advanced)
}

func TestComputeCompatibilityIsDeterministic(t *testing.T) {
	a := models.ResponseMap{1: 5, 2: 3, 7: 1, 18: 4, 26: 2}
	b := models.ResponseMap{1: 2, 2: 3, 7: 5, 18: 3, 26: 4}

	first := ComputeCompatibility(a, b, true)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ComputeCompatibility(a, b, true))
	}
}

func TestComputeCompatibilityIsSymmetric(t *testing.T) {
	a := models.ResponseMap{1: 5, 4: 2, 11: 3, 16: 1, 21: 4, 30: 5}
	b := models.ResponseMap{1: 1, 4: 4, 11: 3, 16: 5, 21: 2, 30: 1}

	for _, includeAdvanced := range []bool{false, true} {
		ab := ComputeCompatibility(a, b, includeAdvanced)
		ba := ComputeCompatibility(b, a, includeAdvanced)
		assert.Equal(t, ab, ba)
	}
}

func TestComputeCompatibilityScoreBounds(t *testing.T) {
	cases := []struct {
		name string
		a, b models.ResponseMap
	}{
		{"opposite extremes", fullResponses(1), fullResponses(5)},
		{"identical", fullResponses(3), fullResponses(3)},
		{"partial overlap", models.ResponseMap{1: 1, 2: 5}, models.ResponseMap{2: 1, 3: 5}},
		{"empty", models.ResponseMap{}, models.ResponseMap{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			scores := ComputeCompatibility(tc.a, tc.b, true)
			for _, s := range []int{scores.Overall, scores.Lifestyle, scores.Study, scores.Personality, scores.Similarity} {
				assert.GreaterOrEqual(t, s, 0)
				assert.LessOrEqual(t, s, 100)
			}
			if scores.Advanced != nil {
				assert.GreaterOrEqual(t, *scores.Advanced, 0)
				assert.LessOrEqual(t, *scores.Advanced, 100)
			}
		})
	}
}

func TestComputeCompatibilityNoOverlapScoresZero(t *testing.T) {
	a := models.ResponseMap{1: 5, 2: 5}
	b := models.ResponseMap{3: 5, 4: 5}

	scores := ComputeCompatibility(a, b, true)

	assert.Equal(t, 0, scores.Overall)
	assert.Equal(t, 0, scores.Lifestyle)
	assert.Equal(t, 0, scores.Study)
	assert.Equal(t, 0, scores.Personality)
	assert.Equal(t, 0, scores.Similarity)
	assert.Nil(t, scores.Advanced)
}

func TestComputeCompatibilityIdenticalCleanlinessAnswers(t *testing.T) {
	a := models.ResponseMap{1: 5, 2: 5, 3: 5}
	b := models.ResponseMap{1: 5, 2: 5, 3: 5}

	scores := ComputeCompatibility(a, b, false)

	// Items 1-3 are the only comparable items; zero distance means a perfect
	// lifestyle sub-score while unanswered categories stay at 0.
	assert.Equal(t, 100, scores.Lifestyle)
	assert.Equal(t, 100, scores.Overall)
	assert.Equal(t, 0, scores.Study)
}

func TestComputeCompatibilityAdvancedExclusion(t *testing.T) {
	a := fullResponses(2)
	b := fullResponses(2)

	withoutAdvanced := ComputeCompatibility(a, b, false)
	assert.Nil(t, withoutAdvanced.Advanced)

	withAdvanced := ComputeCompatibility(a, b, true)
	require.NotNil(t, withAdvanced.Advanced)
	assert.Equal(t, 100, *withAdvanced.Advanced)
}

func TestComputeCompatibilityAdvancedNilWithoutMutualAnswers(t *testing.T) {
	a := models.ResponseMap{1: 3, 26: 4}
	b := models.ResponseMap{1: 3, 27: 4}

	scores := ComputeCompatibility(a, b, true)

	// Advanced items 26 and 27 were each answered by only one side.
	assert.Nil(t, scores.Advanced)
}

func TestGenerateMatchReasonsSubGroups(t *testing.T) {
	a := models.ResponseMap{1: 5, 2: 5, 3: 4, 4: 1, 5: 5, 18: 4}
	b := models.ResponseMap{1: 5, 2: 4, 3: 4, 4: 5, 5: 1, 18: 3}
	scores := ComputeCompatibility(a, b, false)

	reasons := GenerateMatchReasons(scores, a, b)

	// Cleanliness closeness is (5+4+5)/3 ≈ 4.67 and conflict answers differ
	// by one; the noise pair is maximally distant and must not contribute.
	assert.Contains(t, reasons, "Similar cleanliness standards")
	assert.Contains(t, reasons, "Healthy conflict resolution styles")
	assert.NotContains(t, reasons, "Compatible noise preferences")
}

func TestGenerateMatchReasonsRequiresFullSubGroup(t *testing.T) {
	a := models.ResponseMap{1: 5, 2: 5}
	b := models.ResponseMap{1: 5, 2: 5}
	scores := ComputeCompatibility(a, b, false)

	reasons := GenerateMatchReasons(scores, a, b)

	// Item 3 is unanswered, so the cleanliness group cannot contribute.
	assert.NotContains(t, reasons, "Similar cleanliness standards")
}

func TestGenerateMatchReasonsCapsAtThree(t *testing.T) {
	a := fullResponses(4)
	b := fullResponses(4)
	scores := ComputeCompatibility(a, b, true)

	reasons := GenerateMatchReasons(scores, a, b)

	assert.Len(t, reasons, 3)
	// Every sub-group ties at closeness 5, so the stable sort keeps the
	// insertion order of the group table.
	assert.Equal(t, []string{
		"Similar cleanliness standards",
		"Compatible noise preferences",
		"Matching sleep schedules",
	}, reasons)
}

func TestGenerateMatchReasonsCategoryThresholds(t *testing.T) {
	a := fullResponses(3)
	b := fullResponses(3)
	scores := ComputeCompatibility(a, b, false)
	require.GreaterOrEqual(t, scores.Lifestyle, 85)
	require.GreaterOrEqual(t, scores.Personality, 85)

	// Strip the scored answers so only the category reasons can fire.
	empty := models.ResponseMap{}
	reasons := GenerateMatchReasons(scores, empty, empty)

	assert.Equal(t, []string{
		"Excellent lifestyle compatibility",
		"Strong personality match",
	}, reasons)
}
