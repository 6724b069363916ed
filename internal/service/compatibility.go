package service

import (
	"math"
	"sort"

	"github.com/roomy-lb/roomy-api/internal/models"
)

// defaultReasonLimit caps the number of reasons attached to a match.
const defaultReasonLimit = 3

type distanceAccumulator struct {
	distance float64
	weight   float64
}

func (a *distanceAccumulator) add(distance, weight float64) {
	a.distance += distance
	a.weight += weight
}

// score converts accumulated weighted distance into a 0-100 integer. A zero
// accumulated weight yields 0: two respondents with no overlapping answers
// score as 0% compatible, not "unknown".
func (a distanceAccumulator) score() int {
	if a.weight == 0 {
		return 0
	}
	return int(math.Round((1 - a.distance/a.weight) * 100))
}

// ComputeCompatibility scores two response maps against the questionnaire
// catalog. Items unanswered by either side are excluded. Advanced items only
// participate when includeAdvanced is true, and the advanced sub-score stays
// nil unless at least one advanced item was mutually answered.
//
// The result is deterministic and symmetric in its arguments, and every score
// lies in [0,100]: per item the weighted distance never exceeds the weight,
// since normalized answers live in [0,1].
func ComputeCompatibility(responsesA, responsesB models.ResponseMap, includeAdvanced bool) models.CompatibilityScores {
	var total distanceAccumulator
	perCategory := map[models.QuestionCategory]*distanceAccumulator{
		models.CategoryLifestyle:   {},
		models.CategoryStudyWork:   {},
		models.CategoryPersonality: {},
		models.CategorySimilarity:  {},
		models.CategoryAdvanced:    {},
	}

	for _, item := range models.QuestionnaireItems() {
		if item.IsAdvanced && !includeAdvanced {
			continue
		}
		answerA, okA := responsesA[item.ID]
		answerB, okB := responsesB[item.ID]
		if !okA || !okB {
			continue
		}

		normA := float64(answerA-models.LikertMin) / float64(models.LikertMax-models.LikertMin)
		normB := float64(answerB-models.LikertMin) / float64(models.LikertMax-models.LikertMin)
		weighted := math.Abs(normA-normB) * item.Weight

		total.add(weighted, item.Weight)
		perCategory[item.Category].add(weighted, item.Weight)
	}

	scores := models.CompatibilityScores{
		Overall:     total.score(),
		Lifestyle:   perCategory[models.CategoryLifestyle].score(),
		Study:       perCategory[models.CategoryStudyWork].score(),
		Personality: perCategory[models.CategoryPersonality].score(),
		Similarity:  perCategory[models.CategorySimilarity].score(),
	}

	if includeAdvanced && perCategory[models.CategoryAdvanced].weight > 0 {
		advanced := perCategory[models.CategoryAdvanced].score()
		scores.Advanced = &advanced
	}

	return scores
}

type reasonCandidate struct {
	text  string
	score float64
}

// GenerateMatchReasons derives up to three short explanations for a match.
// Each named sub-group only contributes when both respondents answered every
// item in it; candidates are ranked by closeness with a stable sort so that
// equal scores keep their insertion order.
func GenerateMatchReasons(scores models.CompatibilityScores, responsesA, responsesB models.ResponseMap) []string {
	var candidates []reasonCandidate

	groups := []struct {
		itemIDs []int
		text    string
	}{
		{[]int{1, 2, 3}, "Similar cleanliness standards"},
		{[]int{4, 5}, "Compatible noise preferences"},
		{[]int{6, 7}, "Matching sleep schedules"},
		{[]int{8, 9}, "Aligned social habits"},
		{[]int{11, 12}, "Similar study environment needs"},
	}

	for _, group := range groups {
		closeness, ok := groupCloseness(group.itemIDs, responsesA, responsesB)
		if ok && closeness >= 4 {
			candidates = append(candidates, reasonCandidate{text: group.text, score: closeness})
		}
	}

	// Conflict style is a single item with a looser threshold: answers within
	// one Likert step of each other count as compatible.
	if a, okA := responsesA[18]; okA {
		if b, okB := responsesB[18]; okB {
			diff := math.Abs(float64(a - b))
			if diff <= 1 {
				candidates = append(candidates, reasonCandidate{
					text:  "Healthy conflict resolution styles",
					score: 5 - diff,
				})
			}
		}
	}

	if scores.Lifestyle >= 85 {
		candidates = append(candidates, reasonCandidate{
			text:  "Excellent lifestyle compatibility",
			score: float64(scores.Lifestyle) / 20,
		})
	}
	if scores.Personality >= 85 {
		candidates = append(candidates, reasonCandidate{
			text:  "Strong personality match",
			score: float64(scores.Personality) / 20,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	limit := defaultReasonLimit
	if len(candidates) < limit {
		limit = len(candidates)
	}
	reasons := make([]string, 0, limit)
	for _, c := range candidates[:limit] {
		reasons = append(reasons, c.text)
	}
	return reasons
}

// groupCloseness averages per-item closeness (5 minus the absolute Likert
// difference) across a sub-group. It returns false unless both respondents
// answered every item in the group.
func groupCloseness(itemIDs []int, responsesA, responsesB models.ResponseMap) (float64, bool) {
	var sum float64
	for _, id := range itemIDs {
		a, okA := responsesA[id]
		b, okB := responsesB[id]
		if !okA || !okB {
			return 0, false
		}
		sum += 5 - math.Abs(float64(a-b))
	}
	return sum / float64(len(itemIDs)), true
}
