package models

// QuestionCategory groups questionnaire items for sub-score reporting.
type QuestionCategory string

const (
	CategoryLifestyle   QuestionCategory = "lifestyle"
	CategoryStudyWork   QuestionCategory = "study_work"
	CategoryPersonality QuestionCategory = "personality"
	CategorySimilarity  QuestionCategory = "similarity"
	CategoryAdvanced    QuestionCategory = "advanced"
)

// Likert response bounds. Every answer is an integer in [1,5].
const (
	LikertMin = 1
	LikertMax = 5
)

// QuestionnaireItem is one entry of the fixed roommate questionnaire.
type QuestionnaireItem struct {
	ID          int              `json:"id"`
	Text        string           `json:"text"`
	Category    QuestionCategory `json:"category"`
	Subcategory string           `json:"subcategory"`
	Weight      float64          `json:"weight"`
	IsAdvanced  bool             `json:"is_advanced"`
	Order       int              `json:"order"`
}

// ResponseMap maps questionnaire item id to a Likert answer. Partial maps are
// allowed; items missing on either side of a comparison are skipped.
type ResponseMap map[int]int

// questionnaireCatalog is the fixed, ordered set of 35 items. IDs are dense
// (1..35) and each item belongs to exactly one category.
var questionnaireCatalog = []QuestionnaireItem{
	{ID: 1, Text: "I keep my personal space clean and tidy", Category: CategoryLifestyle, Subcategory: "cleanliness", Weight: 1.5},
	{ID: 2, Text: "Shared areas should be cleaned on a fixed schedule", Category: CategoryLifestyle, Subcategory: "cleanliness", Weight: 1.5},
	{ID: 3, Text: "Dishes must be washed right after use", Category: CategoryLifestyle, Subcategory: "cleanliness", Weight: 1.5},
	{ID: 4, Text: "I am comfortable with music or TV playing in the room", Category: CategoryLifestyle, Subcategory: "noise", Weight: 1.2},
	{ID: 5, Text: "I need quiet in the room after midnight", Category: CategoryLifestyle, Subcategory: "noise", Weight: 1.2},
	{ID: 6, Text: "I go to bed before midnight on weekdays", Category: CategoryLifestyle, Subcategory: "sleep_schedule", Weight: 1.3},
	{ID: 7, Text: "I wake up early even on weekends", Category: CategoryLifestyle, Subcategory: "sleep_schedule", Weight: 1.3},
	{ID: 8, Text: "I enjoy having friends over at our place", Category: CategoryLifestyle, Subcategory: "social", Weight: 1.0},
	{ID: 9, Text: "I like sharing meals with my roommate", Category: CategoryLifestyle, Subcategory: "social", Weight: 1.0},
	{ID: 10, Text: "I am bothered by smoking indoors", Category: CategoryLifestyle, Subcategory: "smoking", Weight: 1.4},
	{ID: 11, Text: "I study best in complete silence", Category: CategoryStudyWork, Subcategory: "study_environment", Weight: 1.2},
	{ID: 12, Text: "I prefer studying in the room rather than the library", Category: CategoryStudyWork, Subcategory: "study_environment", Weight: 1.2},
	{ID: 13, Text: "I follow a strict daily study schedule", Category: CategoryStudyWork, Subcategory: "study_schedule", Weight: 1.0},
	{ID: 14, Text: "I often attend online classes from the room", Category: CategoryStudyWork, Subcategory: "remote_work", Weight: 0.8},
	{ID: 15, Text: "I like studying together with a roommate", Category: CategoryStudyWork, Subcategory: "collaboration", Weight: 0.8},
	{ID: 16, Text: "I recharge by spending time alone", Category: CategoryPersonality, Subcategory: "introversion", Weight: 1.0},
	{ID: 17, Text: "I enjoy meeting new people often", Category: CategoryPersonality, Subcategory: "openness", Weight: 0.9},
	{ID: 18, Text: "I address disagreements directly and calmly", Category: CategoryPersonality, Subcategory: "conflict_style", Weight: 1.3},
	{ID: 19, Text: "I am comfortable sharing household items", Category: CategoryPersonality, Subcategory: "sharing", Weight: 1.0},
	{ID: 20, Text: "I communicate plans and changes in advance", Category: CategoryPersonality, Subcategory: "communication", Weight: 1.1},
	{ID: 21, Text: "I prefer a roommate from my own faculty", Category: CategorySimilarity, Subcategory: "academics", Weight: 0.7},
	{ID: 22, Text: "I prefer a roommate from my own year", Category: CategorySimilarity, Subcategory: "academics", Weight: 0.6},
	{ID: 23, Text: "Speaking the same first language matters to me", Category: CategorySimilarity, Subcategory: "language", Weight: 0.8},
	{ID: 24, Text: "I prefer a roommate from my home region", Category: CategorySimilarity, Subcategory: "background", Weight: 0.5},
	{ID: 25, Text: "Shared cultural habits matter to me", Category: CategorySimilarity, Subcategory: "background", Weight: 0.6},
	{ID: 26, Text: "I am comfortable living with pets", Category: CategoryAdvanced, Subcategory: "pets", Weight: 1.0, IsAdvanced: true},
	{ID: 27, Text: "Groceries and food should be shared", Category: CategoryAdvanced, Subcategory: "food", Weight: 0.8, IsAdvanced: true},
	{ID: 28, Text: "Overnight guests are fine with me", Category: CategoryAdvanced, Subcategory: "guests", Weight: 1.0, IsAdvanced: true},
	{ID: 29, Text: "I prefer the room on the warmer side", Category: CategoryAdvanced, Subcategory: "comfort", Weight: 0.5, IsAdvanced: true},
	{ID: 30, Text: "Utility costs should be split strictly evenly", Category: CategoryAdvanced, Subcategory: "budget", Weight: 0.9, IsAdvanced: true},
	{ID: 31, Text: "I am comfortable discussing politics at home", Category: CategoryAdvanced, Subcategory: "values", Weight: 0.6, IsAdvanced: true},
	{ID: 32, Text: "I am comfortable with alcohol in the apartment", Category: CategoryAdvanced, Subcategory: "values", Weight: 0.8, IsAdvanced: true},
	{ID: 33, Text: "Hosting parties at our place is fine with me", Category: CategoryAdvanced, Subcategory: "guests", Weight: 0.9, IsAdvanced: true},
	{ID: 34, Text: "Borrowing each other's belongings is acceptable", Category: CategoryAdvanced, Subcategory: "sharing", Weight: 0.7, IsAdvanced: true},
	{ID: 35, Text: "I need clear rules about privacy and closed doors", Category: CategoryAdvanced, Subcategory: "privacy", Weight: 1.0, IsAdvanced: true},
}

func init() {
	for i := range questionnaireCatalog {
		questionnaireCatalog[i].Order = i + 1
	}
}

// QuestionnaireItems returns the full ordered catalog.
func QuestionnaireItems() []QuestionnaireItem {
	items := make([]QuestionnaireItem, len(questionnaireCatalog))
	copy(items, questionnaireCatalog)
	return items
}

// QuestionnaireItemByID looks up a catalog item.
func QuestionnaireItemByID(id int) (QuestionnaireItem, bool) {
	if id < 1 || id > len(questionnaireCatalog) {
		return QuestionnaireItem{}, false
	}
	return questionnaireCatalog[id-1], true
}

// QuestionnaireSize is the number of catalog items.
func QuestionnaireSize() int {
	return len(questionnaireCatalog)
}
