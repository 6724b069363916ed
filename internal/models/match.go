package models

// CompatibilityScores is the computed result of comparing two respondents.
// Advanced is nil unless both sides opted into the advanced comparison and at
// least one advanced item was mutually answered.
type CompatibilityScores struct {
	Overall     int  `json:"overall"`
	Lifestyle   int  `json:"lifestyle"`
	Study       int  `json:"study"`
	Personality int  `json:"personality"`
	Similarity  int  `json:"similarity"`
	Advanced    *int `json:"advanced"`
}

// MatchCandidate joins a candidate profile with its computed scores and up to
// three human-readable reasons. Constructed per matching request, never stored.
type MatchCandidate struct {
	Profile Profile             `json:"profile"`
	Scores  CompatibilityScores `json:"scores"`
	Reasons []string            `json:"reasons"`
}
