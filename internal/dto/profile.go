package dto

// UpdateProfileRequest is the student payload for creating or editing the
// matching profile. RoommateIntent must accompany an active roommate request.
type UpdateProfileRequest struct {
	University     string  `json:"university" binding:"required"`
	Major          string  `json:"major"`
	YearOfStudy    int     `json:"year_of_study" binding:"omitempty,min=1,max=8"`
	Gender         string  `json:"gender"`
	Bio            string  `json:"bio"`
	NeedsRoommate  bool    `json:"needs_roommate"`
	RoommateIntent *string `json:"roommate_intent" binding:"omitempty,oneof=current_place new_dorm"`
}

// SubmitQuestionnaireRequest carries the Likert answers keyed by question id.
type SubmitQuestionnaireRequest struct {
	Answers       map[int]int `json:"answers" binding:"required"`
	AdvancedOptIn bool        `json:"advanced_opt_in"`
}
