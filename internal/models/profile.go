package models

import "time"

// RoommateIntent distinguishes the two mutually exclusive matching branches:
// finding a roommate for a place the student already has, or finding someone
// to move into a new dorm with.
type RoommateIntent string

const (
	IntentCurrentPlace RoommateIntent = "current_place"
	IntentNewDorm      RoommateIntent = "new_dorm"
)

// Profile is a student's matching profile joined from the users table and the
// questionnaire state.
type Profile struct {
	UserID                 string          `db:"user_id" json:"user_id"`
	FullName               string          `db:"full_name" json:"full_name"`
	University             string          `db:"university" json:"university"`
	Major                  string          `db:"major" json:"major"`
	YearOfStudy            int             `db:"year_of_study" json:"year_of_study"`
	Gender                 string          `db:"gender" json:"gender"`
	Bio                    string          `db:"bio" json:"bio"`
	NeedsRoommate          bool            `db:"needs_roommate" json:"needs_roommate"`
	RoommateIntent         *RoommateIntent `db:"roommate_intent" json:"roommate_intent,omitempty"`
	QuestionnaireCompleted bool            `db:"questionnaire_completed" json:"questionnaire_completed"`
	AdvancedOptIn          bool            `db:"advanced_opt_in" json:"advanced_opt_in"`
	UpdatedAt              time.Time       `db:"updated_at" json:"updated_at"`
}
