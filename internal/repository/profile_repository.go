package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/roomy-lb/roomy-api/internal/models"
)

const profileColumns = `
p.user_id,
u.full_name,
p.university,
p.major,
p.year_of_study,
p.gender,
p.bio,
p.needs_roommate,
p.roommate_intent,
p.questionnaire_completed,
p.advanced_opt_in,
p.updated_at`

// ProfileRepository persists student matching profiles.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository constructs the repository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get fetches a single profile by user id.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM profiles p
JOIN users u ON u.id = p.user_id
WHERE p.user_id = $1`, profileColumns)

	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

// Upsert creates or replaces the profile row for a user.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	const query = `
INSERT INTO profiles (user_id, university, major, year_of_study, gender, bio, needs_roommate, roommate_intent, questionnaire_completed, advanced_opt_in, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (user_id) DO UPDATE SET
	university = EXCLUDED.university,
	major = EXCLUDED.major,
	year_of_study = EXCLUDED.year_of_study,
	gender = EXCLUDED.gender,
	bio = EXCLUDED.bio,
	needs_roommate = EXCLUDED.needs_roommate,
	roommate_intent = EXCLUDED.roommate_intent,
	questionnaire_completed = EXCLUDED.questionnaire_completed,
	advanced_opt_in = EXCLUDED.advanced_opt_in,
	updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query,
		profile.UserID, profile.University, profile.Major, profile.YearOfStudy, profile.Gender, profile.Bio,
		profile.NeedsRoommate, profile.RoommateIntent, profile.QuestionnaireCompleted, profile.AdvancedOptIn, profile.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// SetQuestionnaireState records the completion and advanced opt-in flags after
// a questionnaire submission. Users may submit before ever saving a profile,
// so the row is created on first write instead of updating zero rows.
func (r *ProfileRepository) SetQuestionnaireState(ctx context.Context, userID string, completed, advancedOptIn bool) error {
	const query = `
INSERT INTO profiles (user_id, questionnaire_completed, advanced_opt_in, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (user_id) DO UPDATE SET
	questionnaire_completed = EXCLUDED.questionnaire_completed,
	advanced_opt_in = EXCLUDED.advanced_opt_in,
	updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, userID, completed, advancedOptIn); err != nil {
		return fmt.Errorf("set questionnaire state: %w", err)
	}
	return nil
}

// ListCandidates returns the matching pool for one intent branch: other users
// who completed the questionnaire and share the same roommate intent.
func (r *ProfileRepository) ListCandidates(ctx context.Context, intent models.RoommateIntent, excludeUserID string) ([]models.Profile, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM profiles p
JOIN users u ON u.id = p.user_id
WHERE p.user_id <> $1
	AND p.needs_roommate = TRUE
	AND p.roommate_intent = $2
	AND p.questionnaire_completed = TRUE
	AND u.active = TRUE
ORDER BY p.updated_at DESC`, profileColumns)

	var profiles []models.Profile
	if err := r.db.SelectContext(ctx, &profiles, query, excludeUserID, intent); err != nil {
		return nil, fmt.Errorf("list match candidates: %w", err)
	}
	return profiles, nil
}
