package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/roomy-lb/roomy-api/internal/models"
)

// ResponseRepository persists questionnaire answers.
type ResponseRepository struct {
	db *sqlx.DB
}

// NewResponseRepository constructs the repository.
func NewResponseRepository(db *sqlx.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

type responseRow struct {
	UserID     string `db:"user_id"`
	QuestionID int    `db:"question_id"`
	Answer     int    `db:"answer"`
}

// GetByUser loads one user's answers as a ResponseMap. An empty map is
// returned when the user has not answered anything.
func (r *ResponseRepository) GetByUser(ctx context.Context, userID string) (models.ResponseMap, error) {
	const query = `SELECT user_id, question_id, answer FROM questionnaire_responses WHERE user_id = $1`
	var rows []responseRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("get responses: %w", err)
	}
	responses := make(models.ResponseMap, len(rows))
	for _, row := range rows {
		responses[row.QuestionID] = row.Answer
	}
	return responses, nil
}

// GetByUsers batch-loads answers for a candidate pool keyed by user id.
func (r *ResponseRepository) GetByUsers(ctx context.Context, userIDs []string) (map[string]models.ResponseMap, error) {
	result := make(map[string]models.ResponseMap, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	const query = `SELECT user_id, question_id, answer FROM questionnaire_responses WHERE user_id = ANY($1)`
	var rows []responseRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(userIDs)); err != nil {
		return nil, fmt.Errorf("batch get responses: %w", err)
	}
	for _, row := range rows {
		if result[row.UserID] == nil {
			result[row.UserID] = make(models.ResponseMap)
		}
		result[row.UserID][row.QuestionID] = row.Answer
	}
	return result, nil
}

// ReplaceForUser swaps a user's full answer set inside one transaction.
func (r *ResponseRepository) ReplaceForUser(ctx context.Context, userID string, responses models.ResponseMap, submittedAt time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace responses: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM questionnaire_responses WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear responses: %w", err)
	}

	const insert = `INSERT INTO questionnaire_responses (user_id, question_id, answer, submitted_at) VALUES ($1, $2, $3, $4)`
	for questionID, answer := range responses {
		if _, err := tx.ExecContext(ctx, insert, userID, questionID, answer, submittedAt); err != nil {
			return fmt.Errorf("insert response %d: %w", questionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace responses: %w", err)
	}
	return nil
}
