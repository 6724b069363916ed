package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

const setQuestionnaireStateQuery = `
INSERT INTO profiles (user_id, questionnaire_completed, advanced_opt_in, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (user_id) DO UPDATE SET
	questionnaire_completed = EXCLUDED.questionnaire_completed,
	advanced_opt_in = EXCLUDED.advanced_opt_in,
	updated_at = NOW()`

func TestSetQuestionnaireStateCreatesRowForFirstSubmission(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	// No profiles row exists yet: the write must insert, not update zero
	// rows, or the completion flag is lost while the submit still succeeds.
	mock.ExpectExec(regexp.QuoteMeta(setQuestionnaireStateQuery)).
		WithArgs("user-1", true, false).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.SetQuestionnaireState(context.Background(), "user-1", true, false)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetQuestionnaireStateOverwritesExistingFlags(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(setQuestionnaireStateQuery)).
		WithArgs("user-1", false, true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetQuestionnaireState(context.Background(), "user-1", false, true)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
