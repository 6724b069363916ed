package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/roomy-lb/roomy-api/internal/models"
	appErrors "github.com/roomy-lb/roomy-api/pkg/errors"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
	created []*models.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if f.byEmail == nil {
		f.byEmail = make(map[string]*models.User)
	}
	f.byEmail[user.Email] = user
	f.created = append(f.created, user)
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := f.byEmail[email]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) UpdateLastLogin(context.Context, string, time.Time) error { return nil }

func testAuthConfig() AuthConfig {
	return AuthConfig{TokenSecret: "test-secret", TokenExpiry: time.Hour, Issuer: "roomy-api"}
}

func TestRegisterAndLoginRoundTrip(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	session, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "Lina@Example.com",
		Password: "secret123",
		FullName: "Lina Haddad",
		Role:     "STUDENT",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.Equal(t, models.RoleStudent, session.User.Role)

	// Email is normalised on write, so a lower-cased login succeeds.
	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "lina@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, login.User.ID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := &fakeUserRepo{byEmail: map[string]*models.User{
		"taken@example.com": {ID: "user-1", Email: "taken@example.com", Active: true},
	}}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "taken@example.com",
		Password: "secret123",
		FullName: "Someone Else",
		Role:     "OWNER",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &fakeUserRepo{byEmail: map[string]*models.User{
		"user@example.com": {ID: "user-1", Email: "user@example.com", PasswordHash: string(hash), Active: true},
	}}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "missing@example.com", Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &fakeUserRepo{byEmail: map[string]*models.User{
		"user@example.com": {ID: "user-1", Email: "user@example.com", PasswordHash: string(hash), Active: false},
	}}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "correct"})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	session, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "owner@example.com",
		Password: "secret123",
		FullName: "Rami Owner",
		Role:     "OWNER",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID)
	assert.Equal(t, models.RoleOwner, claims.Role)

	_, err = svc.ValidateToken(session.AccessToken + "tampered")
	require.Error(t, err)

	other := NewAuthService(repo, nil, nil, AuthConfig{TokenSecret: "different", TokenExpiry: time.Hour})
	_, err = other.ValidateToken(session.AccessToken)
	require.Error(t, err)
}
