package services

import (
	"context"
	"testing"

	"github.com/medwaste/classify-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndAuthenticateUser(t *testing.T) {
	s := NewUserService(newTestDB(t))
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "user@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Empty(t, created.PasswordHash, "hashes never leave the service")

	authed, err := s.AuthenticateUser(ctx, "user@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, authed.ID)
	assert.Empty(t, authed.PasswordHash)
}

func TestAuthenticateUserInvalidCredentials(t *testing.T) {
	s := NewUserService(newTestDB(t))
	ctx := context.Background()

	_, err := s.CreateUser(ctx, "user@example.com", "secret1")
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, err := s.AuthenticateUser(ctx, "user@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown account maps to the same error", func(t *testing.T) {
		_, err := s.AuthenticateUser(ctx, "nobody@example.com", "secret1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := NewUserService(newTestDB(t))
	ctx := context.Background()

	_, err := s.CreateUser(ctx, "user@example.com", "secret1")
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, "user@example.com", "secret2")
	assert.Error(t, err)
}

func TestGetUserByID(t *testing.T) {
	s := NewUserService(newTestDB(t))
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "user@example.com", "secret1")
	require.NoError(t, err)

	user, err := s.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", user.Email)

	_, err = s.GetUserByID(ctx, "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUserNotifiesIdentityChange(t *testing.T) {
	s := NewUserService(newTestDB(t))
	ctx := context.Background()

	var gotUserID string
	var gotIdentity *models.Identity
	notified := false
	s.SetIdentityChangeHook(func(userID string, identity *models.Identity) {
		notified = true
		gotUserID = userID
		gotIdentity = identity
	})

	created, err := s.CreateUser(ctx, "user@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(ctx, created.ID))
	assert.True(t, notified)
	assert.Equal(t, created.ID, gotUserID)
	assert.Nil(t, gotIdentity, "deletion ends the account's sessions")

	_, err = s.GetUserByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUserMissing(t *testing.T) {
	s := NewUserService(newTestDB(t))
	err := s.DeleteUser(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCountUsers(t *testing.T) {
	s := NewUserService(newTestDB(t))
	ctx := context.Background()

	count, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = s.CreateUser(ctx, "a@example.com", "secret1")
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, "b@example.com", "secret2")
	require.NoError(t, err)

	count, err = s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
