package service

import (
	"learnpath_backend/internal/repository"
	"learnpath_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db), NopActivityRecorder{}, zap.NewNop())

	user, err := svc.Register("Alice Zhang", "alice")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	_, err = svc.Register("Another Alice", "alice")
	assert.ErrorIs(t, err, util.ErrUsernameTaken)

	got, err := svc.Login("alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Login("ghost")
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	svc.Logout("alice")
}
