package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/quotakeeper/quotakeeper/internal/application/user/helpers"
	"github.com/quotakeeper/quotakeeper/internal/domain/user"
	apperrors "github.com/quotakeeper/quotakeeper/internal/shared/errors"
	"github.com/quotakeeper/quotakeeper/internal/shared/logger"
)

func newTestUser(t *testing.T, settings user.Settings) *user.User {
	t.Helper()
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	u, err := user.ReconstructUser(10, 555, "alice", "Alice", user.PaymentEntitlement{Plan: user.PlanFree}, settings, now, now)
	require.NoError(t, err)
	return u
}

func newUpdateSettings(repo *mockUserRepository, authCache *mockAuthCache) *UpdateSettingsUseCase {
	log := logger.NewNopLogger()
	return NewUpdateSettingsUseCase(repo, helpers.NewAuthRefresher(authCache, log), log)
}

func TestUpdateSettings_MergesAndInvalidates(t *testing.T) {
	repo := new(mockUserRepository)
	authCache := new(mockAuthCache)

	repo.On("GetByID", mock.Anything, uint(10)).
		Return(newTestUser(t, user.Settings{"theme": "light", "saved_location": "/a"}), nil)
	repo.On("UpdateSettings", mock.Anything, uint(10), user.Settings{"theme": "dark", "saved_location": "/a"}).
		Return(nil).Once()
	authCache.On("Invalidate", mock.Anything, "tok").Return(nil).Once()

	resp, err := newUpdateSettings(repo, authCache).Execute(context.Background(), UpdateSettingsCommand{
		UserID:   10,
		AuthKey:  "tok",
		Settings: map[string]any{"theme": "dark"},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"theme": "dark", "saved_location": "/a"}, resp.Settings)
	repo.AssertExpectations(t)
	authCache.AssertExpectations(t)
}

func TestUpdateSettings_UnknownUser(t *testing.T) {
	repo := new(mockUserRepository)
	authCache := new(mockAuthCache)
	repo.On("GetByID", mock.Anything, uint(10)).Return(nil, nil)

	_, err := newUpdateSettings(repo, authCache).Execute(context.Background(), UpdateSettingsCommand{
		UserID:   10,
		AuthKey:  "tok",
		Settings: map[string]any{"theme": "dark"},
	})
	assert.True(t, apperrors.IsNotFoundError(err))
	authCache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestUpdateSettings_WriteFailureKeepsCache(t *testing.T) {
	repo := new(mockUserRepository)
	authCache := new(mockAuthCache)
	repo.On("GetByID", mock.Anything, uint(10)).Return(newTestUser(t, nil), nil)
	repo.On("UpdateSettings", mock.Anything, uint(10), mock.Anything).Return(errors.New("db gone"))

	_, err := newUpdateSettings(repo, authCache).Execute(context.Background(), UpdateSettingsCommand{
		UserID:   10,
		AuthKey:  "tok",
		Settings: map[string]any{"theme": "dark"},
	})
	assert.True(t, apperrors.IsStoreUnavailableError(err))
	authCache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestUpdateSettings_Validation(t *testing.T) {
	uc := newUpdateSettings(new(mockUserRepository), new(mockAuthCache))

	_, err := uc.Execute(context.Background(), UpdateSettingsCommand{Settings: map[string]any{}})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.Execute(context.Background(), UpdateSettingsCommand{UserID: 1})
	assert.True(t, apperrors.IsValidationError(err))
}
