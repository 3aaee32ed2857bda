package usecases

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/quotakeeper/quotakeeper/internal/domain/user"
	"github.com/quotakeeper/quotakeeper/internal/infrastructure/cache"
)

type mockAuthority struct {
	mock.Mock
	name string
}

func newMockAuthority(name string) *mockAuthority {
	return &mockAuthority{name: name}
}

func (m *mockAuthority) Name() string { return m.name }

func (m *mockAuthority) FetchEntitlement(ctx context.Context, externalUserID int64) (*user.PaymentEntitlement, error) {
	args := m.Called(ctx, externalUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.PaymentEntitlement), args.Error(1)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepository) GetByExternalID(ctx context.Context, externalID int64) (*user.User, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepository) UpdateEntitlement(ctx context.Context, id uint, e user.PaymentEntitlement) error {
	return m.Called(ctx, id, e).Error(0)
}

func (m *mockUserRepository) UpdateSettings(ctx context.Context, id uint, s user.Settings) error {
	return m.Called(ctx, id, s).Error(0)
}

type mockAuthCache struct {
	mock.Mock
}

func (m *mockAuthCache) Get(ctx context.Context, authKey string) (*cache.AuthSnapshot, error) {
	args := m.Called(ctx, authKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cache.AuthSnapshot), args.Error(1)
}

func (m *mockAuthCache) Set(ctx context.Context, authKey string, snapshot *cache.AuthSnapshot) error {
	return m.Called(ctx, authKey, snapshot).Error(0)
}

func (m *mockAuthCache) Invalidate(ctx context.Context, authKey string) error {
	return m.Called(ctx, authKey).Error(0)
}
