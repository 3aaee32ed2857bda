package handlers

import (
	"context"

	paymentdto "github.com/quotakeeper/quotakeeper/internal/application/payment/dto"
	paymentusecases "github.com/quotakeeper/quotakeeper/internal/application/payment/usecases"
	usagedto "github.com/quotakeeper/quotakeeper/internal/application/usage/dto"
	usageusecases "github.com/quotakeeper/quotakeeper/internal/application/usage/usecases"
	userdto "github.com/quotakeeper/quotakeeper/internal/application/user/dto"
	userusecases "github.com/quotakeeper/quotakeeper/internal/application/user/usecases"
	"github.com/quotakeeper/quotakeeper/internal/domain/user"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockGetUsageUC struct {
	result    *usagedto.UsageResponse
	err       error
	lastQuery usageusecases.GetUsageQuery
}

func (m *mockGetUsageUC) Execute(ctx context.Context, query usageusecases.GetUsageQuery) (*usagedto.UsageResponse, error) {
	m.lastQuery = query
	return m.result, m.err
}

type mockRecordUsageUC struct {
	result  *usagedto.UsageResponse
	err     error
	lastCmd usageusecases.RecordUsageCommand
	calls   int
}

func (m *mockRecordUsageUC) Execute(ctx context.Context, cmd usageusecases.RecordUsageCommand) (*usagedto.UsageResponse, error) {
	m.calls++
	m.lastCmd = cmd
	return m.result, m.err
}

type mockSyncPaymentUC struct {
	result  *user.PaymentEntitlement
	err     error
	lastCmd paymentusecases.SyncPaymentCommand
	calls   int
}

func (m *mockSyncPaymentUC) Execute(ctx context.Context, cmd paymentusecases.SyncPaymentCommand) (*user.PaymentEntitlement, error) {
	m.calls++
	m.lastCmd = cmd
	return m.result, m.err
}

type mockGetPaymentUC struct {
	result   *paymentdto.PaymentDTO
	err      error
	lastID   int64
	executed bool
}

func (m *mockGetPaymentUC) Execute(ctx context.Context, externalUserID int64) (*paymentdto.PaymentDTO, error) {
	m.executed = true
	m.lastID = externalUserID
	return m.result, m.err
}

type mockUpdateSettingsUC struct {
	result  *userdto.SettingsResponse
	err     error
	lastCmd userusecases.UpdateSettingsCommand
	calls   int
}

func (m *mockUpdateSettingsUC) Execute(ctx context.Context, cmd userusecases.UpdateSettingsCommand) (*userdto.SettingsResponse, error) {
	m.calls++
	m.lastCmd = cmd
	return m.result, m.err
}
