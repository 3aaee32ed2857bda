package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/quotakeeper/quotakeeper/internal/domain/user"
	"github.com/quotakeeper/quotakeeper/internal/infrastructure/persistence/models"
)

// UserMapper converts between user entities and persistence models
type UserMapper interface {
	ToEntity(model *models.UserModel) (*user.User, error)

	// EntitlementColumns returns the column set written when an entitlement changes.
	EntitlementColumns(e user.PaymentEntitlement) map[string]any

	// SettingsColumn encodes a settings document for the settings column.
	SettingsColumn(s user.Settings) (datatypes.JSON, error)
}

type userMapper struct{}

func NewUserMapper() UserMapper {
	return &userMapper{}
}

func (m *userMapper) ToEntity(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}

	settings := user.Settings{}
	if len(model.Settings) > 0 && string(model.Settings) != "null" {
		if err := json.Unmarshal(model.Settings, &settings); err != nil {
			return nil, fmt.Errorf("failed to decode settings of user %d: %w", model.ID, err)
		}
	}

	entitlement := user.PaymentEntitlement{
		SubscriptionID:     model.SubscriptionID,
		PaymentProcessorID: model.MidtransID,
	}
	if model.Plan != nil {
		entitlement.Plan = user.Plan(*model.Plan)
	}

	return user.ReconstructUser(
		model.ID,
		model.ExternalID,
		model.Username,
		model.Name,
		entitlement,
		settings,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

// EntitlementColumns leaves unset billing references out of the update so
// a stored reference is never cleared.
func (m *userMapper) EntitlementColumns(e user.PaymentEntitlement) map[string]any {
	var plan *string
	if e.Plan != "" {
		p := string(e.Plan)
		plan = &p
	}
	columns := map[string]any{"plan": plan}
	if e.SubscriptionID != nil {
		columns["subscription_id"] = *e.SubscriptionID
	}
	if e.PaymentProcessorID != nil {
		columns["midtrans_id"] = *e.PaymentProcessorID
	}
	return columns
}

func (m *userMapper) SettingsColumn(s user.Settings) (datatypes.JSON, error) {
	if s == nil {
		s = user.Settings{}
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	return datatypes.JSON(raw), nil
}
