package mappers

import (
	"fmt"

	"github.com/quotakeeper/quotakeeper/internal/domain/usage"
	"github.com/quotakeeper/quotakeeper/internal/infrastructure/persistence/models"
)

// UsageMapper converts between usage entities and persistence models
type UsageMapper interface {
	ToEntity(model *models.UsageModel) (*usage.Usage, error)
	ToModel(entity *usage.Usage) *models.UsageModel
}

type usageMapper struct{}

func NewUsageMapper() UsageMapper {
	return &usageMapper{}
}

func (m *usageMapper) ToEntity(model *models.UsageModel) (*usage.Usage, error) {
	if model == nil {
		return nil, nil
	}
	entity, err := usage.ReconstructUsage(model.Key, model.UsageCount, model.ExpiresAt, model.CreatedAt, model.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct usage %q: %w", model.Key, err)
	}
	return entity, nil
}

func (m *usageMapper) ToModel(entity *usage.Usage) *models.UsageModel {
	return &models.UsageModel{
		Key:        entity.Key(),
		UsageCount: entity.Count(),
		ExpiresAt:  entity.ExpiresAt(),
		CreatedAt:  entity.CreatedAt(),
		UpdatedAt:  entity.UpdatedAt(),
	}
}
