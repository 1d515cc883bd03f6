package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/entity"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/model"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type customerMappingRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewCustomerMappingRepository(db *gorm.DB, logger *zap.Logger) repository.CustomerMappingRepository {
	return &customerMappingRepository{
		db:     db,
		logger: logger,
	}
}

func (r *customerMappingRepository) modelToEntity(m *model.CustomerMapping) *entity.CustomerMapping {
	if m == nil {
		return nil
	}
	return &entity.CustomerMapping{
		ID:                 m.ID.String(),
		SystemID:           m.SystemID,
		Provider:           m.Provider,
		ProviderCustomerID: m.ProviderCustomerID,
		Email:              m.CustomerEmail,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func (r *customerMappingRepository) entityToModel(e *entity.CustomerMapping) (*model.CustomerMapping, error) {
	m := &model.CustomerMapping{
		SystemID:           e.SystemID,
		Provider:           e.Provider,
		ProviderCustomerID: e.ProviderCustomerID,
		CustomerEmail:      e.Email,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
	if e.ID != "" {
		id, err := uuid.Parse(e.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid customer mapping id %q: %w", e.ID, err)
		}
		m.ID = id
	}
	return m, nil
}

func (r *customerMappingRepository) Create(ctx context.Context, mapping *entity.CustomerMapping) error {
	m, err := r.entityToModel(mapping)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		r.logger.Error("Failed to create customer mapping",
			zap.String("system_id", mapping.SystemID),
			zap.String("provider_customer_id", mapping.ProviderCustomerID),
			zap.Error(err))
		return err
	}

	mapping.ID = m.ID.String()
	mapping.CreatedAt = m.CreatedAt
	mapping.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *customerMappingRepository) GetBySystemID(ctx context.Context, provider, systemID string) (*entity.CustomerMapping, error) {
	var m model.CustomerMapping
	err := r.db.WithContext(ctx).
		Where("provider = ? AND system_id = ?", provider, systemID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.modelToEntity(&m), nil
}

func (r *customerMappingRepository) GetByProviderCustomerID(ctx context.Context, providerCustomerID string) (*entity.CustomerMapping, error) {
	var m model.CustomerMapping
	err := r.db.WithContext(ctx).Where("provider_customer_id = ?", providerCustomerID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.modelToEntity(&m), nil
}

func (r *customerMappingRepository) DeleteByProviderCustomerID(ctx context.Context, providerCustomerID string) error {
	result := r.db.WithContext(ctx).
		Where("provider_customer_id = ?", providerCustomerID).
		Delete(&model.CustomerMapping{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.logger.Debug("No customer mapping to delete", zap.String("provider_customer_id", providerCustomerID))
	}
	return nil
}
