package repository

import (
	"context"

	"github.com/wekeepgrowing/payments-gateway/internal/domain/entity"
)

// CustomerMappingRepository stores the system id to provider customer id mapping.
// Lookups return nil, nil when nothing matches.
type CustomerMappingRepository interface {
	Create(ctx context.Context, mapping *entity.CustomerMapping) error
	GetBySystemID(ctx context.Context, provider, systemID string) (*entity.CustomerMapping, error)
	GetByProviderCustomerID(ctx context.Context, providerCustomerID string) (*entity.CustomerMapping, error)
	DeleteByProviderCustomerID(ctx context.Context, providerCustomerID string) error
}
