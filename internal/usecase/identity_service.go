package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/payments-gateway/internal/domain/errors"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/provider"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/repository"
	"go.uber.org/zap"
)

// emailLookupLimit is the page size of list-by-email queries. Two is enough to
// tell a unique match from an ambiguous one.
const emailLookupLimit = 2

// IdentityService resolves application identities to provider customers. The
// provider is the only source of truth for customers; the mapping repository
// only remembers which provider customer belongs to which system id.
type IdentityService struct {
	client   provider.Client
	mappings repository.CustomerMappingRepository
	logger   *zap.Logger
}

// NewIdentityService creates an identity service. mappings may be nil, in which
// case system id lookups always miss.
func NewIdentityService(
	client provider.Client,
	mappings repository.CustomerMappingRepository,
	logger *zap.Logger,
) *IdentityService {
	return &IdentityService{
		client:   client,
		mappings: mappings,
		logger:   logger,
	}
}

// GetCustomerByEmail returns the single customer registered under email, or nil
// when there is none. More than one match is reported as a KindAmbiguous error.
// Payment methods are only loaded when includes asks for them.
func (s *IdentityService) GetCustomerByEmail(ctx context.Context, email string, includes entity.IncludeSet) (*entity.Customer, error) {
	email = strings.TrimSpace(email)

	customers, err := s.client.ListCustomersByEmail(ctx, email, emailLookupLimit)
	if err != nil {
		s.logger.Error("IdentityService: customer lookup failed",
			zap.String("email", email),
			zap.Error(err))
		return nil, err
	}

	switch len(customers) {
	case 0:
		s.logger.Debug("IdentityService: no customer for email", zap.String("email", email))
		return nil, nil
	case 1:
	default:
		s.logger.Warn("IdentityService: email matches several customers",
			zap.String("email", email),
			zap.String("first_customer_id", customers[0].ProviderID),
			zap.String("second_customer_id", customers[1].ProviderID))
		return nil, domainErrors.Ambiguous("get customer by email", domainErrors.ErrAmbiguousCustomer)
	}

	customer := customers[0]
	if includes.Has(entity.IncludePaymentMethods) {
		methods, err := s.client.ListPaymentMethods(ctx, customer.ProviderID, string(entity.PaymentMethodTypeCard))
		if err != nil {
			return nil, err
		}
		customer.PaymentMethods = mapPaymentMethods(methods, s.logger)
	}
	return customer, nil
}

// ResolveCustomer is GetCustomerByEmail without includes that reports a missing
// customer as a KindNotFound error.
func (s *IdentityService) ResolveCustomer(ctx context.Context, email string) (*entity.Customer, error) {
	customer, err := s.GetCustomerByEmail(ctx, email, nil)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domainErrors.NotFound("resolve customer", fmt.Errorf("%w: %s", domainErrors.ErrCustomerNotFound, email))
	}
	return customer, nil
}

// CreateCustomer creates a provider customer tagged with systemID, generating
// one when empty, and records the identity mapping.
func (s *IdentityService) CreateCustomer(ctx context.Context, email, name, systemID string) (*entity.Customer, error) {
	if systemID == "" {
		systemID = uuid.NewString()
	}

	customer, err := s.client.CreateCustomer(ctx, &provider.CreateCustomerRequest{
		Email:    strings.TrimSpace(email),
		Name:     name,
		Metadata: map[string]string{provider.MetadataSystemIDKey: systemID},
	})
	if err != nil {
		s.logger.Error("IdentityService: failed to create customer",
			zap.String("email", email),
			zap.String("system_id", systemID),
			zap.Error(err))
		return nil, err
	}

	if s.mappings != nil {
		mapping := &entity.CustomerMapping{
			SystemID:           systemID,
			Provider:           string(s.client.ProviderName()),
			ProviderCustomerID: customer.ProviderID,
			Email:              customer.Email,
		}
		if err := s.mappings.Create(ctx, mapping); err != nil {
			// The provider customer exists either way and still carries the system id.
			s.logger.Warn("IdentityService: failed to record customer mapping",
				zap.String("customer_id", customer.ProviderID),
				zap.String("system_id", systemID),
				zap.Error(err))
		}
	}

	s.logger.Info("IdentityService: customer created",
		zap.String("customer_id", customer.ProviderID),
		zap.String("system_id", systemID))
	return customer, nil
}

// ListCustomers returns the newest customers, take defaulting to 10 and capped at 100.
func (s *IdentityService) ListCustomers(ctx context.Context, take int) ([]*entity.Customer, error) {
	return s.client.ListCustomers(ctx, int64(entity.ClampPageSize(take)))
}

// DeleteCustomerByEmail deletes the customer registered under email. It returns
// nil, nil when there is no such customer.
func (s *IdentityService) DeleteCustomerByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	customer, err := s.GetCustomerByEmail(ctx, email, nil)
	if err != nil || customer == nil {
		return nil, err
	}

	if _, err := s.client.DeleteCustomer(ctx, customer.ProviderID); err != nil {
		s.logger.Error("IdentityService: failed to delete customer",
			zap.String("customer_id", customer.ProviderID),
			zap.Error(err))
		return nil, err
	}

	if s.mappings != nil {
		if err := s.mappings.DeleteByProviderCustomerID(ctx, customer.ProviderID); err != nil {
			s.logger.Warn("IdentityService: failed to remove customer mapping",
				zap.String("customer_id", customer.ProviderID),
				zap.Error(err))
		}
	}
	return customer, nil
}

// GetCustomerBySystemID reads the customer mapped to systemID from the provider.
func (s *IdentityService) GetCustomerBySystemID(ctx context.Context, systemID string) (*entity.Customer, error) {
	if s.mappings == nil {
		return nil, nil
	}

	mapping, err := s.mappings.GetBySystemID(ctx, string(s.client.ProviderName()), systemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer mapping: %w", err)
	}
	if mapping == nil {
		return nil, nil
	}
	return s.client.GetCustomer(ctx, mapping.ProviderCustomerID)
}
