package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wekeepgrowing/payments-gateway/internal/domain/entity"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/event"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/provider"
)

// MockProviderClient is a mock implementation of provider.Client
type MockProviderClient struct {
	mock.Mock
}

func (m *MockProviderClient) ProviderName() provider.ProviderType {
	return provider.ProviderTypeStripe
}

func (m *MockProviderClient) ListCustomersByEmail(ctx context.Context, email string, limit int64) ([]*entity.Customer, error) {
	args := m.Called(ctx, email, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Customer), args.Error(1)
}

func (m *MockProviderClient) ListCustomers(ctx context.Context, limit int64) ([]*entity.Customer, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Customer), args.Error(1)
}

func (m *MockProviderClient) GetCustomer(ctx context.Context, customerID string) (*entity.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockProviderClient) CreateCustomer(ctx context.Context, req *provider.CreateCustomerRequest) (*entity.Customer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockProviderClient) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) (*entity.Customer, error) {
	args := m.Called(ctx, customerID, paymentMethodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockProviderClient) DeleteCustomer(ctx context.Context, customerID string) (*entity.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockProviderClient) ListActiveProducts(ctx context.Context) ([]*provider.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*provider.Product), args.Error(1)
}

func (m *MockProviderClient) CreateProduct(ctx context.Context, name string) (*provider.Product, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Product), args.Error(1)
}

func (m *MockProviderClient) ListActivePrices(ctx context.Context, productID string) ([]*provider.Price, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*provider.Price), args.Error(1)
}

func (m *MockProviderClient) CreatePrice(ctx context.Context, req *provider.CreatePriceRequest) (*provider.Price, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Price), args.Error(1)
}

func (m *MockProviderClient) AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) (*provider.PaymentMethod, error) {
	args := m.Called(ctx, paymentMethodID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.PaymentMethod), args.Error(1)
}

func (m *MockProviderClient) DetachPaymentMethod(ctx context.Context, paymentMethodID string) error {
	args := m.Called(ctx, paymentMethodID)
	return args.Error(0)
}

func (m *MockProviderClient) ListPaymentMethods(ctx context.Context, customerID, methodType string) ([]*provider.PaymentMethod, error) {
	args := m.Called(ctx, customerID, methodType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*provider.PaymentMethod), args.Error(1)
}

func (m *MockProviderClient) CreatePaymentIntent(ctx context.Context, req *provider.PaymentIntentRequest) (*provider.PaymentIntent, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.PaymentIntent), args.Error(1)
}

func (m *MockProviderClient) GetPaymentIntent(ctx context.Context, paymentIntentID string) (*provider.PaymentIntent, error) {
	args := m.Called(ctx, paymentIntentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.PaymentIntent), args.Error(1)
}

func (m *MockProviderClient) ListCharges(ctx context.Context, paymentIntentID string) ([]entity.ChargeSummary, error) {
	args := m.Called(ctx, paymentIntentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ChargeSummary), args.Error(1)
}

func (m *MockProviderClient) CreateSetupIntent(ctx context.Context, customerID string) (*entity.FuturePaymentIntent, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FuturePaymentIntent), args.Error(1)
}

func (m *MockProviderClient) CreateSubscription(ctx context.Context, customerID, priceID string) (*entity.Subscription, error) {
	args := m.Called(ctx, customerID, priceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Subscription), args.Error(1)
}

// MockCustomerMappingRepository is a mock implementation of CustomerMappingRepository
type MockCustomerMappingRepository struct {
	mock.Mock
}

func (m *MockCustomerMappingRepository) Create(ctx context.Context, mapping *entity.CustomerMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

func (m *MockCustomerMappingRepository) GetBySystemID(ctx context.Context, providerName, systemID string) (*entity.CustomerMapping, error) {
	args := m.Called(ctx, providerName, systemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CustomerMapping), args.Error(1)
}

func (m *MockCustomerMappingRepository) GetByProviderCustomerID(ctx context.Context, providerCustomerID string) (*entity.CustomerMapping, error) {
	args := m.Called(ctx, providerCustomerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CustomerMapping), args.Error(1)
}

func (m *MockCustomerMappingRepository) DeleteByProviderCustomerID(ctx context.Context, providerCustomerID string) error {
	args := m.Called(ctx, providerCustomerID)
	return args.Error(0)
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	events []event.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt event.Event) error {
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) types() []string {
	types := make([]string, 0, len(p.events))
	for _, evt := range p.events {
		types = append(types, evt.Type)
	}
	return types
}
