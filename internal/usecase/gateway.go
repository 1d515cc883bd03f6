package usecase

import (
	"context"

	"github.com/wekeepgrowing/payments-gateway/internal/domain/entity"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/event"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/provider"
	"github.com/wekeepgrowing/payments-gateway/internal/domain/repository"
	"go.uber.org/zap"
)

// PaymentsGateway is the set of payment operations exposed to the transport layer.
type PaymentsGateway interface {
	GetCustomerByEmail(ctx context.Context, email string, includes entity.IncludeSet) (*entity.Customer, error)
	GetCustomerBySystemID(ctx context.Context, systemID string) (*entity.Customer, error)
	CreateCustomer(ctx context.Context, email, name, systemID string) (*entity.Customer, error)
	ListCustomers(ctx context.Context, take int) ([]*entity.Customer, error)
	DeleteCustomerByEmail(ctx context.Context, email string) (*entity.Customer, error)

	PopulatePlans(ctx context.Context, desired []entity.Plan) ([]entity.Plan, error)
	DefaultPlans() []entity.Plan

	AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string, makeDefault bool) (*entity.PaymentMethod, error)
	DetachPaymentMethod(ctx context.Context, paymentMethodID string) error
	GetPaymentMethods(ctx context.Context, customerID string, methodType entity.PaymentMethodType) ([]entity.PaymentMethod, error)
	GetPaymentMethodsByCustomerEmail(ctx context.Context, email string) ([]entity.PaymentMethod, error)

	ChargeWithCustomerEmail(ctx context.Context, email string, charge entity.Charge) (*entity.ChargeResult, error)
	Charge(ctx context.Context, customerID, email string, charge entity.Charge) (*entity.ChargeResult, error)
	GetPaymentStatus(ctx context.Context, paymentID string) ([]entity.ChargeSummary, error)
	PrepareForFuturePayment(ctx context.Context, customerID string) (*entity.FuturePaymentIntent, error)
	PrepareForFuturePaymentByEmail(ctx context.Context, email string) (*entity.FuturePaymentIntent, error)

	CreateSubscription(ctx context.Context, email, priceID string) (bool, error)
	CreateSubscriptionWorkflow(ctx context.Context, req WorkflowRequest) (*WorkflowResult, error)
}

// Gateway implements PaymentsGateway by composing the individual services.
type Gateway struct {
	*IdentityService
	*CatalogReconciler
	*PaymentMethodManager
	*ChargeOrchestrator
	*SubscriptionOrchestrator
}

var _ PaymentsGateway = (*Gateway)(nil)

type GatewayOptions struct {
	// CompensateOnFailure detaches the payment method when a subscription workflow
	// fails after attaching it.
	CompensateOnFailure bool
	// Catalog replaces DefaultCatalog as the seeded catalog when non-empty.
	Catalog []entity.Plan
}

// NewGateway wires the gateway services. mappings and publisher may be nil.
func NewGateway(
	client provider.Client,
	mappings repository.CustomerMappingRepository,
	publisher event.Publisher,
	opts GatewayOptions,
	logger *zap.Logger,
) *Gateway {
	identity := NewIdentityService(client, mappings, logger)
	methods := NewPaymentMethodManager(client, identity, logger)
	reconciler := NewCatalogReconciler(client, publisher, logger)
	reconciler.catalog = opts.Catalog

	return &Gateway{
		IdentityService:          identity,
		CatalogReconciler:        reconciler,
		PaymentMethodManager:     methods,
		ChargeOrchestrator:       NewChargeOrchestrator(client, identity, publisher, logger),
		SubscriptionOrchestrator: NewSubscriptionOrchestrator(client, identity, methods, publisher, opts.CompensateOnFailure, logger),
	}
}
